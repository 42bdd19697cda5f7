// Copyright 2026 The Fudge-Go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fudge

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/fudgemsg/fudge-go/internal/xsync"
)

// Dictionary is the registry mapping wire type ids to encoded
// representations and host-language types, plus the secondary-type
// converter mechanism that layers domain types over primitive wire types
// (spec.md §4.2). A Dictionary is constructed once per Context and
// thereafter safely extended concurrently; it outlives any stream.
type Dictionary struct {
	byID      xsync.RegisterGroup[WireTypeID, WireType]
	byHost    xsync.Map[reflect.Type, hostLookup] // cache, includes negative results
	secondary xsync.Map[reflect.Type, SecondaryType]
	ifaces    xsync.Map[reflect.Type, WireType] // interfaces registered via RegisterWireType's aliases
	renames   *classRenameRegistry
	converters *numericConverters

	log *logrus.Entry
}

type hostLookup struct {
	wt WireType
	ok bool
}

// NewDictionary constructs a Dictionary with the standard wire types of
// spec.md §3 already registered, plus default numeric-widening converters
// (spec.md §4.2 "Initial type registration").
func NewDictionary(opts ...DictionaryOption) *Dictionary {
	cfg := defaultDictionaryOptions()
	for _, o := range opts {
		o.apply(&cfg)
	}

	d := &Dictionary{
		renames:    newClassRenameRegistry(),
		converters: newNumericConverters(),
		log:        cfg.logger.WithField("component", "dictionary"),
	}
	for _, wt := range standardWireTypes() {
		if _, _, err := d.byID.Register(wt.ID, fmt.Sprint(wt.ID), wt, wireTypeEqual); err != nil {
			panic(fmt.Sprintf("fudge: standard wire type table is internally inconsistent: %v", err))
		}
	}
	return d
}

func wireTypeEqual(a, b WireType) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Fixed == b.Fixed && a.Width == b.Width && a.HostType == b.HostType
}

// RegisterWireType registers a wire type, with optional alternate
// host-type aliases (e.g. an interface the type also satisfies). Fails
// with AlreadyRegistered if the numeric id is already registered with a
// non-equal definition.
func (d *Dictionary) RegisterWireType(wt WireType, aliases ...reflect.Type) error {
	_, loaded, err := d.byID.Register(wt.ID, fmt.Sprint(wt.ID), wt, wireTypeEqual)
	if err != nil {
		return errAlreadyRegistered("wire type id %d already registered with a different definition", wt.ID)
	}
	if !loaded {
		d.log.WithFields(logrus.Fields{"id": wt.ID, "name": wt.Name}).Debug("registered wire type")
	}
	for _, alias := range aliases {
		d.ifaces.Store(alias, wt)
	}
	d.byHost.Store(wt.HostType, hostLookup{wt: wt, ok: true})
	return nil
}

// RegisterSecondaryType registers a converter against the given host types
// and, for each, walks its supertype chain (in Go, its chain of embedded
// struct fields) registering the same converter against every ancestor
// that does not already have one, stopping at the top of the chain
// (spec.md §4.2).
func (d *Dictionary) RegisterSecondaryType(conv SecondaryType, hostTypes ...reflect.Type) error {
	for _, ht := range hostTypes {
		if err := d.registerSecondaryOne(conv, ht); err != nil {
			return err
		}
		d.walkSupertypes(ht, func(ancestor reflect.Type) bool {
			if _, ok := d.secondary.Load(ancestor); ok {
				return true // already has a converter; keep walking.
			}
			d.secondary.Store(ancestor, conv)
			return true
		})
	}
	return nil
}

func (d *Dictionary) registerSecondaryOne(conv SecondaryType, ht reflect.Type) error {
	existing, loaded := d.secondary.LoadOrStore(ht, func() SecondaryType { return conv })
	if loaded && existing != conv {
		return errAlreadyRegistered("secondary type for %s already registered", ht)
	}
	return nil
}

// walkSupertypes calls visit with each anonymous (embedded) field type of
// t, depth-first, stopping early when visit returns false.
func (d *Dictionary) walkSupertypes(t reflect.Type, visit func(reflect.Type) bool) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if !visit(ft) {
			return
		}
		d.walkSupertypes(ft, visit)
	}
}

// WireTypeByID never fails: it returns the unknown(id) wire type for an
// unregistered id (spec.md §4.2).
func (d *Dictionary) WireTypeByID(id WireTypeID) WireType {
	if wt, ok := d.byID.Load(id); ok {
		return wt
	}
	return unknownWireType(id)
}

// WireTypeByHostType walks the host-type-to-wire-type direct map first,
// then interfaces of the host type, then its supertype (embedded-field)
// chain recursively, caching the result including negative results
// (spec.md §4.2).
func (d *Dictionary) WireTypeByHostType(t reflect.Type) (WireType, bool) {
	if cached, ok := d.byHost.Load(t); ok {
		return cached.wt, cached.ok
	}
	wt, ok := d.resolveHostType(t)
	d.byHost.Store(t, hostLookup{wt: wt, ok: ok})
	return wt, ok
}

func (d *Dictionary) resolveHostType(t reflect.Type) (WireType, bool) {
	for wt, ht := range d.iterDirect() {
		if ht == t {
			return wt, true
		}
	}
	var result WireType
	var hit bool
	d.ifaces.All()(func(iface reflect.Type, wt WireType) bool {
		if t != nil && iface.Kind() == reflect.Interface && t.Implements(iface) {
			result, hit = wt, true
			return false
		}
		return true
	})
	if hit {
		return result, true
	}
	var ancestorHit bool
	var ancestorType WireType
	d.walkSupertypes(t, func(ancestor reflect.Type) bool {
		if wt, ok := d.WireTypeByHostType(ancestor); ok {
			ancestorType, ancestorHit = wt, true
			return false
		}
		return true
	})
	return ancestorType, ancestorHit
}

// iterDirect yields the (wireType, hostType) pairs of every registered
// standard/custom wire type, for the direct-map probe in resolveHostType.
func (d *Dictionary) iterDirect() func(func(WireType, reflect.Type) bool) {
	return func(yield func(WireType, reflect.Type) bool) {
		d.byID.All()(func(_ WireTypeID, wt WireType) bool {
			return yield(wt, wt.HostType)
		})
	}
}

// RegisterClassRename adds an entry to the class-rename registry (spec.md
// §4.2), consulted when resolving a class-name string to a host type.
func (d *Dictionary) RegisterClassRename(name string, target reflect.Type) error {
	return d.renames.Register(name, target)
}

// ResolveClassName consults the class-rename registry for name.
func (d *Dictionary) ResolveClassName(name string) (reflect.Type, bool) {
	return d.renames.Resolve(name)
}

// RegisterClassAlias adds a short alias for target (SPEC_FULL.md §C.1),
// consulted by ResolveClassName before the rename table or derived names.
func (d *Dictionary) RegisterClassAlias(alias string, target reflect.Type) error {
	return d.renames.RegisterAlias(alias, target)
}

// CanConvert reports whether Convert would succeed. Secondary-type
// converters are not invoked; numeric widening is still performed and its
// result discarded.
func (d *Dictionary) CanConvert(target reflect.Type, f Field) bool {
	_, err := d.convert(target, f, true)
	return err == nil
}

// Convert implements the conversion algorithm of spec.md §4.2.
func (d *Dictionary) Convert(target reflect.Type, f Field) (any, error) {
	return d.convert(target, f, false)
}

func (d *Dictionary) convert(target reflect.Type, f Field, dryRun bool) (any, error) {
	v := f.Value()
	w := f.WireType()

	// 1. nil passes through regardless of target, except that an indicator
	// field (whose value is always nil) gets step 4's zero value for T.
	if v == nil {
		if w.ID == TypeIndicator {
			return reflect.Zero(target).Interface(), nil
		}
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	u := rv.Type()

	// 2. runtime type already assignable to target.
	if u.AssignableTo(target) {
		return v, nil
	}

	// 3. secondary type handling.
	if sec, ok := d.secondaryForWireType(w); ok {
		primary := sec.Primary()
		if primary.HostType != nil && target.AssignableTo(primary.HostType) {
			if dryRun {
				return nil, nil
			}
			return sec.SecondaryToPrimary(v)
		}
		if conv, ok := d.secondary.Load(target); ok && conv.CanConvertPrimary(primary.HostType) {
			if dryRun {
				return nil, nil
			}
			prim, err := sec.SecondaryToPrimary(v)
			if err != nil {
				return nil, err
			}
			return conv.PrimaryToSecondary(prim)
		}
		return nil, errConversionUnavailable("no converter from wire type %s to %s", w, target)
	}

	// 4. indicator always converts to the zero value ("null") for T.
	if w.ID == TypeIndicator {
		return reflect.Zero(target).Interface(), nil
	}

	// 5. fall back to a registered converter for T, or numeric widening.
	if conv, ok := d.secondary.Load(target); ok && conv.CanConvertPrimary(u) {
		if dryRun {
			return nil, nil
		}
		return conv.PrimaryToSecondary(v)
	}
	if out, ok, err := d.converters.convert(target, v); ok {
		return out, err
	}
	// There is no enum-by-name step: RegisterEnum installs builders in the
	// BuilderRegistry, not a SecondaryType, and Convert does not consult the
	// builder registry, so an enumeration target with no registered
	// converter fails here.
	return nil, errConversionUnavailable("cannot convert wire type %s (host %s) to %s", w, u, target)
}

// SecondaryForHostType looks up the converter registered directly against a
// value's runtime host type (e.g. a domain enum), as opposed to
// secondaryForWireType's lookup keyed by a wire type's primitive host type.
// The message model (message.go) uses this to reduce a secondary-typed
// value to its primary representation before integer narrowing.
func (d *Dictionary) SecondaryForHostType(t reflect.Type) (SecondaryType, bool) {
	return d.secondary.Load(t)
}

func (d *Dictionary) secondaryForWireType(w WireType) (SecondaryType, bool) {
	if w.HostType == nil {
		return nil, false
	}
	conv, ok := d.secondary.Load(w.HostType)
	return conv, ok
}

// Describe returns every registered wire type, for introspection (logging,
// tests, and diagnostic tooling); not part of spec.md's operation list, but
// a natural consequence of §4.2's registry contract.
func (d *Dictionary) Describe() []WireType {
	var out []WireType
	d.byID.All()(func(_ WireTypeID, wt WireType) bool {
		out = append(out, wt)
		return true
	})
	return out
}
