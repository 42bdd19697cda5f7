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
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/fudgemsg/fudge-go/internal/xsync"
)

// ObjectBuilder reconstructs a host object from a decoded message (spec.md
// §4.5, "message_to_object"). d gives the builder access to recurse into
// nested sub-messages via Deserializer.FieldValueToObject.
type ObjectBuilder interface {
	BuildObject(d *Deserializer, msg *MutableMessage) (any, error)
}

// MessageBuilder encodes a host object into a message (spec.md §4.5,
// "object_to_message"). s gives the builder access to recurse into nested
// values via Serializer.AddToMessage.
type MessageBuilder interface {
	BuildMessage(s *Serializer, obj any) (*MutableMessage, error)
}

// Builder is both directions of the object-mapping contract for one host
// type. Most registrations implement both ends of the same wire shape, but
// the two halves are also usable independently (e.g. RegisterMessageBuilder
// alone, for a write-only conversion).
type Builder interface {
	ObjectBuilder
	MessageBuilder
}

// BuilderFactory produces a Builder for a host type it recognizes, such as
// "any fixed-size array" or "any type implementing reflect.Type". Factories
// are consulted, in registration order, only after a direct hit misses
// (spec.md §4.5.2 "Builder lookup").
type BuilderFactory func(t reflect.Type) (Builder, bool)

type objectEntry struct {
	b  ObjectBuilder
	ok bool
}

type messageEntry struct {
	b  MessageBuilder
	ok bool
}

// BuilderRegistry maps host types to the builders that serialize and
// deserialize them, consulted by Serializer and Deserializer (spec.md
// §4.5.2). Direct registrations take priority over the generic factory
// chain; both directions memoize negative lookups so a type that resolves
// to "no builder" is not re-walked through every factory on every field.
type BuilderRegistry struct {
	dict      *Dictionary
	objects   xsync.Map[reflect.Type, objectEntry]
	messages  xsync.Map[reflect.Type, messageEntry]
	factories []BuilderFactory

	sequenceBuilder Builder
	setBuilder      Builder
	mapBuilder      Builder

	log *logrus.Entry
}

// NewBuilderRegistry constructs a registry pre-populated with the default
// container builders (spec.md §4.5.1) and generic factories for fixed-size
// arrays, boxed primitives, and reflect.Type "class object" values (spec.md
// §4.5.2).
func NewBuilderRegistry(dict *Dictionary, opts ...BuilderRegistryOption) *BuilderRegistry {
	cfg := defaultBuilderRegistryOptions()
	for _, o := range opts {
		o.apply(&cfg)
	}

	r := &BuilderRegistry{dict: dict, log: cfg.logger.WithField("component", "builder_registry")}
	r.sequenceBuilder = sequenceBuilder{}
	r.setBuilder = setBuilder{}
	r.mapBuilder = mapBuilder{}

	_ = r.Register(reflect.TypeOf([]any(nil)), r.sequenceBuilder)
	_ = r.Register(reflect.TypeOf(Set(nil)), r.setBuilder)
	_ = r.Register(reflect.TypeOf(map[any]any(nil)), r.mapBuilder)
	_ = r.Register(reflect.TypeOf((*MutableMessage)(nil)), messagePassthroughBuilder{})

	r.AddFactory(arrayFactory)
	r.AddFactory(primitiveBoxFactory)
	r.AddFactory(classObjectFactory)
	return r
}

// Register installs b as both the object and message builder for t.
func (r *BuilderRegistry) Register(t reflect.Type, b Builder) error {
	if err := r.RegisterObjectBuilder(t, b); err != nil {
		return err
	}
	return r.RegisterMessageBuilder(t, b)
}

// RegisterObjectBuilder installs the decode-direction builder for t.
// Registering a different builder for a type that already has one fails
// with AlreadyRegistered.
func (r *BuilderRegistry) RegisterObjectBuilder(t reflect.Type, b ObjectBuilder) error {
	if existing, ok := r.objects.Load(t); ok && existing.ok && !sameBuilder(existing.b, b) {
		return errAlreadyRegistered("object builder for %s already registered", t)
	}
	r.objects.Store(t, objectEntry{b: b, ok: true})
	r.log.WithField("type", t).Debug("registered object builder")
	return nil
}

// RegisterMessageBuilder installs the encode-direction builder for t.
func (r *BuilderRegistry) RegisterMessageBuilder(t reflect.Type, b MessageBuilder) error {
	if existing, ok := r.messages.Load(t); ok && existing.ok && !sameBuilder(existing.b, b) {
		return errAlreadyRegistered("message builder for %s already registered", t)
	}
	r.messages.Store(t, messageEntry{b: b, ok: true})
	r.log.WithField("type", t).Debug("registered message builder")
	return nil
}

// AddFactory appends f to the generic factory chain.
func (r *BuilderRegistry) AddFactory(f BuilderFactory) { r.factories = append(r.factories, f) }

// ObjectBuilderFor resolves the decode-direction builder for t: a direct
// registration, then the factory chain, memoizing either outcome.
func (r *BuilderRegistry) ObjectBuilderFor(t reflect.Type) (ObjectBuilder, bool) {
	if e, ok := r.objects.Load(t); ok {
		return e.b, e.ok
	}
	if b, ok := r.tryFactories(t); ok {
		return b, true
	}
	r.objects.Store(t, objectEntry{})
	return nil, false
}

// MessageBuilderFor resolves the encode-direction builder for t.
func (r *BuilderRegistry) MessageBuilderFor(t reflect.Type) (MessageBuilder, bool) {
	if e, ok := r.messages.Load(t); ok {
		return e.b, e.ok
	}
	if b, ok := r.tryFactories(t); ok {
		return b, true
	}
	r.messages.Store(t, messageEntry{})
	return nil, false
}

func (r *BuilderRegistry) tryFactories(t reflect.Type) (Builder, bool) {
	for _, f := range r.factories {
		if b, ok := f(t); ok {
			r.objects.Store(t, objectEntry{b: b, ok: true})
			r.messages.Store(t, messageEntry{b: b, ok: true})
			return b, true
		}
	}
	return nil, false
}

// sameBuilder reports whether two builders are the same registration,
// tolerating re-registration of an identical value (mirrors the
// already-registered-is-idempotent rule used by the class-rename and
// secondary-type registries). Builders holding a non-comparable field (a
// slice, map, or func) panic on ==, same as a map with such a key; no
// builtin factory or RegisterEnum instantiation does this.
func sameBuilder(a, b any) bool {
	defer func() { recover() }() //nolint:errcheck
	return a == b
}

// RegisterEnum registers builders for a Go string-backed enumeration type
// T, stored on the wire as a two-field sub-message: the declaring type's
// name at ordinal 0, the variant's name at ordinal 1 (spec.md §4.5.2
// "Enumerations").
func RegisterEnum[T ~string](r *BuilderRegistry, declaringTypeName string) error {
	var zero T
	return r.Register(reflect.TypeOf(zero), enumBuilder[T]{declaringType: declaringTypeName})
}

type enumBuilder[T ~string] struct {
	declaringType string
}

func (b enumBuilder[T]) BuildMessage(s *Serializer, obj any) (*MutableMessage, error) {
	v, ok := obj.(T)
	if !ok {
		return nil, errNoBuilder("enum builder invoked with value of type %T, want %T", obj, v)
	}
	msg := NewMutableMessage(s.dict)
	if err := msg.AddField("", false, 0, true, s.dict.WireTypeByID(TypeString), b.declaringType); err != nil {
		return nil, err
	}
	if err := msg.AddField("", false, 1, true, s.dict.WireTypeByID(TypeString), string(v)); err != nil {
		return nil, err
	}
	return msg, nil
}

func (b enumBuilder[T]) BuildObject(_ *Deserializer, msg *MutableMessage) (any, error) {
	variants := msg.ByOrdinal(1)
	if len(variants) == 0 {
		return nil, errNoBuilder("enum sub-message missing variant name at ordinal 1")
	}
	name, ok := variants[0].Value().(string)
	if !ok {
		return nil, errMalformed(-1, "enum variant name field is not a string")
	}
	return T(name), nil
}

// arrayFactory handles fixed-size Go arrays, encoded the same way as a
// sequence (spec.md §4.5.1) but decoded back into a value of the exact
// array type and length rather than a []any.
func arrayFactory(t reflect.Type) (Builder, bool) {
	if t.Kind() != reflect.Array {
		return nil, false
	}
	return arrayBuilder{arrayType: t, elemType: t.Elem(), length: t.Len()}, true
}

type arrayBuilder struct {
	arrayType reflect.Type
	elemType  reflect.Type
	length    int
}

func (b arrayBuilder) BuildMessage(s *Serializer, obj any) (*MutableMessage, error) {
	v := reflect.ValueOf(obj)
	if v.Type() != b.arrayType {
		return nil, errNoBuilder("array builder invoked with value of type %T, want %s", obj, b.arrayType)
	}
	msg := NewMutableMessage(s.dict)
	for i := 0; i < v.Len(); i++ {
		if err := s.AddToMessage(msg, "", false, 0, false, v.Index(i).Interface()); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (b arrayBuilder) BuildObject(d *Deserializer, msg *MutableMessage) (any, error) {
	out := reflect.New(b.arrayType).Elem()
	i := 0
	for _, f := range msg.Fields() {
		if _, hasName := f.Name(); hasName {
			continue
		}
		if _, hasOrdinal := f.Ordinal(); hasOrdinal {
			continue
		}
		if i >= b.length {
			return nil, errMalformed(-1, "array sub-message has more than %d elements", b.length)
		}
		v, err := d.FieldValueToObject(f)
		if err != nil {
			return nil, err
		}
		if v == nil {
			out.Index(i).Set(reflect.Zero(b.elemType))
		} else {
			out.Index(i).Set(reflect.ValueOf(v).Convert(b.elemType))
		}
		i++
	}
	return out.Interface(), nil
}

// primitiveBoxFactory handles named types whose underlying kind is a
// primitive the dictionary already knows how to wire-encode (e.g. `type
// Celsius float64`) but which have no secondary-type converter of their
// own: boxed as a one-field sub-message carrying the value under the name
// "value" (spec.md §4.5.2 "Primitive boxing").
func primitiveBoxFactory(t reflect.Type) (Builder, bool) {
	switch t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64, reflect.String:
		return primitiveBoxBuilder{t: t}, true
	default:
		return nil, false
	}
}

type primitiveBoxBuilder struct {
	t reflect.Type
}

func (b primitiveBoxBuilder) BuildMessage(s *Serializer, obj any) (*MutableMessage, error) {
	msg := NewMutableMessage(s.dict)
	raw := reflect.ValueOf(obj).Convert(primitiveHostType(b.t)).Interface()
	if err := s.AddToMessage(msg, "value", true, 0, false, raw); err != nil {
		return nil, err
	}
	return msg, nil
}

func (b primitiveBoxBuilder) BuildObject(d *Deserializer, msg *MutableMessage) (any, error) {
	fields := msg.ByName("value")
	if len(fields) == 0 {
		return nil, errNoBuilder("primitive-boxed sub-message missing a \"value\" field")
	}
	v, err := d.FieldValueToObject(fields[0])
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(v).Convert(b.t).Interface(), nil
}

func primitiveHostType(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Bool:
		return typeOfBool
	case reflect.Int8:
		return typeOfByte
	case reflect.Int16:
		return typeOfShort
	case reflect.Int32:
		return typeOfInt
	case reflect.Int64:
		return typeOfLong
	case reflect.Float32:
		return typeOfFloat
	case reflect.Float64:
		return typeOfDouble
	case reflect.String:
		return typeOfString
	default:
		return t
	}
}

var reflectTypeIface = reflect.TypeOf((*reflect.Type)(nil)).Elem()

// classObjectFactory handles values whose dynamic type implements
// reflect.Type itself: a reference to a class/type, rather than an
// instance of one, stored as a one-field sub-message naming it (spec.md
// §4.5.2 "Class objects").
func classObjectFactory(t reflect.Type) (Builder, bool) {
	if t != nil && t.Implements(reflectTypeIface) {
		return classObjectBuilder{}, true
	}
	return nil, false
}

type classObjectBuilder struct{}

func (classObjectBuilder) BuildMessage(s *Serializer, obj any) (*MutableMessage, error) {
	t, ok := obj.(reflect.Type)
	if !ok {
		return nil, errNoBuilder("class-object builder invoked with non-reflect.Type value %T", obj)
	}
	msg := NewMutableMessage(s.dict)
	if err := msg.AddField("name", true, 0, false, s.dict.WireTypeByID(TypeString), t.String()); err != nil {
		return nil, err
	}
	return msg, nil
}

func (classObjectBuilder) BuildObject(d *Deserializer, msg *MutableMessage) (any, error) {
	fields := msg.ByName("name")
	if len(fields) == 0 {
		return nil, errNoBuilder("class-object sub-message missing a \"name\" field")
	}
	name, ok := fields[0].Value().(string)
	if !ok {
		return nil, errMalformed(-1, "class-object name field is not a string")
	}
	t, ok := d.dict.ResolveClassName(name)
	if !ok {
		return nil, errNoBuilder("cannot resolve class name %q to a registered type", name)
	}
	return t, nil
}

// messagePassthroughBuilder lets *MutableMessage flow through the object
// mapping layer unchanged, for callers that mix typed objects and raw
// messages in the same collection or field.
type messagePassthroughBuilder struct{}

func (messagePassthroughBuilder) BuildMessage(_ *Serializer, obj any) (*MutableMessage, error) {
	m, ok := obj.(*MutableMessage)
	if !ok {
		return nil, errNoBuilder("message pass-through builder invoked with non-message value %T", obj)
	}
	return m, nil
}

func (messagePassthroughBuilder) BuildObject(_ *Deserializer, msg *MutableMessage) (any, error) {
	return msg, nil
}
