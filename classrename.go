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

	"github.com/stoewer/go-strcase"

	"github.com/fudgemsg/fudge-go/internal/xsync"
)

// classRenameRegistry is a case-sensitive mapping from old class-name
// strings (and short aliases, see SPEC_FULL.md §C.1) to new host types,
// consulted whenever a class-name string from a message is resolved to a
// host type (spec.md §4.2 "Class-rename registry").
type classRenameRegistry struct {
	byName  xsync.RegisterGroup[string, reflect.Type]
	aliases xsync.RegisterGroup[string, reflect.Type]
}

func newClassRenameRegistry() *classRenameRegistry {
	return &classRenameRegistry{}
}

// Register adds a rename/alias entry. Duplicate registrations of the same
// name to the same target are idempotent; to a different target fail with
// AlreadyRegistered (spec.md §4.2).
func (r *classRenameRegistry) Register(name string, target reflect.Type) error {
	_, _, err := r.byName.Register(name, name, target, func(a, b reflect.Type) bool { return a == b })
	if err != nil {
		return errAlreadyRegistered("class rename %q already registered to a different type", name)
	}
	return nil
}

// RegisterAlias adds a short alias for a polymorphic family's host type
// (SPEC_FULL.md §C.1 "Fixed short names for polymorphic families"), e.g.
// registering "money" for fudge.Money so that an ordinal-0 class header
// does not need to carry the fully-qualified name. Aliases are tried
// before Resolve falls back to raw/derived names.
func (r *classRenameRegistry) RegisterAlias(alias string, target reflect.Type) error {
	_, _, err := r.aliases.Register(alias, alias, target, func(a, b reflect.Type) bool { return a == b })
	if err != nil {
		return errAlreadyRegistered("class alias %q already registered to a different type", alias)
	}
	return nil
}

// Resolve looks up name: first as a registered short alias, then verbatim
// in the rename table, then normalized to lowerCamelCase (the wire's
// conventional short-alias form, built with github.com/stoewer/go-strcase)
// before reporting failure.
func (r *classRenameRegistry) Resolve(name string) (reflect.Type, bool) {
	if t, ok := r.aliases.Load(name); ok {
		return t, true
	}
	if t, ok := r.byName.Load(name); ok {
		return t, true
	}
	if alias := strcase.LowerCamelCase(name); alias != name {
		if t, ok := r.byName.Load(alias); ok {
			return t, true
		}
	}
	return nil, false
}
