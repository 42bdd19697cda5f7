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

import "reflect"

// SecondaryType is a host-language adapter that maps a host type onto a
// primary wire type via two pure functions (spec.md §3 "Secondary type").
// Registering a secondary type does not add a new wire id; it adds a
// converter indexed by host type.
type SecondaryType interface {
	// HostType is the Go type this converter handles. Dictionary.RegisterSecondaryType
	// also registers the converter against every type in the registered
	// types' supertype chains (their embedded struct fields) that does not
	// already have a converter.
	HostType() reflect.Type

	// Primary is the wire type this secondary type is layered over.
	Primary() WireType

	// CanConvertPrimary reports whether a value of the given runtime type
	// can be converted to this secondary type's host type.
	CanConvertPrimary(runtimeType reflect.Type) bool

	// SecondaryToPrimary converts a value of HostType() to a value
	// assignable to Primary()'s HostType.
	SecondaryToPrimary(v any) (any, error)

	// PrimaryToSecondary converts a value of a type assignable to
	// Primary()'s HostType back to HostType().
	PrimaryToSecondary(v any) (any, error)
}

// funcSecondaryType is the common case: a SecondaryType built from two
// plain functions, the way most domain secondary types (dates, currencies,
// money amounts) are defined in practice.
type funcSecondaryType struct {
	hostType reflect.Type
	primary  WireType
	toPrim   func(v any) (any, error)
	toSec    func(v any) (any, error)
}

// NewSecondaryType builds a SecondaryType from two conversion functions.
func NewSecondaryType(hostType reflect.Type, primary WireType, toPrimary, toSecondary func(any) (any, error)) SecondaryType {
	return &funcSecondaryType{hostType: hostType, primary: primary, toPrim: toPrimary, toSec: toSecondary}
}

func (s *funcSecondaryType) HostType() reflect.Type { return s.hostType }
func (s *funcSecondaryType) Primary() WireType       { return s.primary }

func (s *funcSecondaryType) CanConvertPrimary(runtimeType reflect.Type) bool {
	return runtimeType != nil && runtimeType.AssignableTo(s.primary.HostType)
}

func (s *funcSecondaryType) SecondaryToPrimary(v any) (any, error) { return s.toPrim(v) }
func (s *funcSecondaryType) PrimaryToSecondary(v any) (any, error) { return s.toSec(v) }
