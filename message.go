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

	deepcopy "github.com/tiendc/go-deepcopy"
)

// MutableMessage is an ordered sequence of fields (spec.md §3, §4.3).
// Insertion order is preserved both on the wire and by iteration. A
// MutableMessage is not safe for concurrent mutation (spec.md §5:
// "messages are not synchronized"); callers that share one across
// goroutines must provide their own external synchronization.
type MutableMessage struct {
	dict   *Dictionary
	fields []Field
}

// NewMutableMessage constructs an empty message bound to dict, used to
// infer wire types for positional adds and to drive integer narrowing and
// best-match byte array selection.
func NewMutableMessage(dict *Dictionary) *MutableMessage {
	return &MutableMessage{dict: dict}
}

// AddField appends a field with an explicit wire type. The value is still
// run through integer narrowing and best-match byte array selection (the
// same canonicalization the positional Add performs), so that the
// narrowing-idempotence invariant (spec.md §8, property 3) holds regardless
// of which add path the caller used.
func (m *MutableMessage) AddField(name string, hasName bool, ordinal int16, hasOrdinal bool, wt WireType, value any) error {
	if hasName {
		if err := validateName(name); err != nil {
			return err
		}
	}
	if hasOrdinal {
		if err := validateOrdinal(int32(ordinal)); err != nil {
			return err
		}
	}
	wt, value = m.canonicalize(wt, value)
	m.fields = append(m.fields, NewField(name, hasName, ordinal, hasOrdinal, wt, value))
	return nil
}

// Add appends a field with neither name nor ordinal, inferring its wire
// type from value via the dictionary (spec.md §4.3 "positional add").
func (m *MutableMessage) Add(value any) error {
	wt, v, err := m.inferWireType(value)
	if err != nil {
		return err
	}
	return m.AddField("", false, 0, false, wt, v)
}

// AddNamed appends a field with a name only, inferring its wire type.
func (m *MutableMessage) AddNamed(name string, value any) error {
	wt, v, err := m.inferWireType(value)
	if err != nil {
		return err
	}
	return m.AddField(name, true, 0, false, wt, v)
}

// AddOrdinal appends a field with an ordinal only, inferring its wire type.
func (m *MutableMessage) AddOrdinal(ordinal int16, value any) error {
	wt, v, err := m.inferWireType(value)
	if err != nil {
		return err
	}
	return m.AddField("", false, ordinal, true, wt, v)
}

// AddFieldOrdinal is AddField for callers that don't already have the
// ordinal narrowed to int16 (e.g. a value parsed from text, or computed
// arithmetically). Unlike AddField/AddOrdinal, whose int16 parameter type
// rules spec.md §8's out-of-range case out at compile time, this entry
// point genuinely checks the signed 16-bit range invariant (spec.md §4.3,
// §8: "-32769 and 32768 rejected with InvalidOrdinal") and fails with
// InvalidOrdinal before any narrowing occurs.
func (m *MutableMessage) AddFieldOrdinal(name string, hasName bool, ordinal int32, hasOrdinal bool, wt WireType, value any) error {
	if hasOrdinal {
		if err := validateOrdinal(ordinal); err != nil {
			return err
		}
	}
	return m.AddField(name, hasName, int16(ordinal), hasOrdinal, wt, value)
}

func (m *MutableMessage) inferWireType(value any) (WireType, any, error) {
	if value == nil {
		return m.dict.WireTypeByID(TypeIndicator), nil, nil
	}
	t := reflect.TypeOf(value)
	if sec, ok := m.dict.SecondaryForHostType(t); ok {
		prim, err := sec.SecondaryToPrimary(value)
		if err != nil {
			return WireType{}, nil, err
		}
		return sec.Primary(), prim, nil
	}
	wt, ok := m.dict.WireTypeByHostType(t)
	if !ok {
		return WireType{}, nil, errConversionUnavailable("no wire type registered for host type %s", t)
	}
	return wt, value, nil
}

// canonicalize reduces a secondary-typed value to its primary
// representation, then applies integer narrowing (spec.md §4.3 "Integer
// narrowing") and best-match byte array selection ("Best-match byte
// array") when applicable. Values that are neither are returned unchanged.
func (m *MutableMessage) canonicalize(wt WireType, value any) (WireType, any) {
	if value != nil {
		if sec, ok := m.dict.SecondaryForHostType(reflect.TypeOf(value)); ok {
			if prim, err := sec.SecondaryToPrimary(value); err == nil {
				wt, value = sec.Primary(), prim
			}
		}
	}
	switch wt.ID {
	case TypeShort, TypeInt, TypeLong:
		return narrowInteger(m.dict, value)
	case TypeByteArray:
		if b, ok := value.([]byte); ok {
			return bestMatchByteArray(m.dict, b), value
		}
	}
	return wt, value
}

func narrowInteger(d *Dictionary, value any) (WireType, any) {
	var n int64
	switch x := value.(type) {
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	default:
		return d.WireTypeByID(TypeLong), value
	}
	switch {
	case n >= -1<<7 && n <= 1<<7-1:
		return d.WireTypeByID(TypeByte), int8(n)
	case n >= -1<<15 && n <= 1<<15-1:
		return d.WireTypeByID(TypeShort), int16(n)
	case n >= -1<<31 && n <= 1<<31-1:
		return d.WireTypeByID(TypeInt), int32(n)
	default:
		return d.WireTypeByID(TypeLong), n
	}
}

func bestMatchByteArray(d *Dictionary, b []byte) WireType {
	if id, ok := fixedByteArrayType[len(b)]; ok {
		return d.WireTypeByID(id)
	}
	return d.WireTypeByID(TypeByteArray)
}

// RemoveByName removes every field with the given name and reports how
// many were removed.
func (m *MutableMessage) RemoveByName(name string) int {
	return m.removeIf(func(f Field) bool {
		n, ok := f.Name()
		return ok && n == name
	})
}

// RemoveByOrdinal removes every field with the given ordinal.
func (m *MutableMessage) RemoveByOrdinal(ordinal int16) int {
	return m.removeIf(func(f Field) bool {
		o, ok := f.Ordinal()
		return ok && o == ordinal
	})
}

// RemoveByBoth removes every field matching both name and ordinal exactly.
func (m *MutableMessage) RemoveByBoth(name string, ordinal int16) int {
	return m.removeIf(func(f Field) bool {
		n, hasName := f.Name()
		o, hasOrdinal := f.Ordinal()
		return hasName && hasOrdinal && n == name && o == ordinal
	})
}

func (m *MutableMessage) removeIf(match func(Field) bool) int {
	kept := m.fields[:0]
	removed := 0
	for _, f := range m.fields {
		if match(f) {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	m.fields = kept
	return removed
}

// Clear removes every field.
func (m *MutableMessage) Clear() { m.fields = nil }

// Len returns the number of fields.
func (m *MutableMessage) Len() int { return len(m.fields) }

// Fields returns a copy of the fields in insertion order. Mutating the
// returned slice does not affect the message.
func (m *MutableMessage) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// ByName returns every field with the given name, in insertion order.
func (m *MutableMessage) ByName(name string) []Field {
	var out []Field
	for _, f := range m.fields {
		if n, ok := f.Name(); ok && n == name {
			out = append(out, f)
		}
	}
	return out
}

// ByOrdinal returns every field with the given ordinal, in insertion order.
func (m *MutableMessage) ByOrdinal(ordinal int16) []Field {
	var out []Field
	for _, f := range m.fields {
		if o, ok := f.Ordinal(); ok && o == ordinal {
			out = append(out, f)
		}
	}
	return out
}

// ApplyTaxonomy walks the message and, for each field that has an ordinal
// but no name, fills in the name from t.NameFor(ordinal) if present,
// recursing into sub-messages (spec.md §4.3 "Taxonomy back-application").
func (m *MutableMessage) ApplyTaxonomy(t Taxonomy) {
	for i, f := range m.fields {
		ordinal, hasOrdinal := f.Ordinal()
		_, hasName := f.Name()
		if hasOrdinal && !hasName {
			if name, ok := t.NameFor(ordinal); ok {
				m.fields[i] = NewField(name, true, ordinal, true, f.WireType(), f.Value())
				f = m.fields[i]
			}
		}
		if sub, ok := f.SubMessage(); ok {
			sub.ApplyTaxonomy(t)
		}
	}
}

// Immutable captures the current field sequence into an ImmutableMessage.
// Later mutation of m does not affect the returned view; field values
// themselves are defensively deep-copied with github.com/tiendc/go-deepcopy
// so that mutating a value obtained from the mutable message (e.g. a shared
// []byte slice) cannot retroactively change the immutable snapshot.
func (m *MutableMessage) Immutable() (*ImmutableMessage, error) {
	frozen := make([]Field, len(m.fields))
	for i, f := range m.fields {
		v := f.Value()
		if v != nil {
			var copied any
			if err := deepcopy.Copy(&copied, v); err != nil {
				return nil, errUnsupportedFeature("cannot deep-copy field value of type %T: %v", v, err)
			}
			v = copied
		}
		name, hasName := f.Name()
		ordinal, hasOrdinal := f.Ordinal()
		frozen[i] = NewField(name, hasName, ordinal, hasOrdinal, f.WireType(), v)
	}
	return &ImmutableMessage{fields: frozen}, nil
}

// ImmutableMessage presents the same read contract as MutableMessage but
// forbids mutation (spec.md §4.3).
type ImmutableMessage struct {
	fields []Field
}

// Len returns the number of fields.
func (m *ImmutableMessage) Len() int { return len(m.fields) }

// Fields returns a copy of the fields in insertion order.
func (m *ImmutableMessage) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// ByName returns every field with the given name, in insertion order.
func (m *ImmutableMessage) ByName(name string) []Field {
	var out []Field
	for _, f := range m.fields {
		if n, ok := f.Name(); ok && n == name {
			out = append(out, f)
		}
	}
	return out
}

// ByOrdinal returns every field with the given ordinal, in insertion order.
func (m *ImmutableMessage) ByOrdinal(ordinal int16) []Field {
	var out []Field
	for _, f := range m.fields {
		if o, ok := f.Ordinal(); ok && o == ordinal {
			out = append(out, f)
		}
	}
	return out
}
