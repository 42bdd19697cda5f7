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
	"unicode"

	"github.com/fudgemsg/fudge-go/internal/mutf8"
)

// MaxNameBytes is the largest modified-UTF-8 encoded length a field name
// may have (spec.md §3: "optional name ... ≤255 bytes as modified UTF-8").
const MaxNameBytes = 255

// Field is an immutable name/ordinal/type/value tuple (spec.md §3).
//
// At least one of Name/Ordinal may be absent (HasName/HasOrdinal false);
// both may be absent. The zero value of a Field is not meaningful on its
// own; construct one with NewField.
type Field struct {
	name       string
	hasName    bool
	ordinal    int16
	hasOrdinal bool
	wireType   WireType
	value      any
}

// NewField constructs a Field. name == "" and hasName == false means "no
// name"; similarly for ordinal/hasOrdinal.
func NewField(name string, hasName bool, ordinal int16, hasOrdinal bool, wt WireType, value any) Field {
	return Field{name: name, hasName: hasName, ordinal: ordinal, hasOrdinal: hasOrdinal, wireType: wt, value: value}
}

// Name returns the field's name and whether it has one.
func (f Field) Name() (string, bool) { return f.name, f.hasName }

// Ordinal returns the field's ordinal and whether it has one.
func (f Field) Ordinal() (int16, bool) { return f.ordinal, f.hasOrdinal }

// WireType returns the field's wire type.
func (f Field) WireType() WireType { return f.wireType }

// Value returns the field's raw value, whose Go type is the wire type's
// HostType (or []byte, for an unknown wire type).
func (f Field) Value() any { return f.value }

// IsSubMessage reports whether this field's value is a nested message.
func (f Field) IsSubMessage() bool { return f.wireType.ID == TypeSubMessage }

// SubMessage returns the field's value as a *MutableMessage, and whether
// the field actually held a sub-message.
func (f Field) SubMessage() (*MutableMessage, bool) {
	m, ok := f.value.(*MutableMessage)
	return m, ok
}

// String implements fmt.Stringer, for debugging and log lines.
func (f Field) String() string {
	switch {
	case f.hasName && f.hasOrdinal:
		return fmt.Sprintf("%s(%d)=%v[%s]", f.name, f.ordinal, f.value, f.wireType)
	case f.hasName:
		return fmt.Sprintf("%s=%v[%s]", f.name, f.value, f.wireType)
	case f.hasOrdinal:
		return fmt.Sprintf("(%d)=%v[%s]", f.ordinal, f.value, f.wireType)
	default:
		return fmt.Sprintf("=%v[%s]", f.value, f.wireType)
	}
}

// validateOrdinal checks the signed 16-bit range invariant of spec.md §4.3.
func validateOrdinal(ordinal int32) error {
	if ordinal < -32768 || ordinal > 32767 {
		return errInvalidOrdinal(ordinal)
	}
	return nil
}

// validateName checks the length and printability invariants of spec.md §3.
//
// Printability is checked with the standard library's unicode.IsPrint: no
// library in the retrieved corpus offers a narrower "printable for wire
// names" predicate.
func validateName(name string) error {
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return newErr(errCodeMalformedStream, fmt.Sprintf("field name contains non-printable rune %q", r))
		}
	}
	if n := mutf8.EncodedLen(name); n > MaxNameBytes {
		return newErr(errCodeMalformedStream, fmt.Sprintf("field name encodes to %d bytes, exceeds %d", n, MaxNameBytes))
	}
	return nil
}
