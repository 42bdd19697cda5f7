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

// Package wire implements the bit-exact, byte-level primitives of the Fudge
// encoding: the field prefix byte, the variable-width length encoding, and
// big-endian primitive I/O. It has no knowledge of the type dictionary, the
// message model, or taxonomies — those live in the parent package.
package wire

import "fmt"

// LengthEncoding is the two-bit "how is the value length expressed" field of
// a prefix byte.
type LengthEncoding uint8

const (
	// LengthFixed means the field is fixed-width; its length is derived
	// from the wire type and does not appear on the wire.
	LengthFixed LengthEncoding = 0
	// Length1 means a 1-byte unsigned length follows the type id.
	Length1 LengthEncoding = 1
	// Length2 means a 2-byte big-endian unsigned length follows the type id.
	Length2 LengthEncoding = 2
	// Length4 means a 4-byte big-endian unsigned length follows the type id.
	Length4 LengthEncoding = 3
)

// Prefix is the decoded form of a field's leading prefix byte.
//
//	bit 7       reserved, always 0
//	bit 6       fixed-width flag
//	bits 5-4    LengthEncoding
//	bit 3       reserved, always 0
//	bit 2       has-ordinal flag
//	bit 1       has-name flag
//	bit 0       reserved, always 0
//
// The bit positions are fixed by the wire format and must not be
// renumbered; implementations must reproduce them exactly to stay
// byte-compatible with other Fudge encoders/decoders.
type Prefix struct {
	FixedWidth bool
	Length     LengthEncoding
	HasOrdinal bool
	HasName    bool
}

const (
	bitFixedWidth = 1 << 6
	maskLength    = 0b11 << 4
	shiftLength   = 4
	bitHasOrdinal = 1 << 2
	bitHasName    = 1 << 1

	// reservedMask covers bits 7, 3 and 0, which must be zero on a
	// well-formed prefix byte.
	reservedMask = 1<<7 | 1<<3 | 1<<0
)

// Encode packs p into a single prefix byte.
func (p Prefix) Encode() byte {
	var b byte
	if p.FixedWidth {
		b |= bitFixedWidth
	}
	b |= byte(p.Length) << shiftLength
	if p.HasOrdinal {
		b |= bitHasOrdinal
	}
	if p.HasName {
		b |= bitHasName
	}
	return b
}

// DecodePrefix unpacks a prefix byte. It does not reject reserved bits that
// are set, matching streams produced by lenient encoders; callers that want
// strict validation should call ReservedBitsSet on the input byte first.
func DecodePrefix(b byte) Prefix {
	return Prefix{
		FixedWidth: b&bitFixedWidth != 0,
		Length:     LengthEncoding((b & maskLength) >> shiftLength),
		HasOrdinal: b&bitHasOrdinal != 0,
		HasName:    b&bitHasName != 0,
	}
}

// ReservedBitsSet reports whether any of the reserved bits (7, 3, 0) of a
// raw prefix byte are set.
func ReservedBitsSet(b byte) bool {
	return b&reservedMask != 0
}

// LengthByteCount returns how many length bytes follow the type id for this
// encoding (0 for LengthFixed).
func (l LengthEncoding) LengthByteCount() int {
	switch l {
	case LengthFixed:
		return 0
	case Length1:
		return 1
	case Length2:
		return 2
	case Length4:
		return 4
	default:
		return -1
	}
}

// EncodingFor picks the smallest LengthEncoding that can represent n bytes
// of payload length.
func EncodingFor(n int) (LengthEncoding, error) {
	switch {
	case n < 0:
		return 0, fmt.Errorf("wire: negative length %d", n)
	case n <= 0xFF:
		return Length1, nil
	case n <= 0xFFFF:
		return Length2, nil
	case n <= 0xFFFFFFFF:
		return Length4, nil
	default:
		return 0, fmt.Errorf("wire: length %d exceeds 4-byte encoding", n)
	}
}
