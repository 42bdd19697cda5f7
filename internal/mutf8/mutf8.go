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

// Package mutf8 implements the Java-compatible "modified UTF-8" encoding
// used for Fudge strings and field names: U+0000 is encoded as the two
// bytes C0 80 rather than a single zero byte, and supplementary code points
// are encoded as a CESU-8 surrogate pair (two three-byte sequences) rather
// than a standard four-byte UTF-8 sequence. Decoding accepts both the
// modified and the plain encodings for U+0000, for compatibility with
// lenient encoders.
package mutf8

import "unicode/utf16"

// EncodedLen returns the number of bytes Encode would produce for s.
func EncodedLen(s string) int {
	n := 0
	for _, r := range s {
		n += runeLen(r)
	}
	return n
}

func runeLen(r rune) int {
	switch {
	case r == 0:
		return 2
	case r <= 0x7F:
		return 1
	case r <= 0x7FF:
		return 2
	case r <= 0xFFFF:
		return 3
	default:
		// Supplementary code point: two CESU-8 surrogate halves, three
		// bytes each.
		return 6
	}
}

// Encode appends the modified-UTF-8 encoding of s to dst and returns the
// extended slice.
func Encode(dst []byte, s string) []byte {
	for _, r := range s {
		dst = encodeRune(dst, r)
	}
	return dst
}

func encodeRune(dst []byte, r rune) []byte {
	switch {
	case r == 0:
		return append(dst, 0xC0, 0x80)
	case r <= 0x7F:
		return append(dst, byte(r))
	case r <= 0x7FF:
		return append(dst,
			0xC0|byte(r>>6),
			0x80|byte(r&0x3F),
		)
	case r <= 0xFFFF:
		return append(dst,
			0xE0|byte(r>>12),
			0x80|byte((r>>6)&0x3F),
			0x80|byte(r&0x3F),
		)
	default:
		hi, lo := utf16.EncodeRune(r)
		dst = encodeSurrogate(dst, hi)
		dst = encodeSurrogate(dst, lo)
		return dst
	}
}

func encodeSurrogate(dst []byte, unit rune) []byte {
	u := uint16(unit)
	return append(dst,
		0xE0|byte(u>>12),
		0x80|byte((u>>6)&0x3F),
		0x80|byte(u&0x3F),
	)
}

// Decode decodes a modified-UTF-8 / CESU-8 byte slice into a string. It
// accepts both C0 80 and a bare 00 byte as U+0000.
func Decode(b []byte) (string, error) {
	var runes []rune
	i := 0
	for i < len(b) {
		r, n, err := decodeRune(b[i:])
		if err != nil {
			return "", err
		}
		runes = append(runes, r)
		i += n
	}
	return string(runes), nil
}

func decodeRune(b []byte) (rune, int, error) {
	if len(b) == 0 {
		return 0, 0, errTruncated
	}
	b0 := b[0]
	switch {
	case b0 == 0x00:
		return 0, 1, nil
	case b0 < 0x80:
		return rune(b0), 1, nil
	case b0&0xE0 == 0xC0:
		if len(b) < 2 {
			return 0, 0, errTruncated
		}
		r := (rune(b0&0x1F) << 6) | rune(b[1]&0x3F)
		return r, 2, nil
	case b0&0xF0 == 0xE0:
		if len(b) < 3 {
			return 0, 0, errTruncated
		}
		unit := (rune(b0&0x0F) << 12) | (rune(b[1]&0x3F) << 6) | rune(b[2]&0x3F)
		if utf16.IsSurrogate(unit) && len(b) >= 6 {
			hi := unit
			lo, n2, err := decodeRune(b[3:])
			if err == nil && n2 == 3 {
				if combined := utf16.DecodeRune(hi, lo); combined != 0xFFFD {
					return combined, 6, nil
				}
			}
		}
		return unit, 3, nil
	default:
		return 0, 0, errInvalid
	}
}
