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

package mutf8_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fudgemsg/fudge-go/internal/mutf8"
)

func TestNulEncodesAsTwoBytes(t *testing.T) {
	got := mutf8.Encode(nil, "\x00")
	assert.Equal(t, []byte{0xC0, 0x80}, got)
}

func TestDecodeAcceptsBothNulForms(t *testing.T) {
	s1, err := mutf8.Decode([]byte{0xC0, 0x80})
	require.NoError(t, err)
	assert.Equal(t, "\x00", s1)

	s2, err := mutf8.Decode([]byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, "\x00", s2)
}

func TestASCIIRoundTrip(t *testing.T) {
	s := "hello, fudge"
	enc := mutf8.Encode(nil, s)
	assert.Equal(t, len(s), len(enc))
	dec, err := mutf8.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, s, dec)
}

func TestSupplementaryCodePointUsesSurrogatePair(t *testing.T) {
	s := "\U0001F600" // outside the BMP
	enc := mutf8.Encode(nil, s)
	assert.Len(t, enc, 6) // two 3-byte CESU-8 surrogate halves
	dec, err := mutf8.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, s, dec)
}

func TestEncodedLenMatchesEncode(t *testing.T) {
	for _, s := range []string{"", "abc", "\x00x\x00", "café", "\U0001F600!"} {
		assert.Equal(t, len(mutf8.Encode(nil, s)), mutf8.EncodedLen(s))
	}
}
