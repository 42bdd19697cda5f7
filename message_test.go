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

package fudge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fudgemsg/fudge-go"
)

func TestMutableMessageAddInfersWireType(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)

	require.NoError(t, msg.AddNamed("flag", true))
	require.NoError(t, msg.AddOrdinal(7, "hello"))
	require.NoError(t, msg.Add(int64(1234)))

	require.Equal(t, 3, msg.Len())
	fields := msg.Fields()
	assert.Equal(t, fudge.TypeBool, fields[0].WireType().ID)
	assert.Equal(t, fudge.TypeString, fields[1].WireType().ID)
}

func TestMutableMessageIntegerNarrowing(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)

	require.NoError(t, msg.Add(int64(42)))
	require.NoError(t, msg.Add(int64(1<<20)))
	require.NoError(t, msg.Add(int64(1<<40)))

	fields := msg.Fields()
	assert.Equal(t, fudge.TypeByte, fields[0].WireType().ID)
	assert.Equal(t, int8(42), fields[0].Value())
	assert.Equal(t, fudge.TypeInt, fields[1].WireType().ID)
	assert.Equal(t, fudge.TypeLong, fields[2].WireType().ID)
}

func TestMutableMessageNarrowingIsIdempotent(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.Add(int64(300)))

	once := msg.Fields()[0]
	again, _, err := roundtripCanonicalize(dict, once)
	require.NoError(t, err)
	assert.Equal(t, once.WireType().ID, again.WireType().ID)
	assert.Equal(t, once.Value(), again.Value())
}

// roundtripCanonicalize re-adds a field's wire type and value to a fresh
// message and returns the resulting field, to exercise canonicalize twice
// without depending on unexported internals.
func roundtripCanonicalize(dict *fudge.Dictionary, f fudge.Field) (fudge.Field, *fudge.MutableMessage, error) {
	msg := fudge.NewMutableMessage(dict)
	if err := msg.AddField("", false, 0, false, f.WireType(), f.Value()); err != nil {
		return fudge.Field{}, nil, err
	}
	return msg.Fields()[0], msg, nil
}

func TestMutableMessageBestMatchByteArray(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)

	require.NoError(t, msg.Add(make([]byte, 16)))
	require.NoError(t, msg.Add(make([]byte, 17)))

	fields := msg.Fields()
	assert.Equal(t, fudge.TypeByteArray16, fields[0].WireType().ID)
	assert.Equal(t, fudge.TypeByteArray, fields[1].WireType().ID)
}

func TestMutableMessageRemove(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.AddNamed("a", int64(1)))
	require.NoError(t, msg.AddOrdinal(1, int64(2)))
	require.NoError(t, msg.AddField("a", true, 1, true, dict.WireTypeByID(fudge.TypeByte), int8(3)))

	assert.Equal(t, 2, msg.RemoveByName("a"))
	assert.Equal(t, 1, msg.Len())
	assert.Equal(t, 1, msg.RemoveByOrdinal(1))
	assert.Equal(t, 0, msg.Len())

	msg2 := fudge.NewMutableMessage(dict)
	require.NoError(t, msg2.AddField("x", true, 5, true, dict.WireTypeByID(fudge.TypeByte), int8(1)))
	require.NoError(t, msg2.AddField("x", true, 6, true, dict.WireTypeByID(fudge.TypeByte), int8(2)))
	assert.Equal(t, 1, msg2.RemoveByBoth("x", 5))
	assert.Equal(t, 1, msg2.Len())
}

func TestMutableMessageByNameByOrdinal(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.AddNamed("n", int64(1)))
	require.NoError(t, msg.AddNamed("n", int64(2)))
	require.NoError(t, msg.AddOrdinal(9, int64(3)))

	assert.Len(t, msg.ByName("n"), 2)
	assert.Len(t, msg.ByOrdinal(9), 1)
	assert.Empty(t, msg.ByName("missing"))
}

type staticTaxonomy map[int16]string

func (s staticTaxonomy) NameFor(ordinal int16) (string, bool) { v, ok := s[ordinal]; return v, ok }
func (s staticTaxonomy) OrdinalFor(name string) (int16, bool) {
	for k, v := range s {
		if v == name {
			return k, true
		}
	}
	return 0, false
}

func TestMutableMessageApplyTaxonomy(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.AddOrdinal(1, int64(42)))

	sub := fudge.NewMutableMessage(dict)
	require.NoError(t, sub.AddOrdinal(2, "nested"))
	require.NoError(t, msg.AddField("", false, 0, false, dict.WireTypeByID(fudge.TypeSubMessage), sub))

	tax := staticTaxonomy{1: "price", 2: "label"}
	msg.ApplyTaxonomy(tax)

	name, ok := msg.Fields()[0].Name()
	require.True(t, ok)
	assert.Equal(t, "price", name)

	nestedField := msg.Fields()[1]
	nestedSub, ok := nestedField.SubMessage()
	require.True(t, ok)
	nestedName, ok := nestedSub.Fields()[0].Name()
	require.True(t, ok)
	assert.Equal(t, "label", nestedName)
}

func TestMutableMessageImmutableSnapshotIsIndependent(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	b := []byte{1, 2, 3}
	require.NoError(t, msg.Add(b))

	snap, err := msg.Immutable()
	require.NoError(t, err)

	b[0] = 99
	require.NoError(t, msg.AddNamed("extra", int64(1)))

	assert.Equal(t, 1, snap.Len())
	got := snap.Fields()[0].Value().([]byte)
	assert.Equal(t, byte(1), got[0])
}

func TestImmutableMessageByNameByOrdinal(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.AddNamed("n", int64(1)))
	snap, err := msg.Immutable()
	require.NoError(t, err)
	assert.Len(t, snap.ByName("n"), 1)
	assert.Empty(t, snap.ByOrdinal(3))
}
