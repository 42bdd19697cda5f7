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
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fudgemsg/fudge-go"
)

func TestDictionaryWireTypeByHostType(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	wt, ok := dict.WireTypeByHostType(reflect.TypeOf(int64(0)))
	require.True(t, ok)
	assert.Equal(t, fudge.TypeLong, wt.ID)

	_, ok = dict.WireTypeByHostType(reflect.TypeOf(struct{}{}))
	assert.False(t, ok)
}

func TestDictionaryWireTypeByHostTypeSupertype(t *testing.T) {
	t.Parallel()
	type base struct{ N int64 }
	type derived struct {
		base
		Extra string
	}
	dict := fudge.NewDictionary()
	wt := fudge.WireType{ID: 200, Name: "base", Fixed: false, HostType: reflect.TypeOf(base{})}
	require.NoError(t, dict.RegisterWireType(wt))

	got, ok := dict.WireTypeByHostType(reflect.TypeOf(derived{}))
	require.True(t, ok)
	assert.Equal(t, fudge.WireTypeID(200), got.ID)
}

func TestDictionaryRegisterWireTypeConflict(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	err := dict.RegisterWireType(fudge.WireType{ID: fudge.TypeLong, Name: "not-long", HostType: reflect.TypeOf(int64(0))})
	require.Error(t, err)
}

func TestDictionaryClassRenameAndAlias(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	type Money struct{ Cents int64 }
	require.NoError(t, dict.RegisterClassRename("com.example.OldMoney", reflect.TypeOf(Money{})))
	require.NoError(t, dict.RegisterClassAlias("money", reflect.TypeOf(Money{})))

	got, ok := dict.ResolveClassName("com.example.OldMoney")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(Money{}), got)

	got, ok = dict.ResolveClassName("money")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(Money{}), got)

	_, ok = dict.ResolveClassName("nonexistent")
	assert.False(t, ok)
}

func TestDictionaryDescribeIncludesStandardTypes(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	types := dict.Describe()
	var sawLong bool
	for _, wt := range types {
		if wt.ID == fudge.TypeLong {
			sawLong = true
		}
	}
	assert.True(t, sawLong)
	assert.GreaterOrEqual(t, len(types), 27)
}

func TestDictionaryConvertNumericWidening(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.Add(int64(7)))
	field := msg.Fields()[0]

	out, err := dict.Convert(reflect.TypeOf(int64(0)), field)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out)

	assert.True(t, dict.CanConvert(reflect.TypeOf(int64(0)), field))
}

func TestDictionaryConvertIndicatorToZeroValue(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.AddField("x", true, 0, false, dict.WireTypeByID(fudge.TypeIndicator), nil))
	field := msg.Fields()[0]

	out, err := dict.Convert(reflect.TypeOf(int64(0)), field)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out)
}
