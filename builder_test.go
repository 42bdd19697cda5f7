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

type currency string

const (
	currencyUSD currency = "USD"
	currencyEUR currency = "EUR"
)

func TestRegisterEnumRoundtrip(t *testing.T) {
	t.Parallel()
	_, builders, ser, deser := newMapping(t)
	require.NoError(t, fudge.RegisterEnum[currency](builders, "currency"))

	msg, err := ser.ObjectToMessage(currencyEUR)
	require.NoError(t, err)

	declared := msg.ByOrdinal(0)
	require.Len(t, declared, 1)
	assert.Equal(t, "currency", declared[0].Value())

	out, err := fudge.MessageToObjectAs[currency](deser, msg)
	require.NoError(t, err)
	assert.Equal(t, currencyEUR, out)
}

func TestArrayFactoryRoundtrip(t *testing.T) {
	t.Parallel()
	_, _, ser, deser := newMapping(t)

	var arr [3]int64
	arr[0], arr[1], arr[2] = 10, 20, 30

	msg, err := ser.ObjectToMessage(arr)
	require.NoError(t, err)

	out, err := fudge.MessageToObjectAs[[3]int64](deser, msg)
	require.NoError(t, err)
	assert.Equal(t, [3]int64{10, 20, 30}, out)
}

type celsius float64

func TestPrimitiveBoxFactoryRoundtrip(t *testing.T) {
	t.Parallel()
	_, _, ser, deser := newMapping(t)

	in := celsius(36.6)
	msg, err := ser.ObjectToMessage(in)
	require.NoError(t, err)

	valueFields := msg.ByName("value")
	require.Len(t, valueFields, 1)

	out, err := fudge.MessageToObjectAs[celsius](deser, msg)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestClassObjectFactoryRoundtrip(t *testing.T) {
	t.Parallel()
	type Widget struct{ N int64 }
	dict, builders, ser, deser := newMapping(t)
	require.NoError(t, dict.RegisterClassRename("fudge_test.Widget", reflect.TypeOf(Widget{})))

	var classValue reflect.Type = reflect.TypeOf(Widget{})
	msg, err := ser.ObjectToMessage(classValue)
	require.NoError(t, err)

	nameFields := msg.ByName("name")
	require.Len(t, nameFields, 1)

	// classObjectBuilder carries no ordinal-0 class header of its own (it is
	// meant to be invoked via a collection's type-hint ordinal, or directly,
	// not discovered by MessageToObject's container heuristic), so exercise
	// the object builder directly as resolveHintBuilder would.
	ob, ok := builders.ObjectBuilderFor(reflect.TypeOf(classValue))
	require.True(t, ok)
	out, err := ob.BuildObject(deser, msg)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(Widget{}), out)
}

func TestMessagePassthroughBuilder(t *testing.T) {
	t.Parallel()
	dict, _, ser, deser := newMapping(t)
	inner := fudge.NewMutableMessage(dict)
	require.NoError(t, inner.AddNamed("a", int64(1)))

	msg, err := ser.ObjectToMessage(inner)
	require.NoError(t, err)
	assert.Same(t, inner, msg)

	out, err := fudge.MessageToObjectAs[*fudge.MutableMessage](deser, msg)
	require.NoError(t, err)
	assert.Same(t, inner, out)
}

func TestBuilderRegistryRegisterConflict(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)

	type T struct{}
	err := builders.Register(reflect.TypeOf(T{}), fakeBuilderA{})
	require.NoError(t, err)

	err = builders.Register(reflect.TypeOf(T{}), fakeBuilderB{})
	require.Error(t, err)
}

type fakeBuilderA struct{}

func (fakeBuilderA) BuildMessage(s *fudge.Serializer, obj any) (*fudge.MutableMessage, error) {
	return fudge.NewMutableMessage(nil), nil
}
func (fakeBuilderA) BuildObject(d *fudge.Deserializer, msg *fudge.MutableMessage) (any, error) {
	return nil, nil
}

type fakeBuilderB struct{}

func (fakeBuilderB) BuildMessage(s *fudge.Serializer, obj any) (*fudge.MutableMessage, error) {
	return fudge.NewMutableMessage(nil), nil
}
func (fakeBuilderB) BuildObject(d *fudge.Deserializer, msg *fudge.MutableMessage) (any, error) {
	return nil, nil
}

func TestBuilderRegistryUnknownTypeHasNoBuilder(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)

	type Unregistered struct{ Ch chan int }
	_, ok := builders.ObjectBuilderFor(reflect.TypeOf(Unregistered{}))
	assert.False(t, ok)
}
