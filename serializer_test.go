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

type base struct{ N int64 }
type derived struct {
	base
	Label string
}

type derivedBuilder struct{}

func (derivedBuilder) BuildMessage(s *fudge.Serializer, obj any) (*fudge.MutableMessage, error) {
	d, ok := obj.(derived)
	if !ok {
		return nil, fudge.NoBuilder
	}
	msg := fudge.NewMutableMessage(nil)
	_ = d
	return msg, nil
}
func (derivedBuilder) BuildObject(*fudge.Deserializer, *fudge.MutableMessage) (any, error) {
	return nil, nil
}

func TestAddToMessageWithClassHeadersAddsChain(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)
	require.NoError(t, builders.Register(reflect.TypeOf(derived{}), derivedBuilder{}))
	ser := fudge.NewSerializer(dict, builders)

	outer := fudge.NewMutableMessage(dict)
	d := derived{base: base{N: 1}, Label: "x"}
	require.NoError(t, ser.AddToMessageWithClassHeaders(outer, "d", true, 0, false, d, nil))

	field := outer.ByName("d")[0]
	sub, ok := field.SubMessage()
	require.True(t, ok)

	classHeaders := sub.ByOrdinal(0)
	require.Len(t, classHeaders, 2)
	assert.Equal(t, "fudge_test.derived", classHeaders[0].Value())
	assert.Equal(t, "fudge_test.base", classHeaders[1].Value())
}

func TestAddToMessageWithClassHeadersStopsAtStopType(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)
	require.NoError(t, builders.Register(reflect.TypeOf(derived{}), derivedBuilder{}))
	ser := fudge.NewSerializer(dict, builders)

	outer := fudge.NewMutableMessage(dict)
	d := derived{base: base{N: 1}, Label: "x"}
	require.NoError(t, ser.AddToMessageWithClassHeaders(outer, "d", true, 0, false, d, reflect.TypeOf(base{})))

	field := outer.ByName("d")[0]
	sub, _ := field.SubMessage()
	classHeaders := sub.ByOrdinal(0)
	require.Len(t, classHeaders, 1)
	assert.Equal(t, "fudge_test.derived", classHeaders[0].Value())
}

type cyclic struct {
	Next *cyclic
}

type cyclicBuilder struct{}

func (cyclicBuilder) BuildMessage(s *fudge.Serializer, obj any) (*fudge.MutableMessage, error) {
	c := obj.(*cyclic)
	msg := fudge.NewMutableMessage(nil)
	if c.Next != nil {
		if err := s.AddToMessage(msg, "next", true, 0, false, c.Next); err != nil {
			return nil, err
		}
	}
	return msg, nil
}
func (cyclicBuilder) BuildObject(*fudge.Deserializer, *fudge.MutableMessage) (any, error) {
	return nil, nil
}

func TestSerializerDetectsCycle(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)
	require.NoError(t, builders.Register(reflect.TypeOf(&cyclic{}), cyclicBuilder{}))
	ser := fudge.NewSerializer(dict, builders)

	a := &cyclic{}
	a.Next = a

	_, err := ser.ObjectToMessage(a)
	require.Error(t, err)
	assert.ErrorIs(t, err, fudge.CyclicReference)
}

func TestSerializerResetClearsCycleStack(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)
	require.NoError(t, builders.Register(reflect.TypeOf(&cyclic{}), cyclicBuilder{}))
	ser := fudge.NewSerializer(dict, builders)

	a := &cyclic{}
	a.Next = a
	_, err := ser.ObjectToMessage(a)
	require.Error(t, err)

	ser.Reset()

	b := &cyclic{}
	_, err = ser.ObjectToMessage(b)
	require.NoError(t, err)
}

func TestAddToMessageNilValueIsIndicator(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)
	ser := fudge.NewSerializer(dict, builders)

	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, ser.AddToMessage(msg, "n", true, 0, false, nil))
	assert.Equal(t, fudge.TypeIndicator, msg.Fields()[0].WireType().ID)
}
