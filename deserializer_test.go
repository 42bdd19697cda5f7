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

type point struct{ X, Y int64 }

type pointBuilder struct{}

func (pointBuilder) BuildMessage(s *fudge.Serializer, obj any) (*fudge.MutableMessage, error) {
	p := obj.(point)
	msg := fudge.NewMutableMessage(nil)
	if err := s.AddToMessage(msg, "x", true, 0, false, p.X); err != nil {
		return nil, err
	}
	if err := s.AddToMessage(msg, "y", true, 0, false, p.Y); err != nil {
		return nil, err
	}
	return msg, nil
}
func (pointBuilder) BuildObject(d *fudge.Deserializer, msg *fudge.MutableMessage) (any, error) {
	var p point
	xv, err := fudge.FieldValueToObjectAs[int64](d, msg.ByName("x")[0])
	if err != nil {
		return nil, err
	}
	yv, err := fudge.FieldValueToObjectAs[int64](d, msg.ByName("y")[0])
	if err != nil {
		return nil, err
	}
	p.X = xv
	p.Y = yv
	return p, nil
}

func TestMessageToObjectResolvesOrdinalZeroClassHeader(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	require.NoError(t, dict.RegisterClassRename(reflect.TypeOf(point{}).String(), reflect.TypeOf(point{})))
	builders := fudge.NewBuilderRegistry(dict)
	require.NoError(t, builders.Register(reflect.TypeOf(point{}), pointBuilder{}))
	ser := fudge.NewSerializer(dict, builders)
	deser := fudge.NewDeserializer(dict, builders)

	outer := fudge.NewMutableMessage(dict)
	require.NoError(t, ser.AddToMessageWithClassHeaders(outer, "p", true, 0, false, point{X: 3, Y: 4}, nil))
	sub, _ := outer.ByName("p")[0].SubMessage()

	out, err := deser.MessageToObject(sub)
	require.NoError(t, err)
	assert.Equal(t, point{X: 3, Y: 4}, out)
}

func TestMessageToObjectRejectsNumericClassHeader(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)
	deser := fudge.NewDeserializer(dict, builders)

	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.AddField("", false, 0, true, dict.WireTypeByID(fudge.TypeInt), int32(7)))

	_, err := deser.MessageToObject(msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, fudge.UnsupportedFeature)
}

func TestFieldValueToObjectAsNumericConversion(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)
	deser := fudge.NewDeserializer(dict, builders)

	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.Add(int64(9)))
	f := msg.Fields()[0]

	out, err := fudge.FieldValueToObjectAs[int64](deser, f)
	require.NoError(t, err)
	assert.Equal(t, int64(9), out)
}

func TestFieldValueToObjectAsRejectsNarrowing(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)
	deser := fudge.NewDeserializer(dict, builders)

	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.Add(int64(1)<<40))
	f := msg.Fields()[0]
	require.Equal(t, fudge.TypeLong, f.WireType().ID)

	_, err := fudge.FieldValueToObjectAs[int8](deser, f)
	require.Error(t, err)
}

func TestMessageToObjectAsUnresolvableClassHeaderFails(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	builders := fudge.NewBuilderRegistry(dict)
	deser := fudge.NewDeserializer(dict, builders)

	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.AddField("", false, 0, true, dict.WireTypeByID(fudge.TypeString), "no.such.Type"))

	_, err := fudge.MessageToObjectAs[point](deser, msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, fudge.NoBuilder)
}
