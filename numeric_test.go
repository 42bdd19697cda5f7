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

func TestDictionaryConvertWidensButNeverNarrows(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.Add(int64(5))) // narrows to byte on add
	f := msg.Fields()[0]
	require.Equal(t, fudge.TypeByte, f.WireType().ID)

	widened, err := dict.Convert(reflect.TypeOf(int64(0)), f)
	require.NoError(t, err)
	assert.Equal(t, int64(5), widened)

	_, err = dict.Convert(reflect.TypeOf(int8(0)), f)
	assert.NoError(t, err, "already assignable to int8, passes through step 2")
}

func TestDictionaryConvertRejectsUnrelatedType(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.Add("a string"))
	f := msg.Fields()[0]

	_, err := dict.Convert(reflect.TypeOf(int64(0)), f)
	require.Error(t, err)
	assert.False(t, dict.CanConvert(reflect.TypeOf(int64(0)), f))
}
