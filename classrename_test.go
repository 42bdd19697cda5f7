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

func TestClassRenameDerivedLowerCamelCaseFallback(t *testing.T) {
	t.Parallel()
	type OrderBook struct{}
	dict := fudge.NewDictionary()
	require.NoError(t, dict.RegisterClassRename("orderBook", reflect.TypeOf(OrderBook{})))

	got, ok := dict.ResolveClassName("OrderBook")
	require.True(t, ok, "PascalCase name should resolve via lowerCamelCase normalization")
	assert.Equal(t, reflect.TypeOf(OrderBook{}), got)
}

func TestClassRenameIdempotentForSameTarget(t *testing.T) {
	t.Parallel()
	type T struct{}
	dict := fudge.NewDictionary()
	require.NoError(t, dict.RegisterClassRename("name", reflect.TypeOf(T{})))
	require.NoError(t, dict.RegisterClassRename("name", reflect.TypeOf(T{})))
}

func TestClassRenameConflictRejected(t *testing.T) {
	t.Parallel()
	type A struct{}
	type B struct{}
	dict := fudge.NewDictionary()
	require.NoError(t, dict.RegisterClassRename("name", reflect.TypeOf(A{})))
	err := dict.RegisterClassRename("name", reflect.TypeOf(B{}))
	require.Error(t, err)
}

func TestClassAliasTakesPriorityOverRename(t *testing.T) {
	t.Parallel()
	type Old struct{}
	type New struct{}
	dict := fudge.NewDictionary()
	require.NoError(t, dict.RegisterClassRename("money", reflect.TypeOf(Old{})))
	require.NoError(t, dict.RegisterClassAlias("money", reflect.TypeOf(New{})))

	got, ok := dict.ResolveClassName("money")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(New{}), got)
}
