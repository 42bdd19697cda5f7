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

package xsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fudgemsg/fudge-go/internal/xsync"
)

func TestRegisterGroupFirstWriteWins(t *testing.T) {
	var g xsync.RegisterGroup[string, int]
	eq := func(a, b int) bool { return a == b }

	v, loaded, err := g.Register("id", "id", 1, eq)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, 1, v)

	v, loaded, err = g.Register("id", "id", 1, eq)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, 1, v)
}

func TestRegisterGroupConflict(t *testing.T) {
	var g xsync.RegisterGroup[string, int]
	eq := func(a, b int) bool { return a == b }

	_, _, err := g.Register("id", "id", 1, eq)
	require.NoError(t, err)

	_, _, err = g.Register("id", "id", 2, eq)
	require.Error(t, err)
	var conflict *xsync.Conflict[string]
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "id", conflict.Key)
}

func TestRegisterGroupConcurrentRegistration(t *testing.T) {
	var g xsync.RegisterGroup[int, string]
	eq := func(a, b string) bool { return a == b }

	const n = 64
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, _, err := g.Register(1, "1", "value", eq)
			results <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-results)
	}
	v, ok := g.Load(1)
	require.True(t, ok)
	assert.Equal(t, "value", v)
}
