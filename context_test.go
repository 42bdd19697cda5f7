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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fudgemsg/fudge-go"
)

func TestNewContextHasUniqueID(t *testing.T) {
	t.Parallel()
	a := fudge.NewContext()
	b := fudge.NewContext()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestContextWriterReaderRoundtrip(t *testing.T) {
	t.Parallel()
	ctx := fudge.NewContext()
	msg := fudge.NewMutableMessage(ctx.Dictionary())
	require.NoError(t, msg.AddNamed("greeting", "hello"))

	var buf bytes.Buffer
	w := ctx.Writer(&buf)
	require.NoError(t, w.WriteMessage(fudge.NewEnvelope(0, 0), msg))

	r := ctx.Reader(&buf)
	_, got, err := fudge.ReadMessage(r, ctx.Dictionary())
	require.NoError(t, err)
	assert.Equal(t, "hello", got.ByName("greeting")[0].Value())
}

func TestContextObjectToMessageMessageToObject(t *testing.T) {
	t.Parallel()
	ctx := fudge.NewContext()
	in := []any{int64(1), int64(2)}

	msg, err := ctx.ObjectToMessage(in)
	require.NoError(t, err)

	out, err := ctx.MessageToObject(msg)
	require.NoError(t, err)
	assert.Equal(t, []any{int8(1), int8(2)}, out)
}

func TestContextTaxonomyResolverDefaultsPropagateToReader(t *testing.T) {
	t.Parallel()
	tax := fudge.NewTaxonomy(map[string]int16{"price": 1})
	resolver := fudge.NewStaticResolver(map[int16]fudge.Taxonomy{9: tax})
	ctx := fudge.NewContext(fudge.WithContextTaxonomyResolver(resolver))

	msg := fudge.NewMutableMessage(ctx.Dictionary())
	require.NoError(t, msg.AddNamed("price", int64(10)))

	var buf bytes.Buffer
	w := ctx.Writer(&buf, fudge.WithTaxonomy(9, tax))
	require.NoError(t, w.WriteMessage(fudge.NewEnvelope(0, 9), msg))

	r := ctx.Reader(&buf)
	_, got, err := fudge.ReadMessage(r, ctx.Dictionary())
	require.NoError(t, err)
	name, hasName := got.Fields()[0].Name()
	assert.True(t, hasName)
	assert.Equal(t, "price", name)
}
