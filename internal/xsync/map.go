// Copyright 2025 Buf Technologies, Inc.
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

package xsync

import (
	"fmt"
	"iter"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Map is a strongly-typed wrapper over sync.Map.
type Map[K comparable, V any] struct {
	impl sync.Map
}

// Load forwards to [sync.Map.Load].
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.impl.Load(k)
	if !ok {
		var z V
		return z, ok
	}

	return v.(V), ok //nolint:errcheck
}

// Store forwards to [sync.Map.Store].
func (m *Map[K, V]) Store(k K, v V) {
	m.impl.Store(k, v)
}

// LoadOrStore loads a value if its present, or constructs it with make and
// inserts it.
//
// There is a possibility that make is called, but the return value is not
// inserted.
func (m *Map[K, V]) LoadOrStore(k K, make func() V) (actual V, loaded bool) {
	v, ok := m.Load(k)
	if ok {
		return v, true
	}
	w, ok := m.impl.LoadOrStore(k, make())
	return w.(V), ok //nolint:errcheck
}

// All returns an iterator over the values in this map, using [sync.Map.Range].
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.impl.Range(func(key, value any) bool {
			return yield(key.(K), value.(V)) //nolint:errcheck
		})
	}
}

// Conflict is returned by (*RegisterGroup[K, V]).Register when k is already
// registered with a value that is not equal to the one being registered.
type Conflict[K any] struct {
	Key K
}

func (c *Conflict[K]) Error() string {
	return fmt.Sprintf("xsync: %v is already registered with a different value", c.Key)
}

// RegisterGroup layers one-shot-per-key registration semantics on top of
// Map: concurrent attempts to register the same key are coalesced onto a
// single comparison-and-store via [singleflight.Group], so that a reader
// always observes either the pre- or the post-registration state, never a
// torn one, and two goroutines racing to register an identical definition
// never spuriously conflict with each other.
type RegisterGroup[K comparable, V any] struct {
	m      Map[K, V]
	flight singleflight.Group
}

// Register registers v under k, using keyStr (typically fmt.Sprint(k) or a
// cheaper equivalent) to key the in-flight coalescing group.
//
//   - If k is unregistered, v is stored and Register returns (v, false, nil).
//   - If k is already registered with a value equal to v (per eq), Register
//     is a no-op and returns (existing, true, nil).
//   - If k is already registered with a value not equal to v, Register
//     returns (existing, true, *Conflict[K]) and leaves the existing
//     registration in place.
func (g *RegisterGroup[K, V]) Register(k K, keyStr string, v V, eq func(a, b V) bool) (actual V, alreadyPresent bool, err error) {
	type result struct {
		v      V
		loaded bool
	}
	r, err, _ := g.flight.Do(keyStr, func() (any, error) {
		existing, loaded := g.m.LoadOrStore(k, func() V { return v })
		if loaded && !eq(existing, v) {
			return result{existing, true}, &Conflict[K]{Key: k}
		}
		return result{existing, loaded}, nil
	})
	res, _ := r.(result) //nolint:errcheck
	return res.v, res.loaded, err
}

// Load forwards to the underlying Map.
func (g *RegisterGroup[K, V]) Load(k K) (V, bool) { return g.m.Load(k) }

// All forwards to the underlying Map.
func (g *RegisterGroup[K, V]) All() iter.Seq2[K, V] { return g.m.All() }
