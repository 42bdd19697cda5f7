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

package fudge

// Taxonomy is a bidirectional ordinal<->name mapping used to compress
// on-wire field names (spec.md §3, §6.4). Both directions must agree: if
// NameFor(o) returns (n, true) then OrdinalFor(n) must return (o, true) for
// the same Taxonomy.
type Taxonomy interface {
	NameFor(ordinal int16) (string, bool)
	OrdinalFor(name string) (int16, bool)
}

// TaxonomyResolver maps a 16-bit taxonomy id to a Taxonomy. Id 0 always
// means "no taxonomy" and every resolver must report it absent.
type TaxonomyResolver interface {
	Resolve(id int16) (Taxonomy, bool)
}

// TaxonomyResolverFunc adapts a plain function to TaxonomyResolver.
type TaxonomyResolverFunc func(id int16) (Taxonomy, bool)

// Resolve implements TaxonomyResolver.
func (f TaxonomyResolverFunc) Resolve(id int16) (Taxonomy, bool) { return f(id) }

// NoTaxonomy is the resolver that never finds a taxonomy, the default for
// streams that do not use taxonomy compression.
var NoTaxonomy TaxonomyResolver = TaxonomyResolverFunc(func(int16) (Taxonomy, bool) { return nil, false })

// mapTaxonomy is the straightforward in-memory Taxonomy built from a
// name<->ordinal table, as loaded from YAML (see taxonomy_yaml.go) or built
// by hand with NewTaxonomy.
type mapTaxonomy struct {
	byOrdinal map[int16]string
	byName    map[string]int16
}

// NewTaxonomy builds a Taxonomy from a name->ordinal table. The reverse
// table is derived automatically; when one ordinal is mapped from several
// names, NameFor returns one of them, and which one is not defined.
func NewTaxonomy(entries map[string]int16) Taxonomy {
	t := &mapTaxonomy{
		byOrdinal: make(map[int16]string, len(entries)),
		byName:    make(map[string]int16, len(entries)),
	}
	for name, ordinal := range entries {
		t.byName[name] = ordinal
		t.byOrdinal[ordinal] = name
	}
	return t
}

func (t *mapTaxonomy) NameFor(ordinal int16) (string, bool) {
	n, ok := t.byOrdinal[ordinal]
	return n, ok
}

func (t *mapTaxonomy) OrdinalFor(name string) (int16, bool) {
	o, ok := t.byName[name]
	return o, ok
}

// staticResolver is a TaxonomyResolver backed by a fixed id->Taxonomy table,
// the common case for a process that loads its taxonomies once at startup.
type staticResolver struct {
	byID map[int16]Taxonomy
}

// NewStaticResolver builds a TaxonomyResolver from a fixed table. Id 0 is
// rejected even if present in the table, per the "no taxonomy" contract.
func NewStaticResolver(byID map[int16]Taxonomy) TaxonomyResolver {
	return &staticResolver{byID: byID}
}

func (r *staticResolver) Resolve(id int16) (Taxonomy, bool) {
	if id == 0 {
		return nil, false
	}
	t, ok := r.byID[id]
	return t, ok
}
