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

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// taxonomyFile is the YAML document shape loaded by LoadTaxonomies:
//
//	taxonomies:
//	  1:
//	    price: 1
//	    quantity: 2
//	  2:
//	    symbol: 1
type taxonomyFile struct {
	Taxonomies map[int16]map[string]int16 `yaml:"taxonomies"`
}

// LoadTaxonomies reads a YAML document describing a set of taxonomies,
// keyed by taxonomy id, each a flat name->ordinal table (spec.md §6.4). It
// returns a ready-to-use TaxonomyResolver.
func LoadTaxonomies(r io.Reader) (TaxonomyResolver, error) {
	var doc taxonomyFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errMalformed(-1, "failed to parse taxonomy YAML: %v", err)
	}
	byID := make(map[int16]Taxonomy, len(doc.Taxonomies))
	for id, table := range doc.Taxonomies {
		if id == 0 {
			return nil, errMalformed(-1, "taxonomy id 0 is reserved for \"no taxonomy\"")
		}
		if err := validateTaxonomyTable(id, table); err != nil {
			return nil, err
		}
		byID[id] = NewTaxonomy(table)
	}
	return NewStaticResolver(byID), nil
}

// validateTaxonomyTable checks that ordinals are unique within a table
// (the YAML form is already a name->ordinal map, so duplicate names cannot
// occur, but duplicate ordinals across two names can and would break the
// bidirectional-consistency invariant of spec.md §6.4).
func validateTaxonomyTable(id int16, table map[string]int16) error {
	seen := make(map[int16]string, len(table))
	for name, ordinal := range table {
		if err := validateOrdinal(int32(ordinal)); err != nil {
			return err
		}
		if prior, ok := seen[ordinal]; ok {
			return errMalformed(-1, "taxonomy %d: ordinal %d used by both %q and %q", id, ordinal, prior, name)
		}
		seen[ordinal] = name
	}
	return nil
}

// MarshalTaxonomies renders a resolver previously built with LoadTaxonomies
// back to YAML, mostly useful for tooling and tests. It requires the
// concrete *staticResolver type produced by LoadTaxonomies/NewStaticResolver.
func MarshalTaxonomies(r TaxonomyResolver) ([]byte, error) {
	sr, ok := r.(*staticResolver)
	if !ok {
		return nil, fmt.Errorf("fudge: MarshalTaxonomies requires a resolver built by NewStaticResolver")
	}
	doc := taxonomyFile{Taxonomies: make(map[int16]map[string]int16, len(sr.byID))}
	for id, t := range sr.byID {
		mt, ok := t.(*mapTaxonomy)
		if !ok {
			continue
		}
		table := make(map[string]int16, len(mt.byName))
		for name, ordinal := range mt.byName {
			table[name] = ordinal
		}
		doc.Taxonomies[id] = table
	}
	return yaml.Marshal(doc)
}
