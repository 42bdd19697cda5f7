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

// Set is the default host representation of a Fudge set: an unordered
// collection with no duplicate members (spec.md §4.5.1). Keys must be
// comparable, same restriction as a Go map key.
type Set map[any]struct{}

// Reserved ordinals of the default container encodings (spec.md §4.5.1).
// A sub-message whose only ordinals are drawn from this set is a candidate
// for default container detection; any other ordinal aborts detection and
// the sub-message is left as a plain message.
const (
	KeyOrdinal          int16 = 1
	ValueOrdinal        int16 = 2
	KeyTypeHintOrdinal  int16 = 3
	ValueTypeHintOrdinal int16 = 4
)

type containerKind int

const (
	containerNone containerKind = iota
	containerSequence
	containerSet
	containerMap
)

// detectContainerKind implements the ordinal-scanning heuristic of spec.md
// §4.5.1: no ordinals at all means a sequence; only KeyOrdinal means a set;
// both KeyOrdinal and ValueOrdinal means a map; anything else aborts
// default detection.
func detectContainerKind(msg *MutableMessage) (containerKind, bool) {
	seen := make(map[int16]bool)
	observedAny := false
	for _, f := range msg.Fields() {
		o, ok := f.Ordinal()
		if !ok {
			continue
		}
		observedAny = true
		if o != KeyOrdinal && o != ValueOrdinal && o != KeyTypeHintOrdinal && o != ValueTypeHintOrdinal {
			return containerNone, false
		}
		seen[o] = true
	}
	if !observedAny {
		return containerSequence, true
	}
	switch {
	case seen[KeyOrdinal] && seen[ValueOrdinal]:
		return containerMap, true
	case seen[KeyOrdinal]:
		return containerSet, true
	default:
		return containerNone, false
	}
}

// resolveHintBuilder looks up the element/key/value type-hint field at
// hintOrdinal and, if it names a class with a registered object builder,
// returns that builder so every element of the collection is decoded with
// it directly rather than through the generic message-to-object path.
func resolveHintBuilder(d *Deserializer, msg *MutableMessage, hintOrdinal int16) ObjectBuilder {
	hints := msg.ByOrdinal(hintOrdinal)
	if len(hints) == 0 {
		return nil
	}
	name, ok := hints[0].Value().(string)
	if !ok {
		return nil
	}
	t, ok := d.dict.ResolveClassName(name)
	if !ok {
		return nil
	}
	b, ok := d.builders.ObjectBuilderFor(t)
	if !ok {
		return nil
	}
	return b
}

func decodeElement(d *Deserializer, f Field, hint ObjectBuilder) (any, error) {
	if hint != nil {
		if sub, ok := f.SubMessage(); ok {
			return hint.BuildObject(d, sub)
		}
	}
	return d.FieldValueToObject(f)
}

// sequenceBuilder is the default builder for []any: elements are added with
// neither name nor ordinal, and decoded back in wire order (spec.md
// §4.5.1 "Sequences").
type sequenceBuilder struct{}

func (sequenceBuilder) BuildMessage(s *Serializer, obj any) (*MutableMessage, error) {
	elems, ok := obj.([]any)
	if !ok {
		return nil, errNoBuilder("sequence builder invoked with non-[]any value %T", obj)
	}
	msg := NewMutableMessage(s.dict)
	for _, e := range elems {
		if err := s.AddToMessage(msg, "", false, 0, false, e); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (sequenceBuilder) BuildObject(d *Deserializer, msg *MutableMessage) (any, error) {
	out := []any{}
	for _, f := range msg.Fields() {
		if _, hasName := f.Name(); hasName {
			continue
		}
		if _, hasOrdinal := f.Ordinal(); hasOrdinal {
			continue
		}
		v, err := d.FieldValueToObject(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// setBuilder is the default builder for Set: members are added at
// KeyOrdinal, with an optional common-element-type hint at
// KeyTypeHintOrdinal (spec.md §4.5.1 "Sets").
type setBuilder struct{}

func (setBuilder) BuildMessage(s *Serializer, obj any) (*MutableMessage, error) {
	set, ok := obj.(Set)
	if !ok {
		return nil, errNoBuilder("set builder invoked with non-Set value %T", obj)
	}
	msg := NewMutableMessage(s.dict)
	for elem := range set {
		if err := s.AddToMessage(msg, "", false, KeyOrdinal, true, elem); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (setBuilder) BuildObject(d *Deserializer, msg *MutableMessage) (any, error) {
	hint := resolveHintBuilder(d, msg, KeyTypeHintOrdinal)
	out := make(Set)
	for _, f := range msg.ByOrdinal(KeyOrdinal) {
		v, err := decodeElement(d, f, hint)
		if err != nil {
			return nil, err
		}
		out[v] = struct{}{}
	}
	return out, nil
}

// mapBuilder is the default builder for map[any]any: entries are added as
// a KeyOrdinal/ValueOrdinal field pair per entry, paired back up on decode
// in the order each ordinal was observed so that interleaved key/value
// fields (not necessarily adjacent on the wire) still reconstruct
// correctly (spec.md §4.5.1 "Maps").
type mapBuilder struct{}

func (mapBuilder) BuildMessage(s *Serializer, obj any) (*MutableMessage, error) {
	m, ok := obj.(map[any]any)
	if !ok {
		return nil, errNoBuilder("map builder invoked with non-map[any]any value %T", obj)
	}
	msg := NewMutableMessage(s.dict)
	for k, v := range m {
		if err := s.AddToMessage(msg, "", false, KeyOrdinal, true, k); err != nil {
			return nil, err
		}
		if err := s.AddToMessage(msg, "", false, ValueOrdinal, true, v); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (mapBuilder) BuildObject(d *Deserializer, msg *MutableMessage) (any, error) {
	keyHint := resolveHintBuilder(d, msg, KeyTypeHintOrdinal)
	valueHint := resolveHintBuilder(d, msg, ValueTypeHintOrdinal)
	var keys, values []any
	for _, f := range msg.Fields() {
		ordinal, ok := f.Ordinal()
		if !ok {
			continue
		}
		switch ordinal {
		case KeyOrdinal:
			v, err := decodeElement(d, f, keyHint)
			if err != nil {
				return nil, err
			}
			keys = append(keys, v)
		case ValueOrdinal:
			v, err := decodeElement(d, f, valueHint)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
	}
	if len(keys) != len(values) {
		return nil, errMalformed(-1, "map sub-message has %d keys but %d values", len(keys), len(values))
	}
	out := make(map[any]any, len(keys))
	for i := range keys {
		out[keys[i]] = values[i]
	}
	return out, nil
}
