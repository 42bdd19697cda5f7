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
	"reflect"

	"github.com/sirupsen/logrus"
)

// Deserializer drives message_to_object and field_value_to_object (spec.md
// §4.5): turning a decoded MutableMessage back into a host object using
// ordinal-0 class headers, the default container heuristics, or a caller's
// requested type.
type Deserializer struct {
	dict     *Dictionary
	builders *BuilderRegistry
	log      *logrus.Entry
}

// NewDeserializer constructs a Deserializer over dict and builders.
func NewDeserializer(dict *Dictionary, builders *BuilderRegistry, opts ...DeserializerOption) *Deserializer {
	cfg := defaultDeserializerOptions()
	for _, o := range opts {
		o.apply(&cfg)
	}
	return &Deserializer{dict: dict, builders: builders, log: cfg.logger.WithField("component", "deserializer")}
}

// MessageToObject implements the untyped form of spec.md §4.5
// "message_to_object": ordinal-0 class-header fields are tried
// most-specific first (wire order, per AddToMessageWithClassHeaders),
// falling back to default container detection, and finally to returning
// msg itself unchanged when nothing matches.
func (d *Deserializer) MessageToObject(msg *MutableMessage) (any, error) {
	hints := msg.ByOrdinal(0)
	for _, h := range hints {
		if _, isString := h.Value().(string); !isString {
			return nil, errUnsupportedFeature("numeric ordinal-0 class back/forward-reference headers are not supported")
		}
	}
	for _, h := range hints {
		name, _ := h.Value().(string)
		t, ok := d.dict.ResolveClassName(name)
		if !ok {
			continue
		}
		if ob, ok := d.builders.ObjectBuilderFor(t); ok {
			return ob.BuildObject(d, msg)
		}
	}
	if len(hints) == 0 {
		if kind, ok := detectContainerKind(msg); ok {
			switch kind {
			case containerSequence:
				return d.builders.sequenceBuilder.BuildObject(d, msg)
			case containerSet:
				return d.builders.setBuilder.BuildObject(d, msg)
			case containerMap:
				return d.builders.mapBuilder.BuildObject(d, msg)
			}
		}
	}
	return msg, nil
}

// MessageToObjectAs implements the typed form of spec.md §4.5
// "message_to_object": it prefers an ordinal-0 class header that resolves
// to a type assignable to T, then falls back to whatever builder is
// registered directly for T.
func MessageToObjectAs[T any](d *Deserializer, msg *MutableMessage) (T, error) {
	var zero T
	target := reflect.TypeOf(&zero).Elem()

	hints := msg.ByOrdinal(0)
	for _, h := range hints {
		name, ok := h.Value().(string)
		if !ok {
			return zero, errUnsupportedFeature("numeric ordinal-0 class back/forward-reference headers are not supported")
		}
		t, ok := d.dict.ResolveClassName(name)
		if !ok || !t.AssignableTo(target) {
			continue
		}
		ob, ok := d.builders.ObjectBuilderFor(t)
		if !ok {
			continue
		}
		obj, err := ob.BuildObject(d, msg)
		if err != nil {
			return zero, err
		}
		if v, ok := obj.(T); ok {
			return v, nil
		}
	}
	if ob, ok := d.builders.ObjectBuilderFor(target); ok {
		obj, err := ob.BuildObject(d, msg)
		if err != nil {
			return zero, err
		}
		if v, ok := obj.(T); ok {
			return v, nil
		}
	}
	return zero, errNoBuilder("no builder produced a value assignable to %s", target)
}

// FieldValueToObject implements the untyped form of spec.md §4.5
// "field_value_to_object": a sub-message field recurses through
// MessageToObject, any other field returns its raw wire value.
func (d *Deserializer) FieldValueToObject(f Field) (any, error) {
	if sub, ok := f.SubMessage(); ok {
		return d.MessageToObject(sub)
	}
	return f.Value(), nil
}

// FieldValueToObjectAs implements the typed form of spec.md §4.5
// "field_value_to_object": a sub-message field recurses through
// MessageToObjectAs, any other field is converted with the dictionary's
// Convert algorithm.
func FieldValueToObjectAs[T any](d *Deserializer, f Field) (T, error) {
	var zero T
	if sub, ok := f.SubMessage(); ok {
		return MessageToObjectAs[T](d, sub)
	}
	target := reflect.TypeOf(&zero).Elem()
	v, err := d.dict.Convert(target, f)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	tv, ok := v.(T)
	if !ok {
		return zero, errConversionUnavailable("converted value of type %T is not assignable to %s", v, target)
	}
	return tv, nil
}
