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

// Serializer drives object_to_message (spec.md §4.5): turning a host
// object graph into a MutableMessage tree via the dictionary and the
// builder registry. A Serializer is not safe for concurrent use — it
// tracks an in-progress handle stack for cycle detection across a single
// call to ObjectToMessage — the same single-logical-thread contract the
// stream reader/writer enforce (spec.md §5).
type Serializer struct {
	dict     *Dictionary
	builders *BuilderRegistry
	stack     []handle
	log       *logrus.Entry
}

type handle struct {
	id uintptr
	t  reflect.Type
}

// NewSerializer constructs a Serializer over dict and builders.
func NewSerializer(dict *Dictionary, builders *BuilderRegistry, opts ...SerializerOption) *Serializer {
	cfg := defaultSerializerOptions()
	for _, o := range opts {
		o.apply(&cfg)
	}
	return &Serializer{dict: dict, builders: builders, log: cfg.logger.WithField("component", "serializer")}
}

// Reset clears the in-progress cycle-detection stack. Call it if a
// previous ObjectToMessage call returned an error and the Serializer is
// being reused for an unrelated object graph.
func (s *Serializer) Reset() { s.stack = s.stack[:0] }

// ObjectToMessage builds a message for obj using the message builder
// registered (directly or via a factory) for its runtime type. A message
// the builder created without a dictionary is bound to the Serializer's.
func (s *Serializer) ObjectToMessage(obj any) (*MutableMessage, error) {
	pushed, err := s.enter(obj)
	if err != nil {
		return nil, err
	}
	if pushed {
		defer s.leave()
	}
	t := reflect.TypeOf(obj)
	mb, ok := s.builders.MessageBuilderFor(t)
	if !ok {
		return nil, errNoBuilder("no message builder registered or generated for %s", t)
	}
	msg, err := mb.BuildMessage(s, obj)
	if err == nil && msg != nil && msg.dict == nil {
		msg.dict = s.dict
	}
	return msg, err
}

// AddToMessage adds value to msg under the given name/ordinal, choosing
// between a native wire type, a secondary-type conversion, and a
// sub-message built via ObjectToMessage, in that order (spec.md §4.5
// "add_to_message"). A nil value is added as the indicator type. A msg
// created without a dictionary is bound to the Serializer's.
func (s *Serializer) AddToMessage(msg *MutableMessage, name string, hasName bool, ordinal int16, hasOrdinal bool, value any) error {
	if msg.dict == nil {
		msg.dict = s.dict
	}
	if value == nil {
		return msg.AddField(name, hasName, ordinal, hasOrdinal, s.dict.WireTypeByID(TypeIndicator), nil)
	}
	t := reflect.TypeOf(value)
	if wt, ok := s.dict.WireTypeByHostType(t); ok && wt.ID != TypeSubMessage {
		return msg.AddField(name, hasName, ordinal, hasOrdinal, wt, value)
	}
	if sec, ok := s.dict.SecondaryForHostType(t); ok {
		prim, err := sec.SecondaryToPrimary(value)
		if err != nil {
			return err
		}
		return msg.AddField(name, hasName, ordinal, hasOrdinal, sec.Primary(), prim)
	}
	sub, err := s.ObjectToMessage(value)
	if err != nil {
		return err
	}
	return msg.AddField(name, hasName, ordinal, hasOrdinal, s.dict.WireTypeByID(TypeSubMessage), sub)
}

// AddToMessageWithClassHeaders behaves like AddToMessage, but when value is
// encoded as a fresh sub-message (i.e. its builder did not already stamp
// ordinal-0 class headers itself) it appends the host type's superclass
// chain — in Go, its chain of embedded struct fields — as a run of
// ordinal-0 string fields, most specific first, stopping at stopType
// (spec.md §4.5 "add_to_message_with_class_headers"). Pass nil for
// stopType to walk to the top of the chain.
func (s *Serializer) AddToMessageWithClassHeaders(msg *MutableMessage, name string, hasName bool, ordinal int16, hasOrdinal bool, value any, stopType reflect.Type) error {
	if value == nil {
		return s.AddToMessage(msg, name, hasName, ordinal, hasOrdinal, value)
	}
	t := reflect.TypeOf(value)
	if wt, ok := s.dict.WireTypeByHostType(t); ok && wt.ID != TypeSubMessage {
		return s.AddToMessage(msg, name, hasName, ordinal, hasOrdinal, value)
	}
	if _, ok := s.dict.SecondaryForHostType(t); ok {
		return s.AddToMessage(msg, name, hasName, ordinal, hasOrdinal, value)
	}
	sub, err := s.ObjectToMessage(value)
	if err != nil {
		return err
	}
	if len(sub.ByOrdinal(0)) == 0 {
		for _, className := range classChain(t, stopType) {
			if err := sub.AddField("", false, 0, true, s.dict.WireTypeByID(TypeString), className); err != nil {
				return err
			}
		}
	}
	return msg.AddField(name, hasName, ordinal, hasOrdinal, s.dict.WireTypeByID(TypeSubMessage), sub)
}

// classChain lists t and its ancestors (following the first embedded field
// at each level, Go's closest analogue to single inheritance) up to but
// excluding stopType, most specific first.
func classChain(t reflect.Type, stopType reflect.Type) []string {
	var names []string
	cur := t
	for cur != nil {
		if cur.Kind() == reflect.Ptr {
			cur = cur.Elem()
		}
		if cur == nil || cur == stopType {
			break
		}
		names = append(names, cur.String())
		if cur.Kind() != reflect.Struct {
			break
		}
		var next reflect.Type
		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if f.Anonymous {
				next = f.Type
				break
			}
		}
		cur = next
	}
	return names
}

// enter pushes a cycle-detection handle for obj, if obj's kind carries a
// meaningful identity (pointer, map, slice, channel, or func — the kinds
// through which a Go object graph can actually cycle; struct and primitive
// values are copied, not shared, so they cannot). Returns false, nil when
// no handle was pushed, so leave must only be deferred when pushed is true.
func (s *Serializer) enter(obj any) (pushed bool, err error) {
	id, t, ok := identityOf(obj)
	if !ok {
		return false, nil
	}
	for _, h := range s.stack {
		if h.id == id && h.t == t {
			return false, errCyclicReference("cycle detected re-entering object of type %s", t)
		}
	}
	s.stack = append(s.stack, handle{id: id, t: t})
	return true, nil
}

func (s *Serializer) leave() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func identityOf(obj any) (uintptr, reflect.Type, bool) {
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if v.IsNil() {
			return 0, nil, false
		}
		return v.Pointer(), v.Type(), true
	default:
		return 0, nil, false
	}
}
