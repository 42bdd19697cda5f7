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

import "reflect"

// numericConverters installs the default widening conversions between the
// primitive numeric host types (spec.md §4.2 "Initial type registration":
// "so that e.g. an int field can be retrieved as long").
type numericConverters struct{}

func newNumericConverters() *numericConverters { return &numericConverters{} }

// convert attempts a numeric widening conversion of v to target. The bool
// result reports whether this converter claims the conversion at all (so
// callers can distinguish "tried and failed" from "not applicable").
func (*numericConverters) convert(target reflect.Type, v any) (any, bool, error) {
	rv := reflect.ValueOf(v)
	if !isNumericKind(rv.Kind()) || !isNumericKind(target.Kind()) {
		return nil, false, nil
	}
	// Only widen, never narrow: narrowing belongs to the message model's
	// explicit add-time narrowing (see message.go), not to read-time
	// conversion.
	if numericWidth(target.Kind()) < numericWidth(rv.Kind()) {
		return nil, false, nil
	}
	converted := reflect.ValueOf(v).Convert(target)
	return converted.Interface(), true, nil
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func numericWidth(k reflect.Kind) int {
	switch k {
	case reflect.Int8:
		return 1
	case reflect.Int16:
		return 2
	case reflect.Int32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Float64:
		return 8
	default:
		return 0
	}
}
