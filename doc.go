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

// Package fudge is a self-describing, hierarchical, taxonomy-aware binary
// messaging format. A message is an ordered sequence of fields; each field
// is a typed value optionally tagged with a name and/or a numeric ordinal,
// and values may themselves be nested messages.
//
// This package implements the core of a Fudge implementation: the wire
// codec (envelope/field framing, the variable-width length encoding, and
// the standard primitive and byte-array wire types), the type dictionary
// (wire type registration and secondary-type conversion), the message
// model (mutable and immutable messages, taxonomy-driven name/ordinal
// resolution), and the object-mapping layer (serializer/deserializer
// contexts and the builder registry).
//
// # Support status
//
// Cyclic object graphs are detected and rejected during serialization
// rather than supported; see [CyclicReference]. Numeric class hints at
// ordinal 0 (reserved for a future back/forward-reference scheme) are
// rejected with [UnsupportedFeature]. Semantic round-tripping of
// unordered host containers (e.g. map iteration order) is not guaranteed.
//
// Alternate textual stream codecs (JSON, XML) are out of scope for this
// package; they are expected to be built against the [StreamReader] /
// [StreamWriter] event vocabulary in the same way this package's own
// binary codec is.
package fudge
