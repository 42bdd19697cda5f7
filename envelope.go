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

// EnvelopeHeaderSize is the fixed size, in bytes, of the envelope header
// (spec.md §6.1): 1 byte processing directives, 1 byte schema version, 2
// bytes taxonomy id, 4 bytes total size.
const EnvelopeHeaderSize = 8

// ProcessingDirectiveFramed is the low bit of the processing-directives
// byte, meaning "fudge-framed" (spec.md §3).
const ProcessingDirectiveFramed byte = 1 << 0

// Envelope is the top-level wire frame wrapping a single message (spec.md
// §3, §6.1). It is a transient framing artefact: constructed by a reader or
// writer, never persisted as part of the object model.
type Envelope struct {
	ProcessingDirectives byte
	SchemaVersion        byte
	TaxonomyID           int16
	TotalSize            uint32 // includes EnvelopeHeaderSize
}

// IsFramed reports whether the "fudge-framed" processing directive is set.
func (e Envelope) IsFramed() bool { return e.ProcessingDirectives&ProcessingDirectiveFramed != 0 }

// NewEnvelope builds an Envelope with the framed directive set and the
// given schema version and taxonomy id; TotalSize is computed by the
// writer once the message body is known.
func NewEnvelope(schemaVersion byte, taxonomyID int16) Envelope {
	return Envelope{
		ProcessingDirectives: ProcessingDirectiveFramed,
		SchemaVersion:        schemaVersion,
		TaxonomyID:           taxonomyID,
	}
}
