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
	"errors"
	"fmt"
	"io"
	"strings"
)

// Dump renders the envelope read from r as an indented, human-readable
// text tree: one line per field, showing its path (name or ordinal),
// wire type, and value, with sub-messages nested under their parent. It
// consumes r's events directly — built directly against the StreamReader
// event vocabulary of spec.md §4.4/§6.3, so it works unmodified for any
// future alternate codec that produces the same event stream.
//
// This is not a stable machine-readable format; it is the wire-level
// analogue of protocolbuffers/protoscope's dump output, for logs and
// debugging.
func Dump(w io.Writer, r *StreamReader) error {
	ev, err := r.Next()
	if err != nil {
		return err
	}
	if ev.Kind != EventEnvelopeStart {
		return errMalformed(-1, "expected EnvelopeStart, got %s", ev.Kind)
	}
	fmt.Fprintf(w, "envelope schemaVersion=%d taxonomyId=%d totalSize=%d\n",
		ev.Envelope.SchemaVersion, ev.Envelope.TaxonomyID, ev.Envelope.TotalSize)
	return dumpBody(w, r, 1)
}

func dumpBody(w io.Writer, r *StreamReader, depth int) error {
	indent := strings.Repeat("  ", depth)
	for {
		ev, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch ev.Kind {
		case EventSimpleField:
			fmt.Fprintf(w, "%s%s: %s = %s\n", indent, dumpPath(ev), ev.WireType, dumpValue(ev.Value))
		case EventSubMessageStart:
			fmt.Fprintf(w, "%s%s: message\n", indent, dumpPath(ev))
			if err := dumpBody(w, r, depth+1); err != nil {
				return err
			}
		case EventSubMessageEnd, EventEnvelopeEnd:
			return nil
		default:
			return errMalformed(-1, "unexpected event %s while dumping", ev.Kind)
		}
	}
}

func dumpPath(ev StreamEvent) string {
	switch {
	case ev.HasName && ev.HasOrdinal:
		return fmt.Sprintf("%s(%d)", ev.Name, ev.Ordinal)
	case ev.HasName:
		return ev.Name
	case ev.HasOrdinal:
		return fmt.Sprintf("(%d)", ev.Ordinal)
	default:
		return "<unnamed>"
	}
}

func dumpValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case []byte:
		return fmt.Sprintf("%d bytes", len(x))
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
