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
	"io"

	"github.com/fudgemsg/fudge-go/internal/mutf8"
	"github.com/fudgemsg/fudge-go/internal/wire"
)

// EventKind discriminates a StreamEvent (spec.md §4.4).
type EventKind int

const (
	EventEnvelopeStart EventKind = iota
	EventSimpleField
	EventSubMessageStart
	EventSubMessageEnd
	EventEnvelopeEnd
)

func (k EventKind) String() string {
	switch k {
	case EventEnvelopeStart:
		return "EnvelopeStart"
	case EventSimpleField:
		return "SimpleField"
	case EventSubMessageStart:
		return "SubMessageStart"
	case EventSubMessageEnd:
		return "SubMessageEnd"
	case EventEnvelopeEnd:
		return "EnvelopeEnd"
	default:
		return "Unknown"
	}
}

// StreamEvent is one event of the lazy event sequence a StreamReader
// produces (spec.md §4.4). Only the fields relevant to Kind are populated.
type StreamEvent struct {
	Kind EventKind

	Envelope Envelope // EventEnvelopeStart

	Name       string // EventSimpleField, EventSubMessageStart
	HasName    bool
	Ordinal    int16
	HasOrdinal bool

	WireType WireType // EventSimpleField
	Value    any      // EventSimpleField
}

type readerFrame struct {
	declared int64
	startPos int64
}

// StreamReader produces a lazy sequence of StreamEvents over a byte source
// (spec.md §4.4). It is bound to the goroutine that first calls Next, per
// the single-threaded-per-stream scheduling model of spec.md §5.
type StreamReader struct {
	r    *wire.Reader
	dict *Dictionary

	cfg readerOptions
	guard threadGuard

	started  bool
	done     bool
	frames   []readerFrame
	pending  []StreamEvent
	taxonomy Taxonomy
}

// NewStreamReader constructs a StreamReader reading from r and resolving
// wire types against dict.
func NewStreamReader(r io.Reader, dict *Dictionary, opts ...ReaderOption) *StreamReader {
	cfg := defaultReaderOptions()
	for _, o := range opts {
		o.apply(&cfg)
	}
	return &StreamReader{
		r:     wire.NewReader(r),
		dict:  dict,
		cfg:   cfg,
		guard: newThreadGuard(cfg.enforceThread),
	}
}

// CurrentTaxonomy returns the taxonomy resolved for the envelope currently
// being read, or (nil, false) if none was resolved (taxonomy id 0, or an
// id the resolver does not recognize).
func (s *StreamReader) CurrentTaxonomy() (Taxonomy, bool) {
	return s.taxonomy, s.taxonomy != nil
}

// Depth returns the current sub-message nesting depth (0 at the top level).
func (s *StreamReader) Depth() int { return len(s.frames) - 1 }

// Next produces the next StreamEvent. A clean end of input before any
// envelope byte is read returns (StreamEvent{}, io.EOF) with no error
// beyond that sentinel; every other form of end-of-input is surfaced as
// TruncatedStream.
func (s *StreamReader) Next() (StreamEvent, error) {
	if err := s.guard.enter(); err != nil {
		return StreamEvent{}, err
	}
	if len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		return ev, nil
	}
	if s.done {
		return StreamEvent{}, io.EOF
	}
	if !s.started {
		return s.readEnvelopeStart()
	}
	if len(s.frames) == 0 {
		s.done = true
		return StreamEvent{}, io.EOF
	}
	if s.Depth() >= s.cfg.maxDepth {
		return StreamEvent{}, errMalformed(s.r.Consumed(), "sub-message nesting exceeds max depth %d", s.cfg.maxDepth)
	}
	return s.readField()
}

func (s *StreamReader) wrapReadErr(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errTruncated(s.r.Consumed(), "truncated while reading %s", what)
	}
	return errIoFailure(err)
}

func (s *StreamReader) readEnvelopeStart() (StreamEvent, error) {
	pd, err := s.r.Byte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
			return StreamEvent{}, io.EOF
		}
		return StreamEvent{}, s.wrapReadErr(err, "processing directives")
	}
	sv, err := s.r.Byte()
	if err != nil {
		return StreamEvent{}, s.wrapReadErr(err, "schema version")
	}
	tax, err := s.r.Int16()
	if err != nil {
		return StreamEvent{}, s.wrapReadErr(err, "taxonomy id")
	}
	total, err := s.r.Uint32()
	if err != nil {
		return StreamEvent{}, s.wrapReadErr(err, "total size")
	}
	if int64(total) < EnvelopeHeaderSize {
		return StreamEvent{}, errMalformed(s.r.Consumed(), "envelope total size %d smaller than the %d-byte header", total, EnvelopeHeaderSize)
	}
	s.started = true
	s.frames = append(s.frames, readerFrame{declared: int64(total) - EnvelopeHeaderSize, startPos: s.r.Consumed()})
	if t, ok := s.cfg.resolver.Resolve(tax); ok {
		s.taxonomy = t
	}
	if err := s.enqueueFinishedFrames(); err != nil {
		return StreamEvent{}, err
	}
	return StreamEvent{Kind: EventEnvelopeStart, Envelope: Envelope{
		ProcessingDirectives: pd, SchemaVersion: sv, TaxonomyID: tax, TotalSize: total,
	}}, nil
}

func (s *StreamReader) readField() (StreamEvent, error) {
	prefixByte, err := s.r.Byte()
	if err != nil {
		return StreamEvent{}, s.wrapReadErr(err, "field prefix")
	}
	if wire.ReservedBitsSet(prefixByte) {
		return StreamEvent{}, errMalformed(s.r.Consumed()-1, "reserved bits set in field prefix byte 0x%02x", prefixByte)
	}
	prefix := wire.DecodePrefix(prefixByte)

	typeIDByte, err := s.r.Byte()
	if err != nil {
		return StreamEvent{}, s.wrapReadErr(err, "field type id")
	}
	wt := s.dict.WireTypeByID(WireTypeID(typeIDByte))

	var ordinal int16
	if prefix.HasOrdinal {
		ordinal, err = s.r.Int16()
		if err != nil {
			return StreamEvent{}, s.wrapReadErr(err, "field ordinal")
		}
	}

	var name string
	if prefix.HasName {
		nlen, err := s.r.Byte()
		if err != nil {
			return StreamEvent{}, s.wrapReadErr(err, "field name length")
		}
		nameBytes, err := s.r.Bytes(int(nlen))
		if err != nil {
			return StreamEvent{}, s.wrapReadErr(err, "field name")
		}
		name, err = mutf8.Decode(nameBytes)
		if err != nil {
			return StreamEvent{}, errMalformed(s.r.Consumed(), "invalid modified UTF-8 field name: %v", err)
		}
	}

	var length int
	if !prefix.FixedWidth {
		length, err = s.r.LengthByEncoding(prefix.Length)
		if err != nil {
			return StreamEvent{}, s.wrapReadErr(err, "field length")
		}
	} else {
		length = wt.Width
	}

	if wt.ID == TypeSubMessage {
		s.frames = append(s.frames, readerFrame{declared: int64(length), startPos: s.r.Consumed()})
		if err := s.enqueueFinishedFrames(); err != nil {
			return StreamEvent{}, err
		}
		return StreamEvent{Kind: EventSubMessageStart, Name: name, HasName: prefix.HasName, Ordinal: ordinal, HasOrdinal: prefix.HasOrdinal}, nil
	}

	value, err := s.readValue(wt, length, prefix.FixedWidth)
	if err != nil {
		return StreamEvent{}, err
	}
	if err := s.enqueueFinishedFrames(); err != nil {
		return StreamEvent{}, err
	}
	return StreamEvent{
		Kind: EventSimpleField, Name: name, HasName: prefix.HasName, Ordinal: ordinal, HasOrdinal: prefix.HasOrdinal,
		WireType: wt, Value: value,
	}, nil
}

// enqueueFinishedFrames pops every frame whose declared byte count has now
// been fully consumed, queuing the matching SubMessageEnd/EnvelopeEnd event
// for each (spec.md §4.4: "the reader maintains a stack of (declared_size,
// consumed_bytes) frames ... When consumed >= declared_size the reader pops
// and emits SubMessageEnd (or EnvelopeEnd)").
func (s *StreamReader) enqueueFinishedFrames() error {
	for len(s.frames) > 0 {
		top := s.frames[len(s.frames)-1]
		consumed := s.r.Consumed() - top.startPos
		if consumed < top.declared {
			break
		}
		if consumed > top.declared {
			return errMalformed(s.r.Consumed(), "field consumed %d bytes past its declared %d-byte frame", consumed-top.declared, top.declared)
		}
		s.frames = s.frames[:len(s.frames)-1]
		if len(s.frames) == 0 {
			s.pending = append(s.pending, StreamEvent{Kind: EventEnvelopeEnd})
		} else {
			s.pending = append(s.pending, StreamEvent{Kind: EventSubMessageEnd})
		}
	}
	return nil
}

// SkipSubMessage consumes and discards the remaining bytes of the current
// sub-message field, returning them as an opaque blob for later reparsing
// (spec.md §4.4). It must be called immediately after a SubMessageStart
// event, before any of that sub-message's fields have been read. No
// SubMessageEnd event is produced for the skipped sub-message.
func (s *StreamReader) SkipSubMessage() ([]byte, error) {
	if len(s.frames) == 0 {
		return nil, errUnsupportedFeature("SkipSubMessage called outside a sub-message")
	}
	top := s.frames[len(s.frames)-1]
	remaining := top.declared - (s.r.Consumed() - top.startPos)
	if remaining < 0 {
		return nil, errMalformed(s.r.Consumed(), "frame already over-consumed before SkipSubMessage")
	}
	b, err := s.r.Bytes(int(remaining))
	if err != nil {
		return nil, s.wrapReadErr(err, "skipped sub-message body")
	}
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
	if err := s.enqueueFinishedFrames(); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *StreamReader) readValue(wt WireType, length int, fixedWidth bool) (any, error) {
	if wt.Unknown {
		if fixedWidth {
			return nil, errMalformed(s.r.Consumed(), "unknown fixed-width type id %d", wt.ID)
		}
		b, err := s.r.Bytes(length)
		if err != nil {
			return nil, s.wrapReadErr(err, "unknown-type payload")
		}
		return b, nil
	}

	switch wt.ID {
	case TypeIndicator:
		return nil, nil
	case TypeBool:
		b, err := s.r.Byte()
		if err != nil {
			return nil, s.wrapReadErr(err, "boolean")
		}
		return b != 0, nil
	case TypeByte:
		b, err := s.r.Byte()
		if err != nil {
			return nil, s.wrapReadErr(err, "byte")
		}
		return int8(b), nil
	case TypeShort:
		v, err := s.r.Int16()
		if err != nil {
			return nil, s.wrapReadErr(err, "short")
		}
		return v, nil
	case TypeInt:
		v, err := s.r.Int32()
		if err != nil {
			return nil, s.wrapReadErr(err, "int")
		}
		return v, nil
	case TypeLong:
		v, err := s.r.Int64()
		if err != nil {
			return nil, s.wrapReadErr(err, "long")
		}
		return v, nil
	case TypeFloat:
		v, err := s.r.Float32()
		if err != nil {
			return nil, s.wrapReadErr(err, "float")
		}
		return v, nil
	case TypeDouble:
		v, err := s.r.Float64()
		if err != nil {
			return nil, s.wrapReadErr(err, "double")
		}
		return v, nil
	case TypeByteArray:
		return s.readRawBytes(length)
	case TypeShortArray:
		return s.readShortArray(length)
	case TypeIntArray:
		return s.readIntArray(length)
	case TypeLongArray:
		return s.readLongArray(length)
	case TypeFloatArray:
		return s.readFloatArray(length)
	case TypeDoubleArray:
		return s.readDoubleArray(length)
	case TypeString:
		b, err := s.r.Bytes(length)
		if err != nil {
			return nil, s.wrapReadErr(err, "string")
		}
		str, err := mutf8.Decode(b)
		if err != nil {
			return nil, errMalformed(s.r.Consumed(), "invalid modified UTF-8 string: %v", err)
		}
		return str, nil
	case TypeDate:
		var b [4]byte
		if err := s.readFixed(b[:]); err != nil {
			return nil, err
		}
		return DecodeDate(b), nil
	case TypeTime:
		var b [8]byte
		if err := s.readFixed(b[:]); err != nil {
			return nil, err
		}
		return DecodeTime(b), nil
	case TypeDateTime:
		var b [12]byte
		if err := s.readFixed(b[:]); err != nil {
			return nil, err
		}
		return DecodeDateTime(b), nil
	default:
		if wt.Fixed && wt.Width > 0 && wt.HostType == typeOfByteSlice {
			return s.readRawBytes(wt.Width)
		}
		return nil, errMalformed(s.r.Consumed(), "unsupported wire type id %d in decoder", wt.ID)
	}
}

func (s *StreamReader) readFixed(dst []byte) error {
	b, err := s.r.Bytes(len(dst))
	if err != nil {
		return s.wrapReadErr(err, "fixed-width value")
	}
	copy(dst, b)
	return nil
}

func (s *StreamReader) readRawBytes(n int) ([]byte, error) {
	b, err := s.r.Bytes(n)
	if err != nil {
		return nil, s.wrapReadErr(err, "byte array")
	}
	return b, nil
}

func (s *StreamReader) readShortArray(length int) ([]int16, error) {
	out := make([]int16, length/2)
	for i := range out {
		v, err := s.r.Int16()
		if err != nil {
			return nil, s.wrapReadErr(err, "short array")
		}
		out[i] = v
	}
	return out, nil
}

func (s *StreamReader) readIntArray(length int) ([]int32, error) {
	out := make([]int32, length/4)
	for i := range out {
		v, err := s.r.Int32()
		if err != nil {
			return nil, s.wrapReadErr(err, "int array")
		}
		out[i] = v
	}
	return out, nil
}

func (s *StreamReader) readLongArray(length int) ([]int64, error) {
	out := make([]int64, length/8)
	for i := range out {
		v, err := s.r.Int64()
		if err != nil {
			return nil, s.wrapReadErr(err, "long array")
		}
		out[i] = v
	}
	return out, nil
}

func (s *StreamReader) readFloatArray(length int) ([]float32, error) {
	out := make([]float32, length/4)
	for i := range out {
		v, err := s.r.Float32()
		if err != nil {
			return nil, s.wrapReadErr(err, "float array")
		}
		out[i] = v
	}
	return out, nil
}

func (s *StreamReader) readDoubleArray(length int) ([]float64, error) {
	out := make([]float64, length/8)
	for i := range out {
		v, err := s.r.Float64()
		if err != nil {
			return nil, s.wrapReadErr(err, "double array")
		}
		out[i] = v
	}
	return out, nil
}

// ReadMessage drains one full envelope from r into a *MutableMessage tree,
// applying the resolved taxonomy (if any) so that ordinal-only fields
// recover their names (spec.md §8 property 4, "taxonomy compression is
// lossless"). It returns io.EOF, unwrapped, when r is at a clean
// end-of-stream boundary.
func ReadMessage(r *StreamReader, dict *Dictionary) (Envelope, *MutableMessage, error) {
	ev, err := r.Next()
	if err != nil {
		return Envelope{}, nil, err
	}
	if ev.Kind != EventEnvelopeStart {
		return Envelope{}, nil, errMalformed(-1, "expected EnvelopeStart, got %s", ev.Kind)
	}
	env := ev.Envelope
	msg, err := readMessageBody(r, dict)
	if err != nil {
		return Envelope{}, nil, err
	}
	if t, ok := r.CurrentTaxonomy(); ok {
		msg.ApplyTaxonomy(t)
	}
	return env, msg, nil
}

func readMessageBody(r *StreamReader, dict *Dictionary) (*MutableMessage, error) {
	msg := NewMutableMessage(dict)
	for {
		ev, err := r.Next()
		if err != nil {
			return nil, err
		}
		switch ev.Kind {
		case EventSimpleField:
			if err := msg.AddField(ev.Name, ev.HasName, ev.Ordinal, ev.HasOrdinal, ev.WireType, ev.Value); err != nil {
				return nil, err
			}
		case EventSubMessageStart:
			sub, err := readMessageBody(r, dict)
			if err != nil {
				return nil, err
			}
			if err := msg.AddField(ev.Name, ev.HasName, ev.Ordinal, ev.HasOrdinal, dict.WireTypeByID(TypeSubMessage), sub); err != nil {
				return nil, err
			}
		case EventSubMessageEnd, EventEnvelopeEnd:
			return msg, nil
		default:
			return nil, errMalformed(-1, "unexpected event %s while reading message body", ev.Kind)
		}
	}
}
