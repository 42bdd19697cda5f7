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
	"bytes"
	"io"

	"github.com/fudgemsg/fudge-go/internal/mutf8"
	"github.com/fudgemsg/fudge-go/internal/sync2"
	"github.com/fudgemsg/fudge-go/internal/wire"
)

// StreamWriter mirrors StreamReader's event vocabulary for encoding
// (spec.md §4.4). Because a sub-message's on-wire length must be written
// before its payload, the writer buffers each nesting level into a
// per-depth scratch buffer (drawn from a pool) and copies it into its
// parent once the level closes — the "buffered" strategy of the two
// documented options in spec.md §9.
type StreamWriter struct {
	sink io.Writer
	dict *Dictionary

	cfg   writerOptions
	guard threadGuard

	pool *sync2.Pool[bytes.Buffer]

	levels       []writerLevel
	envelopeOpen bool
	pendingEnv   Envelope
}

type writerLevel struct {
	buf  *bytes.Buffer
	w    *wire.Writer
	drop func()

	// Populated for sub-message levels only (not the envelope's depth-0
	// level): the field header to frame around the level's buffered body
	// once it closes, already taxonomy-compressed.
	name       string
	hasName    bool
	ordinal    int16
	hasOrdinal bool
}

// NewStreamWriter constructs a StreamWriter writing to sink.
func NewStreamWriter(sink io.Writer, dict *Dictionary, opts ...WriterOption) *StreamWriter {
	cfg := defaultWriterOptions()
	for _, o := range opts {
		o.apply(&cfg)
	}
	return &StreamWriter{
		sink:  sink,
		dict:  dict,
		cfg:   cfg,
		guard: newThreadGuard(cfg.enforceThread),
		pool: &sync2.Pool[bytes.Buffer]{
			New:   func() *bytes.Buffer { return new(bytes.Buffer) },
			Reset: func(b *bytes.Buffer) { b.Reset() },
		},
	}
}

// WriteEnvelopeStart begins a new envelope. Its TotalSize field is ignored
// and recomputed from the buffered body once WriteEnvelopeEnd is called.
func (s *StreamWriter) WriteEnvelopeStart(env Envelope) error {
	if err := s.guard.enter(); err != nil {
		return err
	}
	if s.envelopeOpen {
		return errUnsupportedFeature("WriteEnvelopeStart called while an envelope is already open")
	}
	buf, drop := s.pool.Get()
	s.levels = append(s.levels, writerLevel{buf: buf, w: wire.NewWriter(buf), drop: drop})
	s.envelopeOpen = true
	s.pendingEnv = env
	return nil
}

// WriteSubMessageStart opens a nested sub-message level.
func (s *StreamWriter) WriteSubMessageStart(name string, hasName bool, ordinal int16, hasOrdinal bool) error {
	if err := s.guard.enter(); err != nil {
		return err
	}
	if !s.envelopeOpen {
		return errUnsupportedFeature("WriteSubMessageStart called outside an open envelope")
	}
	name, hasName, ordinal, hasOrdinal = s.compress(name, hasName, ordinal, hasOrdinal)
	buf, drop := s.pool.Get()
	s.levels = append(s.levels, writerLevel{
		buf: buf, w: wire.NewWriter(buf), drop: drop,
		name: name, hasName: hasName, ordinal: ordinal, hasOrdinal: hasOrdinal,
	})
	return nil
}

// WriteSubMessageEnd closes the innermost open sub-message level, framing
// its buffered body into the parent level.
func (s *StreamWriter) WriteSubMessageEnd() error {
	if err := s.guard.enter(); err != nil {
		return err
	}
	if len(s.levels) < 2 {
		return errUnsupportedFeature("WriteSubMessageEnd called without a matching WriteSubMessageStart")
	}
	popped := s.levels[len(s.levels)-1]
	s.levels = s.levels[:len(s.levels)-1]
	parent := s.levels[len(s.levels)-1]

	body := popped.buf.Bytes()
	err := s.writePrefixAndHeader(parent.w, popped.hasName, popped.name, popped.hasOrdinal, popped.ordinal,
		TypeSubMessage, false, 0, len(body))
	if err == nil {
		err = parent.w.Bytes(body)
		if err != nil {
			err = errIoFailure(err)
		}
	}
	popped.drop()
	return err
}

// WriteEnvelopeEnd closes the envelope, writing the 8-byte header followed
// by the buffered body to the underlying sink.
func (s *StreamWriter) WriteEnvelopeEnd() error {
	if err := s.guard.enter(); err != nil {
		return err
	}
	if !s.envelopeOpen || len(s.levels) != 1 {
		return errUnsupportedFeature("WriteEnvelopeEnd called without a matching WriteEnvelopeStart")
	}
	level := s.levels[0]
	s.levels = nil
	s.envelopeOpen = false
	defer level.drop()

	body := level.buf.Bytes()
	total := uint32(EnvelopeHeaderSize + len(body))
	pd := s.pendingEnv.ProcessingDirectives
	if pd == 0 {
		pd = ProcessingDirectiveFramed
	}

	hdr := wire.NewWriter(s.sink)
	if err := hdr.Byte(pd); err != nil {
		return errIoFailure(err)
	}
	if err := hdr.Byte(s.pendingEnv.SchemaVersion); err != nil {
		return errIoFailure(err)
	}
	if err := hdr.Int16(s.taxonomyIDFor()); err != nil {
		return errIoFailure(err)
	}
	if err := hdr.Uint32(total); err != nil {
		return errIoFailure(err)
	}
	if _, err := s.sink.Write(body); err != nil {
		return errIoFailure(err)
	}
	return nil
}

func (s *StreamWriter) taxonomyIDFor() int16 {
	if s.pendingEnv.TaxonomyID != 0 {
		return s.pendingEnv.TaxonomyID
	}
	return s.cfg.taxonomyID
}

// WriteSimpleField writes one non-sub-message field into the currently
// open level.
func (s *StreamWriter) WriteSimpleField(name string, hasName bool, ordinal int16, hasOrdinal bool, wt WireType, value any) error {
	if err := s.guard.enter(); err != nil {
		return err
	}
	if len(s.levels) == 0 {
		return errUnsupportedFeature("WriteSimpleField called outside an open envelope")
	}
	name, hasName, ordinal, hasOrdinal = s.compress(name, hasName, ordinal, hasOrdinal)
	top := s.levels[len(s.levels)-1]
	return s.encodeValue(top.w, hasName, name, hasOrdinal, ordinal, wt, value)
}

// WriteField writes a Field, recursing through WriteSubMessageStart/End for
// sub-message fields.
func (s *StreamWriter) WriteField(f Field) error {
	name, hasName := f.Name()
	ordinal, hasOrdinal := f.Ordinal()
	if f.IsSubMessage() {
		sub, _ := f.SubMessage()
		if err := s.WriteSubMessageStart(name, hasName, ordinal, hasOrdinal); err != nil {
			return err
		}
		for _, child := range sub.Fields() {
			if err := s.WriteField(child); err != nil {
				return err
			}
		}
		return s.WriteSubMessageEnd()
	}
	return s.WriteSimpleField(name, hasName, ordinal, hasOrdinal, f.WireType(), f.Value())
}

// WriteAllFields writes each field of fields in order, the convenience
// operation named in spec.md §4.4.
func (s *StreamWriter) WriteAllFields(fields []Field) error {
	for _, f := range fields {
		if err := s.WriteField(f); err != nil {
			return err
		}
	}
	return nil
}

// WriteMessage is a convenience wrapping a full envelope write around msg's
// fields.
func (s *StreamWriter) WriteMessage(env Envelope, msg *MutableMessage) error {
	if err := s.WriteEnvelopeStart(env); err != nil {
		return err
	}
	if err := s.WriteAllFields(msg.Fields()); err != nil {
		return err
	}
	return s.WriteEnvelopeEnd()
}

// compress implements the writer's taxonomy compression (spec.md §4.4):
// when the current taxonomy is non-zero and a field has a name but no
// ordinal and the taxonomy contains an ordinal for that name, the name is
// replaced by the ordinal.
func (s *StreamWriter) compress(name string, hasName bool, ordinal int16, hasOrdinal bool) (string, bool, int16, bool) {
	if s.cfg.taxonomy == nil || !hasName || hasOrdinal {
		return name, hasName, ordinal, hasOrdinal
	}
	if o, ok := s.cfg.taxonomy.OrdinalFor(name); ok {
		return "", false, o, true
	}
	return name, hasName, ordinal, hasOrdinal
}

func (s *StreamWriter) writePrefixAndHeader(w *wire.Writer, hasName bool, name string, hasOrdinal bool, ordinal int16, typeID WireTypeID, fixedWidth bool, _ int, varLen int) error {
	var lenEnc wire.LengthEncoding
	if !fixedWidth {
		var err error
		lenEnc, err = wire.EncodingFor(varLen)
		if err != nil {
			return errMalformed(-1, "value too large to encode: %v", err)
		}
	}
	prefix := wire.Prefix{FixedWidth: fixedWidth, Length: lenEnc, HasOrdinal: hasOrdinal, HasName: hasName}
	if err := w.Byte(prefix.Encode()); err != nil {
		return errIoFailure(err)
	}
	if err := w.Byte(byte(typeID)); err != nil {
		return errIoFailure(err)
	}
	if hasOrdinal {
		if err := w.Int16(ordinal); err != nil {
			return errIoFailure(err)
		}
	}
	if hasName {
		nb := mutf8.Encode(nil, name)
		if len(nb) > MaxNameBytes {
			return errMalformed(-1, "field name encodes to %d bytes, exceeds %d", len(nb), MaxNameBytes)
		}
		if err := w.Byte(byte(len(nb))); err != nil {
			return errIoFailure(err)
		}
		if err := w.Bytes(nb); err != nil {
			return errIoFailure(err)
		}
	}
	if !fixedWidth {
		if err := w.LengthByEncoding(lenEnc, varLen); err != nil {
			return errIoFailure(err)
		}
	}
	return nil
}

func (s *StreamWriter) encodeValue(w *wire.Writer, hasName bool, name string, hasOrdinal bool, ordinal int16, wt WireType, value any) error {
	fixedWidth := wt.Fixed
	var varLen int
	if !fixedWidth {
		var err error
		varLen, err = valueLength(wt, value)
		if err != nil {
			return err
		}
	}
	if err := s.writePrefixAndHeader(w, hasName, name, hasOrdinal, ordinal, wt.ID, fixedWidth, wt.Width, varLen); err != nil {
		return err
	}
	if err := writePayload(w, wt, value); err != nil {
		return err
	}
	return nil
}

func valueLength(wt WireType, value any) (int, error) {
	switch wt.ID {
	case TypeByteArray:
		return len(value.([]byte)), nil
	case TypeShortArray:
		return len(value.([]int16)) * 2, nil
	case TypeIntArray:
		return len(value.([]int32)) * 4, nil
	case TypeLongArray:
		return len(value.([]int64)) * 8, nil
	case TypeFloatArray:
		return len(value.([]float32)) * 4, nil
	case TypeDoubleArray:
		return len(value.([]float64)) * 8, nil
	case TypeString:
		return mutf8.EncodedLen(value.(string)), nil
	default:
		if b, ok := value.([]byte); ok {
			return len(b), nil
		}
		return 0, errConversionUnavailable("cannot determine on-wire length for wire type %s", wt)
	}
}

func writePayload(w *wire.Writer, wt WireType, value any) error {
	var err error
	switch wt.ID {
	case TypeIndicator:
		return nil
	case TypeBool:
		b := byte(0)
		if value.(bool) {
			b = 1
		}
		err = w.Byte(b)
	case TypeByte:
		err = w.Byte(byte(value.(int8)))
	case TypeShort:
		err = w.Int16(value.(int16))
	case TypeInt:
		err = w.Int32(value.(int32))
	case TypeLong:
		err = w.Int64(value.(int64))
	case TypeFloat:
		err = w.Float32(value.(float32))
	case TypeDouble:
		err = w.Float64(value.(float64))
	case TypeByteArray:
		err = w.Bytes(value.([]byte))
	case TypeShortArray:
		for _, v := range value.([]int16) {
			if err = w.Int16(v); err != nil {
				break
			}
		}
	case TypeIntArray:
		for _, v := range value.([]int32) {
			if err = w.Int32(v); err != nil {
				break
			}
		}
	case TypeLongArray:
		for _, v := range value.([]int64) {
			if err = w.Int64(v); err != nil {
				break
			}
		}
	case TypeFloatArray:
		for _, v := range value.([]float32) {
			if err = w.Float32(v); err != nil {
				break
			}
		}
	case TypeDoubleArray:
		for _, v := range value.([]float64) {
			if err = w.Float64(v); err != nil {
				break
			}
		}
	case TypeString:
		err = w.Bytes(mutf8.Encode(nil, value.(string)))
	case TypeDate:
		b := value.(Date).Encode()
		err = w.Bytes(b[:])
	case TypeTime:
		b := value.(Time).Encode()
		err = w.Bytes(b[:])
	case TypeDateTime:
		b := value.(DateTime).Encode()
		err = w.Bytes(b[:])
	default:
		if b, ok := value.([]byte); ok {
			err = w.Bytes(b)
		} else {
			return errConversionUnavailable("cannot encode value of wire type %s", wt)
		}
	}
	if err != nil {
		return errIoFailure(err)
	}
	return nil
}
