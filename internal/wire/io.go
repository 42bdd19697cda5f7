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

package wire

import (
	"encoding/binary"
	"io"
	"math"
)

// Reader wraps an io.Reader and tracks the number of bytes consumed, which
// the stream codec needs to maintain its per-depth frame accounting.
type Reader struct {
	r       io.Reader
	scratch [8]byte
	n       int64
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

// Consumed returns the total number of bytes read so far.
func (r *Reader) Consumed() int64 { return r.n }

func (r *Reader) readFull(buf []byte) error {
	n, err := io.ReadFull(r.r, buf)
	r.n += int64(n)
	return err
}

// Byte reads a single unsigned byte.
func (r *Reader) Byte() (byte, error) {
	if err := r.readFull(r.scratch[:1]); err != nil {
		return 0, err
	}
	return r.scratch[0], nil
}

// Bytes reads exactly n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Uint16 reads a big-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.readFull(r.scratch[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.scratch[:2]), nil
}

// Int16 reads a big-endian signed 16-bit integer.
func (r *Reader) Int16() (int16, error) {
	u, err := r.Uint16()
	return int16(u), err
}

// Uint32 reads a big-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.readFull(r.scratch[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.scratch[:4]), nil
}

// Int32 reads a big-endian signed 32-bit integer.
func (r *Reader) Int32() (int32, error) {
	u, err := r.Uint32()
	return int32(u), err
}

// Uint64 reads a big-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	if err := r.readFull(r.scratch[:8]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(r.scratch[:8]), nil
}

// Int64 reads a big-endian signed 64-bit integer.
func (r *Reader) Int64() (int64, error) {
	u, err := r.Uint64()
	return int64(u), err
}

// Float32 reads a big-endian IEEE 754 single-precision float.
func (r *Reader) Float32() (float32, error) {
	u, err := r.Uint32()
	return math.Float32frombits(u), err
}

// Float64 reads a big-endian IEEE 754 double-precision float.
func (r *Reader) Float64() (float64, error) {
	u, err := r.Uint64()
	return math.Float64frombits(u), err
}

// LengthByEncoding reads the variable-width value length, per the number of
// bytes l.LengthByteCount() dictates.
func (r *Reader) LengthByEncoding(l LengthEncoding) (int, error) {
	switch l {
	case LengthFixed:
		return 0, nil
	case Length1:
		b, err := r.Byte()
		return int(b), err
	case Length2:
		u, err := r.Uint16()
		return int(u), err
	case Length4:
		u, err := r.Uint32()
		return int(u), err
	default:
		return 0, io.ErrUnexpectedEOF
	}
}

// Writer wraps an io.Writer and tracks the number of bytes written.
type Writer struct {
	w       io.Writer
	scratch [8]byte
	n       int64
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Written returns the total number of bytes written so far.
func (w *Writer) Written() int64 { return w.n }

func (w *Writer) write(buf []byte) error {
	n, err := w.w.Write(buf)
	w.n += int64(n)
	return err
}

// Byte writes a single unsigned byte.
func (w *Writer) Byte(b byte) error {
	w.scratch[0] = b
	return w.write(w.scratch[:1])
}

// Bytes writes raw bytes verbatim.
func (w *Writer) Bytes(b []byte) error { return w.write(b) }

// Uint16 writes a big-endian uint16.
func (w *Writer) Uint16(v uint16) error {
	binary.BigEndian.PutUint16(w.scratch[:2], v)
	return w.write(w.scratch[:2])
}

// Int16 writes a big-endian signed 16-bit integer.
func (w *Writer) Int16(v int16) error { return w.Uint16(uint16(v)) }

// Uint32 writes a big-endian uint32.
func (w *Writer) Uint32(v uint32) error {
	binary.BigEndian.PutUint32(w.scratch[:4], v)
	return w.write(w.scratch[:4])
}

// Int32 writes a big-endian signed 32-bit integer.
func (w *Writer) Int32(v int32) error { return w.Uint32(uint32(v)) }

// Uint64 writes a big-endian uint64.
func (w *Writer) Uint64(v uint64) error {
	binary.BigEndian.PutUint64(w.scratch[:8], v)
	return w.write(w.scratch[:8])
}

// Int64 writes a big-endian signed 64-bit integer.
func (w *Writer) Int64(v int64) error { return w.Uint64(uint64(v)) }

// Float32 writes a big-endian IEEE 754 single-precision float.
func (w *Writer) Float32(v float32) error { return w.Uint32(math.Float32bits(v)) }

// Float64 writes a big-endian IEEE 754 double-precision float.
func (w *Writer) Float64(v float64) error { return w.Uint64(math.Float64bits(v)) }

// LengthByEncoding writes n using the byte width implied by l.
func (w *Writer) LengthByEncoding(l LengthEncoding, n int) error {
	switch l {
	case LengthFixed:
		return nil
	case Length1:
		return w.Byte(byte(n))
	case Length2:
		return w.Uint16(uint16(n))
	case Length4:
		return w.Uint32(uint32(n))
	default:
		return io.ErrUnexpectedEOF
	}
}
