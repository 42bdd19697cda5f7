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
)

const (
	errCodeOk errCode = iota
	errCodeMalformedStream
	errCodeTruncatedStream
	errCodeInvalidOrdinal
	errCodeConversionUnavailable
	errCodeNoBuilder
	errCodeCyclicReference
	errCodeUnsupportedFeature
	errCodeAlreadyRegistered
	errCodeIoFailure
)

type errCode int

// Sentinel errors, one per error kind in spec.md §7. Use errors.Is against
// these, or errors.As against *Error to recover the offset.
var (
	MalformedStream       = errors.New("fudge: malformed stream")
	TruncatedStream       = errors.New("fudge: truncated stream")
	InvalidOrdinal        = errors.New("fudge: ordinal outside signed 16-bit range")
	ConversionUnavailable = errors.New("fudge: type dictionary cannot satisfy requested host type")
	NoBuilder             = errors.New("fudge: no builder registered or generated for this type")
	CyclicReference       = errors.New("fudge: cyclic object reference detected")
	UnsupportedFeature    = errors.New("fudge: unsupported feature")
	AlreadyRegistered     = errors.New("fudge: conflicting registration")
	IoFailure             = errors.New("fudge: underlying I/O failed")
)

var sentinels = [...]error{
	errCodeOk:                    nil,
	errCodeMalformedStream:       MalformedStream,
	errCodeTruncatedStream:       TruncatedStream,
	errCodeInvalidOrdinal:        InvalidOrdinal,
	errCodeConversionUnavailable: ConversionUnavailable,
	errCodeNoBuilder:             NoBuilder,
	errCodeCyclicReference:       CyclicReference,
	errCodeUnsupportedFeature:    UnsupportedFeature,
	errCodeAlreadyRegistered:     AlreadyRegistered,
	errCodeIoFailure:             IoFailure,
}

// Error is the error type returned by this package's fallible operations.
// It carries an approximate byte offset for wire-level failures (-1 when
// not applicable) and wraps one of the sentinel errors above.
type Error struct {
	code   errCode
	offset int64
	detail string
}

// Offset returns the approximate byte offset into the stream at which the
// error occurred, or -1 if the error is not associated with a stream
// position.
func (e *Error) Offset() int64 { return e.offset }

// Unwrap allows errors.Is(err, fudge.MalformedStream) and similar checks
// against the sentinels declared above.
func (e *Error) Unwrap() error { return sentinels[e.code] }

// Error implements the error interface.
func (e *Error) Error() string {
	if e.offset >= 0 {
		return fmt.Sprintf("fudge: %v at offset %d: %s", e.Unwrap(), e.offset, e.detail)
	}
	if e.detail == "" {
		return fmt.Sprintf("fudge: %v", e.Unwrap())
	}
	return fmt.Sprintf("fudge: %v: %s", e.Unwrap(), e.detail)
}

func newErr(code errCode, detail string) *Error {
	return &Error{code: code, offset: -1, detail: detail}
}

func newErrAt(code errCode, offset int64, detail string) *Error {
	return &Error{code: code, offset: offset, detail: detail}
}

func errMalformed(offset int64, format string, args ...any) error {
	return newErrAt(errCodeMalformedStream, offset, fmt.Sprintf(format, args...))
}

func errTruncated(offset int64, format string, args ...any) error {
	return newErrAt(errCodeTruncatedStream, offset, fmt.Sprintf(format, args...))
}

func errInvalidOrdinal(ordinal int32) error {
	return newErr(errCodeInvalidOrdinal, fmt.Sprintf("ordinal %d out of range [-32768, 32767]", ordinal))
}

func errConversionUnavailable(format string, args ...any) error {
	return newErr(errCodeConversionUnavailable, fmt.Sprintf(format, args...))
}

func errNoBuilder(format string, args ...any) error {
	return newErr(errCodeNoBuilder, fmt.Sprintf(format, args...))
}

func errCyclicReference(format string, args ...any) error {
	return newErr(errCodeCyclicReference, fmt.Sprintf(format, args...))
}

func errUnsupportedFeature(format string, args ...any) error {
	return newErr(errCodeUnsupportedFeature, fmt.Sprintf(format, args...))
}

func errAlreadyRegistered(format string, args ...any) error {
	return newErr(errCodeAlreadyRegistered, fmt.Sprintf(format, args...))
}

func errIoFailure(cause error) error {
	e := newErr(errCodeIoFailure, cause.Error())
	return e
}
