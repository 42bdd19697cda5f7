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

package fudge_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fudgemsg/fudge-go"
)

func TestWithoutWriterThreadAffinityAllowsCrossGoroutineUse(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.Add(int64(1)))

	var buf bytes.Buffer
	w := fudge.NewStreamWriter(&buf, dict, fudge.WithoutWriterThreadAffinity())

	done := make(chan error, 1)
	go func() {
		done <- w.WriteMessage(fudge.NewEnvelope(0, 0), msg)
	}()
	require.NoError(t, <-done)
}

func TestWithoutThreadAffinityAllowsCrossGoroutineUse(t *testing.T) {
	t.Parallel()
	dict := fudge.NewDictionary()
	msg := fudge.NewMutableMessage(dict)
	require.NoError(t, msg.Add(int64(1)))

	var buf bytes.Buffer
	w := fudge.NewStreamWriter(&buf, dict)
	require.NoError(t, w.WriteMessage(fudge.NewEnvelope(0, 0), msg))

	r := fudge.NewStreamReader(&buf, dict, fudge.WithoutThreadAffinity())
	_, err := r.Next()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := r.Next()
		done <- err
	}()
	require.NoError(t, <-done)
}

func TestDictionaryLoggerOptionIsApplied(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logrus.New()
	logger.Out = &buf
	logger.SetLevel(logrus.DebugLevel)
	entry := logrus.NewEntry(logger)

	dict := fudge.NewDictionary(fudge.WithDictionaryLogger(entry))
	require.NoError(t, dict.RegisterWireType(fudge.WireType{ID: 210, Name: "custom"}))
	assert.Contains(t, buf.String(), "registered wire type")
}
