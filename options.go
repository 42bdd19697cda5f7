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

import "github.com/sirupsen/logrus"

// DictionaryOption configures NewDictionary.
type DictionaryOption struct{ apply func(*dictionaryOptions) }

type dictionaryOptions struct {
	logger *logrus.Entry
}

func defaultDictionaryOptions() dictionaryOptions {
	return dictionaryOptions{logger: logrus.NewEntry(logrus.StandardLogger())}
}

// WithDictionaryLogger overrides the logrus entry the dictionary logs
// registration events to. The default uses logrus's standard logger.
func WithDictionaryLogger(log *logrus.Entry) DictionaryOption {
	return DictionaryOption{func(o *dictionaryOptions) { o.logger = log }}
}

// ReaderOption configures NewStreamReader.
type ReaderOption struct{ apply func(*readerOptions) }

type readerOptions struct {
	resolver       TaxonomyResolver
	maxDepth       int
	enforceThread  bool
	logger         *logrus.Entry
}

func defaultReaderOptions() readerOptions {
	return readerOptions{
		resolver:      NoTaxonomy,
		maxDepth:      64,
		enforceThread: true,
		logger:        logrus.NewEntry(logrus.StandardLogger()),
	}
}

// WithTaxonomyResolver supplies the resolver used to turn an envelope's
// taxonomy id into name/ordinal tables.
func WithTaxonomyResolver(r TaxonomyResolver) ReaderOption {
	return ReaderOption{func(o *readerOptions) { o.resolver = r }}
}

// WithMaxDepth bounds sub-message recursion depth. Exceeding it fails with
// MalformedStream rather than overflowing the call stack.
func WithMaxDepth(depth int) ReaderOption {
	return ReaderOption{func(o *readerOptions) { o.maxDepth = depth }}
}

// WithoutThreadAffinity disables the goroutine-affinity guard (spec.md §5:
// "a reader or writer is bound to one logical thread while active"). Tests
// that intentionally hand a reader across goroutines should use this.
func WithoutThreadAffinity() ReaderOption {
	return ReaderOption{func(o *readerOptions) { o.enforceThread = false }}
}

// WithReaderLogger overrides the logrus entry held in the reader's
// options. The reader does not log; malformed-stream errors are returned.
func WithReaderLogger(log *logrus.Entry) ReaderOption {
	return ReaderOption{func(o *readerOptions) { o.logger = log }}
}

// WriterOption configures NewStreamWriter.
type WriterOption struct{ apply func(*writerOptions) }

type writerOptions struct {
	taxonomy      Taxonomy
	taxonomyID    int16
	enforceThread bool
	logger        *logrus.Entry
}

func defaultWriterOptions() writerOptions {
	return writerOptions{
		taxonomy:      nil,
		taxonomyID:    0,
		enforceThread: true,
		logger:        logrus.NewEntry(logrus.StandardLogger()),
	}
}

// WithTaxonomy sets the taxonomy used for name-to-ordinal compression
// (spec.md §4.4) and the taxonomy id stamped into the envelope.
func WithTaxonomy(id int16, t Taxonomy) WriterOption {
	return WriterOption{func(o *writerOptions) { o.taxonomyID = id; o.taxonomy = t }}
}

// WithoutWriterThreadAffinity disables the goroutine-affinity guard.
func WithoutWriterThreadAffinity() WriterOption {
	return WriterOption{func(o *writerOptions) { o.enforceThread = false }}
}

// WithWriterLogger overrides the logrus entry held in the writer's
// options. The writer does not log; errors are returned.
func WithWriterLogger(log *logrus.Entry) WriterOption {
	return WriterOption{func(o *writerOptions) { o.logger = log }}
}

// BuilderRegistryOption configures NewBuilderRegistry.
type BuilderRegistryOption struct{ apply func(*builderRegistryOptions) }

type builderRegistryOptions struct {
	logger *logrus.Entry
}

func defaultBuilderRegistryOptions() builderRegistryOptions {
	return builderRegistryOptions{logger: logrus.NewEntry(logrus.StandardLogger())}
}

// WithBuilderRegistryLogger overrides the logrus entry used for builder
// registration/lookup diagnostics.
func WithBuilderRegistryLogger(log *logrus.Entry) BuilderRegistryOption {
	return BuilderRegistryOption{func(o *builderRegistryOptions) { o.logger = log }}
}

// SerializerOption configures NewSerializer.
type SerializerOption struct{ apply func(*serializerOptions) }

type serializerOptions struct {
	logger *logrus.Entry
}

func defaultSerializerOptions() serializerOptions {
	return serializerOptions{logger: logrus.NewEntry(logrus.StandardLogger())}
}

// WithSerializerLogger overrides the logrus entry held by the Serializer.
// The Serializer does not log; errors are returned.
func WithSerializerLogger(log *logrus.Entry) SerializerOption {
	return SerializerOption{func(o *serializerOptions) { o.logger = log }}
}

// DeserializerOption configures NewDeserializer.
type DeserializerOption struct{ apply func(*deserializerOptions) }

type deserializerOptions struct {
	logger *logrus.Entry
}

func defaultDeserializerOptions() deserializerOptions {
	return deserializerOptions{logger: logrus.NewEntry(logrus.StandardLogger())}
}

// WithDeserializerLogger overrides the logrus entry held by the
// Deserializer. The Deserializer does not log; errors are returned.
func WithDeserializerLogger(log *logrus.Entry) DeserializerOption {
	return DeserializerOption{func(o *deserializerOptions) { o.logger = log }}
}
