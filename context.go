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
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Context bundles the three registries an application wires together once
// and shares across every stream it reads or writes: the type Dictionary,
// the BuilderRegistry, and a TaxonomyResolver. It is the top-level
// entrypoint of this package, the way a fudge-java FudgeContext is.
//
// Every Context is tagged with a random correlation id (github.com/
// google/uuid), attached to every log entry it or anything it constructs
// emits, so that log lines from concurrent contexts in the same process
// can be told apart.
type Context struct {
	id       string
	dict     *Dictionary
	builders *BuilderRegistry
	resolver TaxonomyResolver
	log      *logrus.Entry
}

// ContextOption configures NewContext.
type ContextOption struct{ apply func(*contextOptions) }

type contextOptions struct {
	resolver TaxonomyResolver
	logger   *logrus.Entry
}

func defaultContextOptions() contextOptions {
	return contextOptions{resolver: NoTaxonomy, logger: logrus.NewEntry(logrus.StandardLogger())}
}

// WithContextTaxonomyResolver sets the resolver new readers built from
// this Context default to.
func WithContextTaxonomyResolver(r TaxonomyResolver) ContextOption {
	return ContextOption{func(o *contextOptions) { o.resolver = r }}
}

// WithContextLogger overrides the base logrus entry the Context, and
// everything it constructs, logs through.
func WithContextLogger(log *logrus.Entry) ContextOption {
	return ContextOption{func(o *contextOptions) { o.logger = log }}
}

// NewContext constructs a Context with a fresh Dictionary and
// BuilderRegistry, ready to register domain types against.
func NewContext(opts ...ContextOption) *Context {
	cfg := defaultContextOptions()
	for _, o := range opts {
		o.apply(&cfg)
	}
	id := uuid.NewString()
	log := cfg.logger.WithField("context", id)

	dict := NewDictionary(WithDictionaryLogger(log))
	builders := NewBuilderRegistry(dict, WithBuilderRegistryLogger(log))
	return &Context{id: id, dict: dict, builders: builders, resolver: cfg.resolver, log: log}
}

// ID returns the Context's correlation id.
func (c *Context) ID() string { return c.id }

// Dictionary returns the Context's type dictionary.
func (c *Context) Dictionary() *Dictionary { return c.dict }

// Builders returns the Context's builder registry.
func (c *Context) Builders() *BuilderRegistry { return c.builders }

// Serializer constructs a Serializer bound to this Context's dictionary
// and builder registry.
func (c *Context) Serializer(opts ...SerializerOption) *Serializer {
	opts = append([]SerializerOption{WithSerializerLogger(c.log)}, opts...)
	return NewSerializer(c.dict, c.builders, opts...)
}

// Deserializer constructs a Deserializer bound to this Context's
// dictionary and builder registry.
func (c *Context) Deserializer(opts ...DeserializerOption) *Deserializer {
	opts = append([]DeserializerOption{WithDeserializerLogger(c.log)}, opts...)
	return NewDeserializer(c.dict, c.builders, opts...)
}

// Reader constructs a StreamReader over r, defaulting to this Context's
// taxonomy resolver.
func (c *Context) Reader(r io.Reader, opts ...ReaderOption) *StreamReader {
	opts = append([]ReaderOption{WithTaxonomyResolver(c.resolver), WithReaderLogger(c.log)}, opts...)
	return NewStreamReader(r, c.dict, opts...)
}

// Writer constructs a StreamWriter over w, bound to this Context's
// dictionary.
func (c *Context) Writer(w io.Writer, opts ...WriterOption) *StreamWriter {
	opts = append([]WriterOption{WithWriterLogger(c.log)}, opts...)
	return NewStreamWriter(w, c.dict, opts...)
}

// ObjectToMessage is a convenience wrapper for Context.Serializer(...).ObjectToMessage.
func (c *Context) ObjectToMessage(obj any) (*MutableMessage, error) {
	return c.Serializer().ObjectToMessage(obj)
}

// MessageToObject is a convenience wrapper for Context.Deserializer(...).MessageToObject.
func (c *Context) MessageToObject(msg *MutableMessage) (any, error) {
	return c.Deserializer().MessageToObject(msg)
}
