// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracing wraps the optional OpenTelemetry tracer. Unless the
// OTEL_* environment asks for an exporter, a no-op tracer is installed and
// Run calls straight through.
//
// The tree operations open one span per walk root with the root path,
// the number of visited nodes and the number of failures as attributes.
package tracing

import "context"

// Span is a single timed operation.
type Span interface {
	SetAttribute(key string, value interface{})
	// RecordError marks the span as failed.
	RecordError(err error)
	End()
}

// Tracer creates spans.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}

var globalTracer Tracer = NoopTracer{}

// SetTracer installs t as the global tracer. nil restores the no-op one.
func SetTracer(t Tracer) {
	if t == nil {
		globalTracer = NoopTracer{}
		return
	}
	globalTracer = t
}

// GetTracer returns the global tracer, never nil.
func GetTracer() Tracer {
	return globalTracer
}

// Start starts a span on the global tracer.
func Start(ctx context.Context, name string) (context.Context, Span) {
	return globalTracer.Start(ctx, name)
}

// Enabled reports whether a real tracer is installed.
func Enabled() bool {
	_, noop := globalTracer.(NoopTracer)
	return !noop
}

// Run wraps fn in a span named name carrying attrs. fn receives the span
// so it can add attributes known only after the work is done. An error
// returned by fn is recorded on the span and passed through.
func Run(ctx context.Context, name string, attrs map[string]interface{}, fn func(context.Context, Span) error) error {
	if !Enabled() {
		return fn(ctx, NoopSpan{})
	}
	ctx, span := globalTracer.Start(ctx, name)
	defer span.End()
	for k, v := range attrs {
		span.SetAttribute(k, v)
	}
	err := fn(ctx, span)
	if err != nil {
		span.RecordError(err)
	}
	return err
}
