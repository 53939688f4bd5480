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

package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRunNoop(t *testing.T) {
	SetTracer(nil)
	if Enabled() {
		t.Fatal("Enabled() = true with the no-op tracer")
	}

	called := false
	want := errors.New("boom")
	err := Run(context.Background(), "walk", map[string]interface{}{"root": "/srv"}, func(_ context.Context, span Span) error {
		called = true
		span.SetAttribute("visited", 3)
		return want
	})
	if !called {
		t.Error("Run() did not call fn")
	}
	if !errors.Is(err, want) {
		t.Errorf("Run() error = %v, want %v", err, want)
	}
}

func TestRunOTel(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	SetTracer(NewOTelTracer(tp.Tracer("test")))
	t.Cleanup(func() { SetTracer(nil) })

	if !Enabled() {
		t.Fatal("Enabled() = false with an OTel tracer")
	}

	_ = Run(context.Background(), "sign", map[string]interface{}{"root": "/srv", "recursive": true}, func(_ context.Context, span Span) error {
		span.SetAttribute("failures", 0)
		return nil
	})
	_ = Run(context.Background(), "validate", nil, func(context.Context, Span) error {
		return errors.New("1 failure")
	})

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if spans[0].Name() != "sign" || attrs["root"].AsString() != "/srv" || !attrs["recursive"].AsBool() {
		t.Errorf("unexpected first span %q %v", spans[0].Name(), attrs)
	}
	if attrs["failures"].AsInt64() != 0 {
		t.Errorf("failures attribute = %v", attrs["failures"])
	}
	if spans[1].Status().Code != codes.Error {
		t.Errorf("second span status = %v, want Error", spans[1].Status())
	}
}

func TestInitFromEnvDisabled(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")

	if err := InitFromEnv(context.Background()); err != nil {
		t.Fatalf("InitFromEnv() error = %v", err)
	}
	if Enabled() {
		t.Error("OTEL_TRACES_EXPORTER=none should keep the no-op tracer")
	}
	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestExportRequested(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	if exportRequested() {
		t.Error("exportRequested() = true with an empty environment")
	}

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://collector:4318/v1/traces")
	if !exportRequested() {
		t.Error("exportRequested() = false with a traces endpoint")
	}

	t.Setenv("OTEL_TRACES_EXPORTER", "otlp")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	if !exportRequested() {
		t.Error("exportRequested() = false with OTEL_TRACES_EXPORTER=otlp")
	}
}
