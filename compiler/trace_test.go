// Copyright © 2024 The ELPS authors

package compiler_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/luthersystems/cljs2js/compiler"
	"github.com/luthersystems/cljs2js/transtest"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestProvider(t *testing.T) (*trace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return tp, exporter
}

func TestOpenTelemetryTracer(t *testing.T) {
	tp, exporter := newTestProvider(t)
	ctx, root := tp.Tracer("test").Start(context.Background(), "root")
	c := compiler.New(compiler.WithLogger(transtest.NewLogrus(t)))
	_, err := c.Compile(ctx, "test.cljs", strings.NewReader("(def x 1)\n(defn f [] x)"))
	require.NoError(t, err)
	root.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 4, "Expected root, unit and two form spans")
	assert.Equal(t, "def x", spans[0].Name)
	assert.Equal(t, "defn f", spans[1].Name)
	assert.Equal(t, "test.cljs", spans[2].Name)
	assert.Equal(t, "root", spans[3].Name)

	unit := spans[2]
	assert.Equal(t, unit.SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, unit.SpanContext.SpanID(), spans[1].Parent.SpanID())
	assert.Equal(t, spans[3].SpanContext.SpanID(), unit.Parent.SpanID())
	assert.Contains(t, spans[1].Attributes, semconv.CodeLineNumber(2))
	assert.Contains(t, spans[1].Attributes, semconv.CodeFilepath("test.cljs"))
}

func TestOpenTelemetryTracerError(t *testing.T) {
	_, exporter := newTestProvider(t)
	c := compiler.New(compiler.WithLogger(transtest.NewLogrus(t)))
	_, err := c.Compile(context.Background(), "test.cljs", strings.NewReader("(def x)"))
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, codes.Error, span.Status.Code, span.Name)
	}
}

func TestContextTracerName(t *testing.T) {
	_, exporter := newTestProvider(t)
	ctx := context.WithValue(context.Background(), compiler.ContextOpenTelemetryTracerKey, "custom")
	c := compiler.New(compiler.WithLogger(transtest.NewLogrus(t)))
	_, err := c.Compile(ctx, "test.cljs", strings.NewReader("1"))
	require.NoError(t, err)
	spans := exporter.GetSpans()
	require.NotEmpty(t, spans)
	assert.Equal(t, "custom", spans[0].InstrumentationLibrary.Name)
}

type recordingExporter struct {
	mu    sync.Mutex
	spans []*octrace.SpanData
}

func (e *recordingExporter) ExportSpan(sd *octrace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, sd)
}

func TestOpenCensusTracer(t *testing.T) {
	octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
	exporter := new(recordingExporter)
	octrace.RegisterExporter(exporter)
	defer octrace.UnregisterExporter(exporter)

	c := compiler.New(
		compiler.WithLogger(transtest.NewLogrus(t)),
		compiler.WithTracer(compiler.NewOpenCensusTracer()),
	)
	_, err := c.Compile(context.Background(), "test.cljs", strings.NewReader("(def x 1)\n(str 1 2)"))
	require.Error(t, err)

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.spans, 3)
	assert.Equal(t, "def x", exporter.spans[0].Name)
	assert.Equal(t, "str", exporter.spans[1].Name)
	assert.Equal(t, "test.cljs", exporter.spans[2].Name)
	assert.Equal(t, int32(octrace.StatusCodeUnknown), exporter.spans[1].Status.Code)
	require.Len(t, exporter.spans[1].Annotations, 1)
	assert.Equal(t, int64(2), exporter.spans[1].Annotations[0].Attributes["line"])
}

func TestOpenCensusLogExporter(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	unregister := compiler.RegisterOpenCensusLogExporter(logger)
	defer unregister()

	c := compiler.New(
		compiler.WithLogger(transtest.NewLogrus(t)),
		compiler.WithTracer(compiler.NewOpenCensusTracer()),
	)
	_, err := c.Compile(context.Background(), "test.cljs", strings.NewReader("(def x)"))
	require.Error(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "def x", entries[0].Message)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "trace", entries[0].Data["component"])
	assert.Equal(t, int64(1), entries[0].Data["line"])
	assert.Contains(t, entries[0].Data["error"], "malformed special form")
	assert.Equal(t, "test.cljs", entries[1].Message)
	assert.Equal(t, entries[1].Data["span"], entries[0].Data["parent"])
}

func TestNopTracer(t *testing.T) {
	ctx := context.Background()
	got, end := compiler.NopTracer().Start(ctx, "x", nil)
	assert.Equal(t, ctx, got)
	end(nil)
}
