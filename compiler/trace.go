// Copyright © 2024 The ELPS authors

package compiler

import (
	"context"

	"github.com/luthersystems/cljs2js/parser/token"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracer receives a span for each compilation unit and for each top-level
// form within it.  Start returns the context carrying the new span and a
// function ending the span with the outcome of the work.
type Tracer interface {
	Start(ctx context.Context, label string, loc *token.Location) (context.Context, func(error))
}

type contextKey string

// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context
// key.
const ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"

// DefaultTracerName is the tracer name used when the context names none.
const DefaultTracerName = "cljs2js"

type otelTracer struct{}

// NewOpenTelemetryTracer returns a Tracer reporting spans to the global
// OpenTelemetry tracer provider.
func NewOpenTelemetryTracer() Tracer {
	return otelTracer{}
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = DefaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (otelTracer) Start(ctx context.Context, label string, loc *token.Location) (context.Context, func(error)) {
	ctx, span := contextTracer(ctx).Start(ctx, label)
	span.SetAttributes(codeAttributes(label, loc)...)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func codeAttributes(label string, loc *token.Location) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.CodeFunction(label),
	}
	if loc == nil {
		return attrs
	}
	attrs = append(attrs, semconv.CodeFilepath(loc.File))
	if loc.Line > 0 {
		attrs = append(attrs,
			semconv.CodeLineNumber(loc.Line),
			semconv.CodeColumn(loc.Col),
		)
	}
	return attrs
}

type nopTracer struct{}

// NopTracer returns a Tracer that records nothing.
func NopTracer() Tracer {
	return nopTracer{}
}

func (nopTracer) Start(ctx context.Context, _ string, _ *token.Location) (context.Context, func(error)) {
	return ctx, func(error) {}
}
