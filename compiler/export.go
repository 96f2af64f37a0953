// Copyright © 2024 The ELPS authors

package compiler

import (
	"context"

	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter is an OpenTelemetry span exporter writing finished spans to a
// logrus logger.
type LogExporter struct {
	log *logrus.Entry
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

func NewLogExporter(logger *logrus.Logger) *LogExporter {
	return &LogExporter{
		log: logger.WithField("component", "trace"),
	}
}

func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"trace":    span.SpanContext().TraceID().String(),
			"span":     span.SpanContext().SpanID().String(),
			"duration": span.EndTime().Sub(span.StartTime()),
		}
		if span.Parent().IsValid() {
			fields["parent"] = span.Parent().SpanID().String()
		}
		for _, attr := range span.Attributes() {
			fields[string(attr.Key)] = attr.Value.Emit()
		}
		if desc := span.Status().Description; desc != "" {
			fields["error"] = desc
		}
		e.log.WithFields(fields).Info(span.Name())
	}
	return nil
}

func (e *LogExporter) Shutdown(ctx context.Context) error {
	return nil
}

// NewLogTracerProvider returns a tracer provider sampling every span and
// exporting synchronously to logger.
func NewLogTracerProvider(logger *logrus.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(NewLogExporter(logger)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}
