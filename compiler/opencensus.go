// Copyright © 2024 The ELPS authors

package compiler

import (
	"context"

	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

type ocTracer struct{}

// NewOpenCensusTracer returns a Tracer reporting spans through OpenCensus.
// Spans are exported to the exporters registered with the opencensus trace
// package.
func NewOpenCensusTracer() Tracer {
	return ocTracer{}
}

func (ocTracer) Start(ctx context.Context, label string, loc *token.Location) (context.Context, func(error)) {
	ctx, span := trace.StartSpan(ctx, label)
	return ctx, func(err error) {
		if loc != nil {
			span.Annotate([]trace.Attribute{
				trace.StringAttribute("file", loc.File),
				trace.Int64Attribute("line", int64(loc.Line)),
			}, "source")
		}
		if err != nil {
			span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()})
		}
		span.End()
	}
}

// OpenCensusLogExporter writes finished OpenCensus spans to a logrus logger.
type OpenCensusLogExporter struct {
	log *logrus.Entry
}

var _ trace.Exporter = (*OpenCensusLogExporter)(nil)

func NewOpenCensusLogExporter(logger *logrus.Logger) *OpenCensusLogExporter {
	return &OpenCensusLogExporter{
		log: logger.WithField("component", "trace"),
	}
}

func (e *OpenCensusLogExporter) ExportSpan(sd *trace.SpanData) {
	fields := logrus.Fields{
		"trace":    sd.TraceID.String(),
		"span":     sd.SpanID.String(),
		"duration": sd.EndTime.Sub(sd.StartTime),
	}
	if sd.ParentSpanID != (trace.SpanID{}) {
		fields["parent"] = sd.ParentSpanID.String()
	}
	for _, a := range sd.Annotations {
		for k, v := range a.Attributes {
			fields[k] = v
		}
	}
	if sd.Status.Code != trace.StatusCodeOK {
		fields["error"] = sd.Status.Message
	}
	e.log.WithFields(fields).Info(sd.Name)
}

// RegisterOpenCensusLogExporter samples every OpenCensus span and exports
// it to logger.  The returned function unregisters the exporter.
func RegisterOpenCensusLogExporter(logger *logrus.Logger) func() {
	e := NewOpenCensusLogExporter(logger)
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	trace.RegisterExporter(e)
	return func() { trace.UnregisterExporter(e) }
}
