package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OutcomeOK is the outcome label for a successful call.
const OutcomeOK = "ok"

// CallObserver records one span and a set of metrics per executor call.
// A nil *CallObserver is valid and records nothing.
type CallObserver struct {
	tracer trace.Tracer

	calls   metric.Int64Counter
	latency metric.Float64Histogram
	bytes   metric.Int64Histogram
}

// Call identifies an executor call when it starts.
type Call struct {
	Command   string
	RequestID string
}

// CallResult describes how an executor call ended.
type CallResult struct {
	Outcome string
	Reason  string
	Bytes   int
}

// NewCallObserver creates a call observer bound to the provided meter/tracer.
func NewCallObserver(meter metric.Meter, tracer trace.Tracer) (*CallObserver, error) {
	calls, err := meter.Int64Counter(
		"cadmcp.calls",
		metric.WithDescription("Number of tool calls by outcome"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"cadmcp.call.duration",
		metric.WithDescription("Tool call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	size, err := meter.Int64Histogram(
		"cadmcp.response.size",
		metric.WithDescription("Bytes received from the executor per call"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &CallObserver{
		tracer:  tracer,
		calls:   calls,
		latency: latency,
		bytes:   size,
	}, nil
}

// Start opens the call span. The returned func must be called exactly once
// with the call's result.
func (o *CallObserver) Start(ctx context.Context, call Call) (context.Context, func(CallResult)) {
	if o == nil {
		return ctx, func(CallResult) {}
	}

	started := time.Now()
	base := []attribute.KeyValue{
		attribute.String("command", call.Command),
	}

	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "cadmcp.call", trace.WithAttributes(
			append(base, attribute.String("request_id", call.RequestID))...,
		))
	}

	return ctx, func(res CallResult) {
		attrs := append(base, attribute.String("outcome", res.Outcome))
		if res.Reason != "" {
			attrs = append(attrs, attribute.String("reason", res.Reason))
		}

		bg := context.Background()
		opts := metric.WithAttributes(attrs...)
		o.calls.Add(bg, 1, opts)
		o.latency.Record(bg, time.Since(started).Seconds(), opts)
		o.bytes.Record(bg, int64(res.Bytes), metric.WithAttributes(base...))

		if span == nil {
			return
		}
		span.SetAttributes(attrs...)
		span.SetAttributes(attribute.Int("bytes", res.Bytes))
		if res.Outcome == OutcomeOK {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, res.Outcome)
		}
		span.End()
	}
}
