package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/lydakis/cadmcp/internal/config"
)

const instrumentationName = "github.com/lydakis/cadmcp"

// Provider owns the tracer provider installed by Setup.
type Provider struct {
	Observer *CallObserver
	shutdown func(context.Context) error
}

// Setup builds the call observer. Without an OTLP endpoint it records
// through the global (no-op by default) providers; with one, traces are
// batched to the collector over OTLP/HTTP.
func Setup(ctx context.Context, cfg config.TelemetryConfig, version string) (*Provider, error) {
	p := &Provider{shutdown: func(context.Context) error { return nil }}

	if cfg.OTLPEndpoint != "" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if headers := exporterHeaders(cfg.Headers, os.Getenv(EnvOTLPHeaders)); len(headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(headers))
		}
		exporter, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating OTLP exporter: %w", err)
		}

		serviceName := cfg.ServiceName
		if serviceName == "" {
			serviceName = config.DefaultServiceName
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(resource.NewSchemaless(
				attribute.String("service.name", serviceName),
				attribute.String("service.version", version),
			)),
		)
		otel.SetTracerProvider(tp)
		p.shutdown = tp.Shutdown
	}

	observer, err := NewCallObserver(
		otel.GetMeterProvider().Meter(instrumentationName),
		otel.GetTracerProvider().Tracer(instrumentationName),
	)
	if err != nil {
		_ = p.shutdown(ctx)
		return nil, fmt.Errorf("creating call observer: %w", err)
	}
	p.Observer = observer
	return p, nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.shutdown == nil {
		return nil
	}
	return p.shutdown(ctx)
}
