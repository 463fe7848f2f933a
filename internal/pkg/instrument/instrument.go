package instrument

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const defaultMetricsInterval = time.Minute

// Instrumentation hands out tracers and meters. Use cases and outbound
// adapters open their spans through it.
type Instrumentation interface {
	Tracer(name string) trace.Tracer
	Meter(name string) metric.Meter
	Shutdown(ctx context.Context) error
}

// Config drives OpenTelemetry initialization.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	// OTLPEndpoint is the collector URL. An http:// scheme, or none at all,
	// exports in plaintext; https:// uses TLS.
	OTLPEndpoint     string
	TraceSampleRatio float64
	MetricsInterval  time.Duration
	// MaskFields lists log keys whose values are replaced before output.
	MaskFields []string
}

type providers struct {
	tracers   trace.TracerProvider
	meters    metric.MeterProvider
	shutdowns []func(context.Context) error
}

func (p *providers) Tracer(name string) trace.Tracer { return p.tracers.Tracer(name) }

func (p *providers) Meter(name string) metric.Meter { return p.meters.Meter(name) }

// Shutdown flushes every exporter and reports all failures together.
func (p *providers) Shutdown(ctx context.Context) error {
	errs := make([]error, 0, len(p.shutdowns))
	for _, fn := range p.shutdowns {
		errs = append(errs, fn(ctx))
	}

	return errors.Join(errs...)
}

// NewNoop returns instrumentation that records nothing.
func NewNoop() Instrumentation {
	return &providers{
		tracers: tracenoop.NewTracerProvider(),
		meters:  metricnoop.NewMeterProvider(),
	}
}

// New wires OTLP/gRPC export for traces, metrics and logs. When cfg is
// disabled it returns NewNoop. Either way the default slog logger is
// replaced by the service JSON logger.
func New(ctx context.Context, cfg *Config) (Instrumentation, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	if !cfg.Enabled {
		initLogging(cfg.ServiceName, nil, cfg.MaskFields)
		return NewNoop(), nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		attribute.String("env", cfg.Environment),
	))
	if err != nil {
		return nil, err
	}

	endpoint := endpointURL(cfg.OTLPEndpoint)

	spans, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}
	points, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}
	records, err := otlploggrpc.New(ctx, otlploggrpc.WithEndpointURL(endpoint))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio(cfg.TraceSampleRatio)))),
		sdktrace.WithBatcher(spans),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(points,
			sdkmetric.WithInterval(metricsInterval(cfg.MetricsInterval)))),
	)
	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(records)),
	)

	initLogging(cfg.ServiceName, lp, cfg.MaskFields)

	return &providers{
		tracers:   tp,
		meters:    mp,
		shutdowns: []func(context.Context) error{tp.Shutdown, mp.Shutdown, lp.Shutdown},
	}, nil
}

func endpointURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "localhost:4317"
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	return raw
}

func sampleRatio(r float64) float64 {
	return min(max(r, 0), 1)
}

func metricsInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultMetricsInterval
	}

	return d
}
