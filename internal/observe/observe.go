package observe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config 遥测配置，SamplePct 取值 0-100
type Config struct {
	ServiceName     string
	Version         string
	TracingExporter string
	MetricsExporter string
	SamplePct       float64
}

// Validate 校验导出器名称与采样率
func (c Config) Validate() error {
	if c.ServiceName == "" {
		return errors.New("service name is required")
	}
	switch c.TracingExporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown tracing exporter: %q", c.TracingExporter)
	}
	switch c.MetricsExporter {
	case "", "none", "stdout", "otlp", "prometheus":
	default:
		return fmt.Errorf("unknown metrics exporter: %q", c.MetricsExporter)
	}
	if c.SamplePct < 0 || c.SamplePct > 100 {
		return fmt.Errorf("sample percentage must be between 0 and 100, got: %v", c.SamplePct)
	}
	return nil
}

// Telemetry 持有 tracer/meter 及工具调用指标
type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracer         trace.Tracer

	calls    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram

	metricsHandler http.Handler
}

// Setup 按配置创建 provider 并设为全局 provider
func Setup(ctx context.Context, cfg Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	spanExporter, err := newSpanExporter(ctx, cfg.TracingExporter)
	if err != nil {
		return nil, err
	}
	registry := prometheus.NewRegistry()
	reader, err := newMetricsReader(ctx, cfg.MetricsExporter, registry)
	if err != nil {
		return nil, err
	}

	var traceOpts []sdktrace.TracerProviderOption
	if spanExporter != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spanExporter))
	}
	var metricOpts []sdkmetric.Option
	if reader != nil {
		metricOpts = append(metricOpts, sdkmetric.WithReader(reader))
	}

	t, err := newTelemetry(ctx, cfg, traceOpts, metricOpts)
	if err != nil {
		return nil, err
	}
	if cfg.MetricsExporter == "prometheus" {
		t.metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	otel.SetTracerProvider(t.tracerProvider)
	otel.SetMeterProvider(t.meterProvider)
	return t, nil
}

func newTelemetry(ctx context.Context, cfg Config, traceOpts []sdktrace.TracerProviderOption, metricOpts []sdkmetric.Option) (*Telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SamplePct)),
	}, traceOpts...)...)
	mp := sdkmetric.NewMeterProvider(append([]sdkmetric.Option{
		sdkmetric.WithResource(res),
	}, metricOpts...)...)

	meter := mp.Meter(cfg.ServiceName)
	calls, err := meter.Int64Counter("mcp.tool.calls",
		metric.WithDescription("Number of MCP tool invocations"))
	if err != nil {
		return nil, fmt.Errorf("create calls counter: %w", err)
	}
	errs, err := meter.Int64Counter("mcp.tool.errors",
		metric.WithDescription("Number of failed MCP tool invocations"))
	if err != nil {
		return nil, fmt.Errorf("create errors counter: %w", err)
	}
	duration, err := meter.Float64Histogram("mcp.tool.duration_ms",
		metric.WithDescription("MCP tool execution time in milliseconds"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &Telemetry{
		tracerProvider: tp,
		meterProvider:  mp,
		tracer:         tp.Tracer(cfg.ServiceName),
		calls:          calls,
		errors:         errs,
		duration:       duration,
	}, nil
}

func sampler(pct float64) sdktrace.Sampler {
	switch {
	case pct >= 100:
		return sdktrace.AlwaysSample()
	case pct <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(pct / 100)
	}
}

// MetricsHandler 仅在 prometheus 导出器下非 nil
func (t *Telemetry) MetricsHandler() http.Handler {
	return t.metricsHandler
}

// Shutdown 刷新并关闭 provider
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if err := t.tracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}
	if err := t.meterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
	}
	return errors.Join(errs...)
}
