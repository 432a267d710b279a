package we

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

func ConsoleExporter() (trace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func HoneycombExporter(ctx context.Context, team string, dataset string) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint("api.honeycomb.io:443"),
		otlptracegrpc.WithHeaders(map[string]string{
			"x-honeycomb-team":    team,
			"x-honeycomb-dataset": dataset,
		}),
		otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")),
	}

	client := otlptracegrpc.NewClient(opts...)
	return otlptrace.New(ctx, client)
}

func JaegerExporter(endpoint string) (*jaeger.Exporter, error) {
	return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
}

type TelemetrySettings struct {
	Exporter         string
	HoneycombTeam    string
	HoneycombDataset string
	JaegerEndpoint   string
}

// InstallTracing registers a global tracer provider for the configured
// exporter. An empty or "none" exporter leaves the no-op provider in place.
// The returned function flushes and stops the provider.
func InstallTracing(ctx context.Context, settings TelemetrySettings) (func(context.Context) error, error) {
	var exporter trace.SpanExporter
	var err error

	switch settings.Exporter {
	case "", "none":
		return func(context.Context) error { return nil }, nil
	case "console":
		exporter, err = ConsoleExporter()
	case "honeycomb":
		exporter, err = HoneycombExporter(ctx, settings.HoneycombTeam, settings.HoneycombDataset)
	case "jaeger":
		exporter, err = JaegerExporter(settings.JaegerEndpoint)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", settings.Exporter)
	}

	if err != nil {
		return nil, err
	}

	provider := trace.NewTracerProvider(trace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
