package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	slogotel "github.com/remychantenay/slog-otel"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const defaultServiceName = "razorpay-back"

// ExportEnabled reports whether an OTLP or explicit exporter is configured.
// Without one the providers still record spans, so logs carry trace ids.
func ExportEnabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" || os.Getenv("OTEL_TRACES_EXPORTER") != ""
}

// Setup installs the global propagator, tracer and meter providers and a
// JSON slog default that correlates records with the active span.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error

	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	if serviceName == "" {
		serviceName = os.Getenv("OTEL_SERVICE_NAME")
	}
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	otel.SetTextMapPropagator(autoprop.NewTextMapPropagator())

	tracerOpts := []trace.TracerProviderOption{trace.WithResource(res)}
	meterOpts := []metric.Option{metric.WithResource(res)}

	if ExportEnabled() {
		tExporter, err := autoexport.NewSpanExporter(ctx)
		if err != nil {
			return shutdown, errors.Join(err, shutdown(ctx))
		}
		tracerOpts = append(tracerOpts, trace.WithBatcher(tExporter))

		mReader, err := autoexport.NewMetricReader(ctx)
		if err != nil {
			return shutdown, errors.Join(err, shutdown(ctx))
		}
		meterOpts = append(meterOpts, metric.WithReader(mReader))
	}

	tp := trace.NewTracerProvider(tracerOpts...)
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	otel.SetTracerProvider(tp)

	mp := metric.NewMeterProvider(meterOpts...)
	shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	otel.SetMeterProvider(mp)

	slog.SetDefault(NewLogger(os.Stdout))

	return shutdown, nil
}

// NewLogger returns a JSON logger whose records are linked to the span in
// the record's context.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slogotel.OtelHandler{
		Next: slog.NewJSONHandler(w, nil),
	})
}
