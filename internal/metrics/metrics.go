// Package metrics exports sync telemetry through OpenTelemetry.
//
// [Recorder] owns the sync instruments and is handed to the coordinator.
// [Provider] builds the meter provider, exporting over OTLP gRPC when an
// endpoint is configured and keeping measurements in-process otherwise.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/models"
)

const (
	meterName      = "github.com/MKhiriev/go-event-sync"
	exportInterval = 15 * time.Second
)

// Instrument names.
const (
	CyclesName        = "sync.cycles"
	CycleDurationName = "sync.cycle.duration"
	PushedName        = "sync.events.pushed"
	PulledName        = "sync.events.pulled"
	ConflictsName     = "sync.conflicts"
	ErrorsName        = "sync.errors"
)

// Provider owns the meter provider of the daemon.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	recorder      *Recorder

	logger *logger.Logger
}

// NewProvider builds a meter provider for cfg. Extra readers are attached
// as well; tests pass a manual reader.
func NewProvider(ctx context.Context, cfg config.ClientMetrics, serviceVersion string, logger *logger.Logger, readers ...sdkmetric.Reader) (*Provider, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", "syncd"),
		attribute.String("service.version", serviceVersion),
	)

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}

	if cfg.OTLPEndpoint != "" {
		exporterOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.Insecure {
			exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
		}

		exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(exportInterval),
		)))
		logger.Info().Str("func", "metrics.NewProvider").Str("endpoint", cfg.OTLPEndpoint).Msg("exporting metrics over OTLP")
	}

	mp := sdkmetric.NewMeterProvider(opts...)

	recorder, err := NewRecorder(mp.Meter(meterName, metric.WithInstrumentationVersion(serviceVersion)))
	if err != nil {
		_ = mp.Shutdown(ctx)
		return nil, err
	}

	return &Provider{meterProvider: mp, recorder: recorder, logger: logger}, nil
}

// Recorder returns the sync instruments.
func (p *Provider) Recorder() *Recorder {
	return p.recorder
}

// Shutdown flushes and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		p.logger.Err(err).Str("func", "Provider.Shutdown").Msg("failed to shutdown metric provider")
		return err
	}
	return nil
}

// Recorder records sync cycles, event counts, conflicts and errors.
type Recorder struct {
	cycles    metric.Int64Counter
	duration  metric.Float64Histogram
	pushed    metric.Int64Counter
	pulled    metric.Int64Counter
	conflicts metric.Int64Counter
	errors    metric.Int64Counter
}

func NewRecorder(meter metric.Meter) (*Recorder, error) {
	var (
		r   Recorder
		err error
	)

	if r.cycles, err = meter.Int64Counter(CyclesName,
		metric.WithDescription("Completed sync cycles by outcome"),
		metric.WithUnit("{cycle}"),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", CyclesName, err)
	}

	if r.duration, err = meter.Float64Histogram(CycleDurationName,
		metric.WithDescription("Sync cycle duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", CycleDurationName, err)
	}

	if r.pushed, err = meter.Int64Counter(PushedName,
		metric.WithDescription("Local events acknowledged by the server"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", PushedName, err)
	}

	if r.pulled, err = meter.Int64Counter(PulledName,
		metric.WithDescription("Server events stored locally"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", PulledName, err)
	}

	if r.conflicts, err = meter.Int64Counter(ConflictsName,
		metric.WithDescription("Conflicts detected by strategy"),
		metric.WithUnit("{conflict}"),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", ConflictsName, err)
	}

	if r.errors, err = meter.Int64Counter(ErrorsName,
		metric.WithDescription("Visible sync errors by code"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, fmt.Errorf("create %s: %w", ErrorsName, err)
	}

	return &r, nil
}

func (r *Recorder) RecordCycle(ctx context.Context, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	r.cycles.Add(ctx, 1, attrs)
	r.duration.Record(ctx, duration.Seconds(), attrs)
}

func (r *Recorder) AddPushed(ctx context.Context, n int) {
	if n > 0 {
		r.pushed.Add(ctx, int64(n))
	}
}

func (r *Recorder) AddPulled(ctx context.Context, n int) {
	if n > 0 {
		r.pulled.Add(ctx, int64(n))
	}
}

func (r *Recorder) AddConflicts(ctx context.Context, n int, strategy models.ConflictStrategy) {
	if n > 0 {
		r.conflicts.Add(ctx, int64(n), metric.WithAttributes(attribute.String("strategy", string(strategy))))
	}
}

func (r *Recorder) RecordError(ctx context.Context, code string) {
	r.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}
