package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/models"
)

func newTestProvider(t *testing.T) (*Provider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	p, err := NewProvider(context.Background(), config.ClientMetrics{}, "test", logger.Nop(), reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key string) map[string]int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key(key))
		out[v.AsString()] += dp.Value
	}
	return out
}

func TestRecorder_RecordsSyncTelemetry(t *testing.T) {
	ctx := context.Background()
	p, reader := newTestProvider(t)
	r := p.Recorder()

	r.RecordCycle(ctx, "success", 120*time.Millisecond)
	r.RecordCycle(ctx, "success", 80*time.Millisecond)
	r.RecordCycle(ctx, "error", time.Second)
	r.AddPushed(ctx, 3)
	r.AddPushed(ctx, 0)
	r.AddPulled(ctx, 5)
	r.AddConflicts(ctx, 2, models.ConflictStrategyLWW)
	r.RecordError(ctx, models.ErrorCodeTransport)

	got := collect(t, reader)

	assert.Equal(t, map[string]int64{"success": 2, "error": 1}, sumByAttr(t, got[CyclesName], "outcome"))
	assert.Equal(t, map[string]int64{"LWW": 2}, sumByAttr(t, got[ConflictsName], "strategy"))
	assert.Equal(t, map[string]int64{models.ErrorCodeTransport: 1}, sumByAttr(t, got[ErrorsName], "code"))

	pushed := got[PushedName].Data.(metricdata.Sum[int64])
	require.Len(t, pushed.DataPoints, 1)
	assert.Equal(t, int64(3), pushed.DataPoints[0].Value)

	pulled := got[PulledName].Data.(metricdata.Sum[int64])
	require.Len(t, pulled.DataPoints, 1)
	assert.Equal(t, int64(5), pulled.DataPoints[0].Value)

	hist, ok := got[CycleDurationName].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestRecorder_SkipsEmptyCounts(t *testing.T) {
	ctx := context.Background()
	p, reader := newTestProvider(t)

	p.Recorder().AddPulled(ctx, 0)
	p.Recorder().AddConflicts(ctx, 0, models.ConflictStrategyManual)

	got := collect(t, reader)
	if m, ok := got[PulledName]; ok {
		assert.Empty(t, m.Data.(metricdata.Sum[int64]).DataPoints)
	}
	if m, ok := got[ConflictsName]; ok {
		assert.Empty(t, m.Data.(metricdata.Sum[int64]).DataPoints)
	}
}

func TestNewProvider_WithOTLPEndpoint(t *testing.T) {
	// the gRPC exporter connects lazily, so construction succeeds offline
	p, err := NewProvider(context.Background(), config.ClientMetrics{OTLPEndpoint: "127.0.0.1:4317", Insecure: true}, "test", logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, p.Recorder())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = p.Shutdown(ctx)
}
