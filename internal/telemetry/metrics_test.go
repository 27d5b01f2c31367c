package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != QueryMetricsMeterName {
			continue
		}
		for _, m := range scope.Metrics {
			found[m.Name] = m
		}
	}
	return found
}

func TestNewQueryMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()

		metrics, err := NewQueryMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("creates metrics with SDK provider", func(t *testing.T) {
		t.Parallel()

		mp := sdkmetric.NewMeterProvider()
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err := NewQueryMetrics(mp)
		require.NoError(t, err)
		require.NotNil(t, metrics)
		assert.NotNil(t, metrics.itemsTotal)
		assert.NotNil(t, metrics.pagesTotal)
		assert.NotNil(t, metrics.queryDuration)
	})
}

func TestQueryMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var metrics *QueryMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		metrics.RecordItem(ctx, true)
		metrics.RecordPage(ctx)
		metrics.RecordQueryDuration(ctx, "root.json", time.Second, true)
	})
}

func TestQueryMetrics_Record(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewQueryMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordItem(ctx, true)
	metrics.RecordItem(ctx, true)
	metrics.RecordItem(ctx, false)
	metrics.RecordPage(ctx)
	metrics.RecordPage(ctx)
	metrics.RecordPage(ctx)
	metrics.RecordQueryDuration(ctx, "https://example.com/search", 1500*time.Millisecond, true)

	found := collect(t, reader)

	items, ok := found["stac_query_items_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok, "items counter should be an int64 sum")
	byOutcome := make(map[string]int64)
	for _, dp := range items.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		byOutcome[outcome.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), byOutcome[OutcomeAccepted])
	assert.Equal(t, int64(1), byOutcome[OutcomeRejected])

	pages, ok := found["stac_query_pages_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok, "pages counter should be an int64 sum")
	require.Len(t, pages.DataPoints, 1)
	assert.Equal(t, int64(3), pages.DataPoints[0].Value)

	duration, ok := found["stac_query_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok, "duration should be a float64 histogram")
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(1), duration.DataPoints[0].Count)
	assert.InDelta(t, 1.5, duration.DataPoints[0].Sum, 0.001)
}
