package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// QueryMetricsMeterName is the name used for the query metrics meter
const QueryMetricsMeterName = "github.com/stacklok/stac-query/query"

// Item outcomes recorded by QueryMetrics
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// QueryMetrics holds the OpenTelemetry instruments for catalog queries.
// A nil *QueryMetrics records nothing.
type QueryMetrics struct {
	itemsTotal    metric.Int64Counter
	pagesTotal    metric.Int64Counter
	queryDuration metric.Float64Histogram
}

// NewQueryMetrics creates a new QueryMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewQueryMetrics(provider metric.MeterProvider) (*QueryMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(QueryMetricsMeterName)

	itemsTotal, err := meter.Int64Counter(
		"stac_query_items_total",
		metric.WithDescription("Number of catalog items evaluated, by outcome"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	pagesTotal, err := meter.Int64Counter(
		"stac_query_pages_total",
		metric.WithDescription("Number of catalog pages traversed"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, err
	}

	queryDuration, err := meter.Float64Histogram(
		"stac_query_duration_seconds",
		metric.WithDescription("Duration of catalog queries in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	return &QueryMetrics{
		itemsTotal:    itemsTotal,
		pagesTotal:    pagesTotal,
		queryDuration: queryDuration,
	}, nil
}

// RecordItem counts one evaluated item
func (m *QueryMetrics) RecordItem(ctx context.Context, accepted bool) {
	if m == nil || m.itemsTotal == nil {
		return
	}

	outcome := OutcomeRejected
	if accepted {
		outcome = OutcomeAccepted
	}
	m.itemsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordPage counts one traversed page
func (m *QueryMetrics) RecordPage(ctx context.Context) {
	if m == nil || m.pagesTotal == nil {
		return
	}
	m.pagesTotal.Add(ctx, 1)
}

// RecordQueryDuration records the duration of a query against root
func (m *QueryMetrics) RecordQueryDuration(ctx context.Context, root string, duration time.Duration, success bool) {
	if m == nil || m.queryDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("root", root),
		attribute.Bool("success", success),
	}

	m.queryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
