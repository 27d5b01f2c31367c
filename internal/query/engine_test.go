package query

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/stacklok/stac-query/internal/config"
	"github.com/stacklok/stac-query/internal/stacerr"
	"github.com/stacklok/stac-query/internal/telemetry"
)

// feature builds an item whose "data" asset is href with the given media type
func feature(id, collection, datetime, href, mediaType string) string {
	asset := fmt.Sprintf(`{"href":%q}`, href)
	if mediaType != "" {
		asset = fmt.Sprintf(`{"href":%q,"type":%q}`, href, mediaType)
	}
	return fmt.Sprintf(`{"type":"Feature","stac_version":"1.0.0","id":%q,"collection":%q,`+
		`"bbox":[-105.2,39.8,-105.0,40.0],`+
		`"geometry":{"type":"Polygon","coordinates":[[[-105.2,39.8],[-105.0,39.8],[-105.0,40.0],[-105.2,40.0],[-105.2,39.8]]]},`+
		`"properties":{"datetime":%q,"pc:type":"lidar"},"assets":{"data":%s}}`,
		id, collection, datetime, asset)
}

func page(next string, features ...string) string {
	links := `[]`
	if next != "" {
		links = fmt.Sprintf(`[{"rel":"next","href":%q}]`, next)
	}
	return fmt.Sprintf(`{"type":"FeatureCollection","features":[%s],"links":%s}`, strings.Join(features, ","), links)
}

type catalogServer struct {
	*httptest.Server
	heads atomic.Int32
}

func newCatalogServer(t *testing.T) *catalogServer {
	t.Helper()

	cs := &catalogServer{}
	docs := map[string]string{
		"/a/search.json": page("page2.json",
			feature("a-1", "3dep", "2020-05-01T00:00:00Z", "a-1.copc.laz", "application/vnd.laszip+copc"),
			feature("a-2", "other", "2020-05-01T00:00:00Z", "a-2.copc.laz", "application/vnd.laszip+copc"),
		),
		"/a/page2.json": page("",
			feature("a-3", "3dep", "2020-07-01T00:00:00Z", "/tiles/a-3", ""),
		),
		"/b/search.json": page("",
			feature("b-1", "3dep", "2020-02-01T00:00:00Z", "b-1.laz", ""),
			feature("b-2", "3dep", "2019-02-01T00:00:00Z", "b-2.laz", ""),
		),
	}

	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			cs.heads.Add(1)
			switch r.URL.Path {
			case "/tiles/a-3":
				w.Header().Set("Content-Type", "application/vnd.laszip+copc")
				w.WriteHeader(http.StatusOK)
			case "/b/b-1.laz", "/b/b-2.laz":
				w.Header().Set("Content-Type", "application/octet-stream")
				w.WriteHeader(http.StatusOK)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
			return
		}
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(doc))
	}))
	cs.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(cs.Close)
	return cs
}

func queryConfig(filters *config.FilterConfig) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Filters = filters
	cfg.ReaderArgs = map[string]map[string]any{
		"readers.copc": {"resolution": "1.0", "threads": 2},
	}
	return cfg
}

func resultIDs(results []Result) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestEngine_Run(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)
	engine, err := New(queryConfig(&config.FilterConfig{
		AssetNames:  []string{"data"},
		Collections: []string{"3dep"},
		Properties:  map[string]any{"pc:type": "lidar"},
		Bounds:      []float64{-105.1, 39.9, -104.9, 40.1},
	}))
	require.NoError(t, err)

	results, err := engine.Run(context.Background(), server.URL+"/a/search.json")
	require.NoError(t, err)

	require.Equal(t, []string{"a-1", "a-3"}, resultIDs(results))
	assert.Equal(t, Result{
		ID:     "a-1",
		Driver: "readers.copc",
		Href:   server.URL + "/a/a-1.copc.laz",
		Options: map[string]string{
			"filename":   server.URL + "/a/a-1.copc.laz",
			"resolution": "1.0",
			"threads":    "2",
		},
	}, results[0])
	assert.Equal(t, "readers.copc", results[1].Driver, "driver taken from the HEAD content type")
	assert.Equal(t, server.URL+"/tiles/a-3", results[1].Href)
	assert.Equal(t, int32(1), server.heads.Load(), "declared media types skip the HEAD request")
}

func TestEngine_RunAll(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)
	cfg := queryConfig(&config.FilterConfig{
		AssetNames: []string{"data"},
		Dates:      [][]string{{"2020-01-01", "2020-12-31"}},
	})
	cfg.Fetch.Concurrency = 2

	engine, err := New(cfg)
	require.NoError(t, err)

	results, err := engine.RunAll(context.Background(), []string{
		server.URL + "/b/search.json",
		server.URL + "/a/search.json",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"b-1"}, resultIDs(results[0]))
	assert.Equal(t, "readers.las", results[0][0].Driver)
	assert.Equal(t, []string{"a-1", "a-2", "a-3"}, resultIDs(results[1]))
}

func TestEngine_RunAllFailure(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)
	engine, err := New(queryConfig(&config.FilterConfig{AssetNames: []string{"data"}}))
	require.NoError(t, err)

	_, err = engine.RunAll(context.Background(), []string{
		server.URL + "/a/search.json",
		server.URL + "/missing/search.json",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/missing/search.json")

	var objErr *stacerr.ObjectError
	require.ErrorAs(t, err, &objErr)
	assert.Equal(t, stacerr.KindFeatureCollection, objErr.Kind)
}

func TestEngine_MaxPages(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)
	cfg := queryConfig(&config.FilterConfig{AssetNames: []string{"data"}})
	cfg.Fetch.MaxPages = 1

	engine, err := New(cfg)
	require.NoError(t, err)

	results, err := engine.Run(context.Background(), server.URL+"/a/search.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-1", "a-2"}, resultIDs(results))
}

func TestNew_InvalidFilters(t *testing.T) {
	t.Parallel()

	_, err := New(queryConfig(&config.FilterConfig{
		Properties: map[string]any{"eo:bands": map[string]any{"name": "red"}},
	}))
	require.Error(t, err)
	assert.True(t, stacerr.IsValidationError(err))

	_, err = New(nil)
	require.Error(t, err)
}

func TestEngine_Metrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := telemetry.NewQueryMetrics(mp)
	require.NoError(t, err)

	server := newCatalogServer(t)
	engine, err := New(queryConfig(&config.FilterConfig{
		AssetNames:  []string{"data"},
		Collections: []string{"3dep"},
	}), WithMetrics(metrics))
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), server.URL+"/a/search.json")
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := make(map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				key := m.Name
				if outcome, ok := dp.Attributes.Value(attribute.Key("outcome")); ok {
					key += "/" + outcome.AsString()
				}
				counts[key] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(2), counts["stac_query_pages_total"])
	assert.Equal(t, int64(2), counts["stac_query_items_total/accepted"])
	assert.Equal(t, int64(1), counts["stac_query_items_total/rejected"])
}

func TestEngine_SchemaValidation(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)
	schema := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type":"object","required":["stac_version","license"]}`))
	}))
	schema.Config.SetKeepAlivesEnabled(false)
	defer schema.Close()

	cfg := queryConfig(&config.FilterConfig{AssetNames: []string{"data"}})
	cfg.Validation = &config.ValidationConfig{
		Enabled:    true,
		SchemaURLs: config.SchemaURLs{Item: schema.URL + "/item.json"},
	}

	engine, err := New(cfg)
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), server.URL+"/a/search.json")
	require.Error(t, err)

	var objErr *stacerr.ObjectError
	require.ErrorAs(t, err, &objErr)
	assert.Equal(t, "a-1", objErr.ID)
	assert.Equal(t, stacerr.KindItem, objErr.Kind)
}
