package stac

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/stacklok/stac-query/internal/config"
	"github.com/stacklok/stac-query/internal/drivers"
	"github.com/stacklok/stac-query/internal/filtering"
)

// resolverFunc adapts a function to drivers.Resolver
type resolverFunc func(ctx context.Context, itemID string, asset drivers.Asset) (string, error)

func (f resolverFunc) Resolve(ctx context.Context, itemID string, asset drivers.Asset) (string, error) {
	return f(ctx, itemID, asset)
}

// inferResolver resolves drivers from the asset href only
var inferResolver = resolverFunc(func(_ context.Context, _ string, asset drivers.Asset) (string, error) {
	return drivers.InferReaderDriver(asset.Href), nil
})

func newSpec(t *testing.T, cfg *config.FilterConfig) *filtering.Spec {
	t.Helper()
	if cfg.AssetNames == nil {
		cfg.AssetNames = []string{"data"}
	}
	spec, err := filtering.NewSpec(cfg)
	require.NoError(t, err)
	return spec
}

// itemDoc builds a feature with a single "data" asset. extra is spliced into the
// top-level object and props into properties.
func itemDoc(id, props, extra string) string {
	var b strings.Builder
	b.WriteString(`{"type":"Feature","id":"` + id + `",`)
	b.WriteString(`"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]},`)
	b.WriteString(`"assets":{"data":{"href":"` + id + `.laz"}},`)
	if props == "" {
		props = `"datetime":"2020-06-01T00:00:00Z"`
	}
	b.WriteString(`"properties":{` + props + `}`)
	if extra != "" {
		b.WriteString("," + extra)
	}
	b.WriteString("}")
	return b.String()
}

func parse(doc string) gjson.Result {
	return gjson.Parse(doc)
}
