package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/stac-query/internal/httpclient"
	"github.com/stacklok/stac-query/internal/sources"
)

const itemSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["type", "id", "stac_version"],
	"properties": {
		"type": {"const": "Feature"},
		"id": {"type": "string"},
		"properties": {"$ref": "common.json"}
	}
}`

const commonSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {"datetime": {"type": ["string", "null"]}}
}`

const pointcloudSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["properties"],
	"properties": {
		"properties": {"type": "object", "required": ["pc:count"]}
	}
}`

func newSchemaServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	schemas := map[string]string{
		"/item.json":       itemSchema,
		"/common.json":     commonSchema,
		"/pointcloud.json": pointcloudSchema,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := schemas[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/schema+json")
		_, _ = w.Write([]byte(body))
	}))
	server.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(server.Close)
	return server
}

func TestSchemaValidator_ValidateItem(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := newSchemaServer(t, &hits)
	connector := sources.NewConnector(httpclient.NewDefaultClient(5 * time.Second))

	tests := []struct {
		name          string
		item          string
		errorContains string
	}{
		{
			name: "valid item",
			item: `{"type":"Feature","id":"a","stac_version":"1.0.0","properties":{"datetime":null}}`,
		},
		{
			name:          "missing required key",
			item:          `{"type":"Feature","id":"a","properties":{}}`,
			errorContains: "item.json",
		},
		{
			name:          "referenced schema applies",
			item:          `{"type":"Feature","id":"a","stac_version":"1.0.0","properties":{"datetime":5}}`,
			errorContains: "item.json",
		},
		{
			name: "extension satisfied",
			item: `{"type":"Feature","id":"a","stac_version":"1.0.0","properties":{"pc:count":10},` +
				`"stac_extensions":["` + server.URL + `/pointcloud.json"]}`,
		},
		{
			name: "extension violated",
			item: `{"type":"Feature","id":"a","stac_version":"1.0.0","properties":{},` +
				`"stac_extensions":["` + server.URL + `/pointcloud.json"]}`,
			errorContains: "pointcloud.json",
		},
		{
			name: "extension cannot be loaded",
			item: `{"type":"Feature","id":"a","stac_version":"1.0.0","properties":{},` +
				`"stac_extensions":["` + server.URL + `/missing.json"]}`,
			errorContains: "failed to compile schema",
		},
		{
			name:          "not json",
			item:          `{"type":`,
			errorContains: "failed to decode item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator := NewSchemaValidator(connector, server.URL+"/item.json")
			err := validator.ValidateItem(context.Background(), []byte(tt.item))
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSchemaValidator_CachesCompiledSchemas(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := newSchemaServer(t, &hits)
	connector := sources.NewConnector(httpclient.NewDefaultClient(5 * time.Second))
	validator := NewSchemaValidator(connector, server.URL+"/item.json")

	item := []byte(`{"type":"Feature","id":"a","stac_version":"1.0.0","properties":{}}`)
	for range 3 {
		require.NoError(t, validator.ValidateItem(context.Background(), item))
	}

	assert.Equal(t, int32(2), hits.Load(), "item and common schemas are fetched once")
}
