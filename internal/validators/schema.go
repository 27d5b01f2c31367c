// Package validators validates catalog documents against JSON Schemas.
package validators

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/gjson"

	"github.com/stacklok/stac-query/internal/sources"
)

// SchemaValidator validates items against the core item schema and the schemas
// listed in their stac_extensions. Schema documents are fetched through the
// connector and compiled once per validator.
type SchemaValidator struct {
	connector     sources.Connector
	itemSchemaURL string

	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a validator for items
func NewSchemaValidator(connector sources.Connector, itemSchemaURL string) *SchemaValidator {
	return &SchemaValidator{
		connector:     connector,
		itemSchemaURL: itemSchemaURL,
		compiled:      make(map[string]*jsonschema.Schema),
	}
}

// ValidateItem validates raw against the item schema, then against every
// extension schema the item declares
func (v *SchemaValidator) ValidateItem(ctx context.Context, raw []byte) error {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode item: %w", err)
	}

	urls := []string{v.itemSchemaURL}
	gjson.GetBytes(raw, "stac_extensions").ForEach(func(_, ext gjson.Result) bool {
		if ext.Type == gjson.String && ext.Str != "" {
			urls = append(urls, ext.Str)
		}
		return true
	})

	for _, url := range urls {
		schema, err := v.schema(ctx, url)
		if err != nil {
			return err
		}
		if err := schema.Validate(instance); err != nil {
			return fmt.Errorf("item does not conform to %s: %w", url, err)
		}
	}
	return nil
}

func (v *SchemaValidator) schema(ctx context.Context, url string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.compiled[url]; ok {
		return schema, nil
	}

	logr.FromContextOrDiscard(ctx).V(1).Info("Compiling schema", "url", url)

	compiler := jsonschema.NewCompiler()
	compiler.UseLoader(&connectorLoader{ctx: ctx, connector: v.connector})
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", url, err)
	}
	v.compiled[url] = schema
	return schema, nil
}

// connectorLoader loads schema documents, including referenced ones, through a Connector
type connectorLoader struct {
	ctx       context.Context
	connector sources.Connector
}

func (l *connectorLoader) Load(url string) (any, error) {
	data, err := l.connector.GetBytes(l.ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("schema %s is not valid JSON: %w", url, err)
	}
	return doc, nil
}
