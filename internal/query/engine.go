// Package query wires a query configuration into traversals of root catalogs.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/stac-query/internal/config"
	"github.com/stacklok/stac-query/internal/drivers"
	"github.com/stacklok/stac-query/internal/filtering"
	"github.com/stacklok/stac-query/internal/httpclient"
	"github.com/stacklok/stac-query/internal/sources"
	"github.com/stacklok/stac-query/internal/stac"
	"github.com/stacklok/stac-query/internal/telemetry"
	"github.com/stacklok/stac-query/internal/validators"
)

// Result is one resolved item
type Result struct {
	ID      string            `json:"id"`
	Driver  string            `json:"driver"`
	Href    string            `json:"href"`
	Options map[string]string `json:"options"`
}

// Engine runs the query described by a configuration against root catalogs.
// An Engine is safe for concurrent use.
type Engine struct {
	cfg       *config.Config
	spec      *filtering.Spec
	connector sources.Connector
	resolver  drivers.Resolver
	validator stac.ItemValidator
	tracer    trace.Tracer
	metrics   *telemetry.QueryMetrics
}

// Option configures an Engine
type Option func(*Engine)

// WithConnector replaces the connector built from the fetch configuration
func WithConnector(c sources.Connector) Option {
	return func(e *Engine) {
		e.connector = c
	}
}

// WithTracer sets the tracer used for traversal spans
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *telemetry.QueryMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New compiles the filters of cfg and builds the collaborators of a query.
// Filter errors are returned as *stac.ValidationError.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	spec, err := filtering.NewSpec(cfg.Filters)
	if err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, spec: spec}
	for _, opt := range opts {
		opt(e)
	}

	if e.connector == nil {
		client := httpclient.NewDefaultClient(cfg.Fetch.GetTimeout(), httpclient.WithUserAgent(userAgent(cfg)))
		e.connector = sources.NewConnector(client, sources.WithHeadRate(headRate(cfg)))
	}

	var resolverOpts []drivers.ResolverOption
	if cfg.Drivers != nil {
		resolverOpts = append(resolverOpts, drivers.WithContentTypes(cfg.Drivers.ContentTypes))
	}
	e.resolver = drivers.NewResolver(e.connector, resolverOpts...)

	if cfg.Validation.IsEnabled() {
		e.validator = validators.NewSchemaValidator(e.connector, cfg.Validation.GetItemSchemaURL())
	}

	return e, nil
}

// Run traverses the catalog rooted at root and returns its resolved items in order
func (e *Engine) Run(ctx context.Context, root string) ([]Result, error) {
	logger := logr.FromContextOrDiscard(ctx)
	logger.V(1).Info("Running query", "root", root)

	opts := []stac.TraversalOption{
		stac.WithReaderArgs(e.cfg.ReaderArgs),
		stac.WithTracer(e.tracer),
		stac.WithMetrics(e.metrics),
	}
	if e.validator != nil {
		opts = append(opts, stac.WithValidator(e.validator))
	}
	if e.cfg.Fetch != nil {
		opts = append(opts, stac.WithMaxPages(e.cfg.Fetch.MaxPages))
	}

	items, err := stac.NewTraversal(e.connector, e.resolver, e.spec, opts...).Run(ctx, root)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		results = append(results, Result{
			ID:      item.ID(),
			Driver:  item.Driver(),
			Href:    item.Href(),
			Options: item.Options(),
		})
	}
	return results, nil
}

// RunAll runs the query against every root concurrently, at most
// fetch.concurrency at a time. Results are returned in the order of roots. The
// first failure cancels the remaining runs.
func (e *Engine) RunAll(ctx context.Context, roots []string) ([][]Result, error) {
	results := make([][]Result, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Fetch.GetConcurrency())

	for i, root := range roots {
		g.Go(func() error {
			r, err := e.Run(ctx, root)
			if err != nil {
				return fmt.Errorf("query %s: %w", root, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func userAgent(cfg *config.Config) string {
	if cfg.Fetch == nil {
		return ""
	}
	return cfg.Fetch.UserAgent
}

func headRate(cfg *config.Config) float64 {
	if cfg.Fetch == nil {
		return 0
	}
	return cfg.Fetch.HeadRate
}
