package stac

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/stac-query/internal/drivers"
	"github.com/stacklok/stac-query/internal/filtering"
	"github.com/stacklok/stac-query/internal/otel"
	"github.com/stacklok/stac-query/internal/sources"
	"github.com/stacklok/stac-query/internal/stacerr"
	"github.com/stacklok/stac-query/internal/telemetry"
)

const relNext = "next"

// Page records one traversed page and the arena indices of its accepted items
type Page struct {
	Location string
	ID       string
	Features int
	Items    []int
}

// Traversal runs one query over a root page and every page linked from it
// through "next" links. Pages are visited depth first in link order, and a page
// location is visited at most once.
type Traversal struct {
	connector sources.Connector
	resolver  drivers.Resolver
	spec      *filtering.Spec
	args      ReaderArgs
	validator ItemValidator
	maxPages  int
	tracer    trace.Tracer
	metrics   *telemetry.QueryMetrics

	items []*Item
	pages []Page
}

// TraversalOption configures a Traversal
type TraversalOption func(*Traversal)

// WithReaderArgs sets the per-driver reader options
func WithReaderArgs(args ReaderArgs) TraversalOption {
	return func(t *Traversal) {
		t.args = args
	}
}

// WithValidator validates every accepted item
func WithValidator(v ItemValidator) TraversalOption {
	return func(t *Traversal) {
		t.validator = v
	}
}

// WithMaxPages stops the traversal after n pages. Zero means no limit.
func WithMaxPages(n int) TraversalOption {
	return func(t *Traversal) {
		t.maxPages = n
	}
}

// WithTracer sets the tracer used for traversal spans
func WithTracer(tracer trace.Tracer) TraversalOption {
	return func(t *Traversal) {
		t.tracer = tracer
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *telemetry.QueryMetrics) TraversalOption {
	return func(t *Traversal) {
		t.metrics = m
	}
}

// NewTraversal creates a traversal that fetches pages through connector and
// filters their items with spec
func NewTraversal(
	connector sources.Connector,
	resolver drivers.Resolver,
	spec *filtering.Spec,
	opts ...TraversalOption,
) *Traversal {
	t := &Traversal{
		connector: connector,
		resolver:  resolver,
		spec:      spec,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type pendingPage struct {
	location string
	doc      []byte
}

// Run fetches the page at location and traverses it
func (t *Traversal) Run(ctx context.Context, location string) ([]*Item, error) {
	return t.run(ctx, pendingPage{location: location})
}

// RunDocument traverses doc, a page already read from location
func (t *Traversal) RunDocument(ctx context.Context, location string, doc []byte) ([]*Item, error) {
	return t.run(ctx, pendingPage{location: location, doc: doc})
}

func (t *Traversal) run(ctx context.Context, root pendingPage) ([]*Item, error) {
	ctx, span := otel.StartSpan(ctx, t.tracer, "stac.Traversal",
		trace.WithAttributes(otel.AttrRootLocation.String(root.location)),
	)
	defer span.End()

	logger := logr.FromContextOrDiscard(ctx).WithValues("root", root.location)
	start := time.Now()

	t.items, t.pages = nil, nil

	err := t.walk(ctx, root)
	t.metrics.RecordQueryDuration(ctx, root.location, time.Since(start), err == nil)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	items := t.Items()
	span.SetAttributes(
		otel.AttrPageCount.Int(len(t.pages)),
		otel.AttrResultCount.Int(len(items)),
	)
	logger.Info("Traversal complete", "pages", len(t.pages), "items", len(items), "duration", time.Since(start))
	return items, nil
}

// walk processes pages from an explicit stack. Links of a page are pushed in
// reverse so they are popped in document order, which keeps the depth first
// pre-order a recursive walk would produce.
func (t *Traversal) walk(ctx context.Context, root pendingPage) error {
	logger := logr.FromContextOrDiscard(ctx)

	stack := []pendingPage{root}
	visited := map[string]struct{}{root.location: {}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.maxPages > 0 && len(t.pages) >= t.maxPages {
			logger.Info("Page limit reached, stopping traversal", "maxPages", t.maxPages, "pending", len(stack))
			return nil
		}

		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		links, err := t.processPage(ctx, next)
		if err != nil {
			return err
		}

		for i := len(links) - 1; i >= 0; i-- {
			if _, seen := visited[links[i]]; seen {
				logger.Info("Skipping already visited page", "location", links[i], "from", next.location)
				continue
			}
			visited[links[i]] = struct{}{}
			stack = append(stack, pendingPage{location: links[i]})
		}
	}
	return nil
}

// processPage filters the items of one page into the arena and returns the
// resolved locations of its next links
func (t *Traversal) processPage(ctx context.Context, p pendingPage) ([]string, error) {
	ctx, span := otel.StartSpan(ctx, t.tracer, "stac.fetchPage",
		trace.WithAttributes(otel.AttrPageLocation.String(p.location)),
	)
	defer span.End()

	logger := logr.FromContextOrDiscard(ctx).WithValues("location", p.location)

	doc := p.doc
	if doc == nil {
		var err error
		doc, err = t.connector.GetBytes(ctx, p.location)
		if err != nil {
			err = stacerr.NewObjectError(p.location, stacerr.KindFeatureCollection, "failed to fetch page", err)
			otel.RecordError(span, err)
			return nil, err
		}
	}
	if !gjson.ValidBytes(doc) {
		err := stacerr.NewObjectError(p.location, stacerr.KindFeatureCollection, "page is not valid JSON", nil)
		otel.RecordError(span, err)
		return nil, err
	}

	page := gjson.ParseBytes(doc)
	pageID := p.location
	if id := field(page, "id"); id.Type == gjson.String && id.Str != "" {
		pageID = id.Str
	}

	features := field(page, "features")
	if !features.IsArray() {
		err := stacerr.NewValidationError("page %q: features must be an array, got %s", pageID, rawOrMissing(features))
		otel.RecordError(span, err)
		return nil, err
	}

	record := Page{Location: p.location, ID: pageID}
	var itemErr error
	features.ForEach(func(_, feature gjson.Result) bool {
		record.Features++
		item := NewItem(feature, p.location, t.resolver, WithItemValidator(t.validator))
		ok, err := item.Init(ctx, t.spec, t.args)
		if err != nil {
			itemErr = err
			return false
		}
		t.metrics.RecordItem(ctx, ok)
		if ok {
			record.Items = append(record.Items, len(t.items))
			t.items = append(t.items, item)
		}
		return true
	})
	if itemErr != nil {
		var objErr *stacerr.ObjectError
		if errors.As(itemErr, &objErr) && objErr.Kind == stacerr.KindItem {
			span.SetAttributes(otel.AttrItemID.String(objErr.ID))
		}
		otel.RecordError(span, itemErr)
		return nil, itemErr
	}

	t.pages = append(t.pages, record)
	t.metrics.RecordPage(ctx)
	span.SetAttributes(
		otel.AttrPageFeatures.Int(record.Features),
		otel.AttrResultCount.Int(len(record.Items)),
	)
	logger.V(1).Info("Processed page", "features", record.Features, "accepted", len(record.Items))

	links, err := nextLinks(page, p.location, pageID)
	if err != nil {
		otel.RecordError(span, err)
		return nil, err
	}
	return links, nil
}

func nextLinks(page gjson.Result, location, pageID string) ([]string, error) {
	links := field(page, "links")
	if !links.Exists() || links.Type == gjson.Null {
		return nil, nil
	}
	if !links.IsArray() {
		return nil, stacerr.NewObjectError(pageID, stacerr.KindFeatureCollection, "links must be an array", nil)
	}

	var out []string
	var err error
	links.ForEach(func(_, link gjson.Result) bool {
		rel := field(link, "rel")
		if rel.Type != gjson.String || rel.Str != relNext {
			return true
		}
		href := field(link, "href")
		if href.Type != gjson.String || href.Str == "" {
			err = stacerr.NewObjectError(pageID, stacerr.KindFeatureCollection, "next link has no href", nil)
			return false
		}
		out = append(out, ResolveHref(location, href.Str))
		return true
	})
	return out, err
}

// Items returns the accepted items of the last run in result order
func (t *Traversal) Items() []*Item {
	var out []*Item
	for _, p := range t.pages {
		for _, idx := range p.Items {
			out = append(out, t.items[idx])
		}
	}
	return out
}

// Pages returns the pages of the last run in traversal order
func (t *Traversal) Pages() []Page {
	out := make([]Page, len(t.pages))
	copy(out, t.pages)
	return out
}
