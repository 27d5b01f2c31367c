package stac

import (
	"context"
	"fmt"
	"maps"

	"github.com/go-logr/logr"
	"github.com/tidwall/gjson"

	"github.com/stacklok/stac-query/internal/drivers"
	"github.com/stacklok/stac-query/internal/filtering"
	"github.com/stacklok/stac-query/internal/stacerr"
)

// ItemValidator validates raw item documents, typically against JSON Schemas
type ItemValidator interface {
	ValidateItem(ctx context.Context, raw []byte) error
}

// Item is one catalog entry of a page
type Item struct {
	raw       gjson.Result
	basePath  string
	resolver  drivers.Resolver
	validator ItemValidator

	id      string
	driver  string
	href    string
	options map[string]string
}

// ItemOption configures an Item
type ItemOption func(*Item)

// WithItemValidator validates accepted items with v before their options are built
func WithItemValidator(v ItemValidator) ItemOption {
	return func(i *Item) {
		i.validator = v
	}
}

// NewItem wraps the feature raw read from the page at basePath
func NewItem(raw gjson.Result, basePath string, resolver drivers.Resolver, opts ...ItemOption) *Item {
	item := &Item{
		raw:      raw,
		basePath: basePath,
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

// ID returns the item identifier. It is empty until Init has validated the item.
func (i *Item) ID() string {
	return i.id
}

// Driver returns the reader driver of the resolved asset
func (i *Item) Driver() string {
	return i.driver
}

// Href returns the location of the resolved asset
func (i *Item) Href() string {
	return i.href
}

// Options returns a copy of the reader options
func (i *Item) Options() map[string]string {
	return maps.Clone(i.options)
}

// Raw returns the item document
func (i *Item) Raw() []byte {
	return []byte(i.raw.Raw)
}

// Init runs the filter chain. It returns false when the item is rejected and an
// error when the item is malformed. The item is resolved only when Init
// returns true.
func (i *Item) Init(ctx context.Context, spec *filtering.Spec, args ReaderArgs) (bool, error) {
	if err := i.validateStructure(); err != nil {
		return false, err
	}
	logger := logr.FromContextOrDiscard(ctx).WithValues("item", i.id)

	driver, href, err := i.resolveAsset(ctx, spec)
	if err != nil {
		return false, err
	}
	if driver == "" {
		logger.V(1).Info("Item rejected", "reason", "no asset with a known driver")
		return false, nil
	}

	if ok, reason := spec.MatchID(i.id); !ok {
		logger.V(1).Info("Item rejected", "reason", reason)
		return false, nil
	}

	collection := field(i.raw, "collection")
	if ok, reason := spec.MatchCollection(collection.String(), collection.Exists()); !ok {
		logger.V(1).Info("Item rejected", "reason", reason)
		return false, nil
	}

	ok, err := i.filterDates(spec)
	if err != nil {
		return false, err
	}
	if !ok {
		logger.V(1).Info("Item rejected", "reason", "outside requested dates")
		return false, nil
	}

	properties := field(i.raw, "properties")
	if ok, reason := spec.MatchProperties(func(key string) gjson.Result {
		return field(properties, key)
	}); !ok {
		logger.V(1).Info("Item rejected", "reason", reason)
		return false, nil
	}

	ok, err = i.filterBounds(spec.Bounds())
	if err != nil {
		return false, err
	}
	if !ok {
		logger.V(1).Info("Item rejected", "reason", "disjoint from bounds")
		return false, nil
	}

	if i.validator != nil {
		if err := i.validator.ValidateItem(ctx, i.Raw()); err != nil {
			return false, stacerr.ItemError(i.id, "schema validation failed", err)
		}
	}

	options := args.For(driver)
	options["filename"] = href

	i.driver, i.href, i.options = driver, href, options
	logger.V(1).Info("Item accepted", "driver", driver, "href", href)
	return true, nil
}

func (i *Item) validateStructure() error {
	if !i.raw.IsObject() {
		return stacerr.NewValidationError("item is not a JSON object")
	}
	for _, key := range []string{"assets", "properties", "geometry"} {
		if !field(i.raw, key).Exists() {
			return stacerr.NewValidationError("missing key %q in item", key)
		}
	}

	id := field(i.raw, "id")
	if id.Type != gjson.String || id.Str == "" {
		return stacerr.NewValidationError("item id must be a non-empty string, got %s", rawOrMissing(id))
	}
	i.id = id.Str
	return nil
}

// resolveAsset walks the configured asset names in preference order. Every later
// name that resolves to a driver replaces the earlier choice.
func (i *Item) resolveAsset(ctx context.Context, spec *filtering.Spec) (string, string, error) {
	assets := field(i.raw, "assets")
	if !assets.IsObject() {
		return "", "", stacerr.NewValidationError("assets of item %q must be an object", i.id)
	}

	var keys []string
	assets.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})

	var driver, href string
	for _, name := range spec.SelectAssets(keys) {
		asset := field(assets, name)
		assetHref := field(asset, "href")
		if assetHref.Type != gjson.String || assetHref.Str == "" {
			return "", "", stacerr.ItemError(i.id, fmt.Sprintf("asset %q has no href", name), nil)
		}

		resolved := ResolveHref(i.basePath, assetHref.Str)
		d, err := i.resolver.Resolve(ctx, i.id, drivers.Asset{
			Href: resolved,
			Type: field(asset, "type").String(),
		})
		if err != nil {
			return "", "", err
		}
		if d != "" {
			driver, href = d, resolved
		}
	}
	return driver, href, nil
}

// field looks key up in obj without interpreting path syntax, so keys such as
// "proj:epsg" or "eo.bands" are matched literally
func field(obj gjson.Result, key string) gjson.Result {
	var out gjson.Result
	if !obj.IsObject() {
		return out
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			out = v
			return false
		}
		return true
	})
	return out
}

func rawOrMissing(v gjson.Result) string {
	if !v.Exists() {
		return "nothing"
	}
	return v.Raw
}
