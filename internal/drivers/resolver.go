package drivers

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/go-logr/logr"

	"github.com/stacklok/stac-query/internal/sources"
	"github.com/stacklok/stac-query/internal/stacerr"
)

// DefaultContentTypes maps media types to reader drivers
var DefaultContentTypes = map[string]string{
	"application/vnd.laszip+copc": ReaderCOPC,
}

// Asset describes one asset entry of a catalog item. Href must already be
// resolved against the item's location.
type Asset struct {
	Href string
	Type string
}

// Resolver maps assets to reader drivers
type Resolver interface {
	// Resolve returns the driver for asset, or "" when none can be determined.
	// itemID identifies the owning item in returned errors.
	Resolve(ctx context.Context, itemID string, asset Asset) (string, error)
}

// ResolverOption configures a Resolver
type ResolverOption func(*resolver)

// WithContentType registers an additional media type mapping
func WithContentType(contentType, driver string) ResolverOption {
	return func(r *resolver) {
		r.contentTypes[normalizeContentType(contentType)] = driver
	}
}

// WithContentTypes registers every mapping in types
func WithContentTypes(types map[string]string) ResolverOption {
	return func(r *resolver) {
		for ct, driver := range types {
			r.contentTypes[normalizeContentType(ct)] = driver
		}
	}
}

type resolver struct {
	connector    sources.Connector
	contentTypes map[string]string
}

// NewResolver creates a Resolver that sends HEAD requests for remote assets through connector
func NewResolver(connector sources.Connector, opts ...ResolverOption) Resolver {
	r := &resolver{
		connector:    connector,
		contentTypes: make(map[string]string, len(DefaultContentTypes)),
	}
	for ct, driver := range DefaultContentTypes {
		r.contentTypes[ct] = driver
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve tries the declared media type, then a HEAD request for assets that are
// not local files, then inference from the href. Assets whose scheme the
// connector cannot serve (s3://, ept://) skip the HEAD request.
func (r *resolver) Resolve(ctx context.Context, itemID string, asset Asset) (string, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("item", itemID, "href", asset.Href)

	if driver, ok := r.lookup(asset.Type); ok {
		return driver, nil
	}

	if !r.connector.FileExists(asset.Href) {
		headers, err := r.connector.HeadRequest(ctx, asset.Href)
		switch {
		case errors.Is(err, sources.ErrUnsupportedLocation):
			logger.V(1).Info("Asset location has no handler, inferring driver")
		case err != nil:
			return "", stacerr.ItemError(itemID, fmt.Sprintf("failed to HEAD %s", asset.Href), err)
		default:
			if driver, ok := r.lookup(headerValue(headers, "Content-Type")); ok {
				logger.V(1).Info("Resolved driver from HEAD content type", "driver", driver)
				return driver, nil
			}
		}
	}

	driver := InferReaderDriver(asset.Href)
	if driver == "" {
		logger.V(1).Info("No driver found for asset")
	}
	return driver, nil
}

func (r *resolver) lookup(contentType string) (string, bool) {
	if contentType == "" {
		return "", false
	}
	driver, ok := r.contentTypes[normalizeContentType(contentType)]
	return driver, ok
}

// normalizeContentType lowercases a media type and drops its parameters
func normalizeContentType(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
