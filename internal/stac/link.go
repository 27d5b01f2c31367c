package stac

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/stacklok/stac-query/internal/sources"
)

// ResolveHref resolves href against the location of the document that contains it.
// Absolute URLs and absolute paths are returned unchanged. Relative references
// are resolved as URL references against URL bases, and against the directory of
// local bases.
func ResolveHref(base, href string) string {
	if href == "" || base == "" {
		return href
	}

	if sources.LocationType(href) != sources.LocationTypeFile || strings.HasPrefix(strings.ToLower(href), "file://") {
		return href
	}

	if sources.LocationType(base) == sources.LocationTypeHTTP {
		baseURL, err := url.Parse(base)
		if err != nil {
			return href
		}
		ref, err := url.Parse(href)
		if err != nil {
			return href
		}
		return baseURL.ResolveReference(ref).String()
	}

	if filepath.IsAbs(href) {
		return href
	}
	if sources.LocationType(base) != sources.LocationTypeFile {
		return href
	}
	return filepath.Join(filepath.Dir(sources.LocalPath(base)), href)
}
