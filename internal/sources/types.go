package sources

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

const (
	// LocationTypeFile is the type of local paths and file:// URLs
	LocationTypeFile = "file"

	// LocationTypeHTTP is the type of http:// and https:// URLs
	LocationTypeHTTP = "http"
)

// ErrUnsupportedLocation is returned for locations no handler can serve, such as s3:// URLs
var ErrUnsupportedLocation = errors.New("unsupported location type")

//go:generate mockgen -destination=mocks/mock_connector.go -package=mocks -source=types.go Connector,LocationHandler

// Connector is the fetch capability used while evaluating a query
type Connector interface {
	// FileExists reports whether path names a readable local file
	FileExists(path string) bool

	// HeadRequest sends HEAD to location and returns its response headers
	HeadRequest(ctx context.Context, location string) (map[string]string, error)

	// GetBytes retrieves the document at location
	GetBytes(ctx context.Context, location string) ([]byte, error)
}

// LocationHandler fetches and HEADs one kind of location
type LocationHandler interface {
	// Fetch retrieves the document at location
	Fetch(ctx context.Context, location string) ([]byte, error)

	// Head returns metadata headers for location without retrieving its content
	Head(ctx context.Context, location string) (map[string]string, error)
}

// LocationHandlerFactory creates location handlers based on location type
type LocationHandlerFactory interface {
	// CreateHandler creates a handler for the given location type
	CreateHandler(locationType string) (LocationHandler, error)
}

// LocationType classifies a location as a local file or an HTTP URL. Other URL
// schemes are returned as-is so the factory can reject them.
func LocationType(location string) string {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || isWindowsDrive(u.Scheme) {
		return LocationTypeFile
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return LocationTypeFile
	case "http", "https":
		return LocationTypeHTTP
	default:
		return strings.ToLower(u.Scheme)
	}
}

// LocalPath converts a file location into a filesystem path
func LocalPath(location string) string {
	if !strings.HasPrefix(strings.ToLower(location), "file://") {
		return location
	}
	u, err := url.Parse(location)
	if err != nil {
		return strings.TrimPrefix(location, "file://")
	}
	return u.Path
}

func isWindowsDrive(scheme string) bool {
	return len(scheme) == 1
}
