package sources

import (
	"fmt"

	"github.com/stacklok/stac-query/internal/httpclient"
)

// defaultLocationHandlerFactory is the default implementation of LocationHandlerFactory
type defaultLocationHandlerFactory struct {
	file LocationHandler
	http LocationHandler
}

var _ LocationHandlerFactory = (*defaultLocationHandlerFactory)(nil)

// NewLocationHandlerFactory creates a new location handler factory. HTTP handlers
// share client; a nil client uses httpclient defaults.
func NewLocationHandlerFactory(client httpclient.Client) LocationHandlerFactory {
	return &defaultLocationHandlerFactory{
		file: NewFileLocationHandler(),
		http: NewHTTPLocationHandler(client),
	}
}

// CreateHandler creates a location handler for the given location type
func (f *defaultLocationHandlerFactory) CreateHandler(locationType string) (LocationHandler, error) {
	switch locationType {
	case LocationTypeFile:
		return f.file, nil
	case LocationTypeHTTP:
		return f.http, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocation, locationType)
	}
}
