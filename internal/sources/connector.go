package sources

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"golang.org/x/time/rate"

	"github.com/stacklok/stac-query/internal/httpclient"
)

// DefaultConnector dispatches each location to the handler for its type
type DefaultConnector struct {
	factory LocationHandlerFactory
	limiter *rate.Limiter
}

var _ Connector = (*DefaultConnector)(nil)

// ConnectorOption configures a DefaultConnector
type ConnectorOption func(*DefaultConnector)

// WithHandlerFactory replaces the location handler factory
func WithHandlerFactory(factory LocationHandlerFactory) ConnectorOption {
	return func(c *DefaultConnector) {
		c.factory = factory
	}
}

// WithHeadRate limits HEAD requests to perSecond requests per second.
// Zero or a negative value means unlimited.
func WithHeadRate(perSecond float64) ConnectorOption {
	return func(c *DefaultConnector) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
}

// NewConnector creates a connector whose HTTP handler uses client
func NewConnector(client httpclient.Client, opts ...ConnectorOption) *DefaultConnector {
	c := &DefaultConnector{
		factory: NewLocationHandlerFactory(client),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FileExists reports whether path is a regular local file. URLs other than
// file:// never exist locally.
func (*DefaultConnector) FileExists(path string) bool {
	if LocationType(path) != LocationTypeFile {
		return false
	}
	info, err := os.Stat(LocalPath(path))
	return err == nil && !info.IsDir()
}

// HeadRequest sends HEAD to location, waiting for the rate limiter first
func (c *DefaultConnector) HeadRequest(ctx context.Context, location string) (map[string]string, error) {
	handler, err := c.factory.CreateHandler(LocationType(location))
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting to send HEAD to %s: %w", location, err)
	}

	logr.FromContextOrDiscard(ctx).V(1).Info("Probing asset", "location", location)
	return handler.Head(ctx, location)
}

// GetBytes retrieves the document at location
func (c *DefaultConnector) GetBytes(ctx context.Context, location string) ([]byte, error) {
	handler, err := c.factory.CreateHandler(LocationType(location))
	if err != nil {
		return nil, err
	}
	return handler.Fetch(ctx, location)
}
