package sources

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/stacklok/stac-query/internal/httpclient"
)

// httpLocationHandler handles documents served over HTTP
type httpLocationHandler struct {
	httpClient httpclient.Client
}

var _ LocationHandler = (*httpLocationHandler)(nil)

// NewHTTPLocationHandler creates a new HTTP location handler using client
func NewHTTPLocationHandler(client httpclient.Client) LocationHandler {
	if client == nil {
		client = httpclient.NewDefaultClient(0)
	}
	return &httpLocationHandler{httpClient: client}
}

// Fetch performs a GET request for location
func (h *httpLocationHandler) Fetch(ctx context.Context, location string) ([]byte, error) {
	logger := logr.FromContextOrDiscard(ctx)

	data, err := h.httpClient.Get(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}

	logger.V(1).Info("Fetched document", "location", location, "bytes", len(data))
	return data, nil
}

// Head performs a HEAD request for location
func (h *httpLocationHandler) Head(ctx context.Context, location string) (map[string]string, error) {
	headers, err := h.httpClient.Head(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to HEAD %s: %w", location, err)
	}
	return headers, nil
}
