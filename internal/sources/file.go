package sources

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
)

// fileLocationHandler handles documents on the local filesystem
type fileLocationHandler struct{}

var _ LocationHandler = (*fileLocationHandler)(nil)

// NewFileLocationHandler creates a new file location handler
func NewFileLocationHandler() LocationHandler {
	return &fileLocationHandler{}
}

// Fetch reads the file at location
func (*fileLocationHandler) Fetch(_ context.Context, location string) ([]byte, error) {
	path := LocalPath(location)

	//nolint:gosec // Paths come from the catalog being queried, this is expected behavior
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// Head stats the file and reports its size and a media type guessed from the extension
func (*fileLocationHandler) Head(_ context.Context, location string) (map[string]string, error) {
	path := LocalPath(location)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	headers := map[string]string{
		"Content-Length": strconv.FormatInt(info.Size(), 10),
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		headers["Content-Type"] = ct
	}
	return headers, nil
}
