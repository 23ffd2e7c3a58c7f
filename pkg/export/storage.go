package export

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
)

// File describes a stored export artifact.
type File struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Storage persists export artifacts.
type Storage interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (File, error)
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// objectKey normalizes a slash separated key and rejects traversal.
func objectKey(p string) (string, error) {
	if strings.ContainsRune(p, '\\') || slices.Contains(strings.Split(p, "/"), "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	key := strings.TrimPrefix(path.Clean("/"+p), "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidPath)
	}
	return key, nil
}
