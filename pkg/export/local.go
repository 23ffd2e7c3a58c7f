package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores artifacts on the local filesystem.
// All paths are confined to baseDir.
type LocalStorage struct {
	baseDir string // absolute
	baseURL string // e.g. "/exports/"
}

// NewLocalStorage creates baseDir if needed and returns a storage rooted at it.
// baseURL prefixes the URLs returned for stored files.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: base directory is required", ErrInvalidConfig)
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{baseDir: abs, baseURL: baseURL}, nil
}

// Put writes data to path, replacing an existing file. A partially written
// file is removed on failure.
func (s *LocalStorage) Put(ctx context.Context, path string, data []byte, contentType string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}

	key, abs, err := s.resolvePath(path)
	if err != nil {
		return File{}, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		_ = os.Remove(abs)
		return File{}, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	return File{
		Path:        key,
		URL:         s.URL(key),
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// Get reads the file stored at path.
func (s *LocalStorage) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, abs, err := s.resolvePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fileError(err, path, ErrFailedToReadFile)
	}
	return data, nil
}

// Delete removes a single file. Directories are never removed.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, abs, err := s.resolvePath(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fileError(err, path, ErrFailedToDeleteFile)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}

// URL returns the public URL of path.
func (s *LocalStorage) URL(path string) string {
	return s.baseURL + strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
}

// resolvePath returns the normalized key and the absolute file path of p,
// rejecting paths that escape baseDir.
func (s *LocalStorage) resolvePath(p string) (string, string, error) {
	key, err := objectKey(p)
	if err != nil {
		return "", "", err
	}
	abs := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if !strings.HasPrefix(abs, s.baseDir+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	return key, abs, nil
}

func fileError(err error, path string, fallback error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return fmt.Errorf("%w: %v", fallback, err)
}
