package export

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/dmitrymomot/mailbuilder/pkg/compiler"
	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/sanitizer"
)

const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)

// MarshalJSON encodes t in the import/export layout, indented by two spaces.
func MarshalJSON(t document.Template) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToEncode, err)
	}
	return data, nil
}

// Exporter writes compiled templates to a Storage.
type Exporter struct {
	storage Storage
	prefix  string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPrefix stores every artifact below dir.
func WithPrefix(dir string) Option {
	return func(e *Exporter) { e.prefix = dir }
}

// New returns an Exporter backed by storage.
func New(storage Storage, opts ...Option) *Exporter {
	e := &Exporter{storage: storage}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Storage returns the backend artifacts are written to.
func (e *Exporter) Storage() Storage { return e.storage }

// Path returns the storage path of the artifact of t with extension ext:
// <prefix>/<template id>/<file name>. Path separators in the name are replaced.
func (e *Exporter) Path(t document.Template, ext string) string {
	dir := e.prefix
	if t.ID != "" {
		dir = path.Join(dir, sanitizer.SanitizeFilename(t.ID))
	}
	return path.Join(dir, sanitizer.SanitizeFilename(Filename(t.Name, ext)))
}

// ExportHTML stores the compiled HTML document of t.
func (e *Exporter) ExportHTML(ctx context.Context, t document.Template) (File, error) {
	return e.storage.Put(ctx, e.Path(t, ExtHTML), []byte(compiler.HTML(t)), ContentTypeHTML)
}

// ExportText stores the plain text rendering of t.
func (e *Exporter) ExportText(ctx context.Context, t document.Template) (File, error) {
	return e.storage.Put(ctx, e.Path(t, ExtText), []byte(compiler.PlainText(t)), ContentTypeText)
}

// ExportJSON stores t in the import/export JSON layout.
func (e *Exporter) ExportJSON(ctx context.Context, t document.Template) (File, error) {
	data, err := MarshalJSON(t)
	if err != nil {
		return File{}, err
	}
	return e.storage.Put(ctx, e.Path(t, ExtJSON), data, ContentTypeJSON)
}

// Export stores the HTML and JSON artifacts of t, in that order. It stops at
// the first failure.
func (e *Exporter) Export(ctx context.Context, t document.Template) ([]File, error) {
	htmlFile, err := e.ExportHTML(ctx, t)
	if err != nil {
		return nil, err
	}
	jsonFile, err := e.ExportJSON(ctx, t)
	if err != nil {
		return nil, err
	}
	return []File{htmlFile, jsonFile}, nil
}
