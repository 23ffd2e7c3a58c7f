package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mailbuilder/pkg/compiler"
	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/editor"
	"github.com/dmitrymomot/mailbuilder/pkg/export"
	"github.com/dmitrymomot/mailbuilder/pkg/importer"
	"github.com/dmitrymomot/mailbuilder/pkg/logger"
)

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.ok(w, s.store.Snapshot())
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	s.ok(w, s.store.Templates())
}

type createTemplateRequest struct {
	Name string `json:"name"`
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, s.store.CreateTemplate(req.Name))
}

func (s *Server) importTemplate(w http.ResponseWriter, r *http.Request) {
	candidate, err := importer.Decode(r.Body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tpl, err := s.store.ImportTemplate(candidate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, tpl)
}

func (s *Server) getCurrent(w http.ResponseWriter, r *http.Request) {
	tpl, ok := s.store.Current()
	if !ok {
		s.fail(w, r, editor.ErrNoCurrent)
		return
	}
	s.ok(w, tpl)
}

func (s *Server) updateCurrent(w http.ResponseWriter, r *http.Request) {
	var changes editor.TemplateChanges
	if err := decode(r, &changes); err != nil {
		s.fail(w, r, err)
		return
	}
	tpl, ok := s.store.UpdateTemplate(changes)
	if !ok {
		s.ok(w, Applied{})
		return
	}
	s.ok(w, tpl)
}

func (s *Server) template(w http.ResponseWriter, r *http.Request) (document.Template, bool) {
	tpl, err := s.store.Template(chi.URLParam(r, "templateID"))
	if err != nil {
		s.fail(w, r, err)
		return document.Template{}, false
	}
	return tpl, true
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	if tpl, ok := s.template(w, r); ok {
		s.ok(w, tpl)
	}
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	s.ok(w, Applied{Applied: s.store.DeleteTemplate(chi.URLParam(r, "templateID"))})
}

func (s *Server) selectTemplate(w http.ResponseWriter, r *http.Request) {
	s.ok(w, Applied{Applied: s.store.SelectTemplate(chi.URLParam(r, "templateID"))})
}

// previewTemplate renders the compiled document as an HTML page.
func (s *Server) previewTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, ok := s.template(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", export.ContentTypeHTML)
	if err := compiler.Component(tpl).Render(r.Context(), w); err != nil {
		s.log.ErrorContext(r.Context(), "preview render failed", logger.Error(err))
	}
}

func (s *Server) textTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, ok := s.template(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", export.ContentTypeText)
	_, _ = w.Write([]byte(compiler.PlainText(tpl)))
}

// downloadTemplate serves the compiled HTML or the JSON document as an
// attachment. The format query parameter selects html (default), json or txt.
func (s *Server) downloadTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, ok := s.template(w, r)
	if !ok {
		return
	}

	var (
		body        []byte
		ext         string
		contentType string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "html":
		body, ext, contentType = []byte(compiler.HTML(tpl)), export.ExtHTML, export.ContentTypeHTML
	case "json":
		data, err := export.MarshalJSON(tpl)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		body, ext, contentType = data, export.ExtJSON, export.ContentTypeJSON
	case "txt", "text":
		body, ext, contentType = []byte(compiler.PlainText(tpl)), export.ExtText, export.ContentTypeText
	default:
		s.fail(w, r, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(tpl.Name, ext)))
	_, _ = w.Write(body)
}

// exportTemplate writes the HTML and JSON exports to the configured storage.
func (s *Server) exportTemplate(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.fail(w, r, ErrExportDisabled)
		return
	}
	tpl, ok := s.template(w, r)
	if !ok {
		return
	}
	files, err := s.exporter.Export(r.Context(), tpl)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, files)
}

type selectionRequest struct {
	ElementID string `json:"elementId"`
}

func (s *Server) putSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.store.SelectElement(req.ElementID)
	s.ok(w, s.store.Snapshot())
}

type draggingRequest struct {
	Dragging bool `json:"dragging"`
}

func (s *Server) putDragging(w http.ResponseWriter, r *http.Request) {
	var req draggingRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.store.SetDragging(req.Dragging)
	s.ok(w, Applied{Applied: true})
}
