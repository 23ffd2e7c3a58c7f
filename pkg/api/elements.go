package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/editor"
)

type addElementRequest struct {
	Type    document.Type    `json:"type"`
	Content json.RawMessage  `json:"content,omitempty"`
	Styles  *document.Styles `json:"styles,omitempty"`
	Index   *int             `json:"index,omitempty"`
}

// element builds the element to insert. Missing content or styles fall back
// to the defaults of the type.
func (req addElementRequest) element() (document.Element, error) {
	el := document.NewElement(req.Type)
	if len(req.Content) > 0 {
		c, err := document.DecodeContent(req.Type, req.Content)
		if err != nil {
			return document.Element{}, err
		}
		el.Content = c
	}
	if req.Styles != nil {
		el.Styles = req.Styles.Clone()
	}
	return el, nil
}

func (s *Server) addElement(w http.ResponseWriter, r *http.Request) {
	var req addElementRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	el, err := req.element()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	added, err := s.store.AddElement(el, req.Index)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if added.ID == "" {
		s.ok(w, Applied{})
		return
	}
	s.created(w, added)
}

func (s *Server) getElement(w http.ResponseWriter, r *http.Request) {
	el, err := s.store.Element(chi.URLParam(r, "elementID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, el)
}

func (s *Server) updateElement(w http.ResponseWriter, r *http.Request) {
	var changes editor.ElementChanges
	if err := decode(r, &changes); err != nil {
		s.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "elementID")
	updated, applied, err := s.store.UpdateElement(id, changes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !applied {
		s.ok(w, Applied{})
		return
	}
	s.ok(w, updated)
}

func (s *Server) removeElement(w http.ResponseWriter, r *http.Request) {
	s.ok(w, Applied{Applied: s.store.RemoveElement(chi.URLParam(r, "elementID"))})
}

func (s *Server) duplicateElement(w http.ResponseWriter, r *http.Request) {
	dup, ok := s.store.DuplicateElement(chi.URLParam(r, "elementID"))
	if !ok {
		s.ok(w, Applied{})
		return
	}
	s.created(w, dup)
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s *Server) reorderElements(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, Applied{Applied: s.store.ReorderElements(req.From, req.To)})
}
