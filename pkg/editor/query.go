package editor

import "github.com/dmitrymomot/mailbuilder/pkg/document"

// Current returns the current template.
func (s *Store) Current() (document.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.currentIndex()
	if i < 0 {
		return document.Template{}, false
	}
	return s.templates[i].Clone(), true
}

func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// Templates returns every template in insertion order.
func (s *Store) Templates() []document.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]document.Template, len(s.templates))
	for i, t := range s.templates {
		out[i] = t.Clone()
	}
	return out
}

// Template returns the template with id or ErrTemplateNotFound.
func (s *Store) Template(id string) (document.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return document.Template{}, ErrTemplateNotFound
	}
	return s.templates[i].Clone(), nil
}

// Element returns the element with id from the current template, searching
// nested columns too.
func (s *Store) Element(id string) (document.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.currentIndex()
	if i < 0 {
		return document.Element{}, ErrNoCurrent
	}
	el, ok := findElement(s.templates[i].Elements, id)
	if !ok {
		return document.Element{}, ErrElementNotFound
	}
	return el.Clone(), nil
}

func (s *Store) SelectedElementID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

func (s *Store) Dragging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragging
}

// Snapshot returns a copy of the complete state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{
		Templates:         make([]document.Template, len(s.templates)),
		CurrentID:         s.currentID,
		SelectedElementID: s.selectedID,
		Dragging:          s.dragging,
	}
	for i, t := range s.templates {
		st.Templates[i] = t.Clone()
	}
	return st
}

// Len returns the number of templates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}
