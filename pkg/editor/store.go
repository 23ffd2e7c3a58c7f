package editor

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/importer"
	"github.com/dmitrymomot/mailbuilder/pkg/logger"
	"github.com/dmitrymomot/mailbuilder/pkg/validator"
)

// State is a point in time copy of the whole store.
type State struct {
	Templates         []document.Template `json:"templates"`
	CurrentID         string              `json:"currentTemplateId,omitempty"`
	SelectedElementID string              `json:"selectedElementId,omitempty"`
	Dragging          bool                `json:"isDragging"`
}

// Store owns the collection of templates and the editing state around it.
// The current template is a reference into the collection, never a copy.
//
// Every command is applied atomically. Commands that reference a missing
// template or element are no-ops and report false instead of failing.
// Values returned by the store are deep copies.
// All methods are safe for concurrent use.
type Store struct {
	// cmdMu serializes commands together with their hooks so that events are
	// delivered in the order the commands were applied.
	cmdMu sync.Mutex
	mu    sync.RWMutex

	templates  []document.Template
	currentID  string
	selectedID string
	dragging   bool

	now   func() time.Time
	newID func() string
	log   *slog.Logger
	hooks []Hook
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		templates: []document.Template{},
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("editor"))
	return s
}

// apply runs fn under the write lock, then delivers the events it returned.
func (s *Store) apply(command string, fn func() []Event) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	s.mu.Lock()
	events := fn()
	s.mu.Unlock()

	for _, ev := range events {
		ev.Command = command
		s.log.Debug("command applied",
			logger.Event(string(ev.Kind)),
			slog.String("command", command),
			logger.TemplateID(ev.TemplateID),
		)
		for _, h := range s.hooks {
			h(ev)
		}
	}
}

func (s *Store) currentIndex() int {
	if s.currentID == "" {
		return -1
	}
	return s.indexOf(s.currentID)
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.templates, func(t document.Template) bool { return t.ID == id })
}

func changed(t document.Template) Event {
	return Event{Kind: EventTemplateChanged, TemplateID: t.ID, Template: t.Clone()}
}

func (s *Store) selection() Event {
	return Event{Kind: EventSelectionChanged, TemplateID: s.currentID}
}

// touchCurrent replaces the element list of the current template and
// refreshes its updatedAt.
func (s *Store) touchCurrent(i int, elements []document.Element) Event {
	s.templates[i].Elements = elements
	s.templates[i].UpdatedAt = s.now()
	return changed(s.templates[i])
}

// CreateTemplate inserts a new empty template and makes it current.
func (s *Store) CreateTemplate(name string) document.Template {
	var out document.Template
	s.apply("createTemplate", func() []Event {
		now := s.now()
		tpl := document.Template{
			ID:        s.newID(),
			Name:      templateName(name),
			Elements:  []document.Element{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.templates = append(s.templates, tpl)
		s.currentID = tpl.ID
		s.selectedID = ""
		out = tpl.Clone()
		return []Event{changed(tpl), s.selection()}
	})
	return out
}

// UpdateTemplate merges changes into the current template and refreshes its
// updatedAt. It reports false when there is no current template.
func (s *Store) UpdateTemplate(changes TemplateChanges) (document.Template, bool) {
	var (
		out document.Template
		ok  bool
	)
	s.apply("updateTemplate", func() []Event {
		i := s.currentIndex()
		if i < 0 {
			return nil
		}
		tpl := &s.templates[i]
		if changes.Name != nil {
			tpl.Name = templateName(*changes.Name)
		}
		if changes.Subject != nil {
			tpl.Subject = *changes.Subject
		}
		if changes.Description != nil {
			tpl.Description = *changes.Description
		}
		tpl.UpdatedAt = s.now()
		out, ok = tpl.Clone(), true
		return []Event{changed(*tpl)}
	})
	return out, ok
}

// SelectTemplate makes the template with id current and clears the element
// selection.
func (s *Store) SelectTemplate(id string) bool {
	var ok bool
	s.apply("selectTemplate", func() []Event {
		if s.indexOf(id) < 0 {
			return nil
		}
		s.currentID = id
		s.selectedID = ""
		ok = true
		return []Event{s.selection()}
	})
	return ok
}

// DeleteTemplate removes the template with id. When it was current, the first
// remaining template becomes current, or none when the collection is empty.
func (s *Store) DeleteTemplate(id string) bool {
	var ok bool
	s.apply("deleteTemplate", func() []Event {
		i := s.indexOf(id)
		if i < 0 {
			return nil
		}
		s.templates = slices.Delete(s.templates, i, i+1)
		ok = true

		events := []Event{{Kind: EventTemplateDeleted, TemplateID: id}}
		if s.currentID == id {
			s.currentID = ""
			if len(s.templates) > 0 {
				s.currentID = s.templates[0].ID
			}
			s.selectedID = ""
			events = append(events, s.selection())
		}
		return events
	})
	return ok
}

// AddElement assigns a fresh id to el and inserts it into the current
// template at index, or appends it when index is nil. The index is clamped to
// the element list. An element without content gets the defaults for its
// type. It returns a copy of the inserted element, or a zero Element when
// there is no current template.
func (s *Store) AddElement(el document.Element, index *int) (document.Element, error) {
	if el.Content == nil && el.Styles == nil {
		el.Content, el.Styles = document.Defaults(el.Type)
	}
	if el.Styles == nil {
		el.Styles = document.Styles{}
	}
	if err := el.Validate(); err != nil {
		return document.Element{}, err
	}

	var added document.Element
	s.apply("addElement", func() []Event {
		i := s.currentIndex()
		if i < 0 {
			return nil
		}
		el = assignIDs(el.Clone(), s.newID, nil)
		added = el.Clone()

		elements := s.templates[i].Elements
		pos := len(elements)
		if index != nil {
			pos = min(max(*index, 0), len(elements))
		}
		s.log.Debug("element added", logger.ElementID(el.ID), logger.ElementType(string(el.Type)))
		return []Event{s.touchCurrent(i, slices.Insert(slices.Clone(elements), pos, el))}
	})
	return added, nil
}

// UpdateElement merges changes into the element with id in the current
// template, nested elements included. An update whose result is not a valid
// element is rejected with validator.ValidationErrors and changes nothing.
// It returns a copy of the updated element.
func (s *Store) UpdateElement(id string, changes ElementChanges) (document.Element, bool, error) {
	var (
		updated document.Element
		ok      bool
		mErr    error
	)
	s.apply("updateElement", func() []Event {
		i := s.currentIndex()
		if i < 0 {
			return nil
		}
		level := levelOf(s.templates[i].Elements, id)
		elements, found, err := rewriteElement(s.templates[i].Elements, id, func(el document.Element) ([]document.Element, error) {
			merged, err := mergeElement(el, changes)
			if err != nil {
				return nil, err
			}
			if level > 1 {
				if err := validator.Apply(document.DepthRule("content", merged, level)); err != nil {
					return nil, err
				}
			}
			// Nested ids the element did not hold before are replaced so the
			// template never carries the same id twice.
			updated = assignIDs(merged, s.newID, keepOnce(el))
			return []document.Element{updated}, nil
		})
		if !found {
			return nil
		}
		if err != nil {
			mErr = err
			return nil
		}
		ok = true
		updated = updated.Clone()
		s.log.Debug("element updated", logger.ElementID(id))
		return []Event{s.touchCurrent(i, elements)}
	})
	return updated, ok, mErr
}

// RemoveElement deletes the element with id from the current template and
// clears the selection when it pointed into the removed element.
func (s *Store) RemoveElement(id string) bool {
	var ok bool
	s.apply("removeElement", func() []Event {
		i := s.currentIndex()
		if i < 0 {
			return nil
		}
		elements, found, _ := rewriteElement(s.templates[i].Elements, id, func(document.Element) ([]document.Element, error) {
			return nil, nil
		})
		if !found {
			return nil
		}
		ok = true
		events := []Event{s.touchCurrent(i, elements)}
		if s.selectedID != "" {
			if _, still := findElement(elements, s.selectedID); !still {
				s.selectedID = ""
				events = append(events, s.selection())
			}
		}
		return events
	})
	return ok
}

// DuplicateElement inserts a deep copy of the element with id right after it.
// The copy and everything nested in it get fresh ids. It returns a copy of
// the duplicate.
func (s *Store) DuplicateElement(id string) (document.Element, bool) {
	var (
		dup document.Element
		ok  bool
	)
	s.apply("duplicateElement", func() []Event {
		i := s.currentIndex()
		if i < 0 {
			return nil
		}
		elements, found, _ := rewriteElement(s.templates[i].Elements, id, func(el document.Element) ([]document.Element, error) {
			dup = assignIDs(el.Clone(), s.newID, nil)
			return []document.Element{el, dup}, nil
		})
		if !found {
			return nil
		}
		ok = true
		dup = dup.Clone()
		return []Event{s.touchCurrent(i, elements)}
	})
	return dup, ok
}

// ReorderElements moves the top level element at src to dst, shifting the
// others. Indices outside the element list make it a no-op.
func (s *Store) ReorderElements(src, dst int) bool {
	var ok bool
	s.apply("reorderElements", func() []Event {
		i := s.currentIndex()
		if i < 0 {
			return nil
		}
		elements := s.templates[i].Elements
		if src < 0 || src >= len(elements) || dst < 0 || dst >= len(elements) {
			return nil
		}
		ok = true
		if src == dst {
			return nil
		}
		moved := elements[src]
		out := slices.Delete(slices.Clone(elements), src, src+1)
		out = slices.Insert(out, dst, moved)
		return []Event{s.touchCurrent(i, out)}
	})
	return ok
}

// SelectElement sets the selected element id; "" clears the selection.
func (s *Store) SelectElement(id string) {
	s.apply("selectElement", func() []Event {
		if s.selectedID == id {
			return nil
		}
		s.selectedID = id
		return []Event{s.selection()}
	})
}

func (s *Store) SetDragging(dragging bool) {
	s.apply("setDragging", func() []Event {
		if s.dragging == dragging {
			return nil
		}
		s.dragging = dragging
		return []Event{s.selection()}
	})
}

// ImportTemplate inserts candidate as a new template with a fresh id and
// fresh element ids, and makes it current. Subject defaults to the name.
// Candidates with invalid elements are rejected with
// importer.ErrInvalidTemplate and leave the store untouched.
func (s *Store) ImportTemplate(candidate document.Template) (document.Template, error) {
	if err := validateCandidate(candidate); err != nil {
		return document.Template{}, err
	}

	var out document.Template
	s.apply("importTemplate", func() []Event {
		now := s.now()
		tpl := document.Template{
			ID:          s.newID(),
			Name:        candidate.Name,
			Elements:    make([]document.Element, len(candidate.Elements)),
			CreatedAt:   now,
			UpdatedAt:   now,
			Subject:     candidate.Subject,
			Description: candidate.Description,
		}
		if tpl.Subject == "" {
			tpl.Subject = tpl.Name
		}
		for i, el := range candidate.Elements {
			tpl.Elements[i] = assignIDs(el.Clone(), s.newID, nil)
		}

		s.templates = append(s.templates, tpl)
		s.currentID = tpl.ID
		s.selectedID = ""
		out = tpl.Clone()
		s.log.Debug("template imported", logger.TemplateID(tpl.ID), slog.Int("elements", len(tpl.Elements)))
		return []Event{changed(tpl), s.selection()}
	})
	return out, nil
}

// ImportJSON validates data with importer.Parse and imports the result.
func (s *Store) ImportJSON(data []byte) (document.Template, error) {
	candidate, err := importer.Parse(data)
	if err != nil {
		s.log.Debug("import rejected", logger.Error(err))
		return document.Template{}, err
	}
	return s.ImportTemplate(candidate)
}

func validateCandidate(t document.Template) error {
	if err := validator.Apply(
		validator.MaxLenSlice("elements", t.Elements, importer.MaxElements),
	); err != nil {
		return fmt.Errorf("%w: %w", importer.ErrInvalidTemplate, err)
	}
	var verrs validator.ValidationErrors
	for i, el := range t.Elements {
		prefix := fmt.Sprintf("elements[%d].", i)
		if err := el.Validate(); err != nil {
			verrs = append(verrs, validator.ExtractValidationErrors(err).Prefix(prefix)...)
		}
	}
	if !verrs.IsEmpty() {
		return fmt.Errorf("%w: %w", importer.ErrInvalidTemplate, verrs)
	}
	return nil
}

// Load replaces the collection with templates, typically restored from a
// repository. Templates without an id get one; later duplicates of an id are
// dropped. The first template becomes current. No events are emitted.
func (s *Store) Load(templates []document.Template) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(templates))
	loaded := make([]document.Template, 0, len(templates))
	for _, t := range templates {
		t = t.Clone()
		if t.ID == "" {
			t.ID = s.newID()
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		loaded = append(loaded, t)
	}

	s.templates = loaded
	s.currentID = ""
	if len(loaded) > 0 {
		s.currentID = loaded[0].ID
	}
	s.selectedID = ""
	s.dragging = false
	s.log.Debug("templates loaded", slog.Int("count", len(loaded)))
}
