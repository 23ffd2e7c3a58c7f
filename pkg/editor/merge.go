package editor

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/importer"
	"github.com/dmitrymomot/mailbuilder/pkg/sanitizer"
)

// ElementChanges is a partial update of an element. Content keys are merged
// into the existing content one by one; a null value resets the key to its
// zero value. Styles are merged property by property. Neither is ever
// replaced wholesale.
type ElementChanges struct {
	Content map[string]json.RawMessage `json:"content,omitempty"`
	Styles  document.Styles            `json:"styles,omitempty"`
}

// TemplateChanges is a partial update of template metadata. Nil fields are
// left untouched.
type TemplateChanges struct {
	Name        *string `json:"name,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	Description *string `json:"description,omitempty"`
}

// templateName folds whitespace in a template name and bounds its length.
var templateName = sanitizer.Compose(
	sanitizer.Clean,
	sanitizer.NormalizeWhitespace,
	func(s string) string { return sanitizer.LimitLength(s, importer.MaxNameLength) },
)

// mergeElement returns el with changes applied. The result is validated; el
// itself is not modified.
func mergeElement(el document.Element, changes ElementChanges) (document.Element, error) {
	out := el.Clone()

	if len(changes.Content) > 0 {
		content, err := mergeContent(el, changes.Content)
		if err != nil {
			return document.Element{}, err
		}
		out.Content = content
	}

	if changes.Styles.Len() > 0 {
		out.Styles = out.Styles.Merge(changes.Styles)
	}

	// A spacer's height lives in its content and is mirrored by the height
	// style. A pixel height style wins over the content; any other unit is
	// kept as is.
	if sp, ok := out.Content.(document.SpacerContent); ok {
		_, contentTouched := changes.Content["height"]
		style, styleTouched := changes.Styles.Get("height")
		switch {
		case styleTouched:
			if h, ok := pixels(style); ok {
				sp.Height = h
				out.Content = sp
			}
		case contentTouched:
			out.Styles.Set("height", strconv.FormatFloat(sp.Height, 'f', -1, 64)+"px")
		}
	}

	if err := out.Validate(); err != nil {
		return document.Element{}, err
	}
	return out, nil
}

// pixels parses a CSS length in px, or a unitless number.
func pixels(v string) (float64, bool) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	h, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, false
	}
	return h, true
}

func mergeContent(el document.Element, patch map[string]json.RawMessage) (document.Content, error) {
	current := el.Content
	if current == nil {
		current = document.EmptyContent(el.Type)
	}

	base, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", document.ErrInvalidContent, err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", document.ErrInvalidContent, err)
	}
	for k, v := range patch {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", document.ErrInvalidContent, err)
	}
	return document.DecodeContent(el.Type, merged)
}

// rewriteElement finds the element with id in els, at any columns depth, and
// replaces it with the elements returned by fn. Slices along the path are
// copied; els is never modified.
func rewriteElement(els []document.Element, id string, fn func(document.Element) ([]document.Element, error)) ([]document.Element, bool, error) {
	for i, el := range els {
		if el.ID == id {
			repl, err := fn(el)
			if err != nil {
				return nil, true, err
			}
			out := make([]document.Element, 0, len(els)-1+len(repl))
			out = append(out, els[:i]...)
			out = append(out, repl...)
			out = append(out, els[i+1:]...)
			return out, true, nil
		}

		cols, ok := el.Content.(document.ColumnsContent)
		if !ok {
			continue
		}
		for ci, col := range cols.Columns {
			nested, found, err := rewriteElement(col.Elements, id, fn)
			if err != nil {
				return nil, true, err
			}
			if !found {
				continue
			}
			newCols := slices.Clone(cols.Columns)
			newCols[ci].Elements = nested
			el.Content = document.ColumnsContent{Columns: newCols}
			out := slices.Clone(els)
			out[i] = el
			return out, true, nil
		}
	}
	return els, false, nil
}

func findElement(els []document.Element, id string) (document.Element, bool) {
	for _, el := range els {
		if el.ID == id {
			return el, true
		}
		if cols, ok := el.Content.(document.ColumnsContent); ok {
			for _, col := range cols.Columns {
				if found, ok := findElement(col.Elements, id); ok {
					return found, true
				}
			}
		}
	}
	return document.Element{}, false
}

// assignIDs gives el and every element nested in its columns a fresh id,
// except the ids keep reports true for. A nil keep replaces every id.
func assignIDs(el document.Element, newID func() string, keep func(id string) bool) document.Element {
	if el.ID == "" || keep == nil || !keep(el.ID) {
		el.ID = newID()
	}
	cols, ok := el.Content.(document.ColumnsContent)
	if !ok {
		return el
	}
	newCols := make([]document.Column, len(cols.Columns))
	for i, col := range cols.Columns {
		newCols[i] = document.Column{Width: col.Width}
		if col.Elements != nil {
			newCols[i].Elements = make([]document.Element, len(col.Elements))
			for j, nested := range col.Elements {
				newCols[i].Elements[j] = assignIDs(nested, newID, keep)
			}
		}
	}
	el.Content = document.ColumnsContent{Columns: newCols}
	return el
}

// keepOnce returns a keep func for assignIDs that accepts each id of el, and
// of the elements nested in it, a single time.
func keepOnce(el document.Element) func(id string) bool {
	known := map[string]bool{}
	var collect func(document.Element)
	collect = func(e document.Element) {
		known[e.ID] = true
		if cols, ok := e.Content.(document.ColumnsContent); ok {
			for _, col := range cols.Columns {
				for _, nested := range col.Elements {
					collect(nested)
				}
			}
		}
	}
	collect(el)
	return func(id string) bool {
		if !known[id] {
			return false
		}
		delete(known, id)
		return true
	}
}

// levelOf returns the depth at which the element with id sits in els, 1 for
// a top level element, or 0 when it is not found.
func levelOf(els []document.Element, id string) int {
	for _, el := range els {
		if el.ID == id {
			return 1
		}
		if cols, ok := el.Content.(document.ColumnsContent); ok {
			for _, col := range cols.Columns {
				if level := levelOf(col.Elements, id); level > 0 {
					return level + 1
				}
			}
		}
	}
	return 0
}
