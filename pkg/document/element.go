package document

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/mailbuilder/pkg/validator"
)

// Element is one typed content block of a template.
type Element struct {
	ID      string
	Type    Type
	Content Content
	Styles  Styles
}

type elementJSON struct {
	ID      string          `json:"id"`
	Type    Type            `json:"type"`
	Content json.RawMessage `json:"content"`
	Styles  Styles          `json:"styles"`
}

// MarshalJSON encodes the element as {"id","type","content","styles"}.
// A nil content is encoded as the empty content of the element type.
func (e Element) MarshalJSON() ([]byte, error) {
	c := e.Content
	if c == nil {
		c = EmptyContent(e.Type)
	}
	if c != nil && c.Type() != e.Type {
		return nil, fmt.Errorf("%w: %s element holds %s content", ErrContentMismatch, e.Type, c.Type())
	}

	raw := json.RawMessage("{}")
	if c != nil {
		b, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	styles := e.Styles
	if styles == nil {
		styles = Styles{}
	}
	return json.Marshal(elementJSON{ID: e.ID, Type: e.Type, Content: raw, Styles: styles})
}

// UnmarshalJSON decodes an element, dispatching content decoding on type.
func (e *Element) UnmarshalJSON(data []byte) error {
	var v elementJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c, err := DecodeContent(v.Type, v.Content)
	if err != nil {
		return err
	}
	if v.Styles == nil {
		v.Styles = Styles{}
	}
	*e = Element{ID: v.ID, Type: v.Type, Content: c, Styles: v.Styles}
	return nil
}

// Clone returns a deep copy of e, including nested column elements.
func (e Element) Clone() Element {
	return Element{
		ID:      e.ID,
		Type:    e.Type,
		Content: cloneContent(e.Content),
		Styles:  e.Styles.Clone(),
	}
}

// MaxDepth bounds columns nesting. A leaf element has depth 1.
const MaxDepth = 4

// Validate checks the element invariants, treating e as a top level element.
// It returns validator.ValidationErrors with fields prefixed by "content." or
// "styles.".
func (e Element) Validate() error {
	return validator.Apply(append(e.rules(""), DepthRule("content", e, 1))...)
}

// DepthRule fails when e, placed at depth level, holds columns nested deeper
// than MaxDepth.
func DepthRule(field string, e Element, level int) validator.Rule {
	return validator.Rule{
		Check: func() bool { return level-1+e.Depth() <= MaxDepth },
		Error: validator.ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("columns must not be nested deeper than %d levels", MaxDepth),
			TranslationKey: "validation.depth",
			TranslationValues: map[string]any{
				"field": field,
				"max":   MaxDepth,
			},
		},
	}
}

func (e Element) rules(prefix string) []validator.Rule {
	rules := []validator.Rule{
		validator.InList(prefix+"type", e.Type, Types()),
	}
	if e.Content != nil {
		rules = append(rules, validator.Rule{
			Check: func() bool { return e.Content.Type() == e.Type },
			Error: validator.ValidationError{
				Field:          prefix + "content",
				Message:        fmt.Sprintf("must be %s content", e.Type),
				TranslationKey: "validation.content_mismatch",
				TranslationValues: map[string]any{
					"field": prefix + "content",
					"type":  string(e.Type),
				},
			},
		})
	}

	switch c := e.Content.(type) {
	case HeaderContent:
		rules = append(rules, validator.RangeNum(prefix+"content.level", c.Level, 1, 6))
	case SpacerContent:
		rules = append(rules, validator.MinNum(prefix+"content.height", c.Height, 0))
	case ColumnsContent:
		for i, col := range c.Columns {
			rules = append(rules, validator.ValidCSSLength(fmt.Sprintf("%scontent.columns[%d].width", prefix, i), col.Width))
			for j, nested := range col.Elements {
				rules = append(rules, nested.rules(fmt.Sprintf("%scontent.columns[%d].elements[%d].", prefix, i, j))...)
			}
		}
	}
	return rules
}

func cloneElements(els []Element) []Element {
	if els == nil {
		return nil
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = el.Clone()
	}
	return out
}

// Depth returns the nesting depth of e: 1 for a leaf element, plus one for
// every level of columns below it.
func (e Element) Depth() int {
	c, ok := e.Content.(ColumnsContent)
	if !ok {
		return 1
	}
	deepest := 0
	for _, col := range c.Columns {
		for _, nested := range col.Elements {
			deepest = max(deepest, nested.Depth())
		}
	}
	return 1 + deepest
}
