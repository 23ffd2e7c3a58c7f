package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Content is the type-specific payload of an element.
// The set of implementations is closed; see the Type constants.
type Content interface {
	// Type returns the element type this content belongs to.
	Type() Type
	sealed()
}

// HeaderContent is the payload of a header element. Level is in [1, 6].
type HeaderContent struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// TextContent is the payload of a paragraph element.
type TextContent struct {
	Text string `json:"text"`
}

// ImageContent is the payload of an image element. Link is optional.
type ImageContent struct {
	Src  string `json:"src"`
	Alt  string `json:"alt"`
	Link string `json:"link,omitempty"`
}

// ButtonContent is the payload of a call-to-action button.
type ButtonContent struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// DividerContent carries no data; dividers are styling only.
type DividerContent struct{}

// SpacerContent is the payload of a vertical spacer. Height is in pixels and
// mirrored by the "height" style.
type SpacerContent struct {
	Height float64 `json:"height"`
}

// SocialNetwork is a single link rendered by a social element.
type SocialNetwork struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// SocialContent is the payload of a social links element.
type SocialContent struct {
	Networks []SocialNetwork `json:"networks"`
}

// Column is one cell of a columns element.
type Column struct {
	Elements []Element `json:"elements"`
	Width    string    `json:"width"`
}

// ColumnsContent is the payload of a multi-column layout element.
type ColumnsContent struct {
	Columns []Column `json:"columns"`
}

func (HeaderContent) Type() Type  { return TypeHeader }
func (TextContent) Type() Type    { return TypeText }
func (ImageContent) Type() Type   { return TypeImage }
func (ButtonContent) Type() Type  { return TypeButton }
func (DividerContent) Type() Type { return TypeDivider }
func (SpacerContent) Type() Type  { return TypeSpacer }
func (SocialContent) Type() Type  { return TypeSocial }
func (ColumnsContent) Type() Type { return TypeColumns }

func (HeaderContent) sealed()  {}
func (TextContent) sealed()    {}
func (ImageContent) sealed()   {}
func (ButtonContent) sealed()  {}
func (DividerContent) sealed() {}
func (SpacerContent) sealed()  {}
func (SocialContent) sealed()  {}
func (ColumnsContent) sealed() {}

// MarshalJSON keeps the networks field an array when empty.
func (c SocialContent) MarshalJSON() ([]byte, error) {
	networks := c.Networks
	if networks == nil {
		networks = []SocialNetwork{}
	}
	return json.Marshal(struct {
		Networks []SocialNetwork `json:"networks"`
	}{networks})
}

// MarshalJSON keeps the columns and nested elements fields arrays when empty.
func (c ColumnsContent) MarshalJSON() ([]byte, error) {
	type column struct {
		Elements []Element `json:"elements"`
		Width    string    `json:"width"`
	}
	cols := make([]column, len(c.Columns))
	for i, col := range c.Columns {
		els := col.Elements
		if els == nil {
			els = []Element{}
		}
		cols[i] = column{Elements: els, Width: col.Width}
	}
	return json.Marshal(struct {
		Columns []column `json:"columns"`
	}{cols})
}

// ContentType returns the element type c belongs to, or "" for nil.
func ContentType(c Content) Type {
	if c == nil {
		return ""
	}
	return c.Type()
}

// EmptyContent returns the zero content value for t, or nil when t is not a
// known type.
func EmptyContent(t Type) Content {
	switch t {
	case TypeHeader:
		return HeaderContent{Level: 2}
	case TypeText:
		return TextContent{}
	case TypeImage:
		return ImageContent{}
	case TypeButton:
		return ButtonContent{}
	case TypeDivider:
		return DividerContent{}
	case TypeSpacer:
		return SpacerContent{}
	case TypeSocial:
		return SocialContent{}
	case TypeColumns:
		return ColumnsContent{}
	}
	return nil
}

// DecodeContent decodes raw JSON into the content variant for t.
// A missing or null payload yields EmptyContent(t). A header without a level
// gets level 2.
func DecodeContent(t Type, raw json.RawMessage) (Content, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return EmptyContent(t), nil
	}
	if raw[0] != '{' {
		return nil, fmt.Errorf("%w: %s content must be an object", ErrInvalidContent, t)
	}

	var (
		c   Content
		err error
	)
	switch t {
	case TypeHeader:
		var v HeaderContent
		err = json.Unmarshal(raw, &v)
		if v.Level == 0 {
			v.Level = 2
		}
		c = v
	case TypeText:
		var v TextContent
		err = json.Unmarshal(raw, &v)
		c = v
	case TypeImage:
		var v ImageContent
		err = json.Unmarshal(raw, &v)
		c = v
	case TypeButton:
		var v ButtonContent
		err = json.Unmarshal(raw, &v)
		c = v
	case TypeDivider:
		c = DividerContent{}
	case TypeSpacer:
		var v SpacerContent
		err = json.Unmarshal(raw, &v)
		c = v
	case TypeSocial:
		var v SocialContent
		err = json.Unmarshal(raw, &v)
		c = v
	case TypeColumns:
		var v ColumnsContent
		err = json.Unmarshal(raw, &v)
		c = v
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidContent, t, err)
	}
	return c, nil
}

// cloneContent returns a deep copy of c.
func cloneContent(c Content) Content {
	switch v := c.(type) {
	case SocialContent:
		if v.Networks != nil {
			v.Networks = append([]SocialNetwork(nil), v.Networks...)
		}
		return v
	case ColumnsContent:
		if v.Columns != nil {
			cols := make([]Column, len(v.Columns))
			for i, col := range v.Columns {
				cols[i] = Column{Width: col.Width, Elements: cloneElements(col.Elements)}
			}
			v.Columns = cols
		}
		return v
	}
	return c
}
