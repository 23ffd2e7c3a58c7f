package document

import (
	"encoding/json"
	"time"
)

// Template is one email document: metadata plus elements rendered top to bottom.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Elements    []Element `json:"elements"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Subject     string    `json:"subject,omitempty"`
	Description string    `json:"description,omitempty"`
}

// MarshalJSON guarantees that elements is encoded as an array.
func (t Template) MarshalJSON() ([]byte, error) {
	type alias Template
	a := alias(t)
	if a.Elements == nil {
		a.Elements = []Element{}
	}
	return json.Marshal(a)
}

// Clone returns a deep copy of t.
func (t Template) Clone() Template {
	out := t
	out.Elements = cloneElements(t.Elements)
	if out.Elements == nil {
		out.Elements = []Element{}
	}
	return out
}

// IndexOf returns the position of the element with id, or -1.
func (t Template) IndexOf(id string) int {
	for i, el := range t.Elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}

// EffectiveSubject returns the subject line, falling back to the name.
func (t Template) EffectiveSubject() string {
	if t.Subject != "" {
		return t.Subject
	}
	return t.Name
}
