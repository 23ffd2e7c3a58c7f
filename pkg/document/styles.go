package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Style is a single CSS declaration.
type Style struct {
	Property string
	Value    string
}

// Styles is an ordered set of CSS declarations keyed by property name.
// Property names are unique. The zero value is an empty set ready to use.
type Styles []Style

// StylesOf builds Styles from alternating property/value pairs.
// A trailing property without a value is ignored.
func StylesOf(pairs ...string) Styles {
	s := make(Styles, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

// Get returns the value of property and whether it is present.
func (s Styles) Get(property string) (string, bool) {
	if i := s.index(property); i >= 0 {
		return s[i].Value, true
	}
	return "", false
}

// Set assigns value to property. An existing property keeps its position,
// a new one is appended.
func (s *Styles) Set(property, value string) {
	if i := s.index(property); i >= 0 {
		(*s)[i].Value = value
		return
	}
	*s = append(*s, Style{Property: property, Value: value})
}

// Delete removes property if present.
func (s *Styles) Delete(property string) {
	if i := s.index(property); i >= 0 {
		*s = append((*s)[:i], (*s)[i+1:]...)
	}
}

// Merge returns a copy of s with every declaration of other applied on top.
// Properties not mentioned in other are left untouched.
func (s Styles) Merge(other Styles) Styles {
	out := s.Clone()
	for _, st := range other {
		out.Set(st.Property, st.Value)
	}
	return out
}

// Keys returns property names in order.
func (s Styles) Keys() []string {
	keys := make([]string, len(s))
	for i, st := range s {
		keys[i] = st.Property
	}
	return keys
}

// Map returns the declarations as an unordered map.
func (s Styles) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, st := range s {
		m[st.Property] = st.Value
	}
	return m
}

// Clone returns an independent copy of s. The copy of an empty set is empty
// but non-nil.
func (s Styles) Clone() Styles {
	out := make(Styles, len(s))
	copy(out, s)
	return out
}

// Len returns the number of declarations.
func (s Styles) Len() int { return len(s) }

func (s Styles) index(property string) int {
	for i, st := range s {
		if st.Property == property {
			return i
		}
	}
	return -1
}

// MarshalJSON encodes the declarations as a JSON object in order.
func (s Styles) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, st := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(st.Property)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(st.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order.
// Numeric values are kept as their literal text, null values are skipped.
func (s *Styles) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Styles{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStyles, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: styles must be an object", ErrInvalidStyles)
	}

	out := Styles{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStyles, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected key %v", ErrInvalidStyles, tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStyles, err)
		}
		switch v := tok.(type) {
		case string:
			out.Set(key, v)
		case json.Number:
			out.Set(key, v.String())
		case nil:
		default:
			return fmt.Errorf("%w: value of %q must be a string", ErrInvalidStyles, key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStyles, err)
	}

	*s = out
	return nil
}

// String renders the declarations as "property: value;" pairs separated by a
// single space. No escaping is applied.
func (s Styles) String() string {
	var b strings.Builder
	for i, st := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(st.Property)
		b.WriteString(": ")
		b.WriteString(st.Value)
		b.WriteByte(';')
	}
	return b.String()
}
