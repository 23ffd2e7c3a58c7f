// Package importer validates untrusted template JSON before it reaches the
// editor store.
//
// A candidate is accepted only when it is a JSON object with a string "name"
// and an array "elements" whose items decode to valid elements of a known
// type. Every rejection wraps ErrInvalidTemplate; field scoped detail can be
// extracted with validator.ExtractValidationErrors.
//
// Identifiers and timestamps present in the input are kept on the returned
// value but are not trusted: the store assigns fresh ones on import.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/validator"
)

const (
	// MaxPayloadBytes bounds the size of an import document.
	MaxPayloadBytes = 1 << 20
	// MaxElements bounds the number of top level elements.
	MaxElements = 500
	// MaxDepth bounds columns nesting; a leaf element has depth 1.
	MaxDepth = document.MaxDepth
	// MaxNameLength bounds the template name.
	MaxNameLength = 255
)

// Decode reads at most MaxPayloadBytes from r and parses them with Parse.
func Decode(r io.Reader) (document.Template, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPayloadBytes+1))
	if err != nil {
		return document.Template{}, fmt.Errorf("importer: read payload: %w", err)
	}
	return Parse(data)
}

// Parse validates data and decodes it into a template.
func Parse(data []byte) (document.Template, error) {
	if len(data) > MaxPayloadBytes {
		return document.Template{}, fmt.Errorf("%w: %w", ErrInvalidTemplate, ErrPayloadTooLarge)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return document.Template{}, fmt.Errorf("%w: expected a JSON object", ErrInvalidTemplate)
	}

	var verrs validator.ValidationErrors

	name, ok := stringField(fields, "name", true)
	if !ok {
		verrs.Add(fieldError("name", "must be a string", "validation.string"))
	}

	rawElements, ok := arrayField(fields, "elements")
	if !ok {
		verrs.Add(fieldError("elements", "must be an array", "validation.array"))
	}

	subject, ok := stringField(fields, "subject", false)
	if !ok {
		verrs.Add(fieldError("subject", "must be a string", "validation.string"))
	}
	description, ok := stringField(fields, "description", false)
	if !ok {
		verrs.Add(fieldError("description", "must be a string", "validation.string"))
	}

	if !verrs.IsEmpty() {
		return document.Template{}, reject(verrs)
	}

	if err := validator.Apply(
		validator.MaxLenString("name", name, MaxNameLength),
		validator.NoControlChars("name", name),
		validator.MaxLenSlice("elements", rawElements, MaxElements),
	); err != nil {
		return document.Template{}, reject(validator.ExtractValidationErrors(err))
	}

	elements := make([]document.Element, 0, len(rawElements))
	for i, raw := range rawElements {
		el, errs := decodeElement(raw, fmt.Sprintf("elements[%d]", i))
		if errs != nil {
			verrs = append(verrs, errs...)
			continue
		}
		elements = append(elements, el)
	}
	if !verrs.IsEmpty() {
		return document.Template{}, reject(verrs)
	}

	var id string
	if v, ok := stringField(fields, "id", false); ok {
		id = v
	}

	return document.Template{
		ID:          id,
		Name:        name,
		Elements:    elements,
		Subject:     subject,
		Description: description,
	}, nil
}

func decodeElement(raw json.RawMessage, field string) (document.Element, validator.ValidationErrors) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return document.Element{}, validator.ValidationErrors{fieldError(field, "must be an object", "validation.object")}
	}

	var el document.Element
	if err := json.Unmarshal(raw, &el); err != nil {
		switch {
		case errors.Is(err, document.ErrUnknownType):
			return el, validator.ValidationErrors{fieldError(field+".type", "unknown element type", "validation.element_type")}
		case errors.Is(err, document.ErrInvalidStyles):
			return el, validator.ValidationErrors{fieldError(field+".styles", "must be an object of strings", "validation.styles")}
		case errors.Is(err, document.ErrInvalidContent):
			return el, validator.ValidationErrors{fieldError(field+".content", "does not match the element type", "validation.content")}
		default:
			return el, validator.ValidationErrors{fieldError(field, "is malformed", "validation.malformed")}
		}
	}

	if err := el.Validate(); err != nil {
		return el, validator.ExtractValidationErrors(err).Prefix(field + ".")
	}
	return el, nil
}

// stringField reports whether key holds a JSON string. A missing or null
// optional key is accepted as "".
func stringField(fields map[string]json.RawMessage, key string, required bool) (string, bool) {
	raw, ok := fields[key]
	raw = bytes.TrimSpace(raw)
	if !ok || bytes.Equal(raw, []byte("null")) {
		return "", !required
	}
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func arrayField(fields map[string]json.RawMessage, key string) ([]json.RawMessage, bool) {
	raw := bytes.TrimSpace(fields[key])
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func fieldError(field, message, key string) validator.ValidationError {
	return validator.ValidationError{
		Field:             field,
		Message:           message,
		TranslationKey:    key,
		TranslationValues: map[string]any{"field": field},
	}
}

func reject(verrs validator.ValidationErrors) error {
	return fmt.Errorf("%w: %w", ErrInvalidTemplate, verrs)
}
