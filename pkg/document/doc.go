// Package document defines the email template document model: templates, typed
// content elements and their inline styles.
//
// A Template is an ordered list of Elements. Every Element has a Type from a
// closed set (header, text, image, button, divider, spacer, social, columns)
// and a Content value whose concrete struct is determined by that Type.
// Content is a sealed interface, so code that branches on it (the compiler, the
// default element factory) uses an exhaustive type switch.
//
// Styles is an ordered CSS property map. Order is preserved through JSON
// decoding so the compiled inline style attribute is deterministic.
//
// # Usage
//
//	el := document.NewElement(document.TypeHeader)
//	el.ID = uuid.NewString()
//
//	data, err := json.Marshal(el)
//	// {"id":"...","type":"header","content":{"text":"New Heading","level":2},"styles":{...}}
//
// # Defaults
//
// Defaults returns the canonical starting content and styles for a type. It is
// total over the closed set; an unrecognised type yields nil content and empty
// styles.
//
// # Error Handling
//
// Decoding an element with an unrecognised type returns ErrUnknownType.
// Element.Validate returns validator.ValidationErrors for invariant violations
// such as a header level outside [1, 6].
package document
