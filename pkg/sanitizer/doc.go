// Package sanitizer cleans untrusted strings before they are interpolated into
// compiled email markup.
//
// Imported templates are untrusted end to end, so every piece of text, every
// attribute value, every URL and every CSS declaration goes through one of the
// helpers in this package on its way into HTML:
//
//   - Text and Attr escape HTML special characters after removing null bytes
//     and terminal control sequences.
//   - URL drops links using an executable scheme (javascript:, vbscript:,
//     data:, file:) and returns an empty string instead.
//   - CSSProperty accepts only names with CSS property syntax.
//   - CSSValue rejects values that can break out of a declaration or load
//     script.
//
// The lower level helpers (EscapeHTML, RemoveNullBytes, RemoveControlSequences,
// NormalizeWhitespace, LimitLength, ...) can be combined with Apply and Compose
// into custom pipelines:
//
//	clean := sanitizer.Compose(
//	    sanitizer.Clean,
//	    sanitizer.NormalizeWhitespace,
//	)
//	name := clean(input)
//
// # Error handling
//
// None of the helpers returns an error. They always fall back to a safe result,
// usually an empty string.
//
// The package has no global mutable state and is safe for concurrent use.
package sanitizer
