// Package compiler turns a document.Template into email-client-safe HTML and a
// plain-text alternative.
//
// Compilation is a pure function of the template. The HTML output is a
// table-based skeleton centered at a maximum width of 600 pixels with the
// rendering of every element placed in a single content cell, in order.
// Elements render with their styles inlined as "property: value;" pairs.
//
// Every user supplied string goes through package sanitizer before it is
// interpolated: text content is escaped, URLs with executable schemes are
// dropped, style properties that are not CSS identifiers are skipped and style
// values that could run script are removed. Sanitization never fails; unsafe
// input is transformed, not rejected.
//
// Basic usage:
//
//	out := compiler.Compile(tpl)
//	send(out.HTML, out.Text)
//
// Columns are compiled recursively up to MaxDepth levels of nesting. Deeper
// elements are omitted from the output.
//
// Component wraps the HTML output in a templ.Component so it can be streamed
// by any handler that renders templ components.
package compiler
