package sanitizer

import (
	"strings"
	"unicode"
)

var blockedSchemes = []string{"javascript:", "vbscript:", "data:", "file:"}

// Clean removes null bytes and control sequences. It does not escape.
func Clean(s string) string {
	return RemoveControlSequences(RemoveNullBytes(s))
}

// Text makes s safe to place between HTML tags.
func Text(s string) string {
	return EscapeHTML(Clean(s))
}

// Attr makes s safe to place inside a double-quoted HTML attribute.
// Line breaks are folded into spaces.
func Attr(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(Clean(s))
	return EscapeHTML(s)
}

// URL returns raw with quotes and angle brackets removed, or an empty string when it uses an
// executable scheme. Whitespace and control characters embedded in the scheme
// do not hide it. The result is not escaped; pass it through Attr.
func URL(raw string) string {
	s := strings.TrimSpace(Clean(raw))
	probe := strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(probe, scheme) {
			return ""
		}
	}
	s = strings.NewReplacer("<", "", ">", "", `"`, "", "\n", "", "\r", "", "\t", "").Replace(s)
	return strings.TrimSpace(s)
}

// CSSProperty returns the lower-cased property name, or an empty string when
// it is not a valid CSS property identifier. Custom properties (--x) are
// accepted.
func CSSProperty(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if !cssPropertyRegex.MatchString(name) {
		return ""
	}
	return name
}

// CSSValue returns value with declaration-breaking characters removed, or an
// empty string when it could execute script or import style sheets.
// The result is not escaped; pass the rendered style through Attr.
func CSSValue(value string) string {
	v := Clean(value)
	v = strings.NewReplacer("<", "", ">", "", "{", "", "}", "", ";", "", `"`, "", `\`, "", "\n", " ", "\r", " ").Replace(v)
	v = strings.TrimSpace(v)

	probe := strings.ToLower(strings.Join(strings.Fields(v), ""))
	for _, bad := range []string{"expression(", "javascript:", "vbscript:", "@import", "behavior:", "-moz-binding"} {
		if strings.Contains(probe, bad) {
			return ""
		}
	}
	return v
}
