package sanitizer

import (
	"html"
	"strings"
	"unicode"
)

// EscapeHTML escapes HTML special characters to prevent XSS attacks.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// RemoveNullBytes removes null bytes that could cause issues in C-based systems.
func RemoveNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// RemoveControlSequences removes ANSI escape sequences and control characters
// other than newline, carriage return and tab.
func RemoveControlSequences(s string) string {
	s = ansiEscapeRegex.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// PreventHeaderInjection removes line breaks and null bytes so the value can be
// used as a single mail header, such as a subject line.
func PreventHeaderInjection(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return RemoveNullBytes(s)
}

// LimitLength truncates s to at most maxLength runes.
func LimitLength(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength])
}

// NormalizeWhitespace collapses runs of whitespace into one space and trims.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// NormalizeEmail lower-cases and trims an address and consolidates
// consecutive dots in the local part. Invalid input is returned trimmed.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}
	local = strings.Trim(dotRegex.ReplaceAllString(local, "."), ".")
	return local + "@" + domain
}

// SanitizeFilename replaces filesystem-unsafe characters with "_", trims
// leading and trailing dots and spaces, and enforces a 255 byte limit.
// An empty result becomes "file".
func SanitizeFilename(filename string) string {
	safe := unsafeFileRegex.ReplaceAllString(filename, "_")
	safe = strings.Trim(safe, " .")
	if len(safe) > 255 {
		safe = safe[:255]
	}
	if safe == "" {
		safe = "file"
	}
	return safe
}
