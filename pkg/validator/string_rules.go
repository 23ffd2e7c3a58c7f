package validator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: newError(field, "field is required", "validation.required", nil),
	}
}

// MaxLenString validates that value has at most max characters.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: newError(field, fmt.Sprintf("must be at most %d characters long", max),
			"validation.max_length", map[string]any{"max": max}),
	}
}

// NoControlChars validates that value holds no control characters other than
// newline, carriage return and tab.
func NoControlChars(field, value string) Rule {
	return Rule{
		Check: func() bool {
			for _, r := range value {
				if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
					return false
				}
			}
			return true
		},
		Error: newError(field, "must not contain control characters", "validation.no_control_chars", nil),
	}
}
