package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

var cssLengthRegex = regexp.MustCompile(`^(auto|0|\d+(\.\d+)?(px|%|em|rem|pt|vw))$`)

// ValidEmail validates that a string is a single bare email address with a
// dotted domain.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}
			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}
			if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || !strings.Contains(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return true
		},
		Error: newError(field, "must be a valid email address", "validation.email", nil),
	}
}

// ValidURLWithScheme validates that a string is an absolute URL with one of
// the given schemes.
func ValidURLWithScheme(field, value string, schemes []string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			u, err := url.ParseRequestURI(value)
			if err != nil || u.Host == "" {
				return false
			}
			return slices.Contains(schemes, u.Scheme)
		},
		Error: newError(field, fmt.Sprintf("must be a valid URL with scheme: %s", strings.Join(schemes, ", ")),
			"validation.url_scheme", map[string]any{"schemes": schemes}),
	}
}

// ValidCSSLength validates a CSS length or percentage such as "50%", "600px",
// "1.5em", "0" or "auto".
func ValidCSSLength(field, value string) Rule {
	return Rule{
		Check: func() bool { return cssLengthRegex.MatchString(strings.TrimSpace(value)) },
		Error: newError(field, "must be a CSS length", "validation.css_length", nil),
	}
}
