package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mailbuilder/pkg/sanitizer"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "escapes basic HTML characters",
			input:    "<script>alert('xss')</script>",
			expected: "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;",
		},
		{
			name:     "escapes quotes and ampersands",
			input:    `"test" & 'value'`,
			expected: "&#34;test&#34; &amp; &#39;value&#39;",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizer.EscapeHTML(tt.input))
		})
	}
}

func TestRemoveControlSequences(t *testing.T) {
	assert.Equal(t, "red\ttext\n", sanitizer.RemoveControlSequences("\x1b[31mred\x1b[0m\ttext\x07\n"))
}

func TestPreventHeaderInjection(t *testing.T) {
	assert.Equal(t, "SubjectBcc: evil@example.com", sanitizer.PreventHeaderInjection("Subject\r\nBcc: evil@example.com\x00"))
}

func TestLimitLength(t *testing.T) {
	assert.Equal(t, "", sanitizer.LimitLength("abc", 0))
	assert.Equal(t, "ab", sanitizer.LimitLength("abc", 2))
	assert.Equal(t, "héllo", sanitizer.LimitLength("héllo", 10))
	assert.Equal(t, "hé", sanitizer.LimitLength("héllo", 2))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", sanitizer.NormalizeWhitespace("  a \t b\n\nc "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "john.doe@example.com", sanitizer.NormalizeEmail("  John..Doe@Example.COM "))
	assert.Equal(t, "invalid", sanitizer.NormalizeEmail(" Invalid "))
	assert.Equal(t, "a@b@c", sanitizer.NormalizeEmail("a@b@c"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c.html", sanitizer.SanitizeFilename("a/b:c.html"))
	assert.Equal(t, "file", sanitizer.SanitizeFilename(" . "))
	assert.Len(t, sanitizer.SanitizeFilename(strings.Repeat("x", 300)), 255)
}

func TestCompose(t *testing.T) {
	clean := sanitizer.Compose(sanitizer.RemoveNullBytes, sanitizer.NormalizeWhitespace, strings.ToUpper)
	assert.Equal(t, "HELLO WORLD", clean(" hello\x00  world "))
	assert.Equal(t, "x", sanitizer.Apply("x"))
}
