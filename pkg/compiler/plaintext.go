package compiler

import (
	"strings"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/sanitizer"
)

// PlainText renders t as the text alternative of the email: the template
// name followed by one block per element, separated by blank lines.
// Spacers and empty elements contribute nothing. Columns are flattened in
// column order.
func PlainText(t document.Template) string {
	blocks := []string{}
	if name := plain(t.Name); name != "" {
		blocks = append(blocks, name)
	}
	for _, el := range t.Elements {
		blocks = appendTextBlocks(blocks, el, 1)
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func appendTextBlocks(blocks []string, el document.Element, depth int) []string {
	var block string

	switch c := el.Content.(type) {
	case document.HeaderContent:
		block = strings.ToUpper(plain(c.Text))
	case document.TextContent:
		block = plain(c.Text)
	case document.ImageContent:
		block = joinNonEmpty(" ", plain(c.Alt), parenthesized(plainURL(c.Link)))
	case document.ButtonContent:
		if url := plainURL(c.URL); url != "" {
			block = joinNonEmpty(": ", plain(c.Text), url)
		} else {
			block = plain(c.Text)
		}
	case document.DividerContent:
		block = "----"
	case document.SocialContent:
		lines := make([]string, 0, len(c.Networks))
		for _, n := range c.Networks {
			if line := joinNonEmpty(": ", plain(n.Name), plainURL(n.URL)); line != "" {
				lines = append(lines, line)
			}
		}
		block = strings.Join(lines, "\n")
	case document.ColumnsContent:
		if depth >= MaxDepth {
			return blocks
		}
		for _, col := range c.Columns {
			for _, nested := range col.Elements {
				blocks = appendTextBlocks(blocks, nested, depth+1)
			}
		}
		return blocks
	}

	if block == "" {
		return blocks
	}
	return append(blocks, block)
}

func plain(s string) string {
	return strings.TrimSpace(sanitizer.Clean(s))
}

// plainURL drops unsafe URLs and the "#" placeholder links have by default.
func plainURL(raw string) string {
	u := sanitizer.URL(raw)
	if u == "#" {
		return ""
	}
	return u
}

func parenthesized(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
