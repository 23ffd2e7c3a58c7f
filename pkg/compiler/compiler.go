package compiler

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/sanitizer"
)

// MaxDepth is the deepest level of columns nesting that is rendered.
// Top level elements are at depth 1.
const MaxDepth = document.MaxDepth

// Output holds both renderings of a template.
type Output struct {
	HTML string
	Text string
}

// Compile renders t to HTML and plain text.
func Compile(t document.Template) Output {
	return Output{HTML: HTML(t), Text: PlainText(t)}
}

// HTML renders t as a complete HTML document.
func HTML(t document.Template) string {
	var b strings.Builder
	b.WriteString(documentHead)
	b.WriteString(sanitizer.Text(t.Name))
	b.WriteString(documentOpen)
	for i, el := range t.Elements {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeElement(&b, el, 1)
	}
	b.WriteString(documentClose)
	return b.String()
}

// Element renders a single element without the document skeleton.
func Element(e document.Element) string {
	var b strings.Builder
	writeElement(&b, e, 1)
	return b.String()
}

// Component returns t rendered as HTML wrapped in a templ.Component.
func Component(t document.Template) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := io.WriteString(w, HTML(t))
		return err
	})
}

const documentHead = `<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>`

const documentOpen = `</title>
  <style>
    body {
      margin: 0;
      padding: 0;
      font-family: Arial, sans-serif;
      font-size: 16px;
      line-height: 1.5;
      color: #333333;
    }
    img {
      border: 0;
      height: auto;
      line-height: 100%;
      max-width: 100%;
      outline: none;
      text-decoration: none;
    }
    table {
      border-collapse: collapse;
      mso-table-lspace: 0pt;
      mso-table-rspace: 0pt;
    }
    a {
      text-decoration: none;
    }
  </style>
</head>
<body style="margin: 0; padding: 0; width: 100%; background-color: #f7f7f7;">
  <table role="presentation" cellpadding="0" cellspacing="0" style="width: 100%; margin: 0; padding: 0; background-color: #f7f7f7;">
    <tr>
      <td style="padding: 20px;">
        <table role="presentation" cellpadding="0" cellspacing="0" style="width: 100%; max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 5px; overflow: hidden;">
          <tr>
            <td style="padding: 20px;">
`

const documentClose = `
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`

const (
	socialLinkStyle   = "margin: 0 8px; text-decoration: none; color: #0000ee;"
	emptyColumnMarkup = `<div style="padding: 20px; border: 1px dashed #ccc; text-align: center; color: #888;">Empty column</div>`
)

func writeElement(b *strings.Builder, el document.Element, depth int) {
	style := styleAttr(el.Styles)

	switch c := el.Content.(type) {
	case document.HeaderContent:
		level := c.Level
		if level < 1 || level > 6 {
			level = 2
		}
		fmt.Fprintf(b, `<h%d style="%s">%s</h%d>`, level, style, sanitizer.Text(c.Text), level)

	case document.TextContent:
		fmt.Fprintf(b, `<p style="%s">%s</p>`, style, sanitizer.Text(c.Text))

	case document.ImageContent:
		img := fmt.Sprintf(`<img src="%s" alt="%s" style="%s">`, urlAttr(c.Src), sanitizer.Attr(c.Alt), style)
		if link := urlAttr(c.Link); link != "" {
			fmt.Fprintf(b, `<a href="%s">%s</a>`, link, img)
			return
		}
		b.WriteString(img)

	case document.ButtonContent:
		fmt.Fprintf(b, `<table role="presentation" cellpadding="0" cellspacing="0" style="margin: 0 auto;">
  <tr>
    <td style="%s">
      <a href="%s" style="%s">%s</a>
    </td>
  </tr>
</table>`, style, urlAttr(c.URL), style, sanitizer.Text(c.Text))

	case document.DividerContent:
		fmt.Fprintf(b, `<hr style="%s">`, style)

	case document.SpacerContent:
		if _, ok := el.Styles.Get("height"); !ok {
			st := el.Styles.Clone()
			st.Set("height", formatPixels(c.Height))
			style = styleAttr(st)
		}
		fmt.Fprintf(b, `<div style="%s">&nbsp;</div>`, style)

	case document.SocialContent:
		fmt.Fprintf(b, `<div style="%s">`, style)
		for _, n := range c.Networks {
			fmt.Fprintf(b, `<a href="%s" style="%s">%s</a>`, urlAttr(n.URL), socialLinkStyle, sanitizer.Text(n.Name))
		}
		b.WriteString("</div>")

	case document.ColumnsContent:
		fmt.Fprintf(b, "<table role=\"presentation\" cellpadding=\"0\" cellspacing=\"0\" width=\"100%%\" style=\"%s\">\n  <tr>\n", style)
		for _, col := range c.Columns {
			writeColumn(b, col, depth)
		}
		b.WriteString("  </tr>\n</table>")
	}
}

func writeColumn(b *strings.Builder, col document.Column, depth int) {
	cellStyle := "padding: 0 10px;"
	if w := sanitizer.CSSValue(col.Width); w != "" {
		cellStyle = "width: " + w + "; " + cellStyle
	}
	fmt.Fprintf(b, "    <td valign=\"top\" style=\"%s\">\n", sanitizer.Attr(cellStyle))

	switch {
	case len(col.Elements) == 0:
		b.WriteString(emptyColumnMarkup)
	case depth < MaxDepth:
		for i, nested := range col.Elements {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeElement(b, nested, depth+1)
		}
	}
	b.WriteString("\n    </td>\n")
}

// styleAttr renders styles as an attribute value. Declarations with an
// invalid property or an unsafe value are skipped.
func styleAttr(styles document.Styles) string {
	parts := make([]string, 0, styles.Len())
	for _, st := range styles {
		prop := sanitizer.CSSProperty(st.Property)
		value := sanitizer.CSSValue(st.Value)
		if prop == "" || value == "" {
			continue
		}
		parts = append(parts, prop+": "+value+";")
	}
	return sanitizer.Attr(strings.Join(parts, " "))
}

func urlAttr(raw string) string {
	return sanitizer.Attr(sanitizer.URL(raw))
}

// formatPixels renders a spacer height the way the editor stores it in styles.
func formatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
