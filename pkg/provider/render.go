package provider

import (
	"html"
	"sort"
	"strings"

	"github.com/dmitrymomot/mailbuilder/pkg/compiler"
	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/sanitizer"
)

// urlAttrs are the attribute openings the compiler writes addresses into.
var urlAttrs = []string{`href="`, `src="`}

// message is a compiled template ready to hand to a vendor.
type message struct {
	Subject string
	HTML    string
	Text    string
}

// render compiles tpl and substitutes {{key}} placeholders. Values are
// escaped in the HTML body; the subject is kept to a single header line.
func render(tpl document.Template, vars map[string]string) message {
	out := compiler.Compile(tpl)
	msg := message{
		Subject: tpl.EffectiveSubject(),
		HTML:    out.HTML,
		Text:    out.Text,
	}
	if len(vars) == 0 {
		msg.Subject = sanitizer.PreventHeaderInjection(msg.Subject)
		return msg
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	plainPairs := make([]string, 0, len(keys)*2)
	htmlPairs := make([]string, 0, len(keys)*2*(len(urlAttrs)+1))
	for _, k := range keys {
		placeholder := "{{" + k + "}}"
		plainPairs = append(plainPairs, placeholder, vars[k])
		// Placeholders reach the HTML body already escaped once. A value that
		// opens a link or image address is held to the URL rules of the
		// compiler.
		escaped := html.EscapeString(placeholder)
		for _, attr := range urlAttrs {
			htmlPairs = append(htmlPairs, attr+escaped, attr+sanitizer.Attr(sanitizer.URL(vars[k])))
		}
		htmlPairs = append(htmlPairs, escaped, html.EscapeString(vars[k]))
	}
	plain := strings.NewReplacer(plainPairs...)

	msg.Subject = sanitizer.PreventHeaderInjection(plain.Replace(msg.Subject))
	msg.Text = plain.Replace(msg.Text)
	msg.HTML = strings.NewReplacer(htmlPairs...).Replace(msg.HTML)
	return msg
}

// prepare normalizes and validates params and renders tpl with its
// variables.
func prepare(tpl document.Template, params SendParams) (message, SendParams, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return message{}, params, err
	}
	return render(tpl, params.Variables), params, nil
}
