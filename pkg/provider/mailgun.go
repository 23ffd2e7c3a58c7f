package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
)

const (
	mailgunBaseUS = "https://api.mailgun.net"
	mailgunBaseEU = "https://api.eu.mailgun.net"
)

// Mailgun delivers through the Mailgun v3 REST API. Mailgun templates are
// keyed by name, so RemoteTemplate.ID is the template name.
type Mailgun struct {
	api    httpAPI
	domain string
	from   Sender
}

// NewMailgun validates cfg and builds the adapter.
func NewMailgun(cfg MailgunConfig) (*Mailgun, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: mailgun: api key is required", ErrInvalidConfig)
	}
	if cfg.Domain == "" {
		return nil, fmt.Errorf("%w: mailgun: domain is required", ErrInvalidConfig)
	}
	from := Sender{Email: cfg.FromEmail, Name: cfg.FromName}
	if err := from.validate("mailgun"); err != nil {
		return nil, err
	}
	if err := validateTransport("mailgun", cfg.BaseURL, cfg.Timeout); err != nil {
		return nil, err
	}

	base := cfg.BaseURL
	if base == "" {
		switch strings.ToLower(cfg.Region) {
		case "", "us":
			base = mailgunBaseUS
		case "eu":
			base = mailgunBaseEU
		default:
			return nil, fmt.Errorf("%w: mailgun: unknown region %q", ErrInvalidConfig, cfg.Region)
		}
	}

	apiKey := cfg.APIKey
	return &Mailgun{
		api: httpAPI{
			provider:    "mailgun",
			baseURL:     base,
			client:      &http.Client{Timeout: timeoutOr(cfg.Timeout)},
			authorize:   func(r *http.Request) { r.SetBasicAuth("api", apiKey) },
			decodeError: decodeMessageError,
		},
		domain: cfg.Domain,
		from:   from,
	}, nil
}

func (m *Mailgun) Name() string { return "mailgun" }

type mailgunSendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send posts the compiled message as a form. Variables are attached as
// "v:" custom data as well as substituted.
func (m *Mailgun) Send(ctx context.Context, tpl document.Template, params SendParams) (SendResult, error) {
	msg, params, err := prepare(tpl, params)
	if err != nil {
		return SendResult{}, err
	}

	form := url.Values{}
	form.Set("from", m.from.String())
	form.Set("to", params.To)
	form.Set("subject", msg.Subject)
	form.Set("html", msg.HTML)
	form.Set("text", msg.Text)
	if params.Tag != "" {
		form.Set("o:tag", params.Tag)
	}
	for k, v := range params.Variables {
		form.Set("v:"+k, v)
	}

	var resp mailgunSendResponse
	_, err = m.api.do(ctx, formRequest(http.MethodPost, m.path("/messages"), form), &resp)
	if err != nil {
		return SendResult{}, err
	}
	return SendResult{Provider: m.Name(), MessageID: strings.Trim(resp.ID, "<>"), Message: resp.Message}, nil
}

type mailgunTemplate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ID          string `json:"id"`
}

type mailgunTemplateList struct {
	Items []mailgunTemplate `json:"items"`
}

func (m *Mailgun) ListTemplates(ctx context.Context) ([]RemoteTemplate, error) {
	var resp mailgunTemplateList
	if _, err := m.api.do(ctx, request{Method: http.MethodGet, Path: m.path("/templates?limit=100")}, &resp); err != nil {
		return nil, err
	}
	out := make([]RemoteTemplate, 0, len(resp.Items))
	for _, t := range resp.Items {
		out = append(out, RemoteTemplate{Provider: m.Name(), ID: t.Name, Name: t.Name, Active: true})
	}
	return out, nil
}

// SaveTemplate stores the compiled HTML as the active version of a template
// named after the editor template id.
func (m *Mailgun) SaveTemplate(ctx context.Context, tpl document.Template) (RemoteTemplate, error) {
	msg := render(tpl, nil)
	name := strings.ToLower(tpl.ID)
	if name == "" {
		return RemoteTemplate{}, fmt.Errorf("%w: template id is required", ErrInvalidParams)
	}

	form := url.Values{}
	form.Set("name", name)
	form.Set("description", tpl.Name)
	form.Set("template", msg.HTML)
	form.Set("comment", msg.Subject)
	form.Set("headers", mustJSON(map[string]string{"Subject": msg.Subject}))

	var resp struct {
		Template mailgunTemplate `json:"template"`
	}
	if _, err := m.api.do(ctx, formRequest(http.MethodPost, m.path("/templates"), form), &resp); err != nil {
		return RemoteTemplate{}, err
	}
	if resp.Template.Name != "" {
		name = resp.Template.Name
	}
	return RemoteTemplate{Provider: m.Name(), ID: name, Name: tpl.Name, Subject: msg.Subject, Active: true}, nil
}

func (m *Mailgun) DeleteTemplate(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: template id is required", ErrInvalidParams)
	}
	_, err := m.api.do(ctx, request{Method: http.MethodDelete, Path: m.path("/templates/" + url.PathEscape(id))}, nil)
	return notFoundAs(err)
}

func (m *Mailgun) path(suffix string) string {
	return "/v3/" + url.PathEscape(m.domain) + suffix
}

func formRequest(method, path string, form url.Values) request {
	return request{
		Method:      method,
		Path:        path,
		Body:        strings.NewReader(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
	}
}

// decodeMessageError reads {"message": "..."} error bodies.
func decodeMessageError(body []byte) (string, string) {
	var v struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &v) != nil {
		return "", ""
	}
	return "", v.Message
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
