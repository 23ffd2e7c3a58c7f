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

const sendgridBase = "https://api.sendgrid.com"

// SendGrid delivers through the SendGrid v3 API. Saved templates are dynamic
// templates with a single active version.
type SendGrid struct {
	api  httpAPI
	from Sender
}

// NewSendGrid validates cfg and builds the adapter.
func NewSendGrid(cfg SendGridConfig) (*SendGrid, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: sendgrid: api key is required", ErrInvalidConfig)
	}
	from := Sender{Email: cfg.FromEmail, Name: cfg.FromName}
	if err := from.validate("sendgrid"); err != nil {
		return nil, err
	}
	if err := validateTransport("sendgrid", cfg.BaseURL, cfg.Timeout); err != nil {
		return nil, err
	}
	base := cfg.BaseURL
	if base == "" {
		base = sendgridBase
	}

	apiKey := cfg.APIKey
	return &SendGrid{
		api: httpAPI{
			provider:    "sendgrid",
			baseURL:     base,
			client:      &http.Client{Timeout: timeoutOr(cfg.Timeout)},
			authorize:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+apiKey) },
			decodeError: decodeSendGridError,
		},
		from: from,
	}, nil
}

func (s *SendGrid) Name() string { return "sendgrid" }

type sendgridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendgridPersonalization struct {
	To         []sendgridAddress `json:"to"`
	CustomArgs map[string]string `json:"custom_args,omitempty"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridMail struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
	Categories       []string                  `json:"categories,omitempty"`
}

// Send posts to /v3/mail/send. SendGrid answers 202 with the message id in
// the X-Message-Id header.
func (s *SendGrid) Send(ctx context.Context, tpl document.Template, params SendParams) (SendResult, error) {
	msg, params, err := prepare(tpl, params)
	if err != nil {
		return SendResult{}, err
	}

	mail := sendgridMail{
		Personalizations: []sendgridPersonalization{{
			To:         []sendgridAddress{{Email: params.To}},
			CustomArgs: params.Variables,
		}},
		From:    sendgridAddress{Email: s.from.Email, Name: s.from.Name},
		Subject: msg.Subject,
		Content: []sendgridContent{
			{Type: "text/plain", Value: msg.Text},
			{Type: "text/html", Value: msg.HTML},
		},
	}
	if params.Tag != "" {
		mail.Categories = []string{params.Tag}
	}

	req, err := jsonRequest(http.MethodPost, "/v3/mail/send", mail)
	if err != nil {
		return SendResult{}, err
	}
	header, err := s.api.do(ctx, req, nil)
	if err != nil {
		return SendResult{}, err
	}
	return SendResult{Provider: s.Name(), MessageID: header.Get("X-Message-Id"), Message: "accepted"}, nil
}

type sendgridVersion struct {
	ID      string `json:"id,omitempty"`
	Active  int    `json:"active"`
	Subject string `json:"subject"`
}

type sendgridTemplate struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Versions []sendgridVersion `json:"versions"`
}

func (t sendgridTemplate) remote() RemoteTemplate {
	rt := RemoteTemplate{Provider: "sendgrid", ID: t.ID, Name: t.Name}
	for _, v := range t.Versions {
		if v.Active == 1 {
			rt.Active = true
			rt.Subject = v.Subject
		}
	}
	return rt
}

func (s *SendGrid) ListTemplates(ctx context.Context) ([]RemoteTemplate, error) {
	var resp struct {
		Result []sendgridTemplate `json:"result"`
	}
	req := request{Method: http.MethodGet, Path: "/v3/templates?generations=dynamic&page_size=200"}
	if _, err := s.api.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	out := make([]RemoteTemplate, 0, len(resp.Result))
	for _, t := range resp.Result {
		out = append(out, t.remote())
	}
	return out, nil
}

// SaveTemplate creates a dynamic template and its active version holding the
// compiled HTML and text.
func (s *SendGrid) SaveTemplate(ctx context.Context, tpl document.Template) (RemoteTemplate, error) {
	msg := render(tpl, nil)

	req, err := jsonRequest(http.MethodPost, "/v3/templates", map[string]string{
		"name":       tpl.Name,
		"generation": "dynamic",
	})
	if err != nil {
		return RemoteTemplate{}, err
	}
	var created sendgridTemplate
	if _, err := s.api.do(ctx, req, &created); err != nil {
		return RemoteTemplate{}, err
	}

	req, err = jsonRequest(http.MethodPost, "/v3/templates/"+url.PathEscape(created.ID)+"/versions", map[string]any{
		"template_id":   created.ID,
		"active":        1,
		"name":          tpl.Name,
		"subject":       msg.Subject,
		"html_content":  msg.HTML,
		"plain_content": msg.Text,
	})
	if err != nil {
		return RemoteTemplate{}, err
	}
	var version sendgridVersion
	if _, err := s.api.do(ctx, req, &version); err != nil {
		return RemoteTemplate{}, err
	}

	return RemoteTemplate{Provider: s.Name(), ID: created.ID, Name: tpl.Name, Subject: msg.Subject, Active: true}, nil
}

func (s *SendGrid) DeleteTemplate(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: template id is required", ErrInvalidParams)
	}
	_, err := s.api.do(ctx, request{Method: http.MethodDelete, Path: "/v3/templates/" + url.PathEscape(id)}, nil)
	return notFoundAs(err)
}

// decodeSendGridError reads {"errors":[{"field","message"}]} bodies.
func decodeSendGridError(body []byte) (string, string) {
	var v struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &v) != nil || len(v.Errors) == 0 {
		return "", ""
	}
	msgs := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		if e.Field != "" {
			msgs = append(msgs, e.Field+": "+e.Message)
			continue
		}
		msgs = append(msgs, e.Message)
	}
	return v.Errors[0].Field, strings.Join(msgs, "; ")
}
