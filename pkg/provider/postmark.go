package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
)

// Postmark delivers through the Postmark API using the server token for
// messages and templates.
type Postmark struct {
	client  *postmark.Client
	from    Sender
	replyTo string
}

// NewPostmark validates cfg and builds the adapter.
func NewPostmark(cfg PostmarkConfig) (*Postmark, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: postmark: server token is required", ErrInvalidConfig)
	}
	from := Sender{Email: cfg.FromEmail, Name: cfg.FromName}
	if err := from.validate("postmark"); err != nil {
		return nil, err
	}
	if err := validateTransport("postmark", cfg.BaseURL, cfg.Timeout); err != nil {
		return nil, err
	}

	client := postmark.NewClient(cfg.ServerToken, cfg.AccountToken)
	client.HTTPClient = &http.Client{Timeout: timeoutOr(cfg.Timeout)}
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	return &Postmark{client: client, from: from, replyTo: cfg.ReplyTo}, nil
}

func (p *Postmark) Name() string { return "postmark" }

// Send delivers the compiled message with open and HTML link tracking.
func (p *Postmark) Send(ctx context.Context, tpl document.Template, params SendParams) (SendResult, error) {
	msg, params, err := prepare(tpl, params)
	if err != nil {
		return SendResult{}, err
	}

	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:       p.from.String(),
		ReplyTo:    p.replyTo,
		To:         params.To,
		Subject:    msg.Subject,
		Tag:        params.Tag,
		HTMLBody:   msg.HTML,
		TextBody:   msg.Text,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	// SendEmail reports a rejection in the response body of a 2xx reply
	// and returns a plain error next to it.
	if resp.ErrorCode != 0 {
		apiErr := &APIError{
			Provider: p.Name(),
			Code:     strconv.FormatInt(resp.ErrorCode, 10),
			Message:  resp.Message,
		}
		if body, mErr := json.Marshal(resp); mErr == nil {
			apiErr.Body = string(body)
		}
		return SendResult{}, apiErr
	}
	if err != nil {
		return SendResult{}, p.wrap(err)
	}
	return SendResult{Provider: p.Name(), MessageID: resp.MessageID, Message: resp.Message}, nil
}

func (p *Postmark) ListTemplates(ctx context.Context) ([]RemoteTemplate, error) {
	const pageSize = 100

	var out []RemoteTemplate
	for offset := int64(0); ; offset += pageSize {
		page, total, err := p.client.GetTemplates(ctx, pageSize, offset)
		if err != nil {
			return nil, p.wrap(err)
		}
		for _, t := range page {
			out = append(out, RemoteTemplate{
				Provider: p.Name(),
				ID:       strconv.FormatInt(t.TemplateID, 10),
				Name:     t.Name,
				Active:   t.Active,
			})
		}
		if len(page) == 0 || offset+pageSize >= total {
			break
		}
	}
	if out == nil {
		out = []RemoteTemplate{}
	}
	return out, nil
}

func (p *Postmark) SaveTemplate(ctx context.Context, tpl document.Template) (RemoteTemplate, error) {
	msg := render(tpl, nil)
	info, err := p.client.CreateTemplate(ctx, postmark.Template{
		Name:     tpl.Name,
		Subject:  msg.Subject,
		HTMLBody: msg.HTML,
		TextBody: msg.Text,
		Active:   true,
	})
	if err != nil {
		return RemoteTemplate{}, p.wrap(err)
	}
	if info.TemplateID == 0 {
		return RemoteTemplate{}, &APIError{Provider: p.Name(), Message: "template was not created"}
	}
	return RemoteTemplate{
		Provider: p.Name(),
		ID:       strconv.FormatInt(info.TemplateID, 10),
		Name:     info.Name,
		Subject:  msg.Subject,
		Active:   info.Active,
	}, nil
}

func (p *Postmark) DeleteTemplate(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: template id is required", ErrInvalidParams)
	}
	return p.wrap(p.client.DeleteTemplate(ctx, id))
}

// wrap turns Postmark API errors into *APIError and classifies the rest.
func (p *Postmark) wrap(err error) error {
	if err == nil {
		return nil
	}
	var pmErr postmark.APIError
	if errors.As(err, &pmErr) {
		apiErr := &APIError{
			Provider: p.Name(),
			Code:     strconv.FormatInt(pmErr.ErrorCode, 10),
			Message:  pmErr.Message,
		}
		// Postmark reports unknown templates with error code 1101.
		if pmErr.ErrorCode == 1101 {
			return fmt.Errorf("%w: %w", ErrTemplateNotFound, apiErr)
		}
		return apiErr
	}
	return classify(p.Name(), err)
}
