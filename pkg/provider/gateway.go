package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/sanitizer"
	"github.com/dmitrymomot/mailbuilder/pkg/validator"
)

// Gateway is the contract every outbound email vendor adapter implements.
// All methods perform network or disk I/O and honour ctx cancellation.
type Gateway interface {
	// Name returns the registry key of the adapter, e.g. "postmark".
	Name() string
	// Send compiles tpl and delivers it to params.To.
	Send(ctx context.Context, tpl document.Template, params SendParams) (SendResult, error)
	// ListTemplates returns the templates stored with the vendor.
	ListTemplates(ctx context.Context) ([]RemoteTemplate, error)
	// SaveTemplate compiles tpl and stores it with the vendor.
	SaveTemplate(ctx context.Context, tpl document.Template) (RemoteTemplate, error)
	// DeleteTemplate removes a vendor template by its vendor id.
	DeleteTemplate(ctx context.Context, id string) error
}

// SendParams are the per-message inputs of Send.
type SendParams struct {
	To string `json:"to"`
	// Variables replace {{key}} placeholders in the subject and body.
	// Vendors that support custom message data receive them too.
	Variables map[string]string `json:"variables,omitempty"`
	Tag       string            `json:"tag,omitempty"`
}

// Normalize returns p with the recipient address trimmed and lower-cased.
func (p SendParams) Normalize() SendParams {
	p.To = sanitizer.NormalizeEmail(p.To)
	return p
}

// Validate checks the recipient address and the tag.
func (p SendParams) Validate() error {
	err := validator.Apply(
		validator.RequiredString("to", p.To),
		validator.ValidEmail("to", p.To),
		validator.MaxLenString("tag", p.Tag, 100),
		validator.NoControlChars("tag", p.Tag),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

// SendResult describes an accepted message.
type SendResult struct {
	Provider  string `json:"provider"`
	MessageID string `json:"messageId"`
	Message   string `json:"message,omitempty"`
}

// RemoteTemplate is a template as stored by a vendor.
type RemoteTemplate struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subject  string `json:"subject,omitempty"`
	Active   bool   `json:"active"`
}

// APIError is a failure reported by a vendor API. Body keeps the raw vendor
// response for diagnostics.
type APIError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(" api error")
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Code != "" {
		b.WriteString(" ")
		b.WriteString(e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return ErrProviderAPI }

// classify wraps a failed call so callers can tell timeouts from other
// transport failures. Vendor API errors pass through unchanged.
func classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) || errors.Is(err, ErrInvalidParams) || errors.Is(err, ErrTemplateNotFound) {
		return err
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, provider, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransport, provider, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
