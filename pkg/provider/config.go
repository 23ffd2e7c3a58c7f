package provider

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/dmitrymomot/mailbuilder/pkg/validator"
)

const (
	defaultTimeout = 15 * time.Second
	maxTimeout     = 2 * time.Minute
)

// Sender identifies the From address of outbound mail.
type Sender struct {
	Email string
	Name  string
}

func (s Sender) validate(provider string) error {
	if s.Email == "" {
		return fmt.Errorf("%w: %s: sender email is required", ErrInvalidConfig, provider)
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return fmt.Errorf("%w: %s: sender email must be a valid email address", ErrInvalidConfig, provider)
	}
	return nil
}

// validateTransport checks the optional API base URL override and the
// request timeout of an adapter.
func validateTransport(provider, baseURL string, timeout time.Duration) error {
	rules := []validator.Rule{
		validator.MinNum("timeout", timeout, 0),
		validator.MaxNum("timeout", timeout, maxTimeout),
	}
	if baseURL != "" {
		rules = append(rules, validator.ValidURLWithScheme("base_url", baseURL, []string{"https", "http"}))
	}
	if err := validator.Apply(rules...); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, provider, err)
	}
	return nil
}

// String renders the sender as an RFC 5322 address.
func (s Sender) String() string {
	return (&mail.Address{Name: s.Name, Address: s.Email}).String()
}

// PostmarkConfig configures the Postmark adapter. The adapter is enabled when
// ServerToken is set.
type PostmarkConfig struct {
	ServerToken  string        `env:"POSTMARK_SERVER_TOKEN"`
	AccountToken string        `env:"POSTMARK_ACCOUNT_TOKEN"`
	FromEmail    string        `env:"POSTMARK_FROM_EMAIL"`
	FromName     string        `env:"POSTMARK_FROM_NAME"`
	ReplyTo      string        `env:"POSTMARK_REPLY_TO"`
	BaseURL      string        `env:"POSTMARK_BASE_URL"`
	Timeout      time.Duration `env:"POSTMARK_TIMEOUT" envDefault:"15s"`
}

func (c PostmarkConfig) Enabled() bool { return c.ServerToken != "" }

// MailgunConfig configures the Mailgun adapter. The adapter is enabled when
// APIKey is set. Region is "us" or "eu".
type MailgunConfig struct {
	APIKey    string        `env:"MAILGUN_API_KEY"`
	Domain    string        `env:"MAILGUN_DOMAIN"`
	FromEmail string        `env:"MAILGUN_FROM_EMAIL"`
	FromName  string        `env:"MAILGUN_FROM_NAME"`
	Region    string        `env:"MAILGUN_REGION" envDefault:"us"`
	BaseURL   string        `env:"MAILGUN_BASE_URL"`
	Timeout   time.Duration `env:"MAILGUN_TIMEOUT" envDefault:"15s"`
}

func (c MailgunConfig) Enabled() bool { return c.APIKey != "" }

// SendGridConfig configures the SendGrid adapter. The adapter is enabled when
// APIKey is set.
type SendGridConfig struct {
	APIKey    string        `env:"SENDGRID_API_KEY"`
	FromEmail string        `env:"SENDGRID_FROM_EMAIL"`
	FromName  string        `env:"SENDGRID_FROM_NAME"`
	BaseURL   string        `env:"SENDGRID_BASE_URL"`
	Timeout   time.Duration `env:"SENDGRID_TIMEOUT" envDefault:"15s"`
}

func (c SendGridConfig) Enabled() bool { return c.APIKey != "" }

// DevConfig configures the development adapter that writes messages to disk.
type DevConfig struct {
	Enabled   bool   `env:"DEV_MAIL_ENABLED" envDefault:"false"`
	Dir       string `env:"DEV_MAIL_DIR" envDefault:"./tmp/mail"`
	FromEmail string `env:"DEV_MAIL_FROM_EMAIL" envDefault:"dev@localhost.test"`
}

// Config configures the registry. Default names the adapter returned by
// Registry.Default; when empty the first enabled adapter in
// postmark, mailgun, sendgrid, dev order is used.
type Config struct {
	Default  string `env:"MAIL_PROVIDER"`
	Postmark PostmarkConfig
	Mailgun  MailgunConfig
	SendGrid SendGridConfig
	Dev      DevConfig
}

func timeoutOr(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}
