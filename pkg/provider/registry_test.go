package provider_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/provider"
)

type mockGateway struct {
	mock.Mock
	name string
}

func (m *mockGateway) Name() string { return m.name }

func (m *mockGateway) Send(ctx context.Context, tpl document.Template, params provider.SendParams) (provider.SendResult, error) {
	args := m.Called(ctx, tpl, params)
	return args.Get(0).(provider.SendResult), args.Error(1)
}

func (m *mockGateway) ListTemplates(ctx context.Context) ([]provider.RemoteTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]provider.RemoteTemplate), args.Error(1)
}

func (m *mockGateway) SaveTemplate(ctx context.Context, tpl document.Template) (provider.RemoteTemplate, error) {
	args := m.Called(ctx, tpl)
	return args.Get(0).(provider.RemoteTemplate), args.Error(1)
}

func (m *mockGateway) DeleteTemplate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("enabled adapters only", func(t *testing.T) {
		t.Parallel()
		reg, err := provider.FromConfig(provider.Config{
			Mailgun: provider.MailgunConfig{APIKey: "k", Domain: "mg.example.com", FromEmail: "a@example.com"},
			Dev:     provider.DevConfig{Enabled: true, Dir: t.TempDir()},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"dev", "mailgun"}, reg.Names())
		assert.Equal(t, "mailgun", reg.DefaultName())

		g, err := reg.Get("dev")
		require.NoError(t, err)
		assert.Equal(t, "dev", g.Name())

		_, err = reg.Get("postmark")
		assert.ErrorIs(t, err, provider.ErrProviderNotFound)
	})

	t.Run("explicit default", func(t *testing.T) {
		t.Parallel()
		reg, err := provider.FromConfig(provider.Config{
			Default:  "dev",
			SendGrid: provider.SendGridConfig{APIKey: "k", FromEmail: "a@example.com"},
			Dev:      provider.DevConfig{Enabled: true, Dir: t.TempDir()},
		})
		require.NoError(t, err)
		g, err := reg.Default()
		require.NoError(t, err)
		assert.Equal(t, "dev", g.Name())
	})

	t.Run("unknown default", func(t *testing.T) {
		t.Parallel()
		_, err := provider.FromConfig(provider.Config{Default: "postmark", Dev: provider.DevConfig{Enabled: true, Dir: t.TempDir()}})
		assert.ErrorIs(t, err, provider.ErrInvalidConfig)
		assert.ErrorIs(t, err, provider.ErrProviderNotFound)
	})

	t.Run("invalid adapter config", func(t *testing.T) {
		t.Parallel()
		_, err := provider.FromConfig(provider.Config{Mailgun: provider.MailgunConfig{APIKey: "k"}})
		assert.ErrorIs(t, err, provider.ErrInvalidConfig)
	})

	t.Run("empty registry has no default", func(t *testing.T) {
		t.Parallel()
		reg, err := provider.FromConfig(provider.Config{})
		require.NoError(t, err)
		assert.Empty(t, reg.Names())
		_, err = reg.Default()
		assert.ErrorIs(t, err, provider.ErrProviderNotFound)
	})
}

func TestRegistry_RegisterLogsCalls(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := provider.NewRegistry(provider.WithLogger(log))

	gw := &mockGateway{name: "custom"}
	tpl := sampleTemplate()
	params := provider.SendParams{To: "user@example.com"}
	gw.On("Send", mock.Anything, tpl, params).Return(provider.SendResult{Provider: "custom", MessageID: "m-1"}, nil)
	gw.On("DeleteTemplate", mock.Anything, "x").Return(provider.ErrTemplateNotFound)

	reg.Register(gw)
	assert.Equal(t, "custom", reg.DefaultName())

	g, err := reg.Get("custom")
	require.NoError(t, err)

	res, err := g.Send(context.Background(), tpl, params)
	require.NoError(t, err)
	assert.Equal(t, "m-1", res.MessageID)
	assert.ErrorIs(t, g.DeleteTemplate(context.Background(), "x"), provider.ErrTemplateNotFound)

	out := buf.String()
	assert.Contains(t, out, "provider call started")
	assert.Contains(t, out, "provider call finished")
	assert.Contains(t, out, "provider call failed")
	assert.Contains(t, out, "provider=custom")
	assert.Contains(t, out, "message_id=m-1")
	gw.AssertExpectations(t)
}
