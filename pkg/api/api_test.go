package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailbuilder/pkg/api"
	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/editor"
	"github.com/dmitrymomot/mailbuilder/pkg/export"
	"github.com/dmitrymomot/mailbuilder/pkg/httpserver"
	"github.com/dmitrymomot/mailbuilder/pkg/provider"
)

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *api.ErrorDetail `json:"error"`
}

func request(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var rd *bytes.Reader
	switch v := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func dataAs[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func newServer(t *testing.T, opts ...api.Option) (*editor.Store, http.Handler) {
	t.Helper()
	store := editor.New()
	return store, api.New(store, opts...).Router()
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	_, h := newServer(t)

	t.Run("propagates valid id", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(api.RequestIDHeader, "req_123-abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "req_123-abc", rec.Header().Get(api.RequestIDHeader))
	})

	t.Run("replaces invalid id", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(api.RequestIDHeader, "bad id<script>")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		got := rec.Header().Get(api.RequestIDHeader)
		assert.NotEqual(t, "bad id<script>", got)
		assert.Len(t, got, 36)
	})

	t.Run("context extractor", func(t *testing.T) {
		t.Parallel()
		var seen string
		inner := api.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFromContext(r.Context())
			attr, ok := api.RequestIDExtractor()(r.Context())
			assert.True(t, ok)
			assert.Equal(t, seen, attr.Value.String())
		}))
		inner.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)

		_, ok := api.RequestIDExtractor()(context.Background())
		assert.False(t, ok)
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()
	_, h := newServer(t, api.WithHealthChecks(map[string]httpserver.Check{
		"redis": func(context.Context) error { return errors.New("down") },
	}))

	rec, _ := request(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = request(t, h, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTemplates(t *testing.T) {
	t.Parallel()
	store, h := newServer(t)

	rec, env := request(t, h, http.MethodPost, "/api/templates", map[string]string{"name": "Welcome Email"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := dataAs[document.Template](t, env)
	assert.Equal(t, "Welcome Email", created.Name)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.ID, store.CurrentID())

	rec, env = request(t, h, http.MethodPatch, "/api/templates/current", map[string]string{"subject": "Hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello", dataAs[document.Template](t, env).Subject)

	rec, env = request(t, h, http.MethodGet, "/api/templates/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, dataAs[document.Template](t, env).ID)

	rec, env = request(t, h, http.MethodGet, "/api/templates/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello", dataAs[document.Template](t, env).Subject)

	second := store.CreateTemplate("Second")
	rec, env = request(t, h, http.MethodPost, "/api/templates/"+created.ID+"/select", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, dataAs[api.Applied](t, env).Applied)
	assert.Equal(t, created.ID, store.CurrentID())

	_, env = request(t, h, http.MethodGet, "/api/templates", nil)
	assert.Len(t, dataAs[[]document.Template](t, env), 2)

	_, env = request(t, h, http.MethodGet, "/api/state", nil)
	state := dataAs[editor.State](t, env)
	assert.Equal(t, created.ID, state.CurrentID)
	assert.Len(t, state.Templates, 2)

	_, env = request(t, h, http.MethodDelete, "/api/templates/"+second.ID, nil)
	assert.True(t, dataAs[api.Applied](t, env).Applied)

	rec, env = request(t, h, http.MethodDelete, "/api/templates/"+second.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, dataAs[api.Applied](t, env).Applied)

	rec, env = request(t, h, http.MethodGet, "/api/templates/"+second.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Code)

	rec, env = request(t, h, http.MethodPost, "/api/templates", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "bad_request", env.Error.Code)
}

func TestNoCurrentTemplate(t *testing.T) {
	t.Parallel()
	_, h := newServer(t)

	rec, env := request(t, h, http.MethodGet, "/api/templates/current", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)

	rec, env = request(t, h, http.MethodPatch, "/api/templates/current", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, dataAs[api.Applied](t, env).Applied)

	rec, env = request(t, h, http.MethodPost, "/api/elements", map[string]string{"type": "text"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, dataAs[api.Applied](t, env).Applied)
}

func TestElements(t *testing.T) {
	t.Parallel()
	store, h := newServer(t)
	store.CreateTemplate("Newsletter")

	rec, env := request(t, h, http.MethodPost, "/api/elements", map[string]string{"type": "header"})
	require.Equal(t, http.StatusCreated, rec.Code)
	header := dataAs[document.Element](t, env)
	assert.Equal(t, document.TypeHeader, header.Type)
	assert.Equal(t, document.HeaderContent{Text: "New Heading", Level: 2}, header.Content)
	size, ok := header.Styles.Get("font-size")
	assert.True(t, ok)
	assert.Equal(t, "24px", size)
	stored, _ := store.Current()
	require.Len(t, stored.Elements, 1)
	assert.Equal(t, stored.Elements[0], header)

	index := 0
	rec, env = request(t, h, http.MethodPost, "/api/elements", map[string]any{
		"type":    "text",
		"content": map[string]string{"text": "Intro"},
		"styles":  map[string]string{"color": "#111111"},
		"index":   index,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	text := dataAs[document.Element](t, env)
	assert.Equal(t, document.TextContent{Text: "Intro"}, text.Content)
	assert.Equal(t, document.StylesOf("color", "#111111"), text.Styles)

	current, _ := store.Current()
	require.Len(t, current.Elements, 2)
	assert.Equal(t, text.ID, current.Elements[0].ID)

	rec, env = request(t, h, http.MethodPatch, "/api/elements/"+header.ID, map[string]any{
		"content": map[string]any{"text": "Welcome"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, document.HeaderContent{Text: "Welcome", Level: 2}, dataAs[document.Element](t, env).Content)

	rec, env = request(t, h, http.MethodPatch, "/api/elements/"+header.ID, map[string]any{
		"content": map[string]any{"level": 9},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "content.level")

	rec, env = request(t, h, http.MethodPatch, "/api/elements/missing", map[string]any{
		"content": map[string]any{"text": "x"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, dataAs[api.Applied](t, env).Applied)

	rec, env = request(t, h, http.MethodPost, "/api/elements/"+header.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	dup := dataAs[document.Element](t, env)
	assert.NotEqual(t, header.ID, dup.ID)
	assert.Equal(t, document.HeaderContent{Text: "Welcome", Level: 2}, dup.Content)

	_, env = request(t, h, http.MethodPost, "/api/elements/reorder", map[string]int{"from": 0, "to": 2})
	assert.True(t, dataAs[api.Applied](t, env).Applied)
	current, _ = store.Current()
	assert.Equal(t, text.ID, current.Elements[2].ID)

	_, env = request(t, h, http.MethodPost, "/api/elements/reorder", map[string]int{"from": 7, "to": 0})
	assert.False(t, dataAs[api.Applied](t, env).Applied)

	rec, env = request(t, h, http.MethodGet, "/api/elements/"+dup.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dup.ID, dataAs[document.Element](t, env).ID)

	_, env = request(t, h, http.MethodDelete, "/api/elements/"+dup.ID, nil)
	assert.True(t, dataAs[api.Applied](t, env).Applied)

	rec, env = request(t, h, http.MethodGet, "/api/elements/"+dup.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = request(t, h, http.MethodPost, "/api/elements", map[string]any{
		"type":    "marquee",
		"content": map[string]string{"text": "x"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_element", env.Error.Code)
}

func TestSelectionAndDragging(t *testing.T) {
	t.Parallel()
	store, h := newServer(t)
	store.CreateTemplate("Promo")

	rec, env := request(t, h, http.MethodPut, "/api/selection", map[string]string{"elementId": "el-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "el-1", dataAs[editor.State](t, env).SelectedElementID)

	rec, _ = request(t, h, http.MethodPut, "/api/dragging", map[string]bool{"dragging": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.Dragging())
}

func TestImport(t *testing.T) {
	t.Parallel()
	store, h := newServer(t)

	payload := `{"name":"Imported","elements":[{"id":"x","type":"text","content":{"text":"Hi"},"styles":{"color":"red"}}]}`
	rec, env := request(t, h, http.MethodPost, "/api/templates/import", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	tpl := dataAs[document.Template](t, env)
	assert.Equal(t, "Imported", tpl.Name)
	require.Len(t, tpl.Elements, 1)
	assert.NotEqual(t, "x", tpl.Elements[0].ID)
	assert.Equal(t, tpl.ID, store.CurrentID())

	rec, env = request(t, h, http.MethodPost, "/api/templates/import", `{"name":1,"elements":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_template", env.Error.Code)
	assert.Equal(t, "invalid template format", env.Error.Message)
	assert.Equal(t, 1, store.Len())
}

func TestRendering(t *testing.T) {
	t.Parallel()
	store, h := newServer(t)
	tpl := store.CreateTemplate("Welcome Email")
	_, err := store.AddElement(document.Element{
		Type:    document.TypeText,
		Content: document.TextContent{Text: "Hello there"},
	}, nil)
	require.NoError(t, err)

	rec, _ := request(t, h, http.MethodGet, "/api/templates/"+tpl.ID+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<!DOCTYPE html>"))
	assert.Contains(t, rec.Body.String(), "Hello there")

	rec, _ = request(t, h, http.MethodGet, "/api/templates/"+tpl.ID+"/text", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello there")

	rec, _ = request(t, h, http.MethodGet, "/api/templates/"+tpl.ID+"/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="welcome-email.html"`, rec.Header().Get("Content-Disposition"))

	rec, _ = request(t, h, http.MethodGet, "/api/templates/"+tpl.ID+"/download?format=json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="welcome-email.json"`, rec.Header().Get("Content-Disposition"))
	var decoded document.Template
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, tpl.ID, decoded.ID)

	rec, env := request(t, h, http.MethodGet, "/api/templates/"+tpl.ID+"/download?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)

	rec, _ = request(t, h, http.MethodGet, "/api/templates/missing/preview", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		store, h := newServer(t)
		tpl := store.CreateTemplate("A")
		rec, _ := request(t, h, http.MethodPost, "/api/templates/"+tpl.ID+"/export", nil)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("local storage", func(t *testing.T) {
		t.Parallel()
		storage, err := export.NewLocalStorage(t.TempDir(), "/exports")
		require.NoError(t, err)
		store, h := newServer(t, api.WithExporter(export.New(storage)))
		tpl := store.CreateTemplate("Launch")

		rec, env := request(t, h, http.MethodPost, "/api/templates/"+tpl.ID+"/export", nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		files := dataAs[[]export.File](t, env)
		require.Len(t, files, 2)
		for _, f := range files {
			data, err := storage.Get(context.Background(), f.Path)
			require.NoError(t, err)
			assert.EqualValues(t, len(data), f.Size)
		}
	})
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Name() string { return m.Called().String(0) }

func (m *mockGateway) Send(ctx context.Context, tpl document.Template, params provider.SendParams) (provider.SendResult, error) {
	args := m.Called(ctx, tpl, params)
	return args.Get(0).(provider.SendResult), args.Error(1)
}

func (m *mockGateway) ListTemplates(ctx context.Context) ([]provider.RemoteTemplate, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]provider.RemoteTemplate)
	return list, args.Error(1)
}

func (m *mockGateway) SaveTemplate(ctx context.Context, tpl document.Template) (provider.RemoteTemplate, error) {
	args := m.Called(ctx, tpl)
	return args.Get(0).(provider.RemoteTemplate), args.Error(1)
}

func (m *mockGateway) DeleteTemplate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newProviderServer(t *testing.T, opts ...api.Option) (*editor.Store, *mockGateway, http.Handler) {
	t.Helper()
	g := &mockGateway{}
	g.On("Name").Return("fake").Maybe()
	reg := provider.NewRegistry()
	reg.Register(g)
	store, h := newServer(t, append([]api.Option{api.WithProviders(reg)}, opts...)...)
	return store, g, h
}

func TestProviders(t *testing.T) {
	t.Parallel()

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		_, _, h := newProviderServer(t)
		rec, env := request(t, h, http.MethodGet, "/api/providers", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"providers":["fake"],"default":"fake"}`, string(env.Data))
	})

	t.Run("send current template through default", func(t *testing.T) {
		t.Parallel()
		store, g, h := newProviderServer(t)
		tpl := store.CreateTemplate("Receipt")
		params := provider.SendParams{To: "user@example.com", Variables: map[string]string{"name": "Ann"}}
		g.On("Send", mock.Anything, mock.MatchedBy(func(got document.Template) bool { return got.ID == tpl.ID }), params).
			Return(provider.SendResult{Provider: "fake", MessageID: "m-1"}, nil).Once()

		rec, env := request(t, h, http.MethodPost, "/api/providers/default/send", map[string]any{
			"to":        "user@example.com",
			"variables": map[string]string{"name": "Ann"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "m-1", dataAs[provider.SendResult](t, env).MessageID)
		g.AssertExpectations(t)
	})

	t.Run("invalid recipient", func(t *testing.T) {
		t.Parallel()
		store, g, h := newProviderServer(t)
		store.CreateTemplate("Receipt")

		rec, env := request(t, h, http.MethodPost, "/api/providers/fake/send", map[string]string{"to": "nope"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "invalid_params", env.Error.Code)
		assert.Contains(t, env.Error.Details, "to")
		g.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		_, _, h := newProviderServer(t)
		rec, _ := request(t, h, http.MethodGet, "/api/providers/nope/templates", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("vendor error", func(t *testing.T) {
		t.Parallel()
		store, g, h := newProviderServer(t)
		store.CreateTemplate("Receipt")
		g.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(provider.SendResult{}, &provider.APIError{
			Provider:   "fake",
			StatusCode: http.StatusUnprocessableEntity,
			Code:       "300",
			Message:    "Invalid email request",
			Body:       `{"ErrorCode":300}`,
		})

		rec, env := request(t, h, http.MethodPost, "/api/providers/fake/send", map[string]string{"to": "user@example.com"})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "provider_error", env.Error.Code)
		assert.Equal(t, []string{`{"ErrorCode":300}`}, env.Error.Details["body"])
		assert.Equal(t, []string{"422"}, env.Error.Details["status"])
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()
		_, g, h := newProviderServer(t)
		g.On("ListTemplates", mock.Anything).Return(nil, fmt.Errorf("%w: connection refused", provider.ErrTransport))

		rec, env := request(t, h, http.MethodGet, "/api/providers/fake/templates", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "provider_unavailable", env.Error.Code)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		_, g, h := newProviderServer(t, api.WithProviderTimeout(20*time.Millisecond))
		g.On("ListTemplates", mock.Anything).Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).Return(nil, provider.ErrTimeout)

		rec, env := request(t, h, http.MethodGet, "/api/providers/fake/templates", nil)
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "provider_timeout", env.Error.Code)
	})

	t.Run("remote templates", func(t *testing.T) {
		t.Parallel()
		store, g, h := newProviderServer(t)
		tpl := store.CreateTemplate("Receipt")
		g.On("ListTemplates", mock.Anything).Return(nil, nil).Once()
		g.On("SaveTemplate", mock.Anything, mock.MatchedBy(func(got document.Template) bool { return got.ID == tpl.ID })).
			Return(provider.RemoteTemplate{Provider: "fake", ID: "r-1", Name: "Receipt", Active: true}, nil).Once()
		g.On("DeleteTemplate", mock.Anything, "r-1").Return(nil).Once()

		rec, env := request(t, h, http.MethodGet, "/api/providers/fake/templates", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, string(env.Data))

		rec, env = request(t, h, http.MethodPost, "/api/providers/fake/templates", map[string]string{"templateId": tpl.ID})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "r-1", dataAs[provider.RemoteTemplate](t, env).ID)

		rec, env = request(t, h, http.MethodDelete, "/api/providers/fake/templates/r-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, dataAs[api.Applied](t, env).Applied)

		rec, _ = request(t, h, http.MethodPost, "/api/providers/fake/templates", map[string]string{"templateId": "missing"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		g.AssertExpectations(t)
	})
}

func TestEventStream(t *testing.T) {
	t.Parallel()
	events := api.NewEvents(8)
	store := editor.New(editor.WithHook(events.Publish))
	srv := httptest.NewServer(api.New(store, api.WithEvents(events)).Router())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return events.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	tpl := store.CreateTemplate("Live")

	scanner := bufio.NewScanner(resp.Body)
	var lines []string
	for len(lines) < 2 && scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "event: template.changed", lines[0])

	var ev api.Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &ev))
	assert.Equal(t, editor.EventTemplateChanged, ev.Kind)
	assert.Equal(t, "createTemplate", ev.Command)
	assert.Equal(t, tpl.ID, ev.TemplateID)
}

func TestEventsDropSlowSubscriber(t *testing.T) {
	t.Parallel()
	events := api.NewEvents(1)
	ch := events.Subscribe(context.Background())

	events.Publish(editor.Event{Kind: editor.EventTemplateChanged, TemplateID: "a"})
	events.Publish(editor.Event{Kind: editor.EventTemplateChanged, TemplateID: "b"})

	require.Eventually(t, func() bool { return events.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
	first, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, "a", first.TemplateID)
	_, ok = <-ch
	assert.False(t, ok)
}

func TestEventsClose(t *testing.T) {
	t.Parallel()
	events := api.NewEvents(4)
	ctx, cancel := context.WithCancel(context.Background())
	ch := events.Subscribe(ctx)
	cancel()
	require.Eventually(t, func() bool { return events.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-ch
	assert.False(t, ok)

	events.Close()
	_, ok = <-events.Subscribe(context.Background())
	assert.False(t, ok)
	events.Publish(editor.Event{Kind: editor.EventTemplateDeleted})
}
