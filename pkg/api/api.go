package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/mailbuilder/pkg/editor"
	"github.com/dmitrymomot/mailbuilder/pkg/export"
	"github.com/dmitrymomot/mailbuilder/pkg/httpserver"
	"github.com/dmitrymomot/mailbuilder/pkg/logger"
	"github.com/dmitrymomot/mailbuilder/pkg/provider"
)

// DefaultProviderTimeout bounds a single provider call.
const DefaultProviderTimeout = 30 * time.Second

// Server holds the HTTP handlers. Build it with New and mount Router.
type Server struct {
	store     *editor.Store
	exporter  *export.Exporter
	providers *provider.Registry
	events    *Events
	checks    map[string]httpserver.Check
	log       *slog.Logger

	providerTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithExporter enables the export endpoints.
func WithExporter(e *export.Exporter) Option {
	return func(s *Server) { s.exporter = e }
}

// WithProviders enables the provider endpoints.
func WithProviders(r *provider.Registry) Option {
	return func(s *Server) { s.providers = r }
}

// WithEvents sets the event stream served on /api/events.
func WithEvents(e *Events) Option {
	return func(s *Server) { s.events = e }
}

// WithHealthChecks sets the readiness checks served on /ready.
func WithHealthChecks(checks map[string]httpserver.Check) Option {
	return func(s *Server) { s.checks = checks }
}

// WithProviderTimeout overrides DefaultProviderTimeout.
func WithProviderTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.providerTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a Server around store.
func New(store *editor.Store, opts ...Option) *Server {
	s := &Server{
		store:           store,
		providerTimeout: DefaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.OrDiscard(s.log).With(logger.Component("api"))
	if s.events == nil {
		s.events = NewEvents(DefaultEventBuffer)
	}
	if s.providers == nil {
		s.providers = provider.NewRegistry()
	}
	return s
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests(s.log))

	r.Get("/health", httpserver.HealthHandler(s.log, nil))
	r.Get("/ready", httpserver.HealthHandler(s.log, s.checks))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Get("/events", s.streamEvents)
		r.Put("/selection", s.putSelection)
		r.Put("/dragging", s.putDragging)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.listTemplates)
			r.Post("/", s.createTemplate)
			r.Post("/import", s.importTemplate)
			r.Get("/current", s.getCurrent)
			r.Patch("/current", s.updateCurrent)

			r.Route("/{templateID}", func(r chi.Router) {
				r.Get("/", s.getTemplate)
				r.Delete("/", s.deleteTemplate)
				r.Post("/select", s.selectTemplate)
				r.Get("/preview", s.previewTemplate)
				r.Get("/text", s.textTemplate)
				r.Get("/download", s.downloadTemplate)
				r.Post("/export", s.exportTemplate)
			})
		})

		r.Route("/elements", func(r chi.Router) {
			r.Post("/", s.addElement)
			r.Post("/reorder", s.reorderElements)
			r.Get("/{elementID}", s.getElement)
			r.Patch("/{elementID}", s.updateElement)
			r.Delete("/{elementID}", s.removeElement)
			r.Post("/{elementID}/duplicate", s.duplicateElement)
		})

		r.Route("/providers", func(r chi.Router) {
			r.Get("/", s.listProviders)
			r.Route("/{provider}", func(r chi.Router) {
				r.Post("/send", s.sendTemplate)
				r.Get("/templates", s.listRemoteTemplates)
				r.Post("/templates", s.saveRemoteTemplate)
				r.Delete("/templates/{remoteID}", s.deleteRemoteTemplate)
			})
		})
	})

	return r
}
