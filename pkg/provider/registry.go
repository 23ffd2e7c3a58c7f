package provider

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/mailbuilder/pkg/logger"
)

// Registry maps vendor names to gateways. Every registered gateway is
// wrapped with call logging. All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	gateways map[string]Gateway
	def      string
	log      *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for provider calls.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = logger.OrDiscard(l)
	}
}

// NewRegistry builds an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{gateways: map[string]Gateway{}, log: logger.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("provider"))
	return r
}

// FromConfig builds a registry holding an adapter for every enabled vendor in
// cfg. Invalid vendor configuration and an unknown default fail with
// ErrInvalidConfig.
func FromConfig(cfg Config, opts ...RegistryOption) (*Registry, error) {
	r := NewRegistry(opts...)

	var errs []error
	if cfg.Postmark.Enabled() {
		g, err := NewPostmark(cfg.Postmark)
		errs = append(errs, r.registerOrErr(g, err))
	}
	if cfg.Mailgun.Enabled() {
		g, err := NewMailgun(cfg.Mailgun)
		errs = append(errs, r.registerOrErr(g, err))
	}
	if cfg.SendGrid.Enabled() {
		g, err := NewSendGrid(cfg.SendGrid)
		errs = append(errs, r.registerOrErr(g, err))
	}
	if cfg.Dev.Enabled {
		g, err := NewDev(cfg.Dev)
		errs = append(errs, r.registerOrErr(g, err))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if cfg.Default != "" {
		if err := r.SetDefault(cfg.Default); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return r, nil
}

func (r *Registry) registerOrErr(g Gateway, err error) error {
	if err != nil {
		return err
	}
	r.Register(g)
	return nil
}

// Register adds or replaces the gateway under g.Name(). The first registered
// gateway becomes the default unless one was set.
func (r *Registry) Register(g Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[g.Name()] = withLogging(g, r.log)
	if r.def == "" {
		r.def = g.Name()
	}
}

// Get returns the gateway registered under name.
func (r *Registry) Get(name string) (Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gateways[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}
	return g, nil
}

// Default returns the default gateway.
func (r *Registry) Default() (Gateway, error) {
	r.mu.RLock()
	name := r.def
	r.mu.RUnlock()
	if name == "" {
		return nil, fmt.Errorf("%w: no provider configured", ErrProviderNotFound)
	}
	return r.Get(name)
}

// SetDefault makes the gateway registered under name the default.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.gateways[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}
	r.def = name
	return nil
}

// DefaultName returns the name of the default gateway, or "".
func (r *Registry) DefaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// Names returns the registered gateway names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
