package repository

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/mailbuilder/pkg/editor"
	"github.com/dmitrymomot/mailbuilder/pkg/logger"
)

// Syncer writes template events of an editor.Store to a Repository.
// Events are queued by Hook and applied in order by Run.
type Syncer struct {
	repo    Repository
	log     *slog.Logger
	timeout time.Duration
	onError func(editor.Event, error)

	queue chan editor.Event
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// SyncOption configures a Syncer.
type SyncOption func(*Syncer)

func WithLogger(l *slog.Logger) SyncOption {
	return func(s *Syncer) { s.log = logger.OrDiscard(l) }
}

// WithTimeout bounds every repository call. Default 5s.
func WithTimeout(d time.Duration) SyncOption {
	return func(s *Syncer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithQueueSize sets how many events may wait before Hook blocks. Default 256.
func WithQueueSize(n int) SyncOption {
	return func(s *Syncer) { s.queue = make(chan editor.Event, max(n, 1)) }
}

// WithErrorHandler is called for every failed repository call.
func WithErrorHandler(fn func(editor.Event, error)) SyncOption {
	return func(s *Syncer) { s.onError = fn }
}

// NewSyncer returns a Syncer for repo. Run must be started for events to be
// applied.
func NewSyncer(repo Repository, opts ...SyncOption) *Syncer {
	s := &Syncer{
		repo:    repo,
		log:     logger.Discard(),
		timeout: 5 * time.Second,
		queue:   make(chan editor.Event, 256),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("repository.sync"))
	return s
}

// Hook is an editor.Hook. Selection events are ignored. After Close the
// event is dropped.
func (s *Syncer) Hook(ev editor.Event) {
	if ev.Kind != editor.EventTemplateChanged && ev.Kind != editor.EventTemplateDeleted {
		return
	}
	select {
	case <-s.stop:
		s.dropped(ev)
		return
	default:
	}
	select {
	case s.queue <- ev:
	case <-s.stop:
		s.dropped(ev)
	}
}

func (s *Syncer) dropped(ev editor.Event) {
	s.log.Warn("event dropped, syncer closed", logger.TemplateID(ev.TemplateID), logger.Event(string(ev.Kind)))
}

// Run applies queued events until ctx is done or Close is called. Events
// already queued at that point are still applied.
func (s *Syncer) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case ev := <-s.queue:
			s.apply(ctx, ev)
		case <-ctx.Done():
			s.drain(ctx)
			return
		case <-s.stop:
			s.drain(ctx)
			return
		}
	}
}

// Close stops Run after the queue is drained and waits for it to return.
// It must only be called after Run has been started.
func (s *Syncer) Close() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

func (s *Syncer) drain(ctx context.Context) {
	for {
		select {
		case ev := <-s.queue:
			s.apply(ctx, ev)
		default:
			return
		}
	}
}

func (s *Syncer) apply(ctx context.Context, ev editor.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	var err error
	switch ev.Kind {
	case editor.EventTemplateChanged:
		err = s.repo.Save(ctx, ev.Template)
	case editor.EventTemplateDeleted:
		if err = s.repo.Delete(ctx, ev.TemplateID); errors.Is(err, ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		s.log.Error("failed to sync template",
			logger.TemplateID(ev.TemplateID),
			logger.Event(string(ev.Kind)),
			logger.Error(err),
		)
		if s.onError != nil {
			s.onError(ev, err)
		}
		return
	}
	s.log.Debug("template synced", logger.TemplateID(ev.TemplateID), logger.Event(string(ev.Kind)))
}
