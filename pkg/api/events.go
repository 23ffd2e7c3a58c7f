package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/mailbuilder/pkg/editor"
	"github.com/dmitrymomot/mailbuilder/pkg/logger"
)

// DefaultEventBuffer is the per-subscriber buffer used by New when no
// Events are supplied.
const DefaultEventBuffer = 16

// Event is the wire form of an editor notification.
type Event struct {
	Kind       editor.EventKind `json:"kind"`
	Command    string           `json:"command"`
	TemplateID string           `json:"templateId,omitempty"`
}

// Events fans editor notifications out to stream subscribers. A subscriber
// whose buffer is full is dropped rather than slowing the store down.
// All methods are safe for concurrent use.
type Events struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	buffer int
	closed bool
}

// NewEvents creates a fan-out with the given per-subscriber buffer, at
// least 1.
func NewEvents(buffer int) *Events {
	return &Events{
		subs:   make(map[chan Event]struct{}),
		buffer: max(buffer, 1),
	}
}

// Publish has the editor.Hook signature. It never blocks.
func (e *Events) Publish(ev editor.Event) {
	msg := Event{Kind: ev.Kind, Command: ev.Command, TemplateID: ev.TemplateID}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}
	for ch := range e.subs {
		select {
		case ch <- msg:
		default:
			go e.unsubscribe(ch)
		}
	}
}

// Subscribe returns a channel receiving every published event until ctx is
// done or the subscriber is dropped, after which the channel is closed.
func (e *Events) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, e.buffer)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch
	}
	e.subs[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		e.unsubscribe(ch)
	}()
	return ch
}

// Subscribers returns the number of active subscribers.
func (e *Events) Subscribers() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// Close closes every subscriber. Later subscriptions get a closed channel.
func (e *Events) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for ch := range e.subs {
		close(ch)
	}
	clear(e.subs)
}

func (e *Events) unsubscribe(ch chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.subs[ch]; ok {
		delete(e.subs, ch)
		close(ch)
	}
}

// streamEvents serves the event stream as text/event-stream. Each message is
// written as "event: <kind>" plus a JSON data line.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The stream outlives the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.log.WarnContext(r.Context(), "event stream unavailable", logger.Error(err))
		return
	}

	events := s.events.Subscribe(r.Context())
	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
