package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
)

// Memory is an in-process Repository. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu        sync.RWMutex
	templates map[string]document.Template
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{templates: make(map[string]document.Template)}
}

func (m *Memory) Save(ctx context.Context, t document.Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalid)
	}
	m.mu.Lock()
	m.templates[t.ID] = t.Clone()
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (document.Template, error) {
	if err := ctx.Err(); err != nil {
		return document.Template{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[id]
	if !ok {
		return document.Template{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t.Clone(), nil
}

func (m *Memory) List(ctx context.Context) ([]document.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]document.Template, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, t.Clone())
	}
	m.mu.RUnlock()
	SortByCreation(out)
	return out, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.templates, id)
	return nil
}
