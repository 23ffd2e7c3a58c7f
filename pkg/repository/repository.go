package repository

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
)

var (
	ErrNotFound = errors.New("repository: template not found")
	ErrInvalid  = errors.New("repository: invalid template")
)

// Repository stores complete templates.
type Repository interface {
	// Save inserts or replaces t.
	Save(ctx context.Context, t document.Template) error
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (document.Template, error)
	// List returns every template ordered by creation time, oldest first.
	List(ctx context.Context) ([]document.Template, error)
	// Delete returns ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
}

// SortByCreation orders templates the way List must return them: by
// createdAt, ties broken by id.
func SortByCreation(templates []document.Template) {
	slices.SortStableFunc(templates, func(a, b document.Template) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
