package repository

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/mailbuilder/pkg/editor"
)

// Restore loads every template of repo into store, replacing its collection.
// The oldest template becomes current.
func Restore(ctx context.Context, repo Repository, store *editor.Store) error {
	templates, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("restore templates: %w", err)
	}
	store.Load(templates)
	return nil
}
