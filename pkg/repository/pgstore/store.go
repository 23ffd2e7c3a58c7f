// Package pgstore keeps templates in PostgreSQL. The whole template is
// stored as JSONB; name and timestamps are duplicated into columns for
// ordering and inspection.
package pgstore

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/pg"
	"github.com/dmitrymomot/mailbuilder/pkg/repository"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate creates or upgrades the templates table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, cfg, migrations, "migrations", log)
}

// DB is the subset of *pgxpool.Pool used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a repository.Repository backed by PostgreSQL.
type Store struct {
	db DB
}

var _ repository.Repository = (*Store)(nil)

func New(db DB) *Store {
	return &Store{db: db}
}

const upsertTemplate = `
	INSERT INTO templates (id, name, document, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
	    document = EXCLUDED.document,
	    updated_at = EXCLUDED.updated_at`

func (s *Store) Save(ctx context.Context, t document.Template) error {
	if t.ID == "" {
		return fmt.Errorf("%w: empty id", repository.ErrInvalid)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalid, err)
	}
	if _, err := s.db.Exec(ctx, upsertTemplate, t.ID, t.Name, data, t.CreatedAt, t.UpdatedAt); err != nil {
		return fmt.Errorf("save template %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (document.Template, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT document FROM templates WHERE id = $1`, id).Scan(&data)
	if pg.IsNotFoundError(err) {
		return document.Template{}, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return document.Template{}, fmt.Errorf("get template %s: %w", id, err)
	}
	return decode(data)
}

func (s *Store) List(ctx context.Context) ([]document.Template, error) {
	rows, err := s.db.Query(ctx, `SELECT document FROM templates ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	out := []document.Template{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t, err := decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	return nil
}

func decode(data []byte) (document.Template, error) {
	var t document.Template
	if err := json.Unmarshal(data, &t); err != nil {
		return document.Template{}, fmt.Errorf("%w: %v", repository.ErrInvalid, err)
	}
	return t, nil
}
