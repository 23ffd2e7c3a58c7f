package pgstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/pg"
	"github.com/dmitrymomot/mailbuilder/pkg/repository"
	"github.com/dmitrymomot/mailbuilder/pkg/repository/pgstore"
)

// testPool connects to TEST_PG_CONN_URL and migrates, or skips the test.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_PG_CONN_URL")
	if dsn == "" {
		t.Skip("TEST_PG_CONN_URL not set")
	}
	cfg := pg.Config{
		ConnectionString: dsn,
		MaxOpenConns:     2,
		RetryAttempts:    1,
		MigrationsTable:  "mailbuilder_migrations",
	}
	ctx := context.Background()
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}
	t.Cleanup(pool.Close)

	require.NoError(t, pgstore.Migrate(ctx, pool, cfg, nil))
	return pool
}

func TestStore(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	store := pgstore.New(pool)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := document.Template{
		ID:        uuid.NewString(),
		Name:      "First",
		Elements:  []document.Element{document.NewElement(document.TypeSocial)},
		CreatedAt: created,
		UpdatedAt: created,
		Subject:   "Hello",
	}
	first.Elements[0].ID = "el-1"
	second := document.Template{
		ID:        uuid.NewString(),
		Name:      "Second",
		Elements:  []document.Element{},
		CreatedAt: created.Add(time.Second),
		UpdatedAt: created.Add(time.Second),
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM templates WHERE id = ANY($1)`, []string{first.ID, second.ID})
	})

	require.NoError(t, store.Save(ctx, second))
	require.NoError(t, store.Save(ctx, first))

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Subject)
	assert.Equal(t, first.Elements[0].Content, got.Elements[0].Content)

	first.Name = "First renamed"
	first.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, store.Save(ctx, first))
	got, err = store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First renamed", got.Name)

	list, err := store.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, item := range list {
		if item.ID == first.ID || item.ID == second.ID {
			ids = append(ids, item.ID)
		}
	}
	assert.Equal(t, []string{first.ID, second.ID}, ids)

	require.NoError(t, store.Delete(ctx, second.ID))
	assert.ErrorIs(t, store.Delete(ctx, second.ID), repository.ErrNotFound)
	_, err = store.Get(ctx, second.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
