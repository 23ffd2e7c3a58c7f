// Package redisstore keeps templates in Redis.
//
// Each template is stored as JSON under "<prefix>:tpl:<id>". A sorted set at
// "<prefix>:tpl:index" scores ids by creation time so List keeps the
// collection order.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/repository"
)

// Config holds the key prefix. The connection itself is configured by
// the redis package.
type Config struct {
	Prefix string `env:"REDIS_KEY_PREFIX" envDefault:"mailbuilder"`
}

// Store is a repository.Repository backed by Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ repository.Repository = (*Store)(nil)

// New returns a Store using client. An empty prefix defaults to "mailbuilder".
func New(client redis.UniversalClient, cfg Config) *Store {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "mailbuilder"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(id string) string { return s.prefix + ":tpl:" + id }
func (s *Store) indexKey() string     { return s.prefix + ":tpl:index" }

func (s *Store) Save(ctx context.Context, t document.Template) error {
	if t.ID == "" {
		return fmt.Errorf("%w: empty id", repository.ErrInvalid)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalid, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(t.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{
			Score:  float64(t.CreatedAt.UnixMilli()),
			Member: t.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save template %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (document.Template, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return document.Template{}, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return document.Template{}, fmt.Errorf("get template %s: %w", id, err)
	}
	return decode(data)
}

// List reads the index and fetches all documents in one MGET. Index entries
// whose document has disappeared are skipped.
func (s *Store) List(ctx context.Context) ([]document.Template, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list template index: %w", err)
	}
	if len(ids) == 0 {
		return []document.Template{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	out := make([]document.Template, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		t, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	repository.SortByCreation(out)
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.key(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	if del.Val() == 0 {
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
