// Command mailbuilder serves the email template editor API.
//
// Configuration comes from the environment (and an optional .env file).
// Backing services are chosen with REPOSITORY_BACKEND (memory, redis,
// postgres) and EXPORT_BACKEND (local, s3).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/mailbuilder/pkg/api"
	"github.com/dmitrymomot/mailbuilder/pkg/config"
	"github.com/dmitrymomot/mailbuilder/pkg/editor"
	"github.com/dmitrymomot/mailbuilder/pkg/export"
	"github.com/dmitrymomot/mailbuilder/pkg/httpserver"
	"github.com/dmitrymomot/mailbuilder/pkg/logger"
	"github.com/dmitrymomot/mailbuilder/pkg/pg"
	"github.com/dmitrymomot/mailbuilder/pkg/provider"
	"github.com/dmitrymomot/mailbuilder/pkg/redis"
	"github.com/dmitrymomot/mailbuilder/pkg/repository"
	"github.com/dmitrymomot/mailbuilder/pkg/repository/pgstore"
	"github.com/dmitrymomot/mailbuilder/pkg/repository/redisstore"
)

// AppConfig is the service level configuration. Backend specific settings
// are loaded only for the selected backends.
type AppConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"mailbuilder"`

	Repository string `env:"REPOSITORY_BACKEND" envDefault:"memory"`
	Export     string `env:"EXPORT_BACKEND" envDefault:"local"`
	ExportDir  string `env:"EXPORT_DIR" envDefault:"./tmp/exports"`
	ExportURL  string `env:"EXPORT_BASE_URL" envDefault:"/exports"`

	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s"`
	SyncTimeout     time.Duration `env:"SYNC_TIMEOUT" envDefault:"5s"`

	HTTP      httpserver.Config
	Providers provider.Config
}

const (
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendPostgres = "postgres"
	backendLocal    = "local"
	backendS3       = "s3"
)

var errUnknownBackend = errors.New("unknown backend")

func main() {
	if err := run(); err != nil {
		slog.Error("mailbuilder stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	var cfg AppConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(api.RequestIDExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]httpserver.Check{}

	repo, closeRepo, err := openRepository(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeRepo()

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	registry, err := provider.FromConfig(cfg.Providers, provider.WithLogger(log))
	if err != nil {
		return err
	}
	log.Info("providers configured",
		slog.Any("providers", registry.Names()),
		slog.String("default", registry.DefaultName()),
	)

	syncer := repository.NewSyncer(repo,
		repository.WithLogger(log),
		repository.WithTimeout(cfg.SyncTimeout),
	)
	go syncer.Run(context.WithoutCancel(ctx))
	defer syncer.Close()

	events := api.NewEvents(api.DefaultEventBuffer)
	defer events.Close()

	store := editor.New(
		editor.WithLogger(log),
		editor.WithHook(syncer.Hook),
		editor.WithHook(events.Publish),
	)
	if err := repository.Restore(ctx, repo, store); err != nil {
		return err
	}
	log.Info("templates restored", slog.Int("count", store.Len()), slog.String("repository", cfg.Repository))

	srv := api.New(store,
		api.WithLogger(log),
		api.WithExporter(export.New(storage)),
		api.WithProviders(registry),
		api.WithEvents(events),
		api.WithHealthChecks(checks),
		api.WithProviderTimeout(cfg.ProviderTimeout),
	)

	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, srv.Router())
}

// openRepository connects the configured backend and registers its
// readiness check. The returned func releases the connection.
func openRepository(ctx context.Context, cfg AppConfig, log *slog.Logger, checks map[string]httpserver.Check) (repository.Repository, func(), error) {
	switch cfg.Repository {
	case backendMemory, "":
		return repository.NewMemory(), func() {}, nil

	case backendRedis:
		var rcfg redis.Config
		if err := config.Load(&rcfg); err != nil {
			return nil, nil, err
		}
		var scfg redisstore.Config
		if err := config.Load(&scfg); err != nil {
			return nil, nil, err
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			return nil, nil, err
		}
		checks["redis"] = redis.Healthcheck(client)
		return redisstore.New(client, scfg), func() { _ = client.Close() }, nil

	case backendPostgres:
		var pcfg pg.Config
		if err := config.Load(&pcfg); err != nil {
			return nil, nil, err
		}
		pool, err := pg.Connect(ctx, pcfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pgstore.Migrate(ctx, pool, pcfg, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		checks["postgres"] = pg.Healthcheck(pool)
		return pgstore.New(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: repository %q", errUnknownBackend, cfg.Repository)
}

func openStorage(ctx context.Context, cfg AppConfig) (export.Storage, error) {
	switch cfg.Export {
	case backendLocal, "":
		return export.NewLocalStorage(cfg.ExportDir, cfg.ExportURL)
	case backendS3:
		var scfg export.S3Config
		if err := config.Load(&scfg); err != nil {
			return nil, err
		}
		return export.NewS3Storage(ctx, scfg)
	}
	return nil, fmt.Errorf("%w: export %q", errUnknownBackend, cfg.Export)
}
