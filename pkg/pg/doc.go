// Package pg connects to PostgreSQL through a pgx/v5 pool and applies
// goose migrations shipped inside the binary.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, migrations, "migrations", log); err != nil {
//		return err
//	}
//
// Healthcheck wraps Ping for readiness probes. IsNotFoundError and
// IsDuplicateKeyError classify pgx errors.
package pg
