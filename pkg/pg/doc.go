// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver: connection pooling with retry, goose migrations sourced from
// an fs.FS, a health-check closure and error classifiers.
//
// # Architecture
//
//   - Config is populated from PG_* environment variables via
//     github.com/caarlos0/env and controls pool limits and retry cadence.
//   - Connect opens a *pgxpool.Pool, retrying with linear back-off until the
//     database answers a ping or the context is cancelled.
//   - Migrate runs goose migrations against the same pool. Migrations are
//     read from the fs.FS passed in (typically an embed.FS owned by the
//     package that defines the schema) so binaries carry their schema with them.
//
// # Usage
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, fermentation.Migrations, cfg, log); err != nil {
//	    return err
//	}
package pg
