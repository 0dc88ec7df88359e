package cli

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/winery/pkg/config"
	"github.com/dmitrymomot/winery/pkg/logger"
	"github.com/dmitrymomot/winery/pkg/pg"
	"github.com/dmitrymomot/winery/svc/fermentation"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			var pgCfg pg.Config
			if err := config.Load(&pgCfg); err != nil {
				return err
			}
			pool, err := pg.Connect(ctx, pgCfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := pg.Migrate(ctx, pool, fermentation.Migrations, pgCfg, log); err != nil {
				log.ErrorContext(ctx, "migration failed", logger.Error(err))
				return err
			}
			log.InfoContext(ctx, "database is up to date")
			return nil
		},
	}
}

func connectPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return pg.Connect(ctx, cfg)
}
