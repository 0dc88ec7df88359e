package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/winery/pkg/config"
	"github.com/dmitrymomot/winery/pkg/pg"
	"github.com/dmitrymomot/winery/pkg/redis"
)

// ErrUnhealthy is returned when at least one dependency check fails.
var ErrUnhealthy = errors.New("dependency check failed")

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check connectivity to Postgres and, with the redis lock backend, Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}

			pool, err := connectPostgres(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			checks := []Check{{Name: "postgres", Probe: pg.Healthcheck(pool)}}

			if cfg.LockBackend == LockBackendRedis {
				var rcfg redis.Config
				if err := config.Load(&rcfg); err != nil {
					return err
				}
				client, err := redis.Connect(ctx, rcfg)
				if err != nil {
					return err
				}
				defer client.Close()
				checks = append(checks, Check{Name: "redis", Probe: redis.Healthcheck(client)})
			}

			return RunChecks(ctx, cmd.OutOrStdout(), checks...)
		},
	}
}

// RunChecks runs every probe and prints one status line per check.
func RunChecks(ctx context.Context, w io.Writer, checks ...Check) error {
	var errs []error
	for _, c := range checks {
		if err := c.Probe(ctx); err != nil {
			fmt.Fprintf(w, "%-10s FAIL %v\n", c.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		fmt.Fprintf(w, "%-10s OK\n", c.Name)
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrUnhealthy}, errs...)...)
	}
	return nil
}
