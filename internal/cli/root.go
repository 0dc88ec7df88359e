// Package cli implements the winery command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/winery/pkg/config"
)

// NewRootCommand builds the winery command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "winery",
		Short: "Fermentation sample validation and import tool",
		Long: `Fermentation sample validation and import tool.

Settings are read from the environment and an optional .env file:
PG_* for Postgres, REDIS_* for the distributed lock, IMPORT_S3_* for S3
imports, and APP_ENV, LOG_LEVEL, LOCK_BACKEND, SUGAR_TREND_TOLERANCE,
ENFORCE_FERMENTATION_TIMELINE for the tool itself.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			files, _ := cmd.Flags().GetStringSlice("env-file")
			if len(files) == 0 {
				return nil
			}
			return config.LoadEnvFiles(files...)
		},
	}
	root.PersistentFlags().StringSlice("env-file", nil, "Load environment from these files")

	root.AddCommand(
		newMigrateCommand(),
		newCreateCommand(),
		newStatusCommand(),
		newRecordCommand(),
		newImportCommand(),
		newTransitionsCommand(),
		newHealthCommand(),
	)
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
