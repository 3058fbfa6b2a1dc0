package main

import (
	"fmt"

	"github.com/birlikkoshan/todo-tracker/internal/app"
	"github.com/birlikkoshan/todo-tracker/internal/config"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(app.MigrateUp), string(app.MigrateDown), string(app.MigrateStatus)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cfg.Store.Driver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate needs STORE_DRIVER=postgres")
			}

			ctx := cmd.Context()
			pool, db, err := app.OpenPostgres(ctx, cfg.PG.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			defer db.Close()

			return app.Migrate(ctx, db, app.MigrateDirection(args[0]))
		},
	}
}
