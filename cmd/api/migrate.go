package main

import (
	"log/slog"

	"github.com/nicolaskelepuris/refactor-rails-app/internal/app"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Migrate(cfg); err != nil {
			return err
		}
		slog.Info("migrations applied", slog.String("driver", cfg.DB.Driver))
		return nil
	},
}
