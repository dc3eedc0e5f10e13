// @title           Todo API
// @version         1.0
// @description     Personal todo lists with bearer-token auth and derived status.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey TokenAuth
// @in              header
// @name            Authorization
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nicolaskelepuris/refactor-rails-app/internal/config"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/logger"

	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "todo-api",
	Short: "Todo API server",
	Long:  `Serves the todo HTTP API. Without a subcommand it behaves like "serve".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg = loaded
		slog.SetDefault(logger.Setup(cfg.App.LogLevel))
		return nil
	},
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(mailerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
