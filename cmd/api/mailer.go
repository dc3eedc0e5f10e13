package main

import (
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/nicolaskelepuris/refactor-rails-app/internal/app"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/notify"

	"github.com/spf13/cobra"
)

var mailerCmd = &cobra.Command{
	Use:   "mailer",
	Short: "Consume registration events from Redis and send welcome emails",
	RunE:  runMailer,
}

func runMailer(cmd *cobra.Command, args []string) error {
	if !cfg.Redis.Enabled() {
		return errors.New("mailer needs Redis: set REDIS_ADDR or REDIS_URL")
	}
	rdb, err := app.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := notify.NewHandler(notify.NewLogMailer(slog.Default()), cfg.Mail.From)
	consumer := notify.NewConsumer(rdb, handler, cfg.Mail.Stream, cfg.Mail.Group, cfg.Mail.Consumer)
	if err := consumer.EnsureGroup(ctx); err != nil {
		return err
	}
	return consumer.Run(ctx)
}
