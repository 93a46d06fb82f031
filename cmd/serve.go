package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"styleshop/internal/app"
	"styleshop/internal/database"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, log := setup()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := app.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := infra.Close(); err != nil {
			log.WithError(err).Warn("error while closing connections")
		}
	}()

	if err := database.Migrate(infra.DB); err != nil {
		return err
	}

	deps, err := infra.Deps(ctx, cfg, log)
	if err != nil {
		return err
	}
	server := app.New(deps)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Port).Info("starting server")
		errCh <- server.Listen(cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := server.Shutdown(); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server gracefully stopped")
	return nil
}
