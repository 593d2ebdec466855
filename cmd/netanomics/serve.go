package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/netanomics/internal/database"
	"github.com/deppfellow/netanomics/internal/handler"
	"github.com/deppfellow/netanomics/internal/router"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the job worker and the inbox scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.loggerService.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if rt.cfg.Primary.Env != "local" {
		if err := database.Migrate(ctx, rt.logger, rt.cfg); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	a, err := newApp(rt)
	if err != nil {
		return err
	}

	r := router.NewRouter(a.server, handler.NewHandlers(a.server, a.services), a.services)
	a.server.SetupHTTPServer(r)

	if err := a.server.Job.Start(); err != nil {
		rt.logger.Error().Err(err).Msg("job worker not started, inbox runs will only happen through the API")
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		rt.logger.Info().Msg("shutdown signal received")
	case runErr = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("shutting down: %w", err))
	}
	if runErr != nil {
		return fmt.Errorf("serving HTTP: %w", runErr)
	}
	rt.logger.Info().Msg("server exited properly")
	return nil
}
