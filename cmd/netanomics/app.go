package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/netanomics/internal/config"
	"github.com/deppfellow/netanomics/internal/logger"
	"github.com/deppfellow/netanomics/internal/repository"
	"github.com/deppfellow/netanomics/internal/server"
	"github.com/deppfellow/netanomics/internal/service"
)

type base struct {
	cfg           *config.Config
	logger        *zerolog.Logger
	loggerService *logger.LoggerService
}

func loadRuntime() (*base, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return &base{cfg: cfg, logger: &log, loggerService: loggerService}, nil
}

type app struct {
	*base
	server   *server.Server
	services *service.Services
}

func newApp(rt *base) (*app, error) {
	srv, err := server.New(rt.cfg, rt.logger, rt.loggerService)
	if err != nil {
		return nil, err
	}

	services, err := service.NewServices(srv, repository.NewRepositories(srv))
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("creating services: %w", err)
	}

	return &app{base: rt, server: srv, services: services}, nil
}

// withApp wires the application for a one-shot command and releases it
// when the command returns.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.loggerService.Shutdown()

		a, err := newApp(rt)
		if err != nil {
			return err
		}
		defer a.server.Close()

		return run(cmd, args, a)
	}
}
