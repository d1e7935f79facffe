package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/concerts/internal/config"
	"github.com/deppfellow/concerts/internal/logger"
	"github.com/deppfellow/concerts/internal/repository"
	"github.com/deppfellow/concerts/internal/server"
	"github.com/deppfellow/concerts/internal/service"
)

const shutdownTimeout = 30 * time.Second

type options struct {
	skipSeed bool
}

// app is what every command runs against, built once in PersistentPreRunE.
type app struct {
	server   *server.Server
	services *service.Services
}

func (a *app) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// shutdownInto shuts the app down from a deferred call, reporting the
// shutdown error through err unless err already holds one.
func (a *app) shutdownInto(err *error) {
	captureErr(err, a.shutdown)
}

func captureErr(err *error, fn func() error) {
	if fnErr := fn(); fnErr != nil && *err == nil {
		*err = fnErr
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	a := &app{}

	cmd := &cobra.Command{
		Use:           "concerts",
		Short:         "Bands, venues and the concerts between them",
		Long:          `Creates the concerts schema, seeds the demo lineup and answers questions about it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Only the bare command seeds; serve and report leave the data alone.
			seed := cmd == cmd.Root() && !o.skipSeed
			return a.setup(cmd.Context(), seed)
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer a.shutdownInto(&err)

			tables, err := a.server.DB.Tables(cmd.Context())
			if err != nil {
				return err
			}
			a.server.Logger.Info().Strs("tables", tables).Msg("database ready")
			return nil
		},
	}

	cmd.Flags().BoolVar(&o.skipSeed, "skip-seed", false, "create the schema without inserting the demo lineup")

	cmd.AddCommand(newServeCmd(a), newReportCmd(a))

	return cmd
}

// setup loads config, builds the logger and server, and bootstraps the
// database, inserting the demo lineup when seed is set.
func (a *app) setup(ctx context.Context, seed bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to start New Relic: %w", err)
	}

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return err
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		return err
	}

	a.server = srv
	a.services = services

	if err := services.Setup.Bootstrap(ctx, seed); err != nil {
		_ = a.shutdown()
		return err
	}

	return nil
}
