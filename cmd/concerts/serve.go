package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deppfellow/concerts/internal/handler"
	"github.com/deppfellow/concerts/internal/router"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the concerts HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			r := router.NewRouter(a.server, handler.NewHandlers(a.server, a.services))
			a.server.SetupHTTPServer(r)

			errCh := make(chan error, 1)
			go func() {
				if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				_ = a.shutdown()
				return err
			case <-ctx.Done():
			}

			a.server.Logger.Info().Msg("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := a.server.Shutdown(shutdownCtx); err != nil {
				return err
			}

			a.server.Logger.Info().Msg("server exited properly")
			return nil
		},
	}
}
