package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/trackmap/internal/adapters/rest"
	"github.com/ewilliams-labs/trackmap/internal/adapters/sqlite"
	"github.com/ewilliams-labs/trackmap/internal/config"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve play history and unmatched songs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *sqlite.Adapter) error {
				if bind == "" {
					bind = cfg.API.Bind
				}
				handler := rest.NewHandler(store,
					rest.WithDefaultWindow(time.Duration(cfg.API.HistoryWindowHours)*time.Hour),
					rest.WithAllowedOrigins(cfg.API.AllowedOrigins...))
				srv := &http.Server{
					Addr:              bind,
					Handler:           handler,
					ReadHeaderTimeout: 15 * time.Second,
				}
				return runServer(cmd.Context(), srv)
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to the configured bind)")
	return cmd
}

func runServer(ctx context.Context, srv *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("api listening")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
