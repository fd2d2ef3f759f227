package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/artviewer/internal/core"
	"github.com/JonMunkholm/artviewer/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web viewer",
		Example: `  # Serve the live collection on the configured port
  artviewer serve

  # Serve the bundled demo catalog on port 3000
  CATALOG_SOURCE=memory artviewer serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx := cmd.Context()
			source, closeSource, err := openSource(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeSource()

			limiter := core.NewFetchLimiter(cfg.Catalog.MaxConcurrent, cfg.Catalog.MaxWait)
			store := core.NewSessionStore(source, limiter, cfg.Session.IdleTimeout)
			server := web.NewServer(store, cfg)

			slog.Info("configuration loaded",
				"port", cfg.Server.Port,
				"source", cfg.Catalog.Source,
				"fetch_max_concurrent", cfg.Catalog.MaxConcurrent,
				"rate_limit_enabled", cfg.Rate.Enabled,
			)

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				store.StartSessionReaper(gctx, cfg.Session.ReapInterval)
				return nil
			})

			g.Go(func() error {
				err := server.Start()
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			})

			g.Go(func() error {
				<-gctx.Done()
				slog.Info("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()

				// Let in-flight catalog fetches finish before closing the source.
				if st := limiter.Status(); st.Active > 0 {
					slog.Info("waiting for catalog fetches", "active", st.Active)
					if err := limiter.WaitForDrain(shutdownCtx); err != nil {
						slog.Warn("catalog fetches did not complete in time", "error", err)
					}
				}

				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("shutdown error", "error", err)
					return err
				}
				slog.Info("server stopped")
				return nil
			})

			return g.Wait()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides SERVER_PORT)")

	return cmd
}
