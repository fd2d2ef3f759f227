package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/artviewer/internal/core"
	"github.com/JonMunkholm/artviewer/internal/logging"
	"github.com/JonMunkholm/artviewer/internal/tui"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog in the terminal",
		Long: `Opens the artwork table in the terminal. Selection works the same way as
in the browser and is discarded on exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg

			// The screen belongs to the table; logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logging.SetupWriter(w, cfg.Logging.Level, cfg.Logging.Format)

			ctx := cmd.Context()
			source, closeSource, err := openSource(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeSource()

			limiter := core.NewFetchLimiter(cfg.Catalog.MaxConcurrent, cfg.Catalog.MaxWait)
			store := core.NewSessionStore(source, limiter, cfg.Session.IdleTimeout)
			sess := store.Create(ctx)
			defer store.Close(sess.ID())

			return tui.Run(ctx, sess)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file")

	return cmd
}
