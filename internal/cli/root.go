// Package cli wires configuration, logging and the catalog source into the
// artviewer commands.
package cli

import (
	"log/slog"

	"github.com/JonMunkholm/artviewer/internal/config"
	"github.com/JonMunkholm/artviewer/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once PersistentPreRunE has run.
type app struct {
	cfg *config.Config
}

// NewRootCmd builds the artviewer command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "artviewer",
		Short: "Browse the Art Institute of Chicago collection and keep a selection across pages",
		Long: `artviewer serves a paginated artwork table in the browser, or in the
terminal with "artviewer browse". Selections survive page changes for as long
as the session lives.

Configuration comes from the environment (and a .env file if present).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if it exists (Overload overwrites existing env vars)
			envLoaded := godotenv.Overload() == nil

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
			slog.Debug("configuration loaded", "env_file", envLoaded, "config", cfg.String())
			return nil
		},
	}

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newBrowseCmd(a))
	cmd.AddCommand(newSeedCmd(a))

	return cmd
}
