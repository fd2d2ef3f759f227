package cli

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/JonMunkholm/artviewer/internal/catalog/artic"
	"github.com/JonMunkholm/artviewer/internal/catalog/memory"
	"github.com/JonMunkholm/artviewer/internal/catalog/postgres"
	"github.com/JonMunkholm/artviewer/internal/catalog/sqlite"
	"github.com/JonMunkholm/artviewer/internal/config"
	"github.com/JonMunkholm/artviewer/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// seeder is implemented by the database-backed sources.
type seeder interface {
	Seed(ctx context.Context, items []catalog.Item) (int, error)
}

func newSeedCmd(a *app) *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load artworks into the PostgreSQL or SQLite catalog",
		Long: `Writes artworks into the database named by CATALOG_SOURCE (postgres or sqlite).
By default the bundled demo set is written. With --pages N the first N pages
are copied from the Art Institute of Chicago API instead.`,
		Example: `  CATALOG_SOURCE=sqlite artviewer seed
  CATALOG_SOURCE=postgres artviewer seed --pages 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			ctx := cmd.Context()

			var items []catalog.Item
			var err error
			if pages > 0 {
				items, err = fetchPages(ctx, cfg.Catalog, pages)
			} else {
				items, err = memory.DemoItems()
			}
			if err != nil {
				return err
			}

			dst, closeDst, err := openSeedTarget(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDst()

			logger := logging.WithFields(ctx, "source", cfg.Catalog.Source, "items", len(items))
			logger.Info("seed started")

			n, err := dst.Seed(ctx, items)
			if err != nil {
				return fmt.Errorf("seed %s: %w", cfg.Catalog.Source, err)
			}

			logger.Info("seed completed", "written", n)
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d artworks into %s\n", n, cfg.Catalog.Source)
			return nil
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 0, "Copy this many pages from the live API instead of the demo set")

	return cmd
}

func openSeedTarget(ctx context.Context, cfg *config.Config) (seeder, func(), error) {
	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		src := postgres.New(pool, catalog.PageSize)
		if err := src.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return src, pool.Close, nil

	case config.SourceSQLite:
		src, err := sqlite.Open(cfg.Database.SQLitePath, catalog.PageSize)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite catalog: %w", err)
		}
		return src, func() { _ = src.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("seed needs CATALOG_SOURCE=postgres or sqlite, got %q", cfg.Catalog.Source)
	}
}

// fetchPages copies the first n pages from the live API, a few at a time.
func fetchPages(ctx context.Context, cc config.CatalogConfig, n int) ([]catalog.Item, error) {
	client := artic.NewClient(cc.BaseURL, cc.Timeout, artic.WithUserAgent(cc.UserAgent))
	return collectPages(ctx, client, n, min(cc.MaxConcurrent, runtime.NumCPU()))
}

// collectPages fetches pages 1..n from src with at most limit in flight and
// returns their items in page order.
func collectPages(ctx context.Context, src catalog.Source, n, limit int) ([]catalog.Item, error) {
	results := make([][]catalog.Item, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i := range n {
		g.Go(func() error {
			p, err := src.FetchPage(gctx, i+1)
			if err != nil {
				return err
			}
			results[i] = p.Items
			slog.Debug("fetched page for seed", "page", i+1, "items", len(p.Items))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}
