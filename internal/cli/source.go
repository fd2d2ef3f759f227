package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/JonMunkholm/artviewer/internal/catalog/artic"
	"github.com/JonMunkholm/artviewer/internal/catalog/memory"
	"github.com/JonMunkholm/artviewer/internal/catalog/postgres"
	"github.com/JonMunkholm/artviewer/internal/catalog/sqlite"
	"github.com/JonMunkholm/artviewer/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// openSource builds the catalog source named by cfg.Catalog.Source. The
// returned close func releases whatever the source holds open.
func openSource(ctx context.Context, cfg *config.Config) (catalog.Source, func(), error) {
	switch cfg.Catalog.Source {
	case config.SourceArtic:
		c := artic.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, artic.WithUserAgent(cfg.Catalog.UserAgent))
		slog.Info("catalog source ready", "source", "artic", "base_url", cfg.Catalog.BaseURL)
		return c, func() {}, nil

	case config.SourceMemory:
		src, err := memory.NewDemo()
		if err != nil {
			return nil, nil, err
		}
		slog.Info("catalog source ready", "source", "memory", "items", len(src.Items()))
		return src, func() {}, nil

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
		slog.Info("catalog source ready", "source", "postgres")
		return src, pool.Close, nil

	case config.SourceSQLite:
		src, err := sqlite.Open(cfg.Database.SQLitePath, catalog.PageSize)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite catalog: %w", err)
		}
		slog.Info("catalog source ready", "source", "sqlite", "path", cfg.Database.SQLitePath)
		return src, func() { _ = src.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

// openPool connects to PostgreSQL with the configured pool limits.
func openPool(ctx context.Context, dbCfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Apply pool configuration from config
	poolConfig.MaxConns = int32(dbCfg.MaxConns)
	poolConfig.MinConns = int32(dbCfg.MinConns)
	poolConfig.MaxConnLifetime = dbCfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = dbCfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(dbCfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
