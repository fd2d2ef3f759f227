package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/JonMunkholm/artviewer/internal/catalog/memory"
	"github.com/JonMunkholm/artviewer/internal/catalog/sqlite"
	"github.com/JonMunkholm/artviewer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectPages_KeepsPageOrder(t *testing.T) {
	src, err := memory.NewDemo()
	require.NoError(t, err)

	items, err := collectPages(context.Background(), src, 3, 2)
	require.NoError(t, err)
	require.Len(t, items, 3*catalog.PageSize)
	for i, it := range items {
		assert.Equal(t, i+1, it.ID)
	}
}

func TestCollectPages_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	src := catalog.SourceFunc(func(ctx context.Context, page int) (catalog.Page, error) {
		if page == 2 {
			return catalog.Page{}, boom
		}
		return catalog.Page{Number: page}, nil
	})

	_, err := collectPages(context.Background(), src, 4, 1)
	assert.ErrorIs(t, err, boom)
}

func TestOpenSource(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{Catalog: config.CatalogConfig{Source: config.SourceMemory}}
	src, closeFn, err := openSource(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()

	p, err := src.FetchPage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "The Starry Night", p.Items[0].Title)

	cfg.Catalog.Source = "ftp"
	_, _, err = openSource(ctx, cfg)
	assert.Error(t, err)
}

func TestSeedCommand_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artworks.db")
	t.Setenv("CATALOG_SOURCE", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("LOG_LEVEL", "error")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"seed"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Seeded 80 artworks into sqlite")

	src, err := sqlite.Open(path, catalog.PageSize)
	require.NoError(t, err)
	defer src.Close()

	p, err := src.FetchPage(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, p.TotalPages)
	assert.Len(t, p.Items, 80-6*catalog.PageSize)
}

func TestSeedCommand_RejectsNonDatabaseSource(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "memory")
	t.Setenv("LOG_LEVEL", "error")

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"seed"})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres or sqlite")
}
