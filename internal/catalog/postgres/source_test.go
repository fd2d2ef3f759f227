package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/JonMunkholm/artviewer/internal/catalog/memory"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to ARTVIEWER_TEST_DATABASE_URL or skips the test.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("ARTVIEWER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("ARTVIEWER_TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestNewDefaultsPageSize(t *testing.T) {
	s := New(nil, 0)
	assert.Equal(t, catalog.PageSize, s.pageSize)
}

func TestSeedAndFetch(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, "DROP TABLE IF EXISTS artworks")
	require.NoError(t, err)

	src := New(pool, 0)
	require.NoError(t, src.Migrate(ctx))

	items, err := memory.DemoItems()
	require.NoError(t, err)

	n, err := src.Seed(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, len(items), n)

	// Seeding twice upserts rather than failing on the primary key.
	_, err = src.Seed(ctx, items[:3])
	require.NoError(t, err)

	page, err := src.FetchPage(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 7, page.TotalPages)
	assert.Equal(t, 80, page.Total)
	require.Len(t, page.Items, catalog.PageSize)
	assert.Equal(t, 13, page.Items[0].ID)
}
