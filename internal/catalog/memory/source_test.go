package memory

import (
	"context"
	"testing"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoCatalog(t *testing.T) {
	items, err := DemoItems()
	require.NoError(t, err)
	require.Len(t, items, 80)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "The Starry Night", items[0].Title)
	assert.Equal(t, "Vincent van Gogh", items[0].ArtistDisplay)
	assert.Equal(t, 80, items[79].ID)

	seen := make(map[int]bool)
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
	}
}

func TestFetchPage(t *testing.T) {
	src, err := NewDemo()
	require.NoError(t, err)
	ctx := context.Background()

	first, err := src.FetchPage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, first.TotalPages)
	assert.Equal(t, 80, first.Total)
	assert.Len(t, first.Items, catalog.PageSize)
	assert.Equal(t, 1, first.Items[0].ID)

	last, err := src.FetchPage(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, last.Items, 8)
	assert.Equal(t, 73, last.Items[0].ID)

	past, err := src.FetchPage(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.Equal(t, 8, past.Number)
}

func TestFetchPage_CancelledContext(t *testing.T) {
	src := New([]catalog.Item{{ID: 1}}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchPage(ctx, 1)
	require.Error(t, err)
	assert.True(t, catalog.IsTransport(err))
}

func TestFetchPage_ReturnsCopies(t *testing.T) {
	src := New([]catalog.Item{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, 1)
	p, err := src.FetchPage(context.Background(), 2)
	require.NoError(t, err)
	p.Items[0].Title = "changed"

	again, err := src.FetchPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "b", again.Items[0].Title)
	assert.Equal(t, 2, again.TotalPages)
}
