package artic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `{
  "pagination": {"total": 130000, "limit": 12, "offset": 12, "total_pages": 10834, "current_page": 2},
  "data": [
    {"id": 27992, "title": "A Sunday on La Grande Jatte", "place_of_origin": "France",
     "artist_display": "Georges Seurat", "inscriptions": null, "date_start": 1884, "date_end": 1886},
    {"id": 111628, "title": "Nighthawks", "place_of_origin": "United States",
     "artist_display": "Edward Hopper", "inscriptions": "Signed", "date_start": 1942, "date_end": 1942}
  ]
}`

func TestFetchPage(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artworks", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("AIC-User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, WithUserAgent("artviewer (test@example.com)"))
	page, err := c.FetchPage(context.Background(), 2)
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "limit=12")
	assert.Contains(t, gotQuery, "fields=id%2Ctitle")
	assert.Equal(t, "artviewer (test@example.com)", gotUA)

	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 10834, page.TotalPages)
	assert.Equal(t, 130000, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 27992, page.Items[0].ID)
	assert.Equal(t, "", page.Items[0].Inscriptions, "null decodes to empty string")
	assert.Equal(t, []int{27992, 111628}, page.IDs())
}

func TestFetchPage_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchPage(context.Background(), 1)
	require.Error(t, err)

	var te *catalog.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusTooManyRequests, te.Status)
	assert.Contains(t, err.Error(), "slow down")
}

func TestFetchPage_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchPage(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, catalog.IsTransport(err))
	assert.ErrorIs(t, err, catalog.ErrMalformedResponse)
}

func TestFetchPage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchPage(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, catalog.IsTransport(err))
}

func TestFetchPage_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pagination": {"total_pages": 3}, "data": null}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, time.Second).FetchPage(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 9, page.Number)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.Len())
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, catalog.PageSize, c.PageSize)
	assert.Equal(t, 15*time.Second, c.httpClient.Timeout)
}
