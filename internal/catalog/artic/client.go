// Package artic fetches artwork pages from the Art Institute of Chicago
// public API.
package artic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/artviewer/internal/catalog"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.artic.edu/api/v1"

// fields limits the response to the columns the viewer shows.
var fields = []string{
	"id",
	"title",
	"place_of_origin",
	"artist_display",
	"inscriptions",
	"date_start",
	"date_end",
}

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 512

// Client is a catalog.Source backed by the artworks endpoint.
type Client struct {
	BaseURL   string
	UserAgent string
	PageSize  int

	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the AIC-User-Agent header the API asks callers to send.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.UserAgent = ua }
}

// NewClient creates a client for baseURL. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		PageSize: catalog.PageSize,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse mirrors the upstream envelope.
type apiResponse struct {
	Data       []catalog.Item `json:"data"`
	Pagination struct {
		Total       int `json:"total"`
		Limit       int `json:"limit"`
		Offset      int `json:"offset"`
		TotalPages  int `json:"total_pages"`
		CurrentPage int `json:"current_page"`
	} `json:"pagination"`
}

// FetchPage requests one page of artworks. Any failure to reach the API,
// a non-2xx status, or an undecodable body is returned as a
// *catalog.TransportError.
func (c *Client) FetchPage(ctx context.Context, page int) (catalog.Page, error) {
	op := fmt.Sprintf("fetch page %d", page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(page), nil)
	if err != nil {
		return catalog.Page{}, &catalog.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("AIC-User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return catalog.Page{}, &catalog.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		te := &catalog.TransportError{Op: op, Status: resp.StatusCode}
		if msg := strings.TrimSpace(string(body)); msg != "" {
			te.Err = fmt.Errorf("%s", msg)
		}
		return catalog.Page{}, te
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return catalog.Page{}, &catalog.TransportError{
			Op:  op,
			Err: fmt.Errorf("%w: %v", catalog.ErrMalformedResponse, err),
		}
	}

	number := decoded.Pagination.CurrentPage
	if number == 0 {
		number = page
	}
	items := decoded.Data
	if items == nil {
		items = []catalog.Item{}
	}

	return catalog.Page{
		Number:     number,
		Items:      items,
		TotalPages: decoded.Pagination.TotalPages,
		Total:      decoded.Pagination.Total,
	}, nil
}

func (c *Client) pageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(c.PageSize))
	q.Set("fields", strings.Join(fields, ","))
	return c.BaseURL + "/artworks?" + q.Encode()
}
