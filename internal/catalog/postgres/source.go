// Package postgres serves the catalog from an artworks table in PostgreSQL.
//
// Only catalog data lives here. Selection state is never written to the
// database.
package postgres

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx used by the source.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS artworks (
  id              INTEGER PRIMARY KEY,
  title           TEXT    NOT NULL DEFAULT '',
  place_of_origin TEXT    NOT NULL DEFAULT '',
  artist_display  TEXT    NOT NULL DEFAULT '',
  inscriptions    TEXT    NOT NULL DEFAULT '',
  date_start      INTEGER NOT NULL DEFAULT 0,
  date_end        INTEGER NOT NULL DEFAULT 0
)`

const countSQL = `SELECT count(*) FROM artworks`

const pageSQL = `
SELECT id, title, place_of_origin, artist_display, inscriptions, date_start, date_end
FROM artworks
ORDER BY id
LIMIT $1 OFFSET $2`

const upsertSQL = `
INSERT INTO artworks (id, title, place_of_origin, artist_display, inscriptions, date_start, date_end)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  place_of_origin = EXCLUDED.place_of_origin,
  artist_display = EXCLUDED.artist_display,
  inscriptions = EXCLUDED.inscriptions,
  date_start = EXCLUDED.date_start,
  date_end = EXCLUDED.date_end`

// Source reads pages from the artworks table.
type Source struct {
	db       DBTX
	pageSize int
}

// New returns a Source using db. A non-positive pageSize uses catalog.PageSize.
func New(db DBTX, pageSize int) *Source {
	if pageSize <= 0 {
		pageSize = catalog.PageSize
	}
	return &Source{db: db, pageSize: pageSize}
}

// Migrate creates the artworks table if it does not exist.
func (s *Source) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate artworks: %w", err)
	}
	return nil
}

// FetchPage returns one page ordered by id. Query failures are reported as
// *catalog.TransportError so the loader treats them like any unreachable source.
func (s *Source) FetchPage(ctx context.Context, page int) (catalog.Page, error) {
	op := fmt.Sprintf("fetch page %d", page)

	var total int
	if err := s.db.QueryRow(ctx, countSQL).Scan(&total); err != nil {
		return catalog.Page{}, &catalog.TransportError{Op: op, Err: err}
	}

	rows, err := s.db.Query(ctx, pageSQL, s.pageSize, catalog.Offset(page, s.pageSize))
	if err != nil {
		return catalog.Page{}, &catalog.TransportError{Op: op, Err: err}
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Item, error) {
		var it catalog.Item
		err := row.Scan(&it.ID, &it.Title, &it.PlaceOfOrigin, &it.ArtistDisplay,
			&it.Inscriptions, &it.DateStart, &it.DateEnd)
		return it, err
	})
	if err != nil {
		return catalog.Page{}, &catalog.TransportError{Op: op, Err: err}
	}

	return catalog.Page{
		Number:     page,
		Items:      items,
		TotalPages: catalog.PageCount(total, s.pageSize),
		Total:      total,
	}, nil
}

// Seed upserts items in a single batch and returns how many rows were written.
func (s *Source) Seed(ctx context.Context, items []catalog.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(upsertSQL, it.ID, it.Title, it.PlaceOfOrigin, it.ArtistDisplay,
			it.Inscriptions, it.DateStart, it.DateEnd)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()

	written := 0
	for range items {
		if _, err := br.Exec(); err != nil {
			return written, fmt.Errorf("seed artworks: %w", err)
		}
		written++
	}
	return written, nil
}
