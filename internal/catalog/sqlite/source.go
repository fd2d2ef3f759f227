// Package sqlite serves the catalog from a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	_ "modernc.org/sqlite"
)

// Source reads catalog pages from the artworks table of a SQLite database.
type Source struct {
	db       *sql.DB
	pageSize int
}

// Open opens (or creates) the database at path and ensures the schema exists.
// Use ":memory:" for a throwaway catalog.
func Open(path string, pageSize int) (*Source, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if pageSize <= 0 {
		pageSize = catalog.PageSize
	}
	s := &Source{db: db, pageSize: pageSize}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Source) Close() error { return s.db.Close() }

func (s *Source) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS artworks (
  id              INTEGER PRIMARY KEY,
  title           TEXT    NOT NULL DEFAULT '',
  place_of_origin TEXT    NOT NULL DEFAULT '',
  artist_display  TEXT    NOT NULL DEFAULT '',
  inscriptions    TEXT    NOT NULL DEFAULT '',
  date_start      INTEGER NOT NULL DEFAULT 0,
  date_end        INTEGER NOT NULL DEFAULT 0
);
`)
	return err
}

// FetchPage returns one page ordered by id. Query failures are reported as
// *catalog.TransportError.
func (s *Source) FetchPage(ctx context.Context, page int) (catalog.Page, error) {
	op := fmt.Sprintf("fetch page %d", page)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM artworks`).Scan(&total); err != nil {
		return catalog.Page{}, &catalog.TransportError{Op: op, Err: err}
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, place_of_origin, artist_display, inscriptions, date_start, date_end
FROM artworks
ORDER BY id
LIMIT ? OFFSET ?
`, s.pageSize, catalog.Offset(page, s.pageSize))
	if err != nil {
		return catalog.Page{}, &catalog.TransportError{Op: op, Err: err}
	}
	defer rows.Close()

	items := make([]catalog.Item, 0, s.pageSize)
	for rows.Next() {
		var it catalog.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.PlaceOfOrigin, &it.ArtistDisplay,
			&it.Inscriptions, &it.DateStart, &it.DateEnd); err != nil {
			return catalog.Page{}, &catalog.TransportError{Op: op, Err: err}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return catalog.Page{}, &catalog.TransportError{Op: op, Err: err}
	}

	return catalog.Page{
		Number:     page,
		Items:      items,
		TotalPages: catalog.PageCount(total, s.pageSize),
		Total:      total,
	}, nil
}

// Seed upserts items in one transaction. On failure nothing is written and
// the returned count is zero.
func (s *Source) Seed(ctx context.Context, items []catalog.Item) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO artworks(id, title, place_of_origin, artist_display, inscriptions, date_start, date_end)
VALUES(?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  place_of_origin=excluded.place_of_origin,
  artist_display=excluded.artist_display,
  inscriptions=excluded.inscriptions,
  date_start=excluded.date_start,
  date_end=excluded.date_end
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, it.ID, it.Title, it.PlaceOfOrigin, it.ArtistDisplay,
			it.Inscriptions, it.DateStart, it.DateEnd); err != nil {
			return 0, fmt.Errorf("seed artwork %d: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(items), nil
}
