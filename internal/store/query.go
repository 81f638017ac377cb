package store

import (
	"context"
	"fmt"
	"strings"

	"ytbatch/internal/outcome"
	"ytbatch/internal/results"
)

// Row is one stored result with its identifier.
type Row struct {
	ID int64
	results.Record
}

// Filter narrows List results.
type Filter struct {
	FailedOnly bool // skip Success rows
	Limit      int  // 0 means no limit
}

// List returns stored rows, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Row, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT id, album_url, album_name, song_name, song_url, status, author_name, genre, comment
		FROM download_status`)
	if f.FailedOnly {
		query.WriteString(" WHERE status <> ?")
		args = append(args, outcome.TagSuccess)
	}
	query.WriteString(" ORDER BY id DESC")
	if f.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", TableName, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			row    Row
			status string
		)
		if err := rows.Scan(
			&row.ID,
			&row.AlbumURL,
			&row.AlbumName,
			&row.SongName,
			&row.SongURL,
			&status,
			&row.AuthorName,
			&row.Genre,
			&row.Comment,
		); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", TableName, err)
		}
		o, err := outcome.Parse(status)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row.ID, err)
		}
		row.Outcome = o
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", TableName, err)
	}
	return out, nil
}
