package store

import (
	"context"
	"fmt"
)

// TableName is the only table the store writes.
const TableName = "download_status"

const createTableSQL = `CREATE TABLE IF NOT EXISTS download_status (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	album_url TEXT NOT NULL,
	album_name TEXT NOT NULL,
	song_name TEXT NOT NULL,
	song_url TEXT NOT NULL,
	status TEXT NOT NULL,
	author_name TEXT NOT NULL,
	genre TEXT NOT NULL,
	comment TEXT NOT NULL
)`

const insertSQL = `INSERT INTO download_status
	(album_url, album_name, song_name, song_url, status, author_name, genre, comment)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// ensureSchema creates the table when it is missing. An existing table is
// never dropped or altered.
func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create %s table: %w", TableName, err)
	}
	return nil
}
