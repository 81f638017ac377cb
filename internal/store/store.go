// Package store persists download results to SQLite.
//
// Writes are best-effort sequential by default: each record is one INSERT and
// a failing row does not undo the rows before it. Options.Atomic wraps the
// whole batch in one transaction instead.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"ytbatch/internal/outcome"
	"ytbatch/internal/results"
)

// ErrLocked is returned by Open when another process holds the database lock.
var ErrLocked = errors.New("database is in use by another run")

// ErrPendingOutcome rejects records whose outcome was never resolved.
var ErrPendingOutcome = errors.New("outcome is pending")

// Options tunes how records are written.
type Options struct {
	Atomic bool
}

// Store manages result persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
	opts Options
}

// RowError reports the failure to insert one record.
type RowError struct {
	Index  int
	Record results.Record
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("insert row %d (%s): %v", e.Index, e.Record.SongURL, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Open connects to the database at path, creating the file when needed. An
// advisory lock on path+".lock" is held until Close.
func Open(path string, opts Options) (*Store, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock for %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps the busy_timeout pragma applied to every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}

	return &Store{db: db, path: path, lock: lock, opts: opts}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database and releases the lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if unlockErr := s.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}

// Persist writes records in order and returns how many rows were inserted.
// The table is created first when missing, even for an empty batch. Row
// failures are returned joined as *RowError values; in the default mode the
// remaining rows are still attempted.
func (s *Store) Persist(ctx context.Context, records []results.Record) (int, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}
	if s.opts.Atomic {
		return s.persistAtomic(ctx, records)
	}

	var (
		inserted int
		errs     []error
	)
	for i, r := range records {
		if err := insert(ctx, s.db, r); err != nil {
			errs = append(errs, &RowError{Index: i, Record: r, Err: err})
			continue
		}
		inserted++
	}
	return inserted, errors.Join(errs...)
}

func (s *Store) persistAtomic(ctx context.Context, records []results.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin persist tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, r := range records {
		if err := insert(ctx, tx, r); err != nil {
			return 0, &RowError{Index: i, Record: r, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit persist tx: %w", err)
	}
	return len(records), nil
}

func insert(ctx context.Context, db execer, r results.Record) error {
	if !outcome.IsTerminal(r.Outcome) {
		return ErrPendingOutcome
	}
	_, err := db.ExecContext(ctx, insertSQL,
		r.AlbumURL,
		r.AlbumName,
		r.SongName,
		r.SongURL,
		outcome.Format(r.Outcome),
		r.AuthorName,
		r.Genre,
		r.Comment,
	)
	return err
}
