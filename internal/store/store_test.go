package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ytbatch/internal/outcome"
	"ytbatch/internal/results"
)

func mustOpen(t *testing.T, opts Options) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "songs.db"), opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func record(url string, o outcome.Outcome) results.Record {
	return results.Record{
		AlbumURL:   "P",
		AlbumName:  "Live Set",
		SongName:   "Song " + url,
		SongURL:    url,
		AuthorName: "X",
		Genre:      "G",
		Comment:    "No comment provided",
		Outcome:    o,
	}
}

func countRows(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM download_status").Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func countTables(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	err := s.db.QueryRow("SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='download_status'").Scan(&n)
	if err != nil {
		t.Fatalf("count tables: %v", err)
	}
	return n
}

func TestPersistEmptyCreatesTable(t *testing.T) {
	s := mustOpen(t, Options{})

	n, err := s.Persist(context.Background(), nil)
	if err != nil {
		t.Fatalf("Persist() error: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0", n)
	}
	if countTables(t, s) != 1 {
		t.Error("download_status table should exist")
	}
	if countRows(t, s) != 0 {
		t.Error("table should be empty")
	}
}

func TestPersistTwiceDoesNotDeduplicate(t *testing.T) {
	s := mustOpen(t, Options{})
	ctx := context.Background()

	batch := []results.Record{
		record("u1", outcome.Success{}),
		record("u2", outcome.NewMediaFetchError("u2", 1)),
		record("u3", outcome.IOError{Message: "exec: \"yt-dlp\": executable file not found in $PATH"}),
	}

	for i := 0; i < 2; i++ {
		n, err := s.Persist(ctx, batch)
		if err != nil {
			t.Fatalf("Persist() #%d error: %v", i+1, err)
		}
		if n != len(batch) {
			t.Errorf("Persist() #%d inserted %d, want %d", i+1, n, len(batch))
		}
	}

	if countTables(t, s) != 1 {
		t.Error("expected exactly one download_status table")
	}
	if got := countRows(t, s); got != 2*len(batch) {
		t.Errorf("rows = %d, want %d", got, 2*len(batch))
	}
}

func TestPersistStoresFlattenedOutcome(t *testing.T) {
	s := mustOpen(t, Options{})
	ctx := context.Background()

	fail := outcome.NewMediaFetchError("u2", 2)
	if _, err := s.Persist(ctx, []results.Record{record("u1", outcome.Success{}), record("u2", fail)}); err != nil {
		t.Fatalf("Persist() error: %v", err)
	}

	var status string
	if err := s.db.QueryRow("SELECT status FROM download_status WHERE song_url = 'u2'").Scan(&status); err != nil {
		t.Fatal(err)
	}
	if status != outcome.Format(fail) {
		t.Errorf("status = %q, want %q", status, outcome.Format(fail))
	}

	var ids []int64
	rows, err := s.db.Query("SELECT id FROM download_status ORDER BY id")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	if len(ids) != 2 || ids[0] >= ids[1] {
		t.Errorf("ids = %v, want increasing identifiers", ids)
	}
}

func TestPersistPendingRowIsReportedAndOthersContinue(t *testing.T) {
	s := mustOpen(t, Options{})

	batch := []results.Record{
		record("u1", outcome.Success{}),
		record("u2", outcome.Pending{}),
		record("u3", outcome.Success{}),
	}
	n, err := s.Persist(context.Background(), batch)
	if err == nil {
		t.Fatal("expected a row error for the pending record")
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected *RowError, got %v", err)
	}
	if rowErr.Index != 1 || !errors.Is(err, ErrPendingOutcome) {
		t.Errorf("row error = %v", rowErr)
	}
	if countRows(t, s) != 2 {
		t.Errorf("rows = %d, want 2", countRows(t, s))
	}
}

func TestPersistAtomicRollsBack(t *testing.T) {
	s := mustOpen(t, Options{Atomic: true})

	batch := []results.Record{
		record("u1", outcome.Success{}),
		record("u2", outcome.Pending{}),
	}
	n, err := s.Persist(context.Background(), batch)
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0", n)
	}
	if countRows(t, s) != 0 {
		t.Error("atomic persist should roll back every row")
	}

	n, err = s.Persist(context.Background(), batch[:1])
	if err != nil || n != 1 {
		t.Errorf("Persist() = %d, %v; want 1, nil", n, err)
	}
}

func TestExistingTableIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.db")

	s, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Persist(context.Background(), []results.Record{record("u1", outcome.Success{})}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Persist(context.Background(), []results.Record{record("u2", outcome.Success{})}); err != nil {
		t.Fatal(err)
	}
	if countRows(t, s) != 2 {
		t.Errorf("rows = %d, want 2 after reopening", countRows(t, s))
	}
}

func TestOpenLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.db")

	first, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()

	if _, err := Open(path, Options{}); !errors.Is(err, ErrLocked) {
		t.Errorf("second Open() err = %v, want ErrLocked", err)
	}
}

func TestList(t *testing.T) {
	s := mustOpen(t, Options{})
	ctx := context.Background()

	fail := outcome.NewMediaFetchError("u2", 2)
	batch := []results.Record{
		record("u1", outcome.Success{}),
		record("u2", fail),
		record("u3", outcome.Success{}),
	}
	if _, err := s.Persist(ctx, batch); err != nil {
		t.Fatal(err)
	}

	all, err := s.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 3 || all[0].SongURL != "u3" {
		t.Fatalf("List() = %+v, want 3 rows newest first", all)
	}

	failed, err := s.List(ctx, Filter{FailedOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 || failed[0].Outcome != outcome.Outcome(fail) {
		t.Errorf("failed rows = %+v", failed)
	}

	limited, err := s.List(ctx, Filter{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited rows = %d, want 2", len(limited))
	}
}
