package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"ytbatch/internal/logger"
	"ytbatch/internal/outcome"
	"ytbatch/internal/planner"
)

type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }

// scriptedFetcher returns err for every call and records the calls it saw
type scriptedFetcher struct {
	err   error
	calls []string
}

func (f *scriptedFetcher) Download(_ context.Context, url, outputTemplate string) error {
	f.calls = append(f.calls, url+" "+outputTemplate)
	return f.err
}

func quietLogger() *logger.Logger {
	var buf bytes.Buffer
	return logger.NewWithWriters(false, &buf, &buf)
}

func tracks() []planner.TrackRecord {
	return []planner.TrackRecord{
		{URL: "u1", Title: "A", FileName: "A"},
		{URL: "u2", Title: "B", FileName: "B"},
		{URL: "u3", Title: "C", FileName: "C"},
	}
}

func TestFetchAlwaysSuccess(t *testing.T) {
	f := &scriptedFetcher{}
	e := New(f, quietLogger())

	for _, tr := range tracks() {
		got := e.Fetch(context.Background(), tr, "/music/"+tr.FileName+".%(ext)s")
		if _, ok := got.(outcome.Success); !ok {
			t.Errorf("Fetch(%s) = %#v, want Success", tr.URL, got)
		}
	}
	if len(f.calls) != 3 {
		t.Errorf("expected exactly one call per track, got %d", len(f.calls))
	}
	if f.calls[0] != "u1 /music/A.%(ext)s" {
		t.Errorf("first call = %q", f.calls[0])
	}
}

func TestFetchAlwaysExitCode(t *testing.T) {
	f := &scriptedFetcher{err: fmt.Errorf("yt-dlp download: %w", exitError{code: 101})}
	e := New(f, quietLogger())

	for _, tr := range tracks() {
		got := e.Fetch(context.Background(), tr, "out")
		mfe, ok := got.(outcome.MediaFetchError)
		if !ok {
			t.Fatalf("Fetch(%s) = %#v, want MediaFetchError", tr.URL, got)
		}
		if mfe.ExitCode != 101 {
			t.Errorf("ExitCode = %d, want 101", mfe.ExitCode)
		}
		if !strings.Contains(mfe.Detail(), "101") || !strings.Contains(mfe.Detail(), tr.URL) {
			t.Errorf("Detail() = %q should name the URL and code", mfe.Detail())
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantTag string
		wantErr int
	}{
		{"nil", nil, outcome.TagSuccess, 0},
		{"exit code", exitError{code: 2}, outcome.TagMediaFetchError, 2},
		{"signal", exitError{code: -1}, outcome.TagMediaFetchError, -1},
		{"spawn failure", &exec.Error{Name: "yt-dlp", Err: exec.ErrNotFound}, outcome.TagIOError, 0},
		{"pipe failure", errors.New("io: read/write on closed pipe"), outcome.TagIOError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("u1", tt.err)
			if got.Tag() != tt.wantTag {
				t.Fatalf("Classify() tag = %s, want %s", got.Tag(), tt.wantTag)
			}
			if mfe, ok := got.(outcome.MediaFetchError); ok && mfe.ExitCode != tt.wantErr {
				t.Errorf("ExitCode = %d, want %d", mfe.ExitCode, tt.wantErr)
			}
			if tt.err != nil && got.Tag() == outcome.TagIOError && got.Detail() != tt.err.Error() {
				t.Errorf("Detail() = %q, want %q", got.Detail(), tt.err.Error())
			}
		})
	}
}
