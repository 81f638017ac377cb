package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindTrackFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Song A.wav", "Song A.webp", "Song A.part", "Song AB.wav", "Other.flac"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindTrackFile(dir, "Song A")
	if err != nil {
		t.Fatalf("FindTrackFile() error: %v", err)
	}
	if got != filepath.Join(dir, "Song A.wav") {
		t.Errorf("FindTrackFile() = %q", got)
	}

	if _, err := FindTrackFile(dir, "Missing"); err == nil {
		t.Error("FindTrackFile() should fail when nothing matches")
	}
	if _, err := FindTrackFile(filepath.Join(dir, "nope"), "Song A"); err == nil {
		t.Error("FindTrackFile() should fail for a missing directory")
	}
	if _, err := FindTrackFile(dir, ""); err == nil {
		t.Error("FindTrackFile() should fail for an empty name")
	}
}

func TestIsAudioFile(t *testing.T) {
	tests := map[string]bool{
		"a.wav":  true,
		"a.FLAC": true,
		"a.webp": false,
		"a":      false,
	}
	for in, want := range tests {
		if got := IsAudioFile(in); got != want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCheckDependencies(t *testing.T) {
	if err := CheckDependencies(filepath.Join(t.TempDir(), "no-such-yt-dlp")); err == nil {
		t.Error("CheckDependencies() should fail for a missing binary")
	}
	if err := CheckDependencies("sh"); err != nil {
		t.Skipf("sh not in PATH: %v", err)
	}
}
