package tagger

import (
	"os/exec"
	"path/filepath"
	"testing"

	"go.senan.xyz/taglib"

	"ytbatch/internal/planner"
)

// createTestAudioFile generates a short WAV using ffmpeg.
// Skips the test if ffmpeg is not available.
func createTestAudioFile(t *testing.T, dir, name string) string {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available, skipping tagger test")
	}

	path := filepath.Join(dir, name+".wav")
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "anullsrc=r=44100:cl=mono", "-t", "0.1", path)
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to create test audio file: %v", err)
	}
	return path
}

func fixture(dir string) (planner.AlbumContext, planner.TrackRecord) {
	track := planner.TrackRecord{
		URL:        "u1",
		Title:      "AC/DC Cover",
		FileName:   planner.SanitizeName("AC/DC Cover"),
		AuthorName: "X",
		Genre:      "Rock",
		Comment:    planner.DefaultComment,
	}
	album := planner.AlbumContext{
		URL:        "P",
		Name:       "Live Set",
		AuthorName: "X",
		Genre:      "Rock",
		Comment:    planner.DefaultComment,
		Dir:        dir,
		Tracks:     []planner.TrackRecord{track},
	}
	return album, track
}

func TestTagTrack(t *testing.T) {
	dir := t.TempDir()
	album, track := fixture(dir)
	path := createTestAudioFile(t, dir, track.FileName)

	if err := New().TagTrack(album, track); err != nil {
		t.Fatalf("TagTrack failed: %v", err)
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatalf("failed to read tags: %v", err)
	}

	checks := map[string]string{
		taglib.Title:       "AC/DC Cover",
		taglib.Artist:      "X",
		taglib.AlbumArtist: "X",
		taglib.Album:       "Live Set",
		taglib.Genre:       "Rock",
		taglib.Comment:     planner.DefaultComment,
	}
	for key, want := range checks {
		vals := tags[key]
		if len(vals) == 0 || vals[0] != want {
			t.Errorf("tag %s = %v, want %q", key, vals, want)
		}
	}
}

func TestTagTrackMissingFile(t *testing.T) {
	album, track := fixture(t.TempDir())
	if err := New().TagTrack(album, track); err == nil {
		t.Error("TagTrack should fail when no file was produced")
	}
}
