package tagger

import (
	"fmt"

	"go.senan.xyz/taglib"

	"ytbatch/internal/planner"
	"ytbatch/pkg/utils"
)

// Tagger writes album context into downloaded audio files
type Tagger struct{}

// New creates a new Tagger
func New() *Tagger {
	return &Tagger{}
}

// TagTrack finds the file yt-dlp produced for track and writes its tags.
func (t *Tagger) TagTrack(album planner.AlbumContext, track planner.TrackRecord) error {
	path, err := utils.FindTrackFile(album.Dir, track.FileName)
	if err != nil {
		return err
	}
	return WriteTags(path, album, track)
}

// WriteTags writes title, artist, album, genre and comment tags to an audio file.
func WriteTags(path string, album planner.AlbumContext, track planner.TrackRecord) error {
	tags := make(map[string][]string)

	if track.Title != "" {
		tags[taglib.Title] = []string{track.Title}
	}
	if track.AuthorName != "" {
		tags[taglib.Artist] = []string{track.AuthorName}
		tags[taglib.AlbumArtist] = []string{track.AuthorName}
	}
	if album.Name != "" {
		tags[taglib.Album] = []string{album.Name}
	}
	if track.Genre != "" {
		tags[taglib.Genre] = []string{track.Genre}
	}
	if track.Comment != "" {
		tags[taglib.Comment] = []string{track.Comment}
	}

	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("failed to write tags to %s: %w", path, err)
	}
	return nil
}
