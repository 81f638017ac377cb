// Package planner turns one playlist request and its resolved listing into an
// album context: the album identity, the destination directory and the
// ordered list of tracks to fetch.
package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ytbatch/internal/batch"
	"ytbatch/internal/ytdlp"
)

// Placeholders used when the request and the listing leave a value unset.
const (
	UnknownAlbum   = "Unknown Album"
	DefaultComment = "No comment provided"
)

const (
	outputExtension = ".%(ext)s"
	directoryPerm   = 0755
)

// TrackRecord is one track to fetch, carrying the album context needed for reporting.
type TrackRecord struct {
	URL        string
	Title      string
	FileName   string // sanitized Title, safe as a single path segment
	AuthorName string
	Genre      string
	Comment    string
}

// AlbumContext is the resolved album for one playlist request.
type AlbumContext struct {
	URL        string
	Name       string
	AuthorName string
	Genre      string
	Comment    string
	Dir        string // SaveTo/author/album
	Tracks     []TrackRecord
	Skipped    int // listing entries dropped for a missing URL or title
}

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_")

// SanitizeName replaces path separators with underscores so the result is a
// single path segment. It is idempotent.
func SanitizeName(name string) string {
	return separatorReplacer.Replace(name)
}

// SanitizeDir is SanitizeName for a directory segment. A result of "", "." or
// ".." becomes underscores so the segment never refers to itself or its parent.
func SanitizeDir(name string) string {
	s := SanitizeName(name)
	switch s {
	case "", ".":
		return "_"
	case "..":
		return "__"
	}
	return s
}

// AlbumName picks the album name: explicit override, then the listing title,
// then UnknownAlbum. Empty strings count as unset.
func AlbumName(override *string, listingTitle string) string {
	if override != nil && *override != "" {
		return *override
	}
	if listingTitle != "" {
		return listingTitle
	}
	return UnknownAlbum
}

func commentOrDefault(comment *string) string {
	if comment != nil && *comment != "" {
		return *comment
	}
	return DefaultComment
}

// Plan derives the album context of req from its listing. Entries without a
// URL or a title are skipped and never produce a track.
func Plan(req batch.PlaylistRequest, listing ytdlp.Playlist) AlbumContext {
	album := AlbumContext{
		URL:        req.URL,
		Name:       AlbumName(req.Album.PlaylistName, listing.Title),
		AuthorName: req.Album.AuthorName,
		Genre:      req.Album.Genre,
		Comment:    commentOrDefault(req.Album.Comment),
	}
	album.Dir = filepath.Join(req.SaveTo, SanitizeDir(album.AuthorName), SanitizeDir(album.Name))

	album.Tracks = make([]TrackRecord, 0, len(listing.Entries))
	for _, entry := range listing.Entries {
		if entry.URL == "" || entry.Title == "" {
			album.Skipped++
			continue
		}
		album.Tracks = append(album.Tracks, TrackRecord{
			URL:        entry.URL,
			Title:      entry.Title,
			FileName:   SanitizeName(entry.Title),
			AuthorName: album.AuthorName,
			Genre:      album.Genre,
			Comment:    album.Comment,
		})
	}

	return album
}

// OutputTemplate returns the yt-dlp output template of track inside the album
// directory. The extension is left to yt-dlp.
func (a AlbumContext) OutputTemplate(track TrackRecord) string {
	return filepath.Join(a.Dir, track.FileName+outputExtension)
}

// PrepareDir creates the album directory and every missing parent.
func PrepareDir(album AlbumContext) error {
	if err := os.MkdirAll(album.Dir, directoryPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", album.Dir, err)
	}
	return nil
}
