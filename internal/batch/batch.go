// Package batch reads the batch job document: an ordered list of playlist
// requests, each naming a source playlist, a destination root and album metadata.
package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInputSource is returned when neither or both of the inline document and
// the file path are given.
var ErrInputSource = errors.New("exactly one of an inline JSON document or a file path must be given")

// Album is the album metadata of one request.
type Album struct {
	AuthorName   string
	PlaylistName *string
	Genre        string
	Comment      *string
}

// PlaylistRequest is one entry of the batch document.
type PlaylistRequest struct {
	SaveTo string
	URL    string
	Album  Album
}

// wire types keep required fields as pointers so a missing key can be told
// apart from an empty value
type wireAlbum struct {
	AuthorName   *string `json:"author_name"`
	PlaylistName *string `json:"playlist_name"`
	Genre        *string `json:"genre"`
	Comment      *string `json:"comment"`
}

type wireRequest struct {
	SaveTo *string    `json:"save_to"`
	URL    *string    `json:"url"`
	Album  *wireAlbum `json:"album"`
}

// Load reads the batch document from an inline string or from a file.
// Exactly one of inline and path must be non-empty.
func Load(inline, path string) ([]PlaylistRequest, error) {
	switch {
	case inline != "" && path != "":
		return nil, ErrInputSource
	case inline != "":
		return Parse([]byte(inline))
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read batch file %s: %w", path, err)
		}
		return Parse(data)
	default:
		return nil, ErrInputSource
	}
}

// Parse decodes and validates a batch document. Any missing required field
// fails the whole document.
func Parse(data []byte) ([]PlaylistRequest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("batch document is empty")
	}

	var raw []wireRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse batch document: %w", err)
	}

	requests := make([]PlaylistRequest, 0, len(raw))
	for i, r := range raw {
		req, err := r.toRequest()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (r wireRequest) toRequest() (PlaylistRequest, error) {
	if r.SaveTo == nil {
		return PlaylistRequest{}, fmt.Errorf("missing field save_to")
	}
	if r.URL == nil {
		return PlaylistRequest{}, fmt.Errorf("missing field url")
	}
	if strings.TrimSpace(*r.URL) == "" {
		return PlaylistRequest{}, fmt.Errorf("url cannot be empty")
	}
	if r.Album == nil {
		return PlaylistRequest{}, fmt.Errorf("missing field album")
	}
	if r.Album.AuthorName == nil {
		return PlaylistRequest{}, fmt.Errorf("missing field album.author_name")
	}
	if r.Album.Genre == nil {
		return PlaylistRequest{}, fmt.Errorf("missing field album.genre")
	}

	return PlaylistRequest{
		SaveTo: *r.SaveTo,
		URL:    strings.TrimSpace(*r.URL),
		Album: Album{
			AuthorName:   *r.Album.AuthorName,
			PlaylistName: r.Album.PlaylistName,
			Genre:        *r.Album.Genre,
			Comment:      r.Album.Comment,
		},
	}, nil
}
