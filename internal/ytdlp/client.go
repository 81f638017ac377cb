// Package ytdlp drives the yt-dlp binary: flat playlist listings and single
// track downloads.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandClient calls the yt-dlp binary.
type CommandClient struct {
	// BinaryPath is the path to the yt-dlp executable. Defaults to "yt-dlp".
	BinaryPath string
	Options    DownloadOptions

	// Stdout and Stderr receive download output in verbose mode. Default to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewClient creates a CommandClient for the given binary and download options.
func NewClient(binary string, opts DownloadOptions) *CommandClient {
	return &CommandClient{BinaryPath: binary, Options: opts}
}

func (c *CommandClient) binary() string {
	if c.BinaryPath == "" {
		return "yt-dlp"
	}
	return c.BinaryPath
}

// ListPlaylist runs one flat listing of playlistURL. The error carries the raw
// diagnostic text of yt-dlp when the process fails.
func (c *CommandClient) ListPlaylist(ctx context.Context, playlistURL string) (*Playlist, error) {
	if strings.TrimSpace(playlistURL) == "" {
		return nil, fmt.Errorf("playlist URL cannot be empty")
	}

	cmd := exec.CommandContext(ctx, c.binary(),
		"--flat-playlist",
		"--dump-single-json",
		playlistURL,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed to get info for %s: %w: %s", playlistURL, err, strings.TrimSpace(stderr.String()))
	}

	playlist, err := decodePlaylist(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output for %s: %w", playlistURL, err)
	}
	return playlist, nil
}

// decodePlaylist reads a --dump-single-json document. Entries are decoded
// loosely: null or non-object entries and non-string fields become empty
// values instead of failing the whole listing.
func decodePlaylist(data []byte) (*Playlist, error) {
	var doc struct {
		Title   any    `json:"title"`
		Entries *[]any `json:"entries"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Entries == nil {
		return nil, fmt.Errorf("entries field not found or is not an array")
	}

	playlist := &Playlist{
		Title:   stringField(doc.Title),
		Entries: make([]Entry, 0, len(*doc.Entries)),
	}
	for _, raw := range *doc.Entries {
		item, _ := raw.(map[string]any)
		playlist.Entries = append(playlist.Entries, Entry{
			URL:   stringField(item["url"]),
			Title: stringField(item["title"]),
		})
	}
	return playlist, nil
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// buildDownloadArgs constructs command-line arguments for a single track download
func (c *CommandClient) buildDownloadArgs(url, outputTemplate string) []string {
	args := []string{
		"--ignore-errors",
		"--format", c.Options.Format,
		"--extract-audio",
		"--audio-format", c.Options.AudioFormat,
		"--audio-quality", c.Options.AudioQuality,
	}

	if c.Options.CookiesBrowser != "" {
		args = append(args, "--cookies-from-browser", c.Options.CookiesBrowser)
	}

	args = append(args, "--output", outputTemplate, url)
	return args
}

// Download fetches one track into outputTemplate, which may contain the
// %(ext)s placeholder. A non-zero exit is returned as an error wrapping
// *exec.ExitError; failures to start the process are returned as-is.
func (c *CommandClient) Download(ctx context.Context, url, outputTemplate string) error {
	cmd := exec.CommandContext(ctx, c.binary(), c.buildDownloadArgs(url, outputTemplate)...)

	if c.Options.Verbose {
		cmd.Stdout = writerOr(c.Stdout, os.Stdout)
		cmd.Stderr = writerOr(c.Stderr, os.Stderr)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("yt-dlp download of %s: %w", url, err)
	}
	return nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
