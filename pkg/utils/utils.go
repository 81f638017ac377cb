package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Supported audio file extensions
var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".opus": true,
	".aac":  true,
	".ogg":  true,
}

// CheckDependencies verifies that the yt-dlp binary can be found
func CheckDependencies(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("required command '%s' not found in PATH. Install with: pip install yt-dlp", binary)
	}

	return nil
}

// IsAudioFile reports whether path has a known audio extension
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// FindTrackFile returns the audio file in dir whose name without extension is
// base. yt-dlp picks the extension, so the file is matched on its stem.
func FindTrackFile(dir, base string) (string, error) {
	if dir == "" || base == "" {
		return "", fmt.Errorf("directory and file name cannot be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if strings.TrimSuffix(name, ext) == base && IsAudioFile(name) {
			return filepath.Join(dir, name), nil
		}
	}

	return "", fmt.Errorf("no audio file named %s.* in %s", base, dir)
}
