package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains the program configuration
type Config struct {
	YtdlpPath      string `yaml:"ytdlp_path"`
	Format         string `yaml:"format"`
	AudioFormat    string `yaml:"audio_format"`
	AudioQuality   string `yaml:"audio_quality"`
	CookiesBrowser string `yaml:"cookies_browser"`
	DatabasePath   string `yaml:"database_path"`
	AtomicPersist  bool   `yaml:"atomic_persist"`
	TagFiles       bool   `yaml:"tag_files"`
	ListenAddr     string `yaml:"listen_addr"`
	ProgressBar    bool   `yaml:"progress_bar"`
	Verbose        bool   `yaml:"verbose"`
	DryRun         bool   `yaml:"dry_run"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		YtdlpPath:    "yt-dlp",
		Format:       "bestaudio",
		AudioFormat:  "wav",
		AudioQuality: "160k",
		DatabasePath: "songs.db",
		TagFiles:     true,
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.DatabasePath = ExpandHome(cfg.DatabasePath)
	cfg.YtdlpPath = ExpandHome(cfg.YtdlpPath)

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./ytbatch.yaml",
		"./ytbatch.yml",
		filepath.Join(home, ".config", "ytbatch", "config.yaml"),
		filepath.Join(home, ".config", "ytbatch", "config.yml"),
		filepath.Join(home, ".ytbatch.yaml"),
		filepath.Join(home, ".ytbatch.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "ytbatch", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "ytbatch", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// ValidAudioFormats lists the --audio-format values yt-dlp accepts for extraction
var ValidAudioFormats = []string{"wav", "flac", "alac", "mp3", "m4a", "opus", "vorbis", "aac"}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.YtdlpPath) == "" {
		return fmt.Errorf("ytdlp_path cannot be empty")
	}
	if strings.TrimSpace(c.Format) == "" {
		return fmt.Errorf("format cannot be empty")
	}
	if strings.TrimSpace(c.AudioQuality) == "" {
		return fmt.Errorf("audio_quality cannot be empty")
	}

	isValid := false
	for _, format := range ValidAudioFormats {
		if c.AudioFormat == format {
			isValid = true
			break
		}
	}
	if !isValid {
		return fmt.Errorf("unsupported audio format '%s', valid formats: %v", c.AudioFormat, ValidAudioFormats)
	}

	if c.DryRun {
		return nil
	}

	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database_path cannot be empty")
	}

	return nil
}
