package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

func homeDirOrFallback() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return home
}

// Config holds all user-configurable settings.
type Config struct {
	// PreferredRegion ranks catalog candidates tagged with this region
	// first (e.g. "USA", "Europe"). Advisory only.
	PreferredRegion string `json:"preferred_region"`
	// MatchThreshold is the minimum similarity score in (0,1] a catalog
	// entry must reach to count as a match.
	MatchThreshold float64 `json:"match_threshold"`
	// RequestsPerSecond rate-limits HTTP requests to the archive.
	RequestsPerSecond float64 `json:"requests_per_second"`
	// MaxConcurrentDownloads is how many files the built-in downloader
	// fetches in parallel when aria2c is unavailable.
	MaxConcurrentDownloads int `json:"max_concurrent_downloads"`
	// OutputDir is the default directory for downloaded files.
	OutputDir string `json:"output_dir"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PreferredRegion:        "USA",
		MatchThreshold:         0.6,
		RequestsPerSecond:      5.0,
		MaxConcurrentDownloads: 3,
		OutputDir:              "downloads",
	}
}

// ConfigDir returns the directory where the config file is stored.
func ConfigDir() string {
	if dir := os.Getenv("ROMGRAB_CONFIG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(homeDirOrFallback(), ".config", "romgrab")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load reads config from disk, creating it with defaults if the file
// doesn't exist.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.Save(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigPath(), data, 0o644)
}
