package config

import (
	"testing"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	t.Setenv("ROMGRAB_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PreferredRegion != "USA" {
		t.Fatalf("PreferredRegion = %q, want USA", cfg.PreferredRegion)
	}
	if cfg.MatchThreshold != 0.6 {
		t.Fatalf("MatchThreshold = %v, want 0.6", cfg.MatchThreshold)
	}
	if cfg.MaxConcurrentDownloads != 3 {
		t.Fatalf("MaxConcurrentDownloads = %d, want 3", cfg.MaxConcurrentDownloads)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	t.Setenv("ROMGRAB_CONFIG_DIR", t.TempDir())

	cfg := DefaultConfig()
	cfg.PreferredRegion = "Europe"
	cfg.MatchThreshold = 0.8
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.PreferredRegion != "Europe" || loaded.MatchThreshold != 0.8 {
		t.Fatalf("loaded config = %+v, want saved values", loaded)
	}
}
