package trainengine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error: %v", err)
	}
	if cfg.FeedURL != "ws://localhost:8080" {
		t.Errorf("default feed URL = %q", cfg.FeedURL)
	}
	if cfg.TrailCapacity != MaxTrailPoints || cfg.MinSegmentMeters != MinSegmentMeters {
		t.Errorf("default trail settings = %d, %v", cfg.TrailCapacity, cfg.MinSegmentMeters)
	}
	if cfg.Overview.SWLat != OverviewSW.Lat || cfg.Overview.NELng != OverviewNE.Lng {
		t.Error("default overview is not the India bounds")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte("feed_url: wss://feeds.example.com/trains\nmax_zoom: 18\ntrail_capacity: 100\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.FeedURL != "wss://feeds.example.com/trains" {
		t.Errorf("feed URL = %q", cfg.FeedURL)
	}
	if cfg.MaxZoom != 18 {
		t.Errorf("max zoom = %v; want 18", cfg.MaxZoom)
	}
	if cfg.TrailCapacity != 100 {
		t.Errorf("trail capacity = %d; want 100", cfg.TrailCapacity)
	}
	// Untouched fields keep their defaults.
	if cfg.MinSegmentMeters != MinSegmentMeters {
		t.Errorf("min segment = %v; want default", cfg.MinSegmentMeters)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zoom order flipped", "min_zoom: 10\nmax_zoom: 5\n"},
		{"latitude out of range", "overview:\n  sw_lat: -120\n"},
		{"zero trail capacity", "trail_capacity: 0\n"},
		{"empty feed url", "feed_url: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("LoadConfig accepted %s", tt.name)
			}
		})
	}
}
