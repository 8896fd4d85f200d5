package trainengine

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the viewer settings that vary between deployments. Every
// field has a working default; a config file only needs the overrides.
type Config struct {
	FeedURL string `yaml:"feed_url" validate:"required,url"`

	Overview struct {
		SWLat float64 `yaml:"sw_lat" validate:"gte=-90,lte=90"`
		SWLng float64 `yaml:"sw_lng" validate:"gte=-180,lte=180"`
		NELat float64 `yaml:"ne_lat" validate:"gte=-90,lte=90"`
		NELng float64 `yaml:"ne_lng" validate:"gte=-180,lte=180"`
	} `yaml:"overview"`

	MinZoom          float64 `yaml:"min_zoom" validate:"gte=0,lte=22"`
	MaxZoom          float64 `yaml:"max_zoom" validate:"gte=0,lte=22,gtefield=MinZoom"`
	FollowPaddingPx  int     `yaml:"follow_padding_px" validate:"gte=0"`
	TrailCapacity    int     `yaml:"trail_capacity" validate:"gt=0"`
	MinSegmentMeters float64 `yaml:"min_segment_meters" validate:"gt=0"`
}

// DefaultConfig mirrors the original deployment: an India overview fed from
// a local simulator.
func DefaultConfig() Config {
	cfg := Config{
		FeedURL:          "ws://localhost:8080",
		MinZoom:          3,
		MaxZoom:          20,
		FollowPaddingPx:  FollowPaddingPx,
		TrailCapacity:    MaxTrailPoints,
		MinSegmentMeters: MinSegmentMeters,
	}
	cfg.Overview.SWLat = OverviewSW.Lat
	cfg.Overview.SWLng = OverviewSW.Lng
	cfg.Overview.NELat = OverviewNE.Lat
	cfg.Overview.NELng = OverviewNE.Lng
	return cfg
}

// LoadConfig reads and validates a YAML config file. An empty path returns
// the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
