package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ZOOM_CUTOVER", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ZoomCutover != 9 {
		t.Errorf("expected cutover 9, got %d", cfg.ZoomCutover)
	}
	if cfg.BroadcastInterval != time.Second {
		t.Errorf("expected 1s broadcast, got %v", cfg.BroadcastInterval)
	}
	if len(cfg.CORSOrigins) != 1 {
		t.Errorf("expected default origin, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ZOOM_CUTOVER", "11")
	t.Setenv("POSITION_FEED_URL", "http://feed.local/positions")
	t.Setenv("POSITION_FEED_INTERVAL", "2s")
	t.Setenv("CORS_ORIGINS", "http://a.local, http://b.local,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ZoomCutover != 11 {
		t.Errorf("expected cutover 11, got %d", cfg.ZoomCutover)
	}
	if cfg.PositionFeedInterval != 2*time.Second {
		t.Errorf("expected 2s, got %v", cfg.PositionFeedInterval)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.local" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad cutover", "ZOOM_CUTOVER", "nine"},
		{"cutover out of range", "ZOOM_CUTOVER", "30"},
		{"bad duration", "BROADCAST_INTERVAL", "soon"},
		{"negative duration", "POSITION_FEED_INTERVAL", "-1s"},
		{"bad port", "HTTP_PORT", "http"},
		{"bad feed url", "POSITION_FEED_URL", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
