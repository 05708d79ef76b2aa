package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CrestNiraj12/sentiscope/domain"
)

func TestLoad_ParsesEnvAndDefaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("SENTISCOPE_API", "https://sentiment.example/")
	t.Setenv("SENTISCOPE_HOURS", "48")
	t.Setenv("SENTISCOPE_RESYNC", "30s")
	t.Setenv("SENTISCOPE_TREND_MODE", "confidence")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "https://sentiment.example" {
		t.Fatalf("api must be normalized: %q", cfg.APIURL)
	}
	if cfg.StreamURL != "wss://sentiment.example/ws/sentiment" {
		t.Fatalf("unexpected default stream: %q", cfg.StreamURL)
	}
	if cfg.FeedLimit != 50 || cfg.TrendPoints != 20 || cfg.Hours != 48 {
		t.Fatalf("unexpected limits: %#v", cfg)
	}
	if cfg.FetchTimeout != 10*time.Second || cfg.Resync != 30*time.Second {
		t.Fatalf("unexpected durations: %v %v", cfg.FetchTimeout, cfg.Resync)
	}
	if cfg.TrendMode != domain.ShapeConfidence || cfg.MetricsWindow != "last_minute" {
		t.Fatalf("unexpected modes: %#v", cfg)
	}
	if cfg.AlertRatio != 0.5 || cfg.AlertMinPosts != 5 || cfg.StreamTopic != "sentiment_updates" {
		t.Fatalf("unexpected alert defaults: %#v", cfg)
	}
	if filepath.Base(cfg.LogFile) != "sentiscope.log" || filepath.Base(cfg.UIStatePath) != "ui_state.json" {
		t.Fatalf("unexpected paths: %q %q", cfg.LogFile, cfg.UIStatePath)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"api scheme", "SENTISCOPE_API", "ftp://x"},
		{"api relative", "SENTISCOPE_API", "localhost"},
		{"stream scheme", "SENTISCOPE_STREAM", "tcp://x:1"},
		{"hours range", "SENTISCOPE_HOURS", "500"},
		{"feed limit", "SENTISCOPE_FEED_LIMIT", "0"},
		{"timeout", "SENTISCOPE_FETCH_TIMEOUT", "soon"},
		{"window", "SENTISCOPE_METRICS_WINDOW", "last_week"},
		{"mode", "SENTISCOPE_TREND_MODE", "bars"},
		{"ratio", "SENTISCOPE_ALERT_RATIO", "-1"},
		{"log format", "SENTISCOPE_LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_STATE_HOME", t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_AcceptsAlternateTransports(t *testing.T) {
	for _, stream := range []string{"redis://localhost:6379/0", "nats://localhost:4222", "ws://localhost:8000/ws/sentiment"} {
		t.Setenv("XDG_STATE_HOME", t.TempDir())
		t.Setenv("SENTISCOPE_STREAM", stream)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load %q failed: %v", stream, err)
		}
		if cfg.StreamURL != stream {
			t.Fatalf("stream changed: %q", cfg.StreamURL)
		}
	}
}

func TestDefaultStreamURL(t *testing.T) {
	if got := DefaultStreamURL("http://localhost:8000"); got != "ws://localhost:8000/ws/sentiment" {
		t.Fatalf("unexpected url: %q", got)
	}
	if got := DefaultStreamURL("https://x.io/backend/"); got != "wss://x.io/backend/ws/sentiment" {
		t.Fatalf("unexpected url: %q", got)
	}
}

func TestUIState_LoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "ui_state.json")

	st, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("missing state should not error: %v", err)
	}
	if st != (UIState{}) {
		t.Fatalf("expected empty state for missing file")
	}

	want := UIState{Pane: "trend", TrendMode: "confidence"}
	if err := SaveUIState(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("load after save failed: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected loaded state got=%#v want=%#v", got, want)
	}

	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write corrupt state failed: %v", err)
	}
	if _, err := LoadUIState(path); err == nil {
		t.Fatalf("expected parse error for invalid json")
	}
}
