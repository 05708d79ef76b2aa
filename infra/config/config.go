package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/CrestNiraj12/sentiscope/domain"
)

// Config holds application-level configuration.
type Config struct {
	APIURL      string // e.g. "http://localhost:8000"
	StreamURL   string // ws(s)://, redis(s):// or nats://
	StreamTopic string // Redis channel or NATS subject
	DatabaseURL string // Optional Postgres snapshot source
	Token       string // Token file path or literal token; empty disables auth

	FeedLimit    int
	TrendPoints  int
	Hours        int
	FetchTimeout time.Duration
	Resync       time.Duration // 0 disables periodic distribution refresh

	MetricsWindow string
	TrendMode     domain.TrendShape
	AlertRatio    float64
	AlertMinPosts int
	LogLevel      string
	LogFormat     string
	LogFile       string
	UIStatePath   string
}

// Load reads configuration from environment variables.
//
//	SENTISCOPE_API             backend base URL (default http://localhost:8000)
//	SENTISCOPE_STREAM          push-stream URL (default: API host + /ws/sentiment)
//	SENTISCOPE_STREAM_TOPIC    redis channel / NATS subject (default sentiment_updates)
//	SENTISCOPE_DATABASE_URL    read the snapshot from Postgres instead of the API
//	SENTISCOPE_TOKEN           bearer token file or value
//	SENTISCOPE_FEED_LIMIT      feed capacity (default 50)
//	SENTISCOPE_TREND_POINTS    trend capacity (default 20)
//	SENTISCOPE_HOURS           distribution window in hours, 1..168 (default 24)
//	SENTISCOPE_FETCH_TIMEOUT   snapshot deadline (default 10s)
//	SENTISCOPE_RESYNC          distribution refresh interval (default off)
//	SENTISCOPE_METRICS_WINDOW  last_minute | last_hour | last_24_hours
//	SENTISCOPE_TREND_MODE      counts | confidence
//	SENTISCOPE_ALERT_RATIO     negative/positive alert threshold (default 0.5)
//	SENTISCOPE_ALERT_MIN_POSTS minimum total before alerting (default 5)
//	SENTISCOPE_LOG_LEVEL       debug | info | warn | error (default info)
//	SENTISCOPE_LOG_FORMAT      text | json (default text)
//	SENTISCOPE_LOG_FILE        log destination
//	SENTISCOPE_STATE           UI state JSON path
func Load() (Config, error) {
	api, err := parseAPIURL(envOr("SENTISCOPE_API", "http://localhost:8000"))
	if err != nil {
		return Config{}, err
	}

	stream := os.Getenv("SENTISCOPE_STREAM")
	if stream == "" {
		stream = DefaultStreamURL(api)
	}
	if err := validateStreamURL(stream); err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:      api,
		StreamURL:   stream,
		StreamTopic: envOr("SENTISCOPE_STREAM_TOPIC", "sentiment_updates"),
		DatabaseURL: strings.TrimSpace(os.Getenv("SENTISCOPE_DATABASE_URL")),
		Token:       strings.TrimSpace(os.Getenv("SENTISCOPE_TOKEN")),
		LogLevel:    envOr("SENTISCOPE_LOG_LEVEL", "info"),
		LogFormat:   envOr("SENTISCOPE_LOG_FORMAT", "text"),
	}

	if cfg.FeedLimit, err = envInt("SENTISCOPE_FEED_LIMIT", 50, 1, 1000); err != nil {
		return Config{}, err
	}
	if cfg.TrendPoints, err = envInt("SENTISCOPE_TREND_POINTS", 20, 1, 1000); err != nil {
		return Config{}, err
	}
	if cfg.Hours, err = envInt("SENTISCOPE_HOURS", 24, 1, 168); err != nil {
		return Config{}, err
	}
	if cfg.AlertMinPosts, err = envInt("SENTISCOPE_ALERT_MIN_POSTS", 5, 0, 1<<30); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = envDuration("SENTISCOPE_FETCH_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Resync, err = envDuration("SENTISCOPE_RESYNC", 0); err != nil {
		return Config{}, err
	}

	cfg.AlertRatio = 0.5
	if v := os.Getenv("SENTISCOPE_ALERT_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return Config{}, fmt.Errorf("invalid SENTISCOPE_ALERT_RATIO: %q", v)
		}
		cfg.AlertRatio = f
	}

	cfg.MetricsWindow = envOr("SENTISCOPE_METRICS_WINDOW", "last_minute")
	switch cfg.MetricsWindow {
	case "last_minute", "last_hour", "last_24_hours":
	default:
		return Config{}, fmt.Errorf("invalid SENTISCOPE_METRICS_WINDOW: %q", cfg.MetricsWindow)
	}

	if cfg.TrendMode, err = ParseTrendMode(envOr("SENTISCOPE_TREND_MODE", "counts")); err != nil {
		return Config{}, err
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("invalid SENTISCOPE_LOG_FORMAT: %q", cfg.LogFormat)
	}

	stateDir, err := stateDir()
	if err != nil {
		return Config{}, err
	}
	cfg.LogFile = envOr("SENTISCOPE_LOG_FILE", filepath.Join(stateDir, "sentiscope.log"))
	cfg.UIStatePath = envOr("SENTISCOPE_STATE", filepath.Join(stateDir, "ui_state.json"))

	return cfg, nil
}

// DefaultStreamURL maps the API base URL to its websocket endpoint.
func DefaultStreamURL(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil {
		return ""
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/sentiment"
	u.RawQuery = ""
	return u.String()
}

// ParseTrendMode maps a mode name to a trend projection.
func ParseTrendMode(s string) (domain.TrendShape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "counts", "":
		return domain.ShapeCounts, nil
	case "confidence":
		return domain.ShapeConfidence, nil
	default:
		return domain.ShapeCounts, fmt.Errorf("invalid SENTISCOPE_TREND_MODE: %q", s)
	}
}

func parseAPIURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid SENTISCOPE_API: must be an absolute URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid SENTISCOPE_API: only http and https are allowed")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func validateStreamURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid SENTISCOPE_STREAM: must be an absolute URL")
	}
	switch parsed.Scheme {
	case "ws", "wss", "redis", "rediss", "nats":
		return nil
	default:
		return fmt.Errorf("invalid SENTISCOPE_STREAM: unsupported scheme %q", parsed.Scheme)
	}
}

func stateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sentiscope"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "sentiscope"), nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def, lo, hi int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: %q (want %d..%d)", key, v, lo, hi)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

// UIState is the dashboard layout persisted between runs.
type UIState struct {
	Pane      string `json:"pane,omitempty"`
	TrendMode string `json:"trend_mode,omitempty"`
}

// LoadUIState reads the UI state file. A missing file yields the zero state.
func LoadUIState(path string) (UIState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return UIState{}, nil
		}
		return UIState{}, fmt.Errorf("reading ui state: %w", err)
	}
	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState writes the UI state file, creating its directory.
func SaveUIState(path string, st UIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ui state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	return nil
}
