package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"

	"github.com/CrestNiraj12/sentiscope/app"
	"github.com/CrestNiraj12/sentiscope/dashboard"
	"github.com/CrestNiraj12/sentiscope/infra/auth"
	"github.com/CrestNiraj12/sentiscope/infra/config"
	"github.com/CrestNiraj12/sentiscope/infra/logging"
	"github.com/CrestNiraj12/sentiscope/infra/pager"
	"github.com/CrestNiraj12/sentiscope/infra/sentimentapi"
	"github.com/CrestNiraj12/sentiscope/infra/store"
	"github.com/CrestNiraj12/sentiscope/infra/stream"
	"github.com/CrestNiraj12/sentiscope/tui"
	"github.com/CrestNiraj12/sentiscope/tui/board"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return `Usage: sentiscope [--version|-version|-v] [--help|-h]

Configuration is read from the environment (and .env):
  SENTISCOPE_API           backend base URL (default http://localhost:8000)
  SENTISCOPE_STREAM        ws(s)://, redis(s):// or nats:// push stream
  SENTISCOPE_DATABASE_URL  read the snapshot from Postgres instead of the API
  SENTISCOPE_TOKEN         bearer token file or value`
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// boardOptions merges configuration with the persisted UI state; the
// saved layout wins when present.
func boardOptions(cfg config.Config, st config.UIState, n dashboard.Normalizer, logger *slog.Logger) board.Options {
	opts := board.Options{
		Normalizer:    n,
		FeedLimit:     cfg.FeedLimit,
		TrendPoints:   cfg.TrendPoints,
		AlertRatio:    cfg.AlertRatio,
		AlertMinPosts: cfg.AlertMinPosts,
		Resync:        cfg.Resync,
		TrendMode:     cfg.TrendMode,
		Pane:          board.PaneTrend,
		Logger:        logger,
	}
	if mode, err := config.ParseTrendMode(st.TrendMode); err == nil && st.TrendMode != "" {
		opts.TrendMode = mode
	}
	switch board.Pane(st.Pane) {
	case board.PaneTrend, board.PaneEmotions:
		opts.Pane = board.Pane(st.Pane)
	}
	return opts
}

func snapshotSource(ctx context.Context, cfg config.Config, tp auth.TokenProvider, n dashboard.Normalizer) (app.SnapshotSource, func(), error) {
	if cfg.DatabaseURL == "" {
		client := sentimentapi.NewClient(cfg.APIURL, tp)
		return sentimentapi.NewSnapshotSource(client, n, nil), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store.New(pool, n, nil), pool.Close, nil
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("sentiscope %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	// 1. Load config from .env and the environment.
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logging goes to a file; the terminal belongs to the TUI.
	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.Init(cfg.LogLevel, cfg.LogFormat, logFile)

	// 3. Build infrastructure.
	normalizer := dashboard.Normalizer{MetricsWindow: cfg.MetricsWindow}
	tokenProvider := auth.FromSetting(cfg.Token)

	source, closeSource, err := snapshotSource(context.Background(), cfg, tokenProvider, normalizer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database: %v\n", err)
		os.Exit(1)
	}
	defer closeSource()

	header := http.Header{}
	if bearer, err := auth.BearerHeader(tokenProvider); err != nil {
		logger.Warn("stream auth unavailable", "error", err)
	} else if bearer != "" {
		header.Set("Authorization", bearer)
	}
	transport, err := stream.FromURL(cfg.StreamURL, cfg.StreamTopic, header)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stream: %v\n", err)
		os.Exit(1)
	}
	streamClient := stream.NewClient(transport, stream.WithLogger(logger))

	uiState, err := config.LoadUIState(cfg.UIStatePath)
	if err != nil {
		logger.Warn("ignoring ui state", "error", err)
	}

	width, height, _ := term.GetSize(os.Stdout.Fd())

	// 4. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Loader: app.Loader{
			Source:    source,
			FeedLimit: cfg.FeedLimit,
			Hours:     cfg.Hours,
			Timeout:   cfg.FetchTimeout,
		},
		Stream:      streamClient,
		Pager:       pager.NewEnvPager(),
		Options:     boardOptions(cfg, uiState, normalizer, logger),
		UIStatePath: cfg.UIStatePath,
		Width:       width,
		Height:      height,
		Logger:      logger,
	})

	logger.Info("starting", "api", cfg.APIURL, "stream", transport.Name(), "postgres", cfg.DatabaseURL != "")

	// 5. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sentiscope: %v\n", err)
		os.Exit(1)
	}
}
