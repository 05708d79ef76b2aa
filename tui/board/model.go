// Package board is the live dashboard: it owns the feed, distribution and
// trend state and drives the snapshot-then-stream session lifecycle.
package board

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/sentiscope/app"
	"github.com/CrestNiraj12/sentiscope/dashboard"
	"github.com/CrestNiraj12/sentiscope/domain"
	"github.com/CrestNiraj12/sentiscope/tui/common"
)

// Pane selects what the lower right panel shows.
type Pane string

const (
	PaneTrend    Pane = "trend"
	PaneEmotions Pane = "emotions"
)

// --- Messages ---

// SnapshotLoadedMsg is sent when the initial fetches succeed.
type SnapshotLoadedMsg struct {
	Gen      int
	Snapshot app.Snapshot
}

// SnapshotErrorMsg is sent when the snapshot load fails.
type SnapshotErrorMsg struct {
	Gen int
	Err error
}

// BackfillMsg carries historical trend points. Err is informational.
type BackfillMsg struct {
	Gen    int
	Points []domain.TrendPoint
	Err    error
}

// ResyncTickMsg schedules a distribution refresh.
type ResyncTickMsg struct {
	Gen int
}

// ResyncLoadedMsg carries a refreshed distribution.
type ResyncLoadedMsg struct {
	Gen     int
	Summary app.DistributionSummary
	Err     error
}

// EmotionTickMsg advances the emotion board's sliding window.
type EmotionTickMsg time.Time

// PagerDoneMsg is sent when the external pager exits.
type PagerDoneMsg struct {
	Path string
	Err  error
}

type streamOpenedMsg struct {
	Gen int
}

type streamEventMsg struct {
	Gen     int
	Message app.StreamMessage
}

type streamClosedMsg struct {
	Gen int
	Err error
}

// --- Model ---

// Options tunes the dashboard.
type Options struct {
	Normalizer    dashboard.Normalizer
	FeedLimit     int
	TrendPoints   int
	AlertRatio    float64
	AlertMinPosts int
	Resync        time.Duration // 0 disables periodic refresh
	TrendMode     domain.TrendShape
	Pane          Pane
	EmotionK      int
	EmotionWindow int // sliding window length in EmotionTick periods
	EmotionTick   time.Duration
	Logger        *slog.Logger
}

// Model is the dashboard view.
type Model struct {
	loader app.Loader
	stream app.StreamClient
	pager  app.Pager
	opts   Options
	logger *slog.Logger

	state     dashboard.State
	status    domain.ConnectionStatus
	statusErr error
	loading   bool
	gen       int // session generation; results from older sessions are dropped
	bridge    *streamBridge
	emotions  *emotionBoard

	cursor     int
	startIndex int
	pane       Pane
	trendMode  domain.TrendShape
	notice     string

	width     int
	height    int
	keys      common.KeyMap
	help      help.Model
	showHints bool
	spinner   spinner.Model
}

// New creates the dashboard. It starts in the connecting state; Init
// begins the snapshot load.
func New(loader app.Loader, stream app.StreamClient, pager app.Pager, opts Options) Model {
	if opts.EmotionK < 1 {
		opts.EmotionK = 5
	}
	if opts.EmotionTick <= 0 {
		opts.EmotionTick = time.Second
	}
	if opts.EmotionWindow < 1 {
		opts.EmotionWindow = 60
	}
	if opts.Pane == "" {
		opts.Pane = PaneTrend
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		loader:    loader,
		stream:    stream,
		pager:     pager,
		opts:      opts,
		logger:    logger,
		state:     dashboard.NewState(opts.FeedLimit, opts.TrendPoints),
		status:    domain.Connecting,
		loading:   true,
		gen:       1,
		emotions:  newEmotionBoard(opts.EmotionK, opts.EmotionWindow),
		pane:      opts.Pane,
		trendMode: opts.TrendMode,
		width:     100,
		height:    30,
		keys:      common.DefaultKeyMap(),
		help:      help.New(),
		spinner:   s,
	}
}

// Init starts the snapshot load, the spinner and the emotion window clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadSnapshot(m.gen),
		m.spinner.Tick,
		m.emotionTick(),
	)
}

// Stop closes the live session, if any. No stream message is delivered
// after it returns.
func (m Model) Stop() {
	if m.bridge != nil {
		m.bridge.stop()
	}
}

// State returns the current state triple.
func (m Model) State() dashboard.State { return m.state }

// Status returns the connection status.
func (m Model) Status() domain.ConnectionStatus { return m.status }

// Pane returns the lower right panel selection.
func (m Model) Pane() Pane { return m.pane }

// TrendMode returns the trend projection.
func (m Model) TrendMode() domain.TrendShape { return m.trendMode }

// SetSize sets the initial layout before the first WindowSizeMsg.
func (m *Model) SetSize(w, h int) {
	if w > 0 && h > 0 {
		m.width, m.height = w, h
	}
}
