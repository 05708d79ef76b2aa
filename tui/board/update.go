package board

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/sentiscope/dashboard"
	"github.com/CrestNiraj12/sentiscope/domain"
)

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EmotionTickMsg:
		m.emotions.Tick()
		return m, m.emotionTick()

	case PagerDoneMsg:
		if m.pager != nil {
			m.pager.Cleanup(msg.Path)
		}
		if msg.Err != nil {
			m.notice = "Pager: " + msg.Err.Error()
		}
		return m, nil

	case SnapshotLoadedMsg, SnapshotErrorMsg, BackfillMsg, ResyncTickMsg, ResyncLoadedMsg:
		return m.handleSnapshotMsg(msg)

	case streamOpenedMsg, streamEventMsg, streamClosedMsg:
		return m.handleStreamMsg(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleSnapshotMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		snap := msg.Snapshot
		m.state = dashboard.Seed(m.state, snap.Posts, snap.Distribution)
		// A reload replaces the seeded counts rather than adding to them.
		m.emotions = newEmotionBoard(m.opts.EmotionK, m.opts.EmotionWindow)
		m.emotions.Seed(snap.TopEmotions)
		m.loading = false
		m.statusErr = nil
		m.cursor, m.startIndex = 0, 0
		m.logger.Info("snapshot loaded", "posts", len(snap.Posts), "total", snap.Distribution.Total)
		if m.state.Trend.Len() == 0 {
			return m, m.backfill(m.gen)
		}
		return m.connect()

	case SnapshotErrorMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.status = m.status.Next(domain.SnapshotFailed)
		m.statusErr = msg.Err
		m.loading = false
		m.logger.Error("snapshot failed", "error", msg.Err)
		return m, nil

	case BackfillMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("trend backfill failed", "error", msg.Err)
		} else if len(msg.Points) > 0 {
			m.state = dashboard.Backfill(m.state, msg.Points)
			m.logger.Debug("trend backfilled", "points", len(msg.Points))
		}
		return m.connect()

	case ResyncTickMsg:
		if msg.Gen != m.gen || m.status == domain.Disconnected {
			return m, nil
		}
		return m, m.resync(msg.Gen)

	case ResyncLoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("distribution resync failed", "error", msg.Err)
		} else {
			m.state = dashboard.Resync(m.state, msg.Summary.Distribution)
		}
		return m, m.scheduleResync(msg.Gen)
	}
	return m, nil
}

// connect opens the session for the current generation. It only runs
// after a successful snapshot.
func (m Model) connect() (Model, tea.Cmd) {
	if m.stream == nil {
		return m, nil
	}
	if m.bridge != nil {
		m.bridge.stop()
	}
	m.bridge = openStream(m.stream, m.gen)
	return m, tea.Batch(m.bridge.wait(), m.scheduleResync(m.gen))
}

func (m Model) handleStreamMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case streamOpenedMsg:
		if m.bridge == nil || msg.Gen != m.gen {
			return m, nil
		}
		m.status = m.status.Next(domain.StreamOpened)
		m.logger.Info("stream connected")
		return m, m.bridge.wait()

	case streamEventMsg:
		if m.bridge == nil || msg.Gen != m.gen {
			return m, nil
		}
		m.applyEvent(msg)
		return m, m.bridge.wait()

	case streamClosedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.bridge = nil
		m.status = m.status.Next(domain.StreamClosed)
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrSessionClosed) {
			m.statusErr = msg.Err
			m.logger.Warn("stream closed", "error", msg.Err)
		} else {
			m.logger.Info("stream closed")
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) applyEvent(msg streamEventMsg) {
	ev := m.opts.Normalizer.Normalize(msg.Message.Raw, msg.Message.ReceivedAt)
	switch ev.Kind {
	case dashboard.KindNewPost:
		full := m.state.Feed.Len() == m.state.Feed.Cap()
		m.state = dashboard.Reduce(m.state, ev)
		m.emotions.Observe(ev.Post.Sentiment.Emotion)
		// Keep the selection on the same post while the feed grows above it.
		if m.cursor > 0 {
			if !full || m.cursor < m.state.Feed.Len()-1 {
				m.cursor++
				m.startIndex++
			}
			m.ensureCursorVisible()
		}
	case dashboard.KindMetricsTick:
		m.state = dashboard.Reduce(m.state, ev)
	case dashboard.KindConnected:
		m.logger.Debug("stream greeting")
	default:
		m.logger.Debug("ignored stream message", "type", ev.Type)
	}
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Retry):
		if m.status != domain.Disconnected {
			return m, nil
		}
		m.status = m.status.Next(domain.Retry)
		m.statusErr = nil
		m.notice = ""
		m.loading = true
		m.gen++
		return m, tea.Batch(m.loadSnapshot(m.gen), m.spinner.Tick)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.state.Feed.Len()-1 {
			m.cursor++
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Top):
		m.cursor, m.startIndex = 0, 0

	case key.Matches(msg, m.keys.Open):
		return m, m.openPager()

	case key.Matches(msg, m.keys.TrendMode):
		if m.trendMode == domain.ShapeCounts {
			m.trendMode = domain.ShapeConfidence
		} else {
			m.trendMode = domain.ShapeCounts
		}

	case key.Matches(msg, m.keys.SwitchPane):
		if m.pane == PaneTrend {
			m.pane = PaneEmotions
		} else {
			m.pane = PaneTrend
		}

	case key.Matches(msg, m.keys.ToggleHints):
		m.showHints = !m.showHints
		m.help.ShowAll = m.showHints
	}
	return m, nil
}

func (m *Model) ensureCursorVisible() {
	n := m.state.Feed.Len()
	if n == 0 {
		m.cursor, m.startIndex = 0, 0
		return
	}
	m.cursor = min(max(m.cursor, 0), n-1)
	visible := m.visibleFeedRows()
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
	}
	if m.cursor >= m.startIndex+visible {
		m.startIndex = m.cursor - visible + 1
	}
	m.startIndex = min(max(m.startIndex, 0), max(n-visible, 0))
}
