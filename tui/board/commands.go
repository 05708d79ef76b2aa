package board

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) loadSnapshot(gen int) tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		snap, err := loader.Load(context.Background())
		if err != nil {
			return SnapshotErrorMsg{Gen: gen, Err: err}
		}
		return SnapshotLoadedMsg{Gen: gen, Snapshot: snap}
	}
}

func (m Model) backfill(gen int) tea.Cmd {
	loader := m.loader
	limit := m.state.Trend.Cap()
	return func() tea.Msg {
		points, _, err := loader.Backfill(context.Background(), limit)
		return BackfillMsg{Gen: gen, Points: points, Err: err}
	}
}

func (m Model) scheduleResync(gen int) tea.Cmd {
	if m.opts.Resync <= 0 {
		return nil
	}
	return tea.Tick(m.opts.Resync, func(time.Time) tea.Msg {
		return ResyncTickMsg{Gen: gen}
	})
}

func (m Model) resync(gen int) tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		summary, err := loader.Distribution(context.Background())
		return ResyncLoadedMsg{Gen: gen, Summary: summary, Err: err}
	}
}

func (m Model) emotionTick() tea.Cmd {
	return tea.Tick(m.opts.EmotionTick, func(t time.Time) tea.Msg {
		return EmotionTickMsg(t)
	})
}

func (m Model) openPager() tea.Cmd {
	if m.pager == nil {
		return nil
	}
	post, ok := m.state.Feed.At(m.cursor)
	if !ok {
		return nil
	}
	cmd, path, err := m.pager.Cmd(post)
	if err != nil {
		return func() tea.Msg { return PagerDoneMsg{Err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return PagerDoneMsg{Path: path, Err: err}
	})
}
