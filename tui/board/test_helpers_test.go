package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/sentiscope/app"
	"github.com/CrestNiraj12/sentiscope/dashboard"
	"github.com/CrestNiraj12/sentiscope/domain"
)

type stubSource struct {
	posts   []domain.Post
	dist    domain.Distribution
	top     []domain.EmotionCount
	trend   []domain.TrendPoint
	postErr error
}

func (s *stubSource) RecentPosts(context.Context, int) ([]domain.Post, error) {
	if s.postErr != nil {
		return nil, s.postErr
	}
	return s.posts, nil
}

func (s *stubSource) Distribution(context.Context, int) (app.DistributionSummary, error) {
	return app.DistributionSummary{Distribution: s.dist, TopEmotions: s.top}, nil
}

func (s *stubSource) RecentTrend(context.Context, int) ([]domain.TrendPoint, error) {
	return s.trend, nil
}

type stubHandle struct {
	mu     sync.Mutex
	closed int
}

func (h *stubHandle) Close() {
	h.mu.Lock()
	h.closed++
	h.mu.Unlock()
}

// stubStream records Connect calls; tests drive session messages directly.
type stubStream struct {
	mu       sync.Mutex
	handlers []app.StreamHandlers
	handles  []*stubHandle
}

func (s *stubStream) Connect(h app.StreamHandlers) app.StreamHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	handle := &stubHandle{}
	s.handlers = append(s.handlers, h)
	s.handles = append(s.handles, handle)
	return handle
}

func (s *stubStream) connects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

type stubPager struct {
	cleaned []string
}

func (p *stubPager) Cmd(domain.Post) (*exec.Cmd, string, error) {
	return nil, "", errors.New("no pager in tests")
}

func (p *stubPager) Cleanup(path string) { p.cleaned = append(p.cleaned, path) }

func makePost(id string, label domain.Label) domain.Post {
	return domain.Post{
		ID:        id,
		Author:    "user" + id,
		Content:   "content " + id,
		Sentiment: domain.SentimentResult{Label: label},
	}
}

func newTestModel(src *stubSource, stream *stubStream) Model {
	loader := app.Loader{Source: src, FeedLimit: dashboard.FeedCapacity, Hours: 24}
	return New(loader, stream, &stubPager{}, Options{
		AlertRatio:    0.5,
		AlertMinPosts: 5,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// run executes cmd and returns its message. Batches are not expanded.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func postEvent(gen int, id string, label string) streamEventMsg {
	return streamEventMsg{Gen: gen, Message: app.StreamMessage{Raw: map[string]any{
		"type": "new_post",
		"data": map[string]any{"id": id, "content": "c" + id, "sentiment": map[string]any{"label": label}},
	}}}
}

func metricsEvent(gen int, ts string, pos float64) streamEventMsg {
	return streamEventMsg{Gen: gen, Message: app.StreamMessage{Raw: map[string]any{
		"type":      "metrics_update",
		"timestamp": ts,
		"data":      map[string]any{"positive": pos, "negative": 0.0, "neutral": 0.0},
	}}}
}

func press(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
