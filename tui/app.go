package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/sentiscope/app"
	"github.com/CrestNiraj12/sentiscope/domain"
	"github.com/CrestNiraj12/sentiscope/infra/config"
	"github.com/CrestNiraj12/sentiscope/tui/board"
	"github.com/CrestNiraj12/sentiscope/tui/common"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Loader      app.Loader
	Stream      app.StreamClient
	Pager       app.Pager
	Options     board.Options
	UIStatePath string
	Width       int
	Height      int
	Logger      *slog.Logger
}

// App is the root Bubble Tea model. It owns quitting and UI state
// persistence and delegates everything else to the dashboard.
type App struct {
	deps  Deps
	board board.Model
	keys  common.KeyMap
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Options.Logger == nil {
		deps.Options.Logger = deps.Logger
	}
	b := board.New(deps.Loader, deps.Stream, deps.Pager, deps.Options)
	b.SetSize(deps.Width, deps.Height)
	return App{
		deps:  deps,
		board: b,
		keys:  common.DefaultKeyMap(),
	}
}

// Init delegates to the dashboard.
func (a App) Init() tea.Cmd {
	return a.board.Init()
}

// Update handles global keys and routes everything else to the dashboard.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, a.keys.Quit) {
		a.board.Stop()
		a.saveUIState()
		return a, tea.Quit
	}

	updated, cmd := a.board.Update(msg)
	a.board = updated
	return a, cmd
}

// View renders the dashboard.
func (a App) View() string {
	return a.board.View()
}

// Board exposes the dashboard model.
func (a App) Board() board.Model { return a.board }

func (a App) saveUIState() {
	if a.deps.UIStatePath == "" {
		return
	}
	mode := "counts"
	if a.board.TrendMode() == domain.ShapeConfidence {
		mode = "confidence"
	}
	st := config.UIState{Pane: string(a.board.Pane()), TrendMode: mode}
	if err := config.SaveUIState(a.deps.UIStatePath, st); err != nil {
		a.deps.Logger.Warn("saving ui state failed", "error", err)
	}
}
