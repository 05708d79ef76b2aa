package common

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/sentiscope/domain"
)

var (
	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6600")).
			Padding(0, 1)

	// TaglineStyle styles the app's tagline.
	TaglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")). // Dimmed grey
			Italic(true).
			MarginLeft(1)

	// PaneTitleStyle styles pane headings.
	PaneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4"))

	// PaneStyle frames a dashboard pane.
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	// AuthorStyle styles the post author name.
	AuthorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4"))

	// TimestampStyle styles timestamps.
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// ContentStyle styles post content text.
	ContentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// SelectedStyle highlights the currently selected post.
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6600")).
			Bold(true)

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Padding(1, 0, 0, 0)

	// AlertStyle styles the negative-ratio banner.
	AlertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E2030")).
			Background(lipgloss.Color("#ED8796")).
			Bold(true).
			Padding(0, 1)

	// ErrorStyle styles error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// SuccessStyle styles success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true)

	// PendingStyle styles in-progress indicators.
	PendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EED49F")).
			Bold(true)

	// MutedStyle styles secondary text.
	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))
)

var labelColors = map[domain.Label]lipgloss.Color{
	domain.Positive: lipgloss.Color("#A6DA95"),
	domain.Negative: lipgloss.Color("#ED8796"),
	domain.Neutral:  lipgloss.Color("#8087A2"),
}

// LabelStyle returns the colour style for a sentiment label.
func LabelStyle(l domain.Label) lipgloss.Style {
	c, ok := labelColors[l]
	if !ok {
		c = labelColors[domain.Neutral]
	}
	return lipgloss.NewStyle().Foreground(c)
}

// StatusStyle returns the indicator style for a connection status.
func StatusStyle(s domain.ConnectionStatus) lipgloss.Style {
	switch s {
	case domain.Connected:
		return SuccessStyle
	case domain.Connecting:
		return PendingStyle
	default:
		return ErrorStyle
	}
}
