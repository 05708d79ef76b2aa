package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/sentiscope/dashboard"
	"github.com/CrestNiraj12/sentiscope/domain"
	"github.com/CrestNiraj12/sentiscope/tui/common"
)

const (
	headerLines = 2
	footerLines = 2
	minPaneW    = 24
)

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	alert := dashboard.DeriveAlert(m.state.Distribution, m.opts.AlertRatio, m.opts.AlertMinPosts)
	if alert.Triggered {
		b.WriteString(m.renderAlert(alert))
		b.WriteString("\n")
	}

	leftW, rightW := m.paneWidths()
	bodyH := m.bodyHeight(alert.Triggered)

	left := common.PaneStyle.Width(leftW).Height(bodyH).Render(m.renderFeed(leftW, bodyH))

	distH := len(domain.Labels) + 2
	lowerH := max(bodyH-distH-2, 3)
	var lower string
	if m.pane == PaneEmotions {
		lower = m.renderEmotions(rightW, lowerH)
	} else {
		lower = m.renderTrend(rightW, lowerH)
	}
	right := lipgloss.JoinVertical(lipgloss.Left,
		common.PaneStyle.Width(rightW).Render(m.renderDistribution(rightW)),
		common.PaneStyle.Width(rightW).Height(lowerH).Render(lower),
	)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := common.AppTitleStyle.Render("◉ sentiscope")
	tagline := common.TaglineStyle.Render("live sentiment")

	indicator := common.StatusStyle(m.status).Render("● " + m.status.String())
	if m.loading {
		indicator = m.spinner.View() + " " + indicator
	}
	line := title + tagline + "  " + indicator
	if m.status == domain.Disconnected {
		hint := "press r to retry"
		if m.statusErr != nil {
			hint = m.statusErr.Error() + " · " + hint
		}
		line += "  " + common.ErrorStyle.Render(common.TruncateLine(hint, max(m.width-40, 10)))
	}
	if m.notice != "" {
		line += "  " + common.MutedStyle.Render(m.notice)
	}
	return line
}

func (m Model) renderAlert(a dashboard.Alert) string {
	text := fmt.Sprintf("⚠ negative/positive ratio %.2f exceeds %.2f (%d negative, %d positive of %d)",
		a.Ratio, a.Threshold, a.Negative, a.Positive, a.Total)
	return common.AlertStyle.Render(common.TruncateLine(text, max(m.width-2, 10)))
}

func (m Model) paneWidths() (int, int) {
	// Two bordered panes side by side; each border and padding costs 4 cells.
	avail := max(m.width-8, 2*minPaneW)
	left := avail * 55 / 100
	return left, avail - left
}

func (m Model) bodyHeight(alert bool) int {
	h := m.height - headerLines - footerLines - 2
	if alert {
		h--
	}
	return max(h, 8)
}

func (m Model) visibleFeedRows() int {
	// Pane title plus one row per post.
	return max(m.bodyHeight(false)-1, 1)
}

func (m Model) renderFeed(width, height int) string {
	var b strings.Builder
	b.WriteString(common.PaneTitleStyle.Render(fmt.Sprintf("Feed (%d)", m.state.Feed.Len())))
	b.WriteString("\n")

	n := m.state.Feed.Len()
	switch {
	case n == 0 && m.loading:
		b.WriteString(m.spinner.View() + " Loading snapshot...")
		return b.String()
	case n == 0:
		b.WriteString(common.MutedStyle.Render("No posts yet."))
		return b.String()
	}

	rows := min(max(height-1, 1), m.visibleFeedRows())
	start := min(m.startIndex, max(n-rows, 0))
	end := min(start+rows, n)
	for i := start; i < end; i++ {
		post, _ := m.state.Feed.At(i)
		b.WriteString(renderFeedRow(post, width, i == m.cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderFeedRow(p domain.Post, width int, selected bool) string {
	marker := "  "
	if selected {
		marker = common.SelectedStyle.Render("▸ ")
	}
	badge := common.LabelStyle(p.Sentiment.Label).Render(labelBadge(p.Sentiment.Label))
	author := common.AuthorStyle.Render(common.TruncateLine(p.Author, 14))

	prefixW := 2 + 4 + 15
	content := common.TruncateLine(p.Content, max(width-prefixW, 4))
	if selected {
		content = common.SelectedStyle.Render(content)
	} else {
		content = common.ContentStyle.Render(content)
	}
	return marker + badge + " " + common.PadRight(author, 14) + " " + content
}

func labelBadge(l domain.Label) string {
	switch l {
	case domain.Positive:
		return "[+]"
	case domain.Negative:
		return "[-]"
	default:
		return "[~]"
	}
}

func (m Model) renderDistribution(width int) string {
	var b strings.Builder
	d := m.state.Distribution
	b.WriteString(common.PaneTitleStyle.Render(fmt.Sprintf("Distribution (%d)", d.Total)))
	for _, s := range dashboard.DeriveSlices(d) {
		b.WriteString("\n")
		name := common.PadRight(string(s.Label), 9)
		stats := fmt.Sprintf(" %5d %5.1f%%", s.Value, s.Percent)
		barW := max(width-len(name)-len(stats)-1, 4)
		bar := common.LabelStyle(s.Label).Render(common.Bar(s.Percent, barW))
		b.WriteString(name + bar + stats)
	}
	return b.String()
}

func (m Model) renderEmotions(width, height int) string {
	var b strings.Builder
	b.WriteString(common.PaneTitleStyle.Render("Top emotions"))
	top := m.emotions.Top()
	if len(top) == 0 {
		b.WriteString("\n" + common.MutedStyle.Render("No emotions yet."))
		return b.String()
	}
	peak := top[0].Count
	for i, e := range top {
		if i >= height-1 {
			break
		}
		name := common.PadRight(fmt.Sprintf("#%d %s", i+1, common.TruncateLine(e.Emotion, 12)), 16)
		count := fmt.Sprintf(" %d", e.Count)
		barW := max(width-16-len(count), 4)
		b.WriteString("\n" + name + common.Bar(float64(e.Count)*100/float64(peak), barW) + count)
	}
	return b.String()
}
