package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	plot "github.com/chriskim06/drawille-go"

	"github.com/CrestNiraj12/sentiscope/dashboard"
	"github.com/CrestNiraj12/sentiscope/domain"
	"github.com/CrestNiraj12/sentiscope/tui/common"
)

var seriesColors = map[domain.Label]plot.Color{
	domain.Positive: plot.Green,
	domain.Negative: plot.Red,
	domain.Neutral:  plot.DimGray,
}

func (m Model) renderTrend(width, height int) string {
	points := m.state.Trend.Items()
	title := "Trend · counts"
	if m.trendMode == domain.ShapeConfidence {
		title = "Trend · confidence"
	}

	var b strings.Builder
	b.WriteString(common.PaneTitleStyle.Render(title))
	if len(points) == 0 {
		b.WriteString("\n" + common.MutedStyle.Render("Waiting for metrics..."))
		return b.String()
	}

	data, colors := trendData(points, m.trendMode)
	chart := drawChart(data, colors, width, max(height-2, 2))
	b.WriteString("\n")
	b.WriteString(chart)
	b.WriteString("\n")
	b.WriteString(m.trendFooter(points, width))
	return b.String()
}

// trendData picks the series for the chosen projection. Counts mode draws
// one line per label unless every point is a confidence sample.
func trendData(points []domain.TrendPoint, mode domain.TrendShape) ([][]float64, []plot.Color) {
	if mode == domain.ShapeConfidence {
		return [][]float64{dashboard.TrendConfidence(points)}, []plot.Color{plot.LightGray}
	}
	allConfidence := true
	for _, p := range points {
		if p.Shape != domain.ShapeConfidence {
			allConfidence = false
			break
		}
	}
	if allConfidence {
		return [][]float64{dashboard.TrendValues(points)}, []plot.Color{plot.LightGray}
	}
	series := dashboard.TrendSeries(points)
	data := make([][]float64, 0, len(domain.Labels))
	colors := make([]plot.Color, 0, len(domain.Labels))
	for _, l := range domain.Labels {
		data = append(data, series[l])
		colors = append(colors, seriesColors[l])
	}
	return data, colors
}

func drawChart(data [][]float64, colors []plot.Color, width, height int) string {
	n := 0
	for _, s := range data {
		n = max(n, len(s))
	}
	// A single sample cannot form a line; repeat it.
	if n == 1 {
		for i, s := range data {
			data[i] = []float64{s[0], s[0]}
		}
		n = 2
	}
	c := plot.NewCanvas(width, height)
	c.NumDataPoints = n
	c.ShowAxis = false
	c.LineColors = colors
	c.Fill(data)
	return c.String()
}

func (m Model) trendFooter(points []domain.TrendPoint, width int) string {
	first, last := points[0], points[len(points)-1]
	var legend string
	if m.trendMode == domain.ShapeConfidence {
		legend = fmt.Sprintf("conf %.2f", last.Confidence)
	} else {
		parts := make([]string, 0, len(domain.Labels))
		for _, l := range domain.Labels {
			parts = append(parts, common.LabelStyle(l).Render(fmt.Sprintf("%s %.0f", l, last.Count(l))))
		}
		legend = strings.Join(parts, " ")
	}
	span := common.MutedStyle.Render(first.Timestamp + " → " + last.Timestamp)
	if ansi.StringWidth(span)+2+ansi.StringWidth(legend) > width {
		return legend
	}
	return span + "  " + legend
}
