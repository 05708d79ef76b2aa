package common

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// TruncateLine flattens s to a single line and cuts it to width cells,
// ending with an ellipsis when it was cut.
func TruncateLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// Bar renders a horizontal bar of width cells filled to percent (0..100).
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent*float64(width)/100 + 0.5)
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
