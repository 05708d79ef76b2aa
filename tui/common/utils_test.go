package common

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestTruncateLine(t *testing.T) {
	if got := TruncateLine("hello\n  world", 20); got != "hello world" {
		t.Fatalf("unexpected flatten result: %q", got)
	}
	got := TruncateLine("a fairly long line of text", 10)
	if ansi.StringWidth(got) != 10 || got[len(got)-len("…"):] != "…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := TruncateLine("x", 0); got != "" {
		t.Fatalf("zero width should be empty: %q", got)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		percent float64
		width   int
		want    string
	}{
		{0, 4, "░░░░"},
		{50, 4, "██░░"},
		{100, 4, "████"},
		{150, 2, "██"},
		{50, 0, ""},
	}
	for _, tt := range tests {
		if got := Bar(tt.percent, tt.width); got != tt.want {
			t.Fatalf("Bar(%v, %d) = %q, want %q", tt.percent, tt.width, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Fatalf("unexpected pad: %q", got)
	}
	if got := PadRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("longer strings must not be cut: %q", got)
	}
}
