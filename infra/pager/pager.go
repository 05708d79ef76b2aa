package pager

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/CrestNiraj12/sentiscope/domain"
)

// EnvPager prepares a pager command using $PAGER (fallback: "less").
// It does NOT run the pager itself; callers use tea.ExecProcess with the
// returned *exec.Cmd so Bubble Tea properly suspends raw terminal mode.
type EnvPager struct{}

// NewEnvPager creates an EnvPager.
func NewEnvPager() *EnvPager {
	return &EnvPager{}
}

// Cmd writes the post details to a temp file and returns the pager command
// for it along with the file path.
func (p *EnvPager) Cmd(post domain.Post) (*exec.Cmd, string, error) {
	fields := strings.Fields(os.Getenv("PAGER"))
	if len(fields) == 0 {
		fields = []string{"less"}
	}

	tmpFile, err := os.CreateTemp("", "sentiscope-*.txt")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(Format(post)); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	args := append(fields[1:], tmpPath)
	return exec.Command(fields[0], args...), tmpPath, nil
}

// Cleanup removes a file created by Cmd.
func (p *EnvPager) Cleanup(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

// Format renders a post as plain text for the pager.
func Format(post domain.Post) string {
	var b strings.Builder
	id := post.ID
	if id == "" {
		id = "-"
	}
	fmt.Fprintf(&b, "Post      %s\n", id)
	fmt.Fprintf(&b, "Author    %s\n", post.Author)
	if post.Source != "" {
		fmt.Fprintf(&b, "Source    %s\n", post.Source)
	}
	if post.CreatedAt != "" {
		fmt.Fprintf(&b, "Created   %s\n", post.CreatedAt)
	}
	fmt.Fprintf(&b, "Sentiment %s", post.Sentiment.Label)
	if post.Sentiment.HasConfidence {
		fmt.Fprintf(&b, " (%.0f%%)", post.Sentiment.Confidence*100)
	}
	b.WriteString("\n")
	if post.Sentiment.Emotion != "" {
		fmt.Fprintf(&b, "Emotion   %s\n", post.Sentiment.Emotion)
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(post.Content))
	b.WriteString("\n")
	return b.String()
}
