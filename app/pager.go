package app

import (
	"os/exec"

	"github.com/CrestNiraj12/sentiscope/domain"
)

// Pager prepares an external viewer for a single post.
// Implemented by infrastructure (EnvPager spawning $PAGER). The returned
// command is run through tea.ExecProcess; Cleanup removes the temp file
// once the viewer exits.
type Pager interface {
	Cmd(post domain.Post) (*exec.Cmd, string, error)
	Cleanup(path string)
}
