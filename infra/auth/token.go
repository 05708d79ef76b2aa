package auth

import (
	"fmt"
	"os"
	"strings"
)

// TokenProvider supplies an access token for API authentication.
type TokenProvider interface {
	AccessToken() (string, error)
}

// FileTokenProvider reads a bearer token from a file on disk.
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider creates a TokenProvider that reads from the given file path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// AccessToken reads and returns the token, trimming whitespace.
// The file is re-read on every call so a rotated token is picked up on the
// next snapshot or reconnect.
func (f *FileTokenProvider) AccessToken() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", f.path)
	}

	return token, nil
}

// StaticToken is a TokenProvider holding a fixed token value.
type StaticToken string

// AccessToken returns the token, or an error when it is blank.
func (s StaticToken) AccessToken() (string, error) {
	token := strings.TrimSpace(string(s))
	if token == "" {
		return "", fmt.Errorf("static token is empty")
	}
	return token, nil
}

// FromSetting resolves SENTISCOPE_TOKEN. An empty value disables
// authentication (nil provider). A value naming an existing file is read
// through FileTokenProvider; anything else is used as the token itself.
func FromSetting(value string) TokenProvider {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		return NewFileTokenProvider(value)
	}
	return StaticToken(value)
}

// BearerHeader returns the Authorization header value for tp, or "" when tp
// is nil.
func BearerHeader(tp TokenProvider) (string, error) {
	if tp == nil {
		return "", nil
	}
	token, err := tp.AccessToken()
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}
