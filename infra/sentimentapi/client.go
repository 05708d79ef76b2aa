package sentimentapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/CrestNiraj12/sentiscope/domain"
	"github.com/CrestNiraj12/sentiscope/infra/auth"
)

// Client is a thin HTTP wrapper for the sentiment backend's REST API.
// It handles base URL construction and optional bearer token injection.
type Client struct {
	baseURL       string
	tokenProvider auth.TokenProvider
	http          *http.Client
}

// NewClient creates an API client. tp may be nil for unauthenticated
// backends.
func NewClient(baseURL string, tp auth.TokenProvider) *Client {
	return &Client{
		baseURL:       baseURL,
		tokenProvider: tp,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

// Get performs a GET request and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	bearer, err := auth.BearerHeader(c.tokenProvider)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("API GET %s: %w", path, domain.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API GET %s returned %d: %s", path, resp.StatusCode, string(data))
	}

	return data, nil
}
