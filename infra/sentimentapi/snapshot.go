package sentimentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/CrestNiraj12/sentiscope/app"
	"github.com/CrestNiraj12/sentiscope/dashboard"
	"github.com/CrestNiraj12/sentiscope/domain"
)

// snapshotSource implements app.SnapshotSource and app.TrendHistory using
// the backend's REST endpoints.
type snapshotSource struct {
	client     *Client
	normalizer dashboard.Normalizer
	clock      clockwork.Clock
}

// NewSnapshotSource creates a SnapshotSource backed by the REST API.
// The normalizer formats backfilled trend timestamps.
func NewSnapshotSource(client *Client, n dashboard.Normalizer, clock clockwork.Clock) *snapshotSource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &snapshotSource{client: client, normalizer: n, clock: clock}
}

// RecentPosts calls GET /api/posts?limit=N. Both {"posts": [...]} and a
// bare array are accepted.
func (s *snapshotSource) RecentPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	path := "/api/posts"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	data, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, &domain.FetchError{Op: "posts", Err: err}
	}

	var records []map[string]any
	var envelope struct {
		Posts []map[string]any `json:"posts"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		records = envelope.Posts
	} else if err := json.Unmarshal(data, &records); err != nil {
		return nil, &domain.FetchError{Op: "posts", Err: fmt.Errorf("parsing posts: %w", err)}
	}

	posts := make([]domain.Post, 0, len(records))
	for _, r := range records {
		posts = append(posts, dashboard.NormalizePost(r))
	}
	return posts, nil
}

// Distribution calls GET /api/sentiment/distribution[?hours=H].
func (s *snapshotSource) Distribution(ctx context.Context, hours int) (app.DistributionSummary, error) {
	path := "/api/sentiment/distribution"
	if hours > 0 {
		path += "?hours=" + strconv.Itoa(hours)
	}
	data, err := s.client.Get(ctx, path)
	if err != nil {
		return app.DistributionSummary{}, &domain.FetchError{Op: "distribution", Err: err}
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if err == nil {
			err = fmt.Errorf("empty body")
		}
		return app.DistributionSummary{}, &domain.FetchError{Op: "distribution", Err: fmt.Errorf("parsing distribution: %w", err)}
	}
	return app.DistributionSummary{
		Distribution: dashboard.NormalizeDistribution(raw),
		TopEmotions:  dashboard.NormalizeTopEmotions(raw),
	}, nil
}

// RecentTrend calls GET /api/sentiment/aggregate?period=minute for the
// last limit minutes and returns at most limit points, oldest first.
func (s *snapshotSource) RecentTrend(ctx context.Context, limit int) ([]domain.TrendPoint, error) {
	if limit <= 0 {
		return nil, nil
	}
	start := s.clock.Now().UTC().Add(-time.Duration(limit) * time.Minute)
	q := url.Values{}
	q.Set("period", "minute")
	q.Set("start_date", start.Format("2006-01-02T15:04:05"))

	data, err := s.client.Get(ctx, "/api/sentiment/aggregate?"+q.Encode())
	if err != nil {
		return nil, &domain.FetchError{Op: "trend", Err: err}
	}
	var body struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &domain.FetchError{Op: "trend", Err: fmt.Errorf("parsing aggregate: %w", err)}
	}

	rows := body.Data
	if len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	points := make([]domain.TrendPoint, 0, len(rows))
	for _, row := range rows {
		// Rows carry *_count keys; the normaliser reads them as a tick.
		ev := s.normalizer.Normalize(map[string]any{
			"type":      dashboard.TypeMetricsUpdate,
			"timestamp": row["timestamp"],
			"data":      row,
		}, s.clock.Now())
		if ev.Kind != dashboard.KindMetricsTick {
			continue
		}
		if c, ok := row["average_confidence"].(float64); ok {
			ev.Tick.Confidence = c
		}
		points = append(points, ev.Tick)
	}
	return points, nil
}
