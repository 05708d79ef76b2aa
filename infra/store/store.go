// Package store reads dashboard snapshots straight from the pipeline's
// Postgres tables (social_media_posts, sentiment_analysis).
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/CrestNiraj12/sentiscope/app"
	"github.com/CrestNiraj12/sentiscope/dashboard"
	"github.com/CrestNiraj12/sentiscope/domain"
)

const topEmotionLimit = 5

const recentPostsSQL = `
SELECT p.post_id, p.author, p.content, p.source, p.created_at,
       a.sentiment_label, a.confidence_score, a.emotion
FROM social_media_posts p
JOIN sentiment_analysis a ON a.post_id = p.post_id
ORDER BY p.created_at DESC
LIMIT $1`

const distributionSQL = `
SELECT a.sentiment_label, count(a.id)
FROM sentiment_analysis a
JOIN social_media_posts p ON p.post_id = a.post_id
WHERE a.analyzed_at >= $1
GROUP BY a.sentiment_label`

const topEmotionsSQL = `
SELECT a.emotion, count(a.id) AS n
FROM sentiment_analysis a
WHERE a.analyzed_at >= $1 AND a.emotion IS NOT NULL AND a.emotion <> ''
GROUP BY a.emotion
ORDER BY n DESC
LIMIT $2`

const trendSQL = `
SELECT date_trunc('minute', a.analyzed_at) AS ts,
       count(a.id) FILTER (WHERE a.sentiment_label = 'positive'),
       count(a.id) FILTER (WHERE a.sentiment_label = 'negative'),
       count(a.id) FILTER (WHERE a.sentiment_label = 'neutral'),
       avg(a.confidence_score)
FROM sentiment_analysis a
WHERE a.analyzed_at >= $1
GROUP BY ts
ORDER BY ts`

// Querier is the subset of *pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store implements app.SnapshotSource and app.TrendHistory over Postgres.
type Store struct {
	db         Querier
	normalizer dashboard.Normalizer
	clock      clockwork.Clock
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// New creates a Store. The normalizer formats trend timestamps.
func New(db Querier, n dashboard.Normalizer, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{db: db, normalizer: n, clock: clock}
}

// RecentPosts returns up to limit analysed posts, newest first.
func (s *Store) RecentPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	rows, err := s.db.Query(ctx, recentPostsSQL, limit)
	if err != nil {
		return nil, &domain.FetchError{Op: "posts", Err: err}
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var (
			id, content, label string
			author, source     *string
			emotion            *string
			createdAt          time.Time
			confidence         *float64
		)
		if err := rows.Scan(&id, &author, &content, &source, &createdAt, &label, &confidence, &emotion); err != nil {
			return nil, &domain.FetchError{Op: "posts", Err: fmt.Errorf("scanning post: %w", err)}
		}
		sentiment := map[string]any{"label": label}
		if confidence != nil {
			sentiment["confidence"] = *confidence
		}
		if emotion != nil {
			sentiment["emotion"] = *emotion
		}
		posts = append(posts, dashboard.NormalizePost(map[string]any{
			"post_id":    id,
			"author":     deref(author),
			"content":    content,
			"source":     deref(source),
			"created_at": createdAt.UTC().Format(time.RFC3339),
			"sentiment":  sentiment,
		}))
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FetchError{Op: "posts", Err: err}
	}
	return posts, nil
}

// Distribution counts analyses per label over the last hours, plus the
// most frequent emotions.
func (s *Store) Distribution(ctx context.Context, hours int) (app.DistributionSummary, error) {
	since := s.clock.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	counts, err := s.countBy(ctx, distributionSQL, since)
	if err != nil {
		return app.DistributionSummary{}, &domain.FetchError{Op: "distribution", Err: err}
	}
	emotions, err := s.countBy(ctx, topEmotionsSQL, since, topEmotionLimit)
	if err != nil {
		return app.DistributionSummary{}, &domain.FetchError{Op: "distribution", Err: err}
	}

	raw := map[string]any{"distribution": counts, "top_emotions": emotions}
	return app.DistributionSummary{
		Distribution: dashboard.NormalizeDistribution(raw),
		TopEmotions:  dashboard.NormalizeTopEmotions(raw),
	}, nil
}

// RecentTrend returns per-minute buckets for the last limit minutes,
// oldest first.
func (s *Store) RecentTrend(ctx context.Context, limit int) ([]domain.TrendPoint, error) {
	if limit <= 0 {
		return nil, nil
	}
	since := s.clock.Now().UTC().Add(-time.Duration(limit) * time.Minute)
	rows, err := s.db.Query(ctx, trendSQL, since)
	if err != nil {
		return nil, &domain.FetchError{Op: "trend", Err: err}
	}
	defer rows.Close()

	var points []domain.TrendPoint
	for rows.Next() {
		var (
			ts            time.Time
			pos, neg, neu int64
			avg           *float64
		)
		if err := rows.Scan(&ts, &pos, &neg, &neu, &avg); err != nil {
			return nil, &domain.FetchError{Op: "trend", Err: fmt.Errorf("scanning bucket: %w", err)}
		}
		ev := s.normalizer.Normalize(map[string]any{
			"type":      dashboard.TypeMetricsUpdate,
			"timestamp": ts.UTC().Format(time.RFC3339),
			"data":      map[string]any{"positive": pos, "negative": neg, "neutral": neu},
		}, ts)
		if avg != nil {
			ev.Tick.Confidence = *avg
		}
		points = append(points, ev.Tick)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.FetchError{Op: "trend", Err: err}
	}
	if len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points, nil
}

func (s *Store) countBy(ctx context.Context, sql string, args ...any) (map[string]any, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]any)
	for rows.Next() {
		var (
			key *string
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		if key != nil {
			out[*key] = n
		}
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
