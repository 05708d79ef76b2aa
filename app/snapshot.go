package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/CrestNiraj12/sentiscope/domain"
)

// DistributionSummary is the distribution endpoint's payload after
// normalisation.
type DistributionSummary struct {
	Distribution domain.Distribution
	TopEmotions  []domain.EmotionCount
}

// SnapshotSource serves the point-in-time reads used to seed state.
// Implemented by infrastructure (HTTP API, Postgres).
type SnapshotSource interface {
	// RecentPosts returns up to limit posts, newest first.
	RecentPosts(ctx context.Context, limit int) ([]domain.Post, error)

	// Distribution returns label counts over the last hours.
	Distribution(ctx context.Context, hours int) (DistributionSummary, error)
}

// TrendHistory is an optional capability of a SnapshotSource: recent
// per-minute trend points, oldest first.
type TrendHistory interface {
	RecentTrend(ctx context.Context, limit int) ([]domain.TrendPoint, error)
}

// Snapshot is the seed state produced by a successful load.
type Snapshot struct {
	Posts        []domain.Post
	Distribution domain.Distribution
	TopEmotions  []domain.EmotionCount
}

// Loader performs the initial fetches. One attempt per call, no retries.
type Loader struct {
	Source    SnapshotSource
	FeedLimit int
	Hours     int
	Timeout   time.Duration // 0 disables the deadline.
}

// Load fetches recent posts and the distribution summary concurrently.
// It succeeds only if both succeed; the first failure cancels the other
// fetch and is returned as a *domain.FetchError.
func (l Loader) Load(ctx context.Context) (Snapshot, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	var (
		posts   []domain.Post
		summary DistributionSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = l.Source.RecentPosts(gctx, l.FeedLimit)
		return asFetchError("posts", err)
	})
	g.Go(func() error {
		var err error
		summary, err = l.Source.Distribution(gctx, l.Hours)
		return asFetchError("distribution", err)
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Posts:        posts,
		Distribution: summary.Distribution,
		TopEmotions:  summary.TopEmotions,
	}, nil
}

// Distribution fetches only the distribution summary, for resyncs.
func (l Loader) Distribution(ctx context.Context) (DistributionSummary, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	summary, err := l.Source.Distribution(ctx, l.Hours)
	if err != nil {
		return DistributionSummary{}, asFetchError("distribution", err)
	}
	return summary, nil
}

// Backfill returns recent trend history when the source supports it.
// ok is false when it does not.
func (l Loader) Backfill(ctx context.Context, limit int) (points []domain.TrendPoint, ok bool, err error) {
	h, supported := l.Source.(TrendHistory)
	if !supported {
		return nil, false, nil
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	points, err = h.RecentTrend(ctx, limit)
	if err != nil {
		return nil, true, asFetchError("trend", err)
	}
	return points, true, nil
}

func (l Loader) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.Timeout)
}

func asFetchError(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &domain.FetchError{Op: op, Err: err}
}
