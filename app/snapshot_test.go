package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CrestNiraj12/sentiscope/domain"
)

type stubSource struct {
	posts    []domain.Post
	summary  DistributionSummary
	postsErr error
	distErr  error
	block    bool
	started  atomic.Int32
	gotLimit int
	gotHours int
	trend    []domain.TrendPoint
}

func (s *stubSource) RecentPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	s.started.Add(1)
	s.gotLimit = limit
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.posts, s.postsErr
}

func (s *stubSource) Distribution(ctx context.Context, hours int) (DistributionSummary, error) {
	s.started.Add(1)
	s.gotHours = hours
	if s.postsErr != nil && s.distErr == nil {
		// Wait for the sibling failure to cancel us.
		<-ctx.Done()
		return DistributionSummary{}, ctx.Err()
	}
	return s.summary, s.distErr
}

type trendSource struct {
	*stubSource
}

func (s trendSource) RecentTrend(context.Context, int) ([]domain.TrendPoint, error) {
	return s.trend, nil
}

func TestLoader_LoadSuccess(t *testing.T) {
	src := &stubSource{
		posts:   []domain.Post{{ID: "2"}, {ID: "1"}},
		summary: DistributionSummary{Distribution: domain.Distribution{Total: 2, Counts: map[domain.Label]int{domain.Positive: 2}}},
	}
	snap, err := Loader{Source: src, FeedLimit: 50, Hours: 24}.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(snap.Posts) != 2 || snap.Distribution.Total != 2 {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
	if src.gotLimit != 50 || src.gotHours != 24 || src.started.Load() != 2 {
		t.Fatalf("unexpected calls: limit=%d hours=%d started=%d", src.gotLimit, src.gotHours, src.started.Load())
	}
}

func TestLoader_PartialFailureFailsAsUnit(t *testing.T) {
	boom := errors.New("connection refused")
	src := &stubSource{postsErr: boom, summary: DistributionSummary{Distribution: domain.Distribution{Total: 1}}}

	snap, err := Loader{Source: src}.Load(context.Background())
	if err == nil {
		t.Fatalf("expected failure when one fetch fails")
	}
	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.Op != "posts" || !errors.Is(err, boom) {
		t.Fatalf("expected posts FetchError wrapping cause, got %v", err)
	}
	if snap.Distribution.Total != 0 {
		t.Fatalf("partial results must not leak: %#v", snap)
	}
}

func TestLoader_DistributionFailure(t *testing.T) {
	src := &stubSource{distErr: errors.New("bad json")}
	_, err := Loader{Source: src}.Load(context.Background())
	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.Op != "distribution" {
		t.Fatalf("expected distribution FetchError, got %v", err)
	}
}

func TestLoader_Timeout(t *testing.T) {
	src := &stubSource{block: true}
	start := time.Now()
	_, err := Loader{Source: src, Timeout: 20 * time.Millisecond}.Load(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout not enforced")
	}
}

func TestLoader_Backfill(t *testing.T) {
	plain := &stubSource{}
	if _, ok, err := (Loader{Source: plain}).Backfill(context.Background(), 20); ok || err != nil {
		t.Fatalf("source without history should report unsupported, ok=%v err=%v", ok, err)
	}

	withTrend := trendSource{&stubSource{trend: []domain.TrendPoint{{Timestamp: "a"}}}}
	points, ok, err := Loader{Source: withTrend}.Backfill(context.Background(), 20)
	if !ok || err != nil || len(points) != 1 {
		t.Fatalf("unexpected backfill: points=%v ok=%v err=%v", points, ok, err)
	}
}

func TestLoader_DistributionOnly(t *testing.T) {
	src := &stubSource{summary: DistributionSummary{Distribution: domain.Distribution{Total: 7}}}
	got, err := Loader{Source: src, Hours: 6}.Distribution(context.Background())
	if err != nil || got.Distribution.Total != 7 || src.gotHours != 6 {
		t.Fatalf("unexpected resync result: %#v err=%v", got, err)
	}
}
