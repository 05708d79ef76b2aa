package sentimentapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/CrestNiraj12/sentiscope/dashboard"
	"github.com/CrestNiraj12/sentiscope/domain"
	"github.com/CrestNiraj12/sentiscope/infra/auth"
)

type handlerRoundTripper struct {
	h http.Handler
}

func (rt handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := newResponseRecorder()
	rt.h.ServeHTTP(rec, req)
	return rec.response(req), nil
}

type responseRecorder struct {
	header http.Header
	body   strings.Builder
	code   int
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header), code: http.StatusOK}
}

func (r *responseRecorder) Header() http.Header         { return r.header }
func (r *responseRecorder) Write(p []byte) (int, error) { return r.body.Write(p) }
func (r *responseRecorder) WriteHeader(statusCode int)  { r.code = statusCode }

func (r *responseRecorder) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: r.code,
		Header:     r.header.Clone(),
		Body:       io.NopCloser(strings.NewReader(r.body.String())),
		Request:    req,
	}
}

func newTestClient(h http.Handler, tp auth.TokenProvider) *Client {
	return &Client{
		baseURL:       "http://example.test",
		tokenProvider: tp,
		http:          &http.Client{Transport: handlerRoundTripper{h: h}},
	}
}

func newTestSource(h http.Handler, clock clockwork.Clock) *snapshotSource {
	n := dashboard.Normalizer{Location: time.UTC}
	return NewSnapshotSource(newTestClient(h, auth.StaticToken("tok")), n, clock)
}

func TestRecentPosts_RequestShapeAndMapping(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if a := r.Header.Get("Authorization"); a != "Bearer tok" {
			t.Errorf("missing auth header: %q", a)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"posts": []map[string]any{
			{
				"post_id":    "p2",
				"content":    "great release",
				"source":     "reddit",
				"created_at": "2024-01-01T10:00:00",
				"sentiment":  map[string]any{"sentiment_label": "POSITIVE", "confidence_score": 0.93, "emotion": "Joy"},
			},
			{"id": "p1", "text": "meh"},
		}})
	})

	posts, err := newTestSource(h, nil).RecentPosts(context.Background(), 50)
	if err != nil {
		t.Fatalf("recent posts failed: %v", err)
	}
	if gotPath != "/api/posts" || gotQuery.Get("limit") != "50" {
		t.Fatalf("unexpected request: %s?%s", gotPath, gotQuery.Encode())
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	p := posts[0]
	if p.ID != "p2" || p.Author != domain.DefaultAuthor || p.Source != "reddit" {
		t.Fatalf("unexpected first post: %#v", p)
	}
	if p.Sentiment.Label != domain.Positive || !p.Sentiment.HasConfidence || p.Sentiment.Emotion != "joy" {
		t.Fatalf("unexpected sentiment: %#v", p.Sentiment)
	}
	if posts[1].ID != "p1" || posts[1].Content != "meh" || posts[1].Sentiment.Label != domain.Neutral {
		t.Fatalf("unexpected second post: %#v", posts[1])
	}
}

func TestRecentPosts_AcceptsBareArray(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"a","sentiment":{"label":"negative"}}]`)
	})
	posts, err := newTestSource(h, nil).RecentPosts(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent posts failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Sentiment.Label != domain.Negative {
		t.Fatalf("unexpected posts: %#v", posts)
	}
}

func TestDistribution_MapsCountsAndEmotions(t *testing.T) {
	var gotQuery url.Values
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sentiment/distribution" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		_, _ = io.WriteString(w, `{
			"distribution": {"positive": 10, "negative": 3, "neutral": 7},
			"total": 20,
			"top_emotions": {"joy": 6, "anger": 2}
		}`)
	})

	sum, err := newTestSource(h, nil).Distribution(context.Background(), 24)
	if err != nil {
		t.Fatalf("distribution failed: %v", err)
	}
	if gotQuery.Get("hours") != "24" {
		t.Fatalf("expected hours=24, got %q", gotQuery.Get("hours"))
	}
	d := sum.Distribution
	if d.Total != 20 || d.Count(domain.Positive) != 10 || d.Count(domain.Negative) != 3 || d.Count(domain.Neutral) != 7 {
		t.Fatalf("unexpected distribution: %#v", d)
	}
	if len(sum.TopEmotions) != 2 || sum.TopEmotions[0].Emotion != "joy" {
		t.Fatalf("unexpected emotions: %#v", sum.TopEmotions)
	}
}

func TestSnapshot_ErrorsAreFetchErrors(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/posts" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, "boom")
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	src := newTestSource(h, nil)

	_, err := src.RecentPosts(context.Background(), 5)
	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.Op != "posts" {
		t.Fatalf("expected posts FetchError, got %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("status must be reported: %v", err)
	}

	_, err = src.Distribution(context.Background(), 24)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestDistribution_RejectsMalformedBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not-json")
	})
	if _, err := newTestSource(h, nil).Distribution(context.Background(), 1); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRecentTrend_MapsAggregateRows(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC))
	var gotQuery url.Values
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sentiment/aggregate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		_, _ = io.WriteString(w, `{"period":"minute","data":[
			{"timestamp":"2024-01-01T10:27:00","positive_count":1,"negative_count":0,"neutral_count":0,"average_confidence":0.5},
			{"timestamp":"2024-01-01T10:28:00","positive_count":2,"negative_count":1,"neutral_count":0,"average_confidence":0.7},
			{"timestamp":"2024-01-01T10:29:00","positive_count":3,"negative_count":2,"neutral_count":1,"average_confidence":0.9}
		]}`)
	})

	points, err := newTestSource(h, clock).RecentTrend(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent trend failed: %v", err)
	}
	if gotQuery.Get("period") != "minute" || gotQuery.Get("start_date") != "2024-01-01T10:28:00" {
		t.Fatalf("unexpected query: %s", gotQuery.Encode())
	}
	if len(points) != 2 {
		t.Fatalf("expected the last 2 rows, got %d", len(points))
	}
	if points[0].Timestamp != "10:28:00" || points[1].Timestamp != "10:29:00" {
		t.Fatalf("unexpected timestamps: %q %q", points[0].Timestamp, points[1].Timestamp)
	}
	if points[1].Positive != 3 || points[1].Negative != 2 || points[1].Neutral != 1 || points[1].Confidence != 0.9 {
		t.Fatalf("unexpected point: %#v", points[1])
	}
}

func TestClient_NoTokenSendsNoAuthorization(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a := r.Header.Get("Authorization"); a != "" {
			t.Errorf("unexpected auth header %q", a)
		}
		_, _ = io.WriteString(w, "{}")
	})
	c := newTestClient(h, nil)
	if _, err := c.Get(context.Background(), "/api/health"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
}
