package dashboard

import "github.com/CrestNiraj12/sentiscope/domain"

// Default window capacities.
const (
	FeedCapacity  = 50
	TrendCapacity = 20
)

// State is the triple every view reads from. It is only ever replaced,
// never mutated in place, so a copy held by a renderer stays consistent.
type State struct {
	Feed         domain.Window[domain.Post] // newest first
	Distribution domain.Distribution
	Trend        domain.Window[domain.TrendPoint] // chronological
}

// NewState returns the empty base state. Capacities below 1 fall back to
// the defaults.
func NewState(feedCap, trendCap int) State {
	if feedCap < 1 {
		feedCap = FeedCapacity
	}
	if trendCap < 1 {
		trendCap = TrendCapacity
	}
	return State{
		Feed:         domain.NewWindow[domain.Post](feedCap, domain.NewestFirst),
		Distribution: domain.Distribution{Counts: map[domain.Label]int{}},
		Trend:        domain.NewWindow[domain.TrendPoint](trendCap, domain.Chronological),
	}
}

// Reduce applies one canonical event and returns the next state.
//
// A new post is prepended to the feed and counted into the distribution
// incrementally; a metrics tick is appended to the trend. Any other kind
// returns s unchanged. Reduce works on any state, including the empty one.
func Reduce(s State, ev Event) State {
	switch ev.Kind {
	case KindNewPost:
		s.Feed = s.Feed.Push(ev.Post)
		d := s.Distribution.Clone()
		d.Total++
		d.Counts[ev.Post.Sentiment.Label]++
		s.Distribution = d
		return s
	case KindMetricsTick:
		s.Trend = s.Trend.Push(ev.Tick)
		return s
	default:
		return s
	}
}

// Seed installs a snapshot: the feed is refilled from posts (newest first,
// truncated to capacity) and the distribution is replaced wholesale. The
// trend is kept.
func Seed(s State, posts []domain.Post, dist domain.Distribution) State {
	s.Feed = s.Feed.Fill(posts)
	s.Distribution = dist.Clone()
	return s
}

// Resync replaces only the distribution. Live increments since the last
// snapshot are discarded in favour of the fresh counts.
func Resync(s State, dist domain.Distribution) State {
	s.Distribution = dist.Clone()
	return s
}

// Backfill appends historical trend points, oldest first.
func Backfill(s State, points []domain.TrendPoint) State {
	for _, p := range points {
		s.Trend = s.Trend.Push(p)
	}
	return s
}
