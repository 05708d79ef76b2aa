package dashboard

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/CrestNiraj12/sentiscope/domain"
)

// EventKind tags a canonical stream event.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindNewPost
	KindMetricsTick
	// KindConnected is the server's greeting; recognised but stateless.
	KindConnected
)

// Wire type tags.
const (
	TypeNewPost       = "new_post"
	TypeMetricsUpdate = "metrics_update"
	TypeConnected     = "connected"
)

// Metrics windows a metrics_update may nest its counts under.
var MetricsWindows = []string{"last_minute", "last_hour", "last_24_hours"}

// Event is a stream message in canonical shape.
type Event struct {
	Kind EventKind
	Type string // Raw type tag, kept for logging.
	Post domain.Post
	Tick domain.TrendPoint
}

// Normalizer maps raw payloads to canonical values. The zero value is
// usable: it picks the first metrics window present and formats
// timestamps as local "15:04:05".
type Normalizer struct {
	MetricsWindow string
	TimeLayout    string
	Location      *time.Location
}

// Normalize classifies raw and returns its canonical form. receivedAt
// stamps metrics ticks that carry no timestamp of their own. raw is never
// modified. Unclassifiable input yields KindUnknown.
func (n Normalizer) Normalize(raw map[string]any, receivedAt time.Time) Event {
	typ, _ := raw["type"].(string)
	switch typ {
	case TypeNewPost:
		data, ok := raw["data"].(map[string]any)
		if !ok {
			return Event{Kind: KindUnknown, Type: typ}
		}
		return Event{Kind: KindNewPost, Type: typ, Post: NormalizePost(data)}
	case TypeMetricsUpdate:
		data, ok := raw["data"].(map[string]any)
		if !ok {
			return Event{Kind: KindUnknown, Type: typ}
		}
		tick, ok := n.normalizeTick(data)
		if !ok {
			return Event{Kind: KindUnknown, Type: typ}
		}
		tick.Timestamp = n.displayTime(raw["timestamp"], receivedAt)
		return Event{Kind: KindMetricsTick, Type: typ, Tick: tick}
	case TypeConnected:
		return Event{Kind: KindConnected, Type: typ}
	default:
		return Event{Kind: KindUnknown, Type: typ}
	}
}

func (n Normalizer) normalizeTick(data map[string]any) (domain.TrendPoint, bool) {
	// A window with no label keys is a quiet period; its labels count as 0.
	if nested, ok := n.pickWindow(data); ok {
		p, _ := countsTick(nested)
		return p, true
	}
	if p, ok := countsTick(data); ok {
		return p, true
	}
	if v, ok := firstNumber(data, "confidence", "average_confidence", "confidence_score", "value"); ok {
		return domain.TrendPoint{Confidence: v, Shape: domain.ShapeConfidence}, true
	}
	return domain.TrendPoint{}, false
}

func (n Normalizer) pickWindow(data map[string]any) (map[string]any, bool) {
	if n.MetricsWindow != "" {
		if m, ok := data[n.MetricsWindow].(map[string]any); ok {
			return m, true
		}
	}
	for _, w := range MetricsWindows {
		if m, ok := data[w].(map[string]any); ok {
			return m, true
		}
	}
	return nil, false
}

func countsTick(data map[string]any) (domain.TrendPoint, bool) {
	var p domain.TrendPoint
	_, found := firstNumber(data, "total", "total_count")
	for _, l := range domain.Labels {
		v, ok := firstNumber(data, string(l), string(l)+"_count")
		if !ok {
			continue
		}
		found = true
		switch l {
		case domain.Positive:
			p.Positive = v
		case domain.Negative:
			p.Negative = v
		case domain.Neutral:
			p.Neutral = v
		}
	}
	return p, found
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (n Normalizer) displayTime(v any, receivedAt time.Time) string {
	layout := n.TimeLayout
	if layout == "" {
		layout = time.TimeOnly
	}
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return receivedAt.In(loc).Format(layout)
	}
	for _, l := range isoLayouts {
		// Timestamps without a zone are UTC on the producer side.
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t.In(loc).Format(layout)
		}
	}
	// Already display-formatted.
	return s
}

// NormalizePost maps a post-like record from either the snapshot or the
// stream to a Post.
func NormalizePost(raw map[string]any) domain.Post {
	p := domain.Post{
		ID:        firstString(raw, "id", "post_id"),
		Author:    firstString(raw, "author", "username"),
		Content:   firstString(raw, "content", "text"),
		Source:    firstString(raw, "source"),
		CreatedAt: firstString(raw, "created_at", "createdAt"),
	}
	if p.Author == "" {
		p.Author = domain.DefaultAuthor
	}
	sent, ok := raw["sentiment"].(map[string]any)
	if !ok {
		// Some producers flatten the classification onto the post.
		sent = raw
	}
	p.Sentiment = NormalizeSentiment(sent)
	return p
}

// NormalizeSentiment resolves the label from label or sentiment_label,
// defaulting to neutral.
func NormalizeSentiment(raw map[string]any) domain.SentimentResult {
	r := domain.SentimentResult{
		Label:   domain.ParseLabel(firstString(raw, "label", "sentiment_label")),
		Emotion: strings.ToLower(firstString(raw, "emotion")),
	}
	if v, ok := firstNumber(raw, "confidenceScore", "confidence", "confidence_score"); ok {
		r.Confidence = min(max(v, 0), 1)
		r.HasConfidence = true
	}
	return r
}

// NormalizeDistribution maps a distribution summary. The total comes from
// total or total_posts and falls back to the sum of counts. Label keys are
// canonicalised, so "POSITIVE" and "positive" merge. Unknown labels are
// not folded into any bucket; they count only toward a derived total.
func NormalizeDistribution(raw map[string]any) domain.Distribution {
	d := domain.Distribution{Counts: make(map[domain.Label]int, len(domain.Labels))}
	other := 0
	if counts, ok := raw["distribution"].(map[string]any); ok {
		for k, v := range counts {
			n, ok := toNumber(v)
			if !ok || n <= 0 {
				continue
			}
			if l, known := domain.LookupLabel(k); known {
				d.Counts[l] += int(n)
			} else {
				other += int(n)
			}
		}
	}
	if total, ok := firstNumber(raw, "total", "total_posts"); ok && total >= 0 {
		d.Total = int(total)
	} else {
		d.Total = d.Sum() + other
	}
	return d
}

// NormalizeTopEmotions reads a top_emotions map into a list sorted by
// descending count, then name.
func NormalizeTopEmotions(raw map[string]any) []domain.EmotionCount {
	m, ok := raw["top_emotions"].(map[string]any)
	if !ok {
		return nil
	}
	out := make([]domain.EmotionCount, 0, len(m))
	for k, v := range m {
		n, ok := toNumber(v)
		if !ok || k == "" || n <= 0 {
			continue
		}
		out = append(out, domain.EmotionCount{Emotion: strings.ToLower(k), Count: int(n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}

// Raw renders the event back into the wire shape Normalize accepts.
// Normalize(e.Raw()) reproduces e for any normalised e.
func (e Event) Raw() map[string]any {
	switch e.Kind {
	case KindNewPost:
		return map[string]any{"type": TypeNewPost, "data": PostRaw(e.Post)}
	case KindMetricsTick:
		data := map[string]any{}
		if e.Tick.Shape == domain.ShapeConfidence {
			data["confidence"] = e.Tick.Confidence
		} else {
			data[string(domain.Positive)] = e.Tick.Positive
			data[string(domain.Negative)] = e.Tick.Negative
			data[string(domain.Neutral)] = e.Tick.Neutral
		}
		return map[string]any{"type": TypeMetricsUpdate, "timestamp": e.Tick.Timestamp, "data": data}
	case KindConnected:
		return map[string]any{"type": TypeConnected}
	default:
		return map[string]any{"type": e.Type}
	}
}

// PostRaw renders a post in canonical wire shape.
func PostRaw(p domain.Post) map[string]any {
	sent := map[string]any{"label": string(p.Sentiment.Label)}
	if p.Sentiment.HasConfidence {
		sent["confidenceScore"] = p.Sentiment.Confidence
	}
	if p.Sentiment.Emotion != "" {
		sent["emotion"] = p.Sentiment.Emotion
	}
	out := map[string]any{
		"author":    p.Author,
		"content":   p.Content,
		"sentiment": sent,
	}
	if p.ID != "" {
		out["id"] = p.ID
	}
	if p.Source != "" {
		out["source"] = p.Source
	}
	if p.CreatedAt != "" {
		out["created_at"] = p.CreatedAt
	}
	return out
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

func firstNumber(raw map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := toNumber(raw[k]); ok {
			return v, true
		}
	}
	return 0, false
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
