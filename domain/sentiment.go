package domain

import "strings"

// Label is one of the three canonical sentiment classes.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Labels lists the canonical labels in presentation order.
var Labels = []Label{Positive, Negative, Neutral}

// ParseLabel maps a producer's label string to a canonical label.
// Matching is case-insensitive. Anything unrecognised is Neutral.
func ParseLabel(s string) Label {
	l, _ := LookupLabel(s)
	return l
}

// LookupLabel is ParseLabel that also reports whether s named a known
// label.
func LookupLabel(s string) (Label, bool) {
	switch Label(strings.ToLower(strings.TrimSpace(s))) {
	case Positive:
		return Positive, true
	case Negative:
		return Negative, true
	case Neutral:
		return Neutral, true
	default:
		return Neutral, false
	}
}

// SentimentResult is the classification attached to a post.
type SentimentResult struct {
	Label         Label
	Confidence    float64 // In [0,1]; meaningful only when HasConfidence.
	HasConfidence bool
	Emotion       string // Optional, lowercase (joy, anger, ...).
}

// Post is a single classified post in the live feed.
type Post struct {
	ID        string // Empty when the producer sent none; views key it by position.
	Author    string
	Content   string
	Source    string
	CreatedAt string // As sent by the producer.
	Sentiment SentimentResult
}

// DefaultAuthor is used when a post arrives without an author.
const DefaultAuthor = "Anonymous"
