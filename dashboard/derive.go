package dashboard

import "github.com/CrestNiraj12/sentiscope/domain"

// Slice is one chart-ready distribution segment.
type Slice struct {
	Label   domain.Label
	Value   int
	Percent float64
}

// DeriveSlices returns exactly one slice per canonical label in
// presentation order (positive, negative, neutral). Missing counts are 0.
func DeriveSlices(d domain.Distribution) []Slice {
	out := make([]Slice, len(domain.Labels))
	sum := 0
	for i, l := range domain.Labels {
		out[i] = Slice{Label: l, Value: d.Count(l)}
		sum += out[i].Value
	}
	if sum > 0 {
		for i := range out {
			out[i].Percent = float64(out[i].Value) * 100 / float64(sum)
		}
	}
	return out
}

// Alert is the negative-ratio check over a distribution.
type Alert struct {
	Triggered bool
	Ratio     float64
	Threshold float64
	Positive  int
	Negative  int
	Neutral   int
	Total     int
}

// DeriveAlert computes negative/positive (the negative count itself when
// there are no positives) and triggers when it exceeds threshold with at
// least minPosts classified posts.
func DeriveAlert(d domain.Distribution, threshold float64, minPosts int) Alert {
	a := Alert{
		Threshold: threshold,
		Positive:  d.Count(domain.Positive),
		Negative:  d.Count(domain.Negative),
		Neutral:   d.Count(domain.Neutral),
	}
	a.Total = a.Positive + a.Negative + a.Neutral
	if a.Total < minPosts {
		return a
	}
	if a.Positive > 0 {
		a.Ratio = float64(a.Negative) / float64(a.Positive)
	} else {
		a.Ratio = float64(a.Negative)
	}
	a.Triggered = a.Ratio > threshold
	return a
}

// TrendSeries splits trend points into per-label series, chronological.
func TrendSeries(points []domain.TrendPoint) map[domain.Label][]float64 {
	out := make(map[domain.Label][]float64, len(domain.Labels))
	for _, l := range domain.Labels {
		series := make([]float64, len(points))
		for i, p := range points {
			series[i] = p.Count(l)
		}
		out[l] = series
	}
	return out
}

// TrendValues projects trend points onto the single-series view.
func TrendValues(points []domain.TrendPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value()
	}
	return out
}

// TrendConfidence returns each point's confidence, chronological.
func TrendConfidence(points []domain.TrendPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Confidence
	}
	return out
}
