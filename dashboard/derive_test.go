package dashboard

import (
	"testing"

	"github.com/CrestNiraj12/sentiscope/domain"
)

func TestDeriveSlices_FixedOrderAndDefaults(t *testing.T) {
	got := DeriveSlices(domain.Distribution{Counts: map[domain.Label]int{domain.Neutral: 1, domain.Positive: 3}})
	if len(got) != 3 {
		t.Fatalf("expected exactly three slices, got %d", len(got))
	}
	wantLabels := []domain.Label{domain.Positive, domain.Negative, domain.Neutral}
	wantValues := []int{3, 0, 1}
	for i := range got {
		if got[i].Label != wantLabels[i] || got[i].Value != wantValues[i] {
			t.Fatalf("slice %d = %+v", i, got[i])
		}
	}
	if got[0].Percent != 75 || got[1].Percent != 0 {
		t.Fatalf("unexpected percentages: %+v", got)
	}

	empty := DeriveSlices(domain.Distribution{})
	for _, s := range empty {
		if s.Value != 0 || s.Percent != 0 {
			t.Fatalf("empty distribution should derive zero slices: %+v", empty)
		}
	}
}

func TestDeriveAlert(t *testing.T) {
	tests := []struct {
		name      string
		counts    map[domain.Label]int
		triggered bool
		ratio     float64
	}{
		{"below min posts", map[domain.Label]int{domain.Negative: 4}, false, 0},
		{"ratio over threshold", map[domain.Label]int{domain.Positive: 4, domain.Negative: 3}, true, 0.75},
		{"ratio under threshold", map[domain.Label]int{domain.Positive: 8, domain.Negative: 2}, false, 0.25},
		{"no positives uses negative count", map[domain.Label]int{domain.Negative: 2, domain.Neutral: 4}, true, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := DeriveAlert(domain.Distribution{Counts: tc.counts}, 0.5, 5)
			if a.Triggered != tc.triggered || a.Ratio != tc.ratio {
				t.Fatalf("got %+v", a)
			}
		})
	}
}

func TestTrendProjections(t *testing.T) {
	points := []domain.TrendPoint{
		{Positive: 1, Negative: 2, Neutral: 3},
		{Confidence: 0.9, Shape: domain.ShapeConfidence},
	}
	series := TrendSeries(points)
	if series[domain.Negative][0] != 2 || series[domain.Neutral][1] != 0 {
		t.Fatalf("unexpected series: %v", series)
	}
	values := TrendValues(points)
	if values[0] != 6 || values[1] != 0.9 {
		t.Fatalf("unexpected projection: %v", values)
	}
	conf := TrendConfidence(points)
	if conf[0] != 0 || conf[1] != 0.9 {
		t.Fatalf("unexpected confidence series: %v", conf)
	}
}
