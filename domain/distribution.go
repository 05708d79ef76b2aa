package domain

import "maps"

// Distribution counts posts per sentiment label.
//
// Total should equal the sum of Counts but is tracked separately: live
// updates increment both, a snapshot replaces both.
type Distribution struct {
	Total  int
	Counts map[Label]int
}

// Count returns the count for a label, zero when absent.
func (d Distribution) Count(l Label) int {
	return d.Counts[l]
}

// Sum returns the sum of all per-label counts.
func (d Distribution) Sum() int {
	n := 0
	for _, v := range d.Counts {
		n += v
	}
	return n
}

// Clone returns a copy that shares no map with d.
func (d Distribution) Clone() Distribution {
	out := Distribution{Total: d.Total, Counts: make(map[Label]int, len(d.Counts))}
	maps.Copy(out.Counts, d.Counts)
	return out
}

// Equal reports whether both distributions hold the same total and counts.
// A missing key and a zero count are treated alike.
func (d Distribution) Equal(o Distribution) bool {
	if d.Total != o.Total {
		return false
	}
	for k, v := range d.Counts {
		if o.Counts[k] != v {
			return false
		}
	}
	for k, v := range o.Counts {
		if d.Counts[k] != v {
			return false
		}
	}
	return true
}

// EmotionCount is one entry of a top-emotions summary.
type EmotionCount struct {
	Emotion string
	Count   int
}
