package domain

// TrendShape tags which producer variant a trend point came from.
type TrendShape int

const (
	// ShapeCounts carries per-label counts.
	ShapeCounts TrendShape = iota
	// ShapeConfidence carries a single confidence value.
	ShapeConfidence
)

// TrendPoint is one time-stamped sample of the trend series.
type TrendPoint struct {
	Timestamp  string // Display-formatted.
	Positive   float64
	Negative   float64
	Neutral    float64
	Confidence float64
	Shape      TrendShape
}

// Value projects the point onto a single series: the confidence for
// confidence samples, the total count otherwise.
func (p TrendPoint) Value() float64 {
	if p.Shape == ShapeConfidence {
		return p.Confidence
	}
	return p.Positive + p.Negative + p.Neutral
}

// Count returns the sample's value for a label.
func (p TrendPoint) Count(l Label) float64 {
	switch l {
	case Positive:
		return p.Positive
	case Negative:
		return p.Negative
	default:
		return p.Neutral
	}
}
