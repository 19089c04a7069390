package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Summary describes a numeric sample
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Summarize returns count, mean, sample std, min and max. Std is 0 below two values.
func Summarize(values []float64) (Summary, bool) {
	if len(values) == 0 {
		return Summary{}, false
	}
	s := Summary{Count: len(values)}
	s.Mean, _ = stats.Mean(values)
	s.Min, _ = stats.Min(values)
	s.Max, _ = stats.Max(values)
	if len(values) > 1 {
		if sd, err := stats.StandardDeviationSample(values); err == nil && !math.IsNaN(sd) {
			s.Std = sd
		}
	}
	return s, true
}

// DefaultMarkerSizeMax is the largest map marker diameter in pixels
const DefaultMarkerSizeMax = 15.0

// MarkerSizing maps scores to area-mode marker sizes; the largest score gets
// sizeMax pixels. Negative and missing scores get size 0.
func MarkerSizing(scores []float64, sizeMax float64) (sizes []float64, sizeref float64) {
	sizes = make([]float64, len(scores))
	var top float64
	for i, s := range scores {
		if math.IsNaN(s) || s < 0 {
			continue
		}
		sizes[i] = s
		top = math.Max(top, s)
	}
	if top == 0 || sizeMax <= 0 {
		return sizes, 1
	}
	return sizes, 2.0 * top / (sizeMax * sizeMax)
}
