package analysis

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
)

// BoxStats summarises one group of a box plot
type BoxStats struct {
	N          int       `json:"n"`
	Mean       float64   `json:"mean"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	LowerFence float64   `json:"lowerfence"`
	UpperFence float64   `json:"upperfence"`
	Outliers   []float64 `json:"outliers,omitempty"`
}

// NewBoxStats computes quartiles and Tukey whiskers (1.5 IQR, clipped to data)
func NewBoxStats(values []float64) (BoxStats, error) {
	if len(values) == 0 {
		return BoxStats{}, fmt.Errorf("no values for box statistics")
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	b := BoxStats{N: len(sorted)}
	b.Q1 = quantile(sorted, 0.25)
	b.Median = quantile(sorted, 0.5)
	b.Q3 = quantile(sorted, 0.75)

	mean, err := stats.Mean(sorted)
	if err != nil {
		return BoxStats{}, err
	}
	b.Mean = mean

	iqr := b.Q3 - b.Q1
	lowLimit, highLimit := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerFence, b.UpperFence = b.Q1, b.Q3
	for _, v := range sorted {
		if v >= lowLimit {
			b.LowerFence = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highLimit {
			b.UpperFence = sorted[i]
			break
		}
	}
	for _, v := range sorted {
		if v < lowLimit || v > highLimit {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b, nil
}

// quantile interpolates linearly between closest ranks at (n-1)p, the way
// plotly's default "linear" quartile method does. sorted must be ascending.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// GroupKey identifies one box: a category on the x axis within a colour group
type GroupKey struct {
	Category string
	Group    string
}

// GroupedBoxes computes box statistics per (category, group) pair.
// Categories and groups are returned in first-appearance order.
func GroupedBoxes(categories, groups []string, values []float64) (cats, grps []string, boxes map[GroupKey]BoxStats) {
	buckets := make(map[GroupKey][]float64)
	seenCat := make(map[string]bool)
	seenGrp := make(map[string]bool)
	for i, v := range values {
		c, g := categories[i], groups[i]
		if !seenCat[c] {
			seenCat[c] = true
			cats = append(cats, c)
		}
		if !seenGrp[g] {
			seenGrp[g] = true
			grps = append(grps, g)
		}
		k := GroupKey{Category: c, Group: g}
		buckets[k] = append(buckets[k], v)
	}

	boxes = make(map[GroupKey]BoxStats, len(buckets))
	for k, vs := range buckets {
		if b, err := NewBoxStats(vs); err == nil {
			boxes[k] = b
		}
	}
	return cats, grps, boxes
}
