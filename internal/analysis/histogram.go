package analysis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultBins is the bucket count of the score distribution
const DefaultBins = 20

const kdeGridPoints = 200

// Histogram is a fixed-width binning of a sample with an optional density overlay
type Histogram struct {
	Edges    []float64 `json:"edges"`
	Counts   []int     `json:"counts"`
	BinWidth float64   `json:"bin_width"`
	N        int       `json:"n"`
	KDE      *Density  `json:"kde,omitempty"`
}

// Density is a kernel density estimate scaled to histogram counts
type Density struct {
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
	Bandwidth float64   `json:"bandwidth"`
}

// Centers returns the midpoint of each bin
func (h *Histogram) Centers() []float64 {
	out := make([]float64, len(h.Counts))
	for i := range out {
		out[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return out
}

// NewHistogram bins values into equal-width buckets spanning [min, max].
// A zero-width range is widened by 0.5 on each side. The last bucket is closed.
func NewHistogram(values []float64, bins int) (*Histogram, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to bin")
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)
	width := (hi - lo) / float64(bins)

	counts := make([]int, bins)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}

	h := &Histogram{Edges: edges, Counts: counts, BinWidth: width, N: len(values)}
	h.KDE = gaussianKDE(values, width)
	return h, nil
}

// gaussianKDE evaluates a Gaussian kernel density over the data range using
// Scott's bandwidth. It returns nil for fewer than two distinct values.
func gaussianKDE(values []float64, binWidth float64) *Density {
	n := len(values)
	if n < 2 {
		return nil
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil || sd == 0 || math.IsNaN(sd) {
		return nil
	}
	bw := sd * math.Pow(float64(n), -1.0/5.0)

	lo, hi := floats.Min(values), floats.Max(values)
	xs := make([]float64, kdeGridPoints)
	floats.Span(xs, lo, hi)

	kernels := make([]distuv.Normal, n)
	for i, v := range values {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}

	scale := float64(n) * binWidth
	ys := make([]float64, kdeGridPoints)
	for i, x := range xs {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		ys[i] = sum / float64(n) * scale
	}

	return &Density{X: xs, Y: ys, Bandwidth: bw}
}
