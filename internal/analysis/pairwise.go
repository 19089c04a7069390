package analysis

import (
	"math"

	"facilitydash/domain/facility"

	"gonum.org/v1/gonum/stat"
)

// MaxPairColumns caps the pairplot grid
const MaxPairColumns = 6

// NumericColumns lists numeric columns in schema order
func NumericColumns(ds *facility.Dataset) []string {
	var out []string
	for i, c := range ds.Columns {
		if ds.Kinds[i] == facility.KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// PairGrid holds row-aligned values of several numeric columns and their correlations
type PairGrid struct {
	Columns []string
	// Values[c][row] is NaN when missing, so rows line up across columns
	Values [][]float64
	// Corr[i][j] is the Pearson correlation over rows where both are present (NaN if undefined)
	Corr [][]float64
}

// NewPairGrid builds the grid for the first maxCols of cols
func NewPairGrid(ds *facility.Dataset, cols []string, maxCols int) *PairGrid {
	if maxCols > 0 && len(cols) > maxCols {
		cols = cols[:maxCols]
	}
	g := &PairGrid{Columns: cols, Values: make([][]float64, len(cols))}
	for c, name := range cols {
		idx := ds.ColumnIndex(name)
		vals := make([]float64, len(ds.Rows))
		for r, rec := range ds.Rows {
			if idx >= 0 {
				vals[r] = rec.Numbers[idx]
			} else {
				vals[r] = math.NaN()
			}
		}
		g.Values[c] = vals
	}

	g.Corr = make([][]float64, len(cols))
	for i := range cols {
		g.Corr[i] = make([]float64, len(cols))
		for j := range cols {
			x, y := g.Pairs(i, j)
			g.Corr[i][j] = correlation(x, y)
		}
	}
	return g
}

// Pairs returns the values of columns i and j over rows where both are present
func (g *PairGrid) Pairs(i, j int) (x, y []float64) {
	for r := range g.Values[i] {
		a, b := g.Values[i][r], g.Values[j][r]
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		x = append(x, a)
		y = append(y, b)
	}
	return x, y
}

// Present returns the non-missing values of column i
func (g *PairGrid) Present(i int) []float64 {
	var out []float64
	for _, v := range g.Values[i] {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func correlation(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
