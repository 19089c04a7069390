// Package filter narrows a dataset by State and by an inclusive Score range.
// Every function is pure and keeps the source row order.
package filter

import (
	"math"

	"facilitydash/domain/facility"
	"facilitydash/internal/errors"
)

// ScoreErrorMessage is shown when the Score filter cannot be applied
const ScoreErrorMessage = "Score column not found or not numeric in the dataset."

// States returns the distinct State values in order of first appearance
func States(ds *facility.Dataset) []string {
	idx := ds.ColumnIndex(facility.ColState)
	if idx < 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range ds.Rows {
		s := r.Cells[idx]
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// ByState keeps rows whose State equals state exactly
func ByState(ds *facility.Dataset, state string) *facility.Dataset {
	idx := ds.ColumnIndex(facility.ColState)
	if idx < 0 {
		return ds.Subset(nil)
	}
	rows := make([]facility.Record, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		if r.Cells[idx] == state {
			rows = append(rows, r)
		}
	}
	return ds.Subset(rows)
}

// RequireScore checks that the Score column exists, is numeric and has a value
func RequireScore(ds *facility.Dataset) error {
	if !ds.IsNumeric(facility.ColScore) {
		return errors.SchemaError(ScoreErrorMessage)
	}
	if _, _, ok := ScoreBounds(ds); !ok {
		return errors.SchemaError(ScoreErrorMessage)
	}
	return nil
}

// ScoreBounds returns the smallest and largest non-missing Score
func ScoreBounds(ds *facility.Dataset) (lo, hi float64, ok bool) {
	idx := ds.ColumnIndex(facility.ColScore)
	if idx < 0 {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range ds.Rows {
		v := r.Numbers[idx]
		if math.IsNaN(v) {
			continue
		}
		ok = true
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// ByScore keeps rows with lo <= Score <= hi. Missing scores never match.
// Reversed bounds are swapped.
func ByScore(ds *facility.Dataset, lo, hi float64) *facility.Dataset {
	if lo > hi {
		lo, hi = hi, lo
	}
	idx := ds.ColumnIndex(facility.ColScore)
	if idx < 0 {
		return ds.Subset(nil)
	}
	rows := make([]facility.Record, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		v := r.Numbers[idx]
		if !math.IsNaN(v) && v >= lo && v <= hi {
			rows = append(rows, r)
		}
	}
	return ds.Subset(rows)
}
