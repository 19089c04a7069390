package dashboard

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"facilitydash/internal/errors"
)

// FilterState is the sidebar selection. Nil bounds mean "full range".
type FilterState struct {
	State string   `json:"state"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// ParseFilterState reads state, min and max query parameters
func ParseFilterState(q url.Values) (FilterState, error) {
	fs := FilterState{State: q.Get("state")}
	var err error
	if fs.Min, err = parseBound(q.Get("min"), "min"); err != nil {
		return FilterState{}, err
	}
	if fs.Max, err = parseBound(q.Get("max"), "max"); err != nil {
		return FilterState{}, err
	}
	return fs, nil
}

func parseBound(raw, name string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.InvalidInput(name + " must be a finite number")
	}
	return &v, nil
}

// Query encodes the state back into query parameters
func (s FilterState) Query() url.Values {
	q := url.Values{}
	if s.State != "" {
		q.Set("state", s.State)
	}
	if s.Min != nil {
		q.Set("min", strconv.FormatFloat(*s.Min, 'f', -1, 64))
	}
	if s.Max != nil {
		q.Set("max", strconv.FormatFloat(*s.Max, 'f', -1, 64))
	}
	return q
}

// WithBounds returns a copy with both bounds set
func (s FilterState) WithBounds(lo, hi float64) FilterState {
	s.Min, s.Max = &lo, &hi
	return s
}

// resolveRange clamps the requested bounds into [lo, hi]; missing ones take the edges
func resolveRange(s FilterState, lo, hi float64) (low, high float64) {
	low, high = lo, hi
	if s.Min != nil {
		low = math.Min(math.Max(*s.Min, lo), hi)
	}
	if s.Max != nil {
		high = math.Min(math.Max(*s.Max, lo), hi)
	}
	if low > high {
		low, high = high, low
	}
	return low, high
}
