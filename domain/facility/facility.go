package facility

import "math"

// Facility is the typed view of one dataset row. Numeric fields are NaN when missing.
type Facility struct {
	Name      string  `json:"facility_name"`
	State     string  `json:"state"`
	County    string  `json:"county"`
	ZIP       string  `json:"zip_code"`
	Measure   string  `json:"measure_name"`
	Score     float64 `json:"-"`
	Latitude  float64 `json:"-"`
	Longitude float64 `json:"-"`
}

// HasScore reports whether the score is present
func (f Facility) HasScore() bool {
	return !math.IsNaN(f.Score)
}

// HasLocation reports whether both coordinates are present and in range
func (f Facility) HasLocation() bool {
	if math.IsNaN(f.Latitude) || math.IsNaN(f.Longitude) {
		return false
	}
	return f.Latitude >= -90 && f.Latitude <= 90 && f.Longitude >= -180 && f.Longitude <= 180
}
