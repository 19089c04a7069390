package facility

import "math"

// Well-known column names of the infection dataset
const (
	ColFacilityName = "Facility Name"
	ColState        = "State"
	ColCounty       = "County/Parish"
	ColCountyAlt    = "County"
	ColZIP          = "ZIP Code"
	ColMeasureName  = "Measure Name"
	ColScore        = "Score"
	ColLatitude     = "Latitude"
	ColLongitude    = "Longitude"
)

// ColumnKind is the inferred type of a column
type ColumnKind string

const (
	KindText    ColumnKind = "text"
	KindNumeric ColumnKind = "numeric"
)

// Record is one row: the raw cells plus their parsed numbers.
// Numbers[i] is NaN when cell i is empty or not numeric.
type Record struct {
	Cells   []string
	Numbers []float64
}

// Dataset is an ordered, immutable table sharing one schema.
type Dataset struct {
	Columns []string
	Kinds   []ColumnKind
	Rows    []Record

	index map[string]int
}

// NewDataset builds a dataset; kinds must be parallel to columns.
func NewDataset(columns []string, kinds []ColumnKind, rows []Record) *Dataset {
	ds := &Dataset{Columns: columns, Kinds: kinds, Rows: rows}
	ds.index = make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := ds.index[c]; !dup {
			ds.index[c] = i
		}
	}
	return ds
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ColumnIndex returns the position of a column, or -1
func (d *Dataset) ColumnIndex(name string) int {
	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the column exists
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// IsNumeric reports whether the column exists and holds numbers
func (d *Dataset) IsNumeric(name string) bool {
	i := d.ColumnIndex(name)
	return i >= 0 && d.Kinds[i] == KindNumeric
}

// Text returns the raw cell of row r in column col, or "" when absent
func (d *Dataset) Text(r Record, col string) string {
	i := d.ColumnIndex(col)
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Number returns the parsed value of row r in column col
func (d *Dataset) Number(r Record, col string) (float64, bool) {
	i := d.ColumnIndex(col)
	if i < 0 || i >= len(r.Numbers) {
		return math.NaN(), false
	}
	v := r.Numbers[i]
	return v, !math.IsNaN(v)
}

// Values returns the non-missing numbers of a column in row order
func (d *Dataset) Values(col string) []float64 {
	i := d.ColumnIndex(col)
	if i < 0 {
		return nil
	}
	out := make([]float64, 0, len(d.Rows))
	for _, r := range d.Rows {
		if i < len(r.Numbers) && !math.IsNaN(r.Numbers[i]) {
			out = append(out, r.Numbers[i])
		}
	}
	return out
}

// CountyColumn returns the county column present in this dataset
func (d *Dataset) CountyColumn() string {
	if d.HasColumn(ColCounty) {
		return ColCounty
	}
	if d.HasColumn(ColCountyAlt) {
		return ColCountyAlt
	}
	return ""
}

// Subset returns a dataset over the same schema holding rows in the given order.
func (d *Dataset) Subset(rows []Record) *Dataset {
	return &Dataset{Columns: d.Columns, Kinds: d.Kinds, Rows: rows, index: d.index}
}

// Facilities returns typed views of every row
func (d *Dataset) Facilities() []Facility {
	out := make([]Facility, len(d.Rows))
	county := d.CountyColumn()
	for i, r := range d.Rows {
		out[i] = d.facility(r, county)
	}
	return out
}

func (d *Dataset) facility(r Record, county string) Facility {
	score, _ := d.Number(r, ColScore)
	lat, _ := d.Number(r, ColLatitude)
	lon, _ := d.Number(r, ColLongitude)
	f := Facility{
		Name:      d.Text(r, ColFacilityName),
		State:     d.Text(r, ColState),
		ZIP:       d.Text(r, ColZIP),
		Measure:   d.Text(r, ColMeasureName),
		Score:     score,
		Latitude:  lat,
		Longitude: lon,
	}
	if county != "" {
		f.County = d.Text(r, county)
	}
	return f
}
