package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"facilitydash/domain/facility"
	"facilitydash/internal/analysis"
	"facilitydash/internal/charts"
	"facilitydash/internal/filter"
)

// Messages shown to users
const (
	LoadFailedMessage    = "Failed to load dataset."
	StateMissingMessage  = "State column not found in the dataset."
	NoScoresMessage      = "No scores to plot for the current filters."
	NoNumericMessage     = "No numeric columns to plot."
	ExportFailedMessage  = "Failed to prepare the export."
	DefaultTableRowLimit = 500
	ExportFileName       = "filtered_data.csv"
)

// Input is everything a render cycle depends on
type Input struct {
	Variant    Variant
	Dataset    *facility.Dataset
	LoadErr    error
	Filter     FilterState
	Export     bool
	TableLimit int
}

// Render runs filter and presentation for one interaction. It has no side effects:
// the same Input always yields the same View.
func Render(in Input) View {
	v := View{Variant: in.Variant.Name, Title: in.Variant.Title, Panels: []Panel{}}
	limit := in.TableLimit
	if limit <= 0 {
		limit = DefaultTableRowLimit
	}

	if in.LoadErr != nil || in.Dataset == nil {
		if in.LoadErr != nil {
			v.Errors = append(v.Errors, fmt.Sprintf("Error loading dataset: %v", in.LoadErr))
		}
		v.Errors = append(v.Errors, LoadFailedMessage)
		return v
	}
	ds := in.Dataset

	v.Panels = append(v.Panels, Panel{
		ID: PanelDataset, Heading: "### Dataset", Kind: PanelTable,
		Table: datasetTable(ds, limit),
	})

	if !ds.HasColumn(facility.ColState) {
		v.Errors = append(v.Errors, StateMissingMessage)
		return v
	}
	states := filter.States(ds)
	selected := in.Filter.State
	if !contains(states, selected) {
		selected = ""
		if len(states) > 0 {
			selected = states[0]
		}
	}
	v.Controls = &Controls{States: states, SelectedState: selected, ExportEnabled: in.Variant.Export}

	byState := filter.ByState(ds, selected)
	scope := byState
	if in.Variant.Bounds == BoundsDataset {
		scope = ds
	}
	if err := filter.RequireScore(scope); err != nil {
		v.Errors = append(v.Errors, filter.ScoreErrorMessage)
		return v
	}
	lo, hi, _ := filter.ScoreBounds(scope)
	low, high := resolveRange(in.Filter, lo, hi)
	v.Controls.Slider = &Slider{Min: lo, Max: hi, Low: low, High: high, Step: sliderStep(scope)}
	v.Filter = &Applied{State: selected, Min: low, Max: high}

	filtered := filter.ByScore(byState, low, high)
	v.Filtered = filtered
	facilities := filtered.Facilities()

	v.Panels = append(v.Panels, filteredPanel(filtered, limit))
	v.Panels = append(v.Panels, histogramPanel(filtered))
	v.Panels = append(v.Panels, topPanel(filtered, facilities))

	if in.Variant.Map {
		v.Panels = append(v.Panels, mapPanel(filtered, facilities))
	}
	if in.Variant.Explore {
		v.Panels = append(v.Panels,
			Panel{
				ID: PanelInteractive, Heading: "### Interactive Table", Kind: PanelTable,
				Table: datasetTable(filtered, limit),
			},
			zipScatterPanel(filtered, facilities),
			boxPlotPanel(filtered, facilities),
			pairplotPanel(filtered),
		)
	}
	if in.Variant.Export {
		p := Panel{
			ID: PanelExportID, Heading: "### Data Export", Kind: PanelExport,
			Export: &Export{FileName: ExportFileName},
		}
		if in.Export {
			if payload, err := ExportCSV(filtered, in.Variant.Encoding); err != nil {
				p.Error = ExportFailedMessage
			} else {
				p.Export.DataURI = DataURI(payload)
			}
		}
		v.Panels = append(v.Panels, p)
	}

	return v
}

func filteredPanel(ds *facility.Dataset, limit int) Panel {
	p := Panel{ID: PanelFiltered, Heading: "### Filtered Dataset", Kind: PanelTable, Table: datasetTable(ds, limit)}
	if s, ok := analysis.Summarize(ds.Values(facility.ColScore)); ok {
		p.Note = fmt.Sprintf("%d rows · mean score %.3f · std %.3f · min %s · max %s",
			ds.Len(), s.Mean, s.Std, formatNumber(s.Min), formatNumber(s.Max))
	}
	return p
}

func histogramPanel(ds *facility.Dataset) Panel {
	p := Panel{
		ID:      PanelHistogram,
		Heading: "### Data Visualization\n\n#### Distribution of Scores",
		Kind:    PanelImage,
	}
	h, err := analysis.NewHistogram(ds.Values(facility.ColScore), analysis.DefaultBins)
	if err != nil {
		p.Error = NoScoresMessage
		return p
	}
	p.Histogram = h
	return p
}

func topPanel(ds *facility.Dataset, facilities []facility.Facility) Panel {
	p := Panel{ID: PanelTop, Heading: "#### Top Facilities by Score", Kind: PanelTable}
	if !ds.HasColumn(facility.ColFacilityName) {
		p.Error = missingColumns(facility.ColFacilityName)
		return p
	}
	top := analysis.TopN(facilities, analysis.DefaultTopN)
	t := &Table{Columns: []string{facility.ColFacilityName, facility.ColScore}, Total: len(top), Rows: make([][]string, len(top))}
	for i, f := range top {
		t.Rows[i] = []string{f.Name, formatNumber(f.Score)}
	}
	p.Table = t
	return p
}

func mapPanel(ds *facility.Dataset, facilities []facility.Facility) Panel {
	p := Panel{ID: PanelMap, Heading: "#### Map of Facilities by Location", Kind: PanelFigure}
	if !ds.IsNumeric(facility.ColLatitude) || !ds.IsNumeric(facility.ColLongitude) {
		p.Error = missingColumns(facility.ColLatitude, facility.ColLongitude)
		return p
	}
	p.Figure = charts.GeoScatter(facilities)
	return p
}

func zipScatterPanel(ds *facility.Dataset, facilities []facility.Facility) Panel {
	p := Panel{ID: PanelZIPScatter, Heading: "#### Scatter plot of Scores vs. ZIP Code", Kind: PanelFigure}
	if !ds.HasColumn(facility.ColZIP) || ds.CountyColumn() == "" {
		p.Error = missingColumns(facility.ColZIP, facility.ColCounty)
		return p
	}
	p.Figure = charts.ZIPScatter(facilities)
	return p
}

func boxPlotPanel(ds *facility.Dataset, facilities []facility.Facility) Panel {
	p := Panel{ID: PanelBoxPlot, Heading: "#### Box plot of Scores by Measure Name", Kind: PanelFigure}
	if !ds.HasColumn(facility.ColMeasureName) || ds.CountyColumn() == "" {
		p.Error = missingColumns(facility.ColMeasureName, facility.ColCounty)
		return p
	}
	p.Figure = charts.BoxPlot(facilities)
	return p
}

func pairplotPanel(ds *facility.Dataset) Panel {
	p := Panel{ID: PanelPairplot, Heading: "#### Pairplot of Numeric Columns", Kind: PanelImage}
	cols := analysis.NumericColumns(ds)
	if len(cols) == 0 || ds.Len() == 0 {
		p.Error = NoNumericMessage
		return p
	}
	if len(cols) > analysis.MaxPairColumns {
		p.Note = fmt.Sprintf("Showing the first %d of %d numeric columns.", analysis.MaxPairColumns, len(cols))
	}
	return p
}

// PairGrid builds the pairplot data for a filtered dataset
func PairGrid(ds *facility.Dataset) *analysis.PairGrid {
	return analysis.NewPairGrid(ds, analysis.NumericColumns(ds), analysis.MaxPairColumns)
}

func datasetTable(ds *facility.Dataset, limit int) *Table {
	n := ds.Len()
	shown := n
	if shown > limit {
		shown = limit
	}
	t := &Table{Columns: ds.Columns, Total: n, Truncated: shown < n, Rows: make([][]string, shown)}
	for i := 0; i < shown; i++ {
		t.Rows[i] = displayRow(ds, ds.Rows[i])
	}
	return t
}

// displayRow renders missing numbers as empty cells
func displayRow(ds *facility.Dataset, r facility.Record) []string {
	out := make([]string, len(ds.Columns))
	for i := range ds.Columns {
		if ds.Kinds[i] == facility.KindNumeric && math.IsNaN(r.Numbers[i]) {
			continue
		}
		out[i] = r.Cells[i]
	}
	return out
}

// sliderStep is 1 for whole-number scores and 0.01 otherwise
func sliderStep(ds *facility.Dataset) float64 {
	for _, v := range ds.Values(facility.ColScore) {
		if v != math.Trunc(v) {
			return 0.01
		}
	}
	return 1
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func missingColumns(cols ...string) string {
	if len(cols) == 1 {
		return cols[0] + " column not found in the dataset."
	}
	return strings.Join(cols, " and ") + " columns not found in the dataset."
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
