package dashboard

import (
	"facilitydash/domain/facility"
	"facilitydash/internal/analysis"
	"facilitydash/internal/charts"
)

// PanelKind says how a panel is drawn
type PanelKind string

const (
	PanelTable  PanelKind = "table"
	PanelImage  PanelKind = "image"
	PanelFigure PanelKind = "figure"
	PanelExport PanelKind = "export"
)

// Panel ids, also used to build chart URLs
const (
	PanelDataset     = "dataset"
	PanelFiltered    = "filtered"
	PanelHistogram   = "histogram"
	PanelTop         = "top"
	PanelMap         = "map"
	PanelInteractive = "interactive"
	PanelZIPScatter  = "zip-scatter"
	PanelBoxPlot     = "box-plot"
	PanelPairplot    = "pairplot"
	PanelExportID    = "export"
)

// View is everything one render cycle produces
type View struct {
	Variant  string    `json:"variant"`
	Title    string    `json:"title"`
	Errors   []string  `json:"errors,omitempty"`
	Filter   *Applied  `json:"filter,omitempty"`
	Controls *Controls `json:"controls,omitempty"`
	Panels   []Panel   `json:"panels"`

	// Filtered is the dataset behind the filtered panels, nil when rendering stopped early
	Filtered *facility.Dataset `json:"-"`
}

// Applied is the filter actually used after defaults and clamping
type Applied struct {
	State string  `json:"state"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Controls describes the sidebar
type Controls struct {
	States        []string `json:"states"`
	SelectedState string   `json:"selected_state"`
	// Slider is nil when the Score column cannot be filtered
	Slider        *Slider `json:"slider,omitempty"`
	ExportEnabled bool    `json:"export_enabled"`
}

// Slider is the dual-handle Score range control
type Slider struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
	Step float64 `json:"step"`
}

// Panel is one rendered section; Error replaces the content when set
type Panel struct {
	ID      string    `json:"id"`
	Heading string    `json:"heading"`
	Kind    PanelKind `json:"kind"`
	Note    string    `json:"note,omitempty"`
	Error   string    `json:"error,omitempty"`

	Table     *Table              `json:"table,omitempty"`
	Histogram *analysis.Histogram `json:"histogram,omitempty"`
	Figure    *charts.Figure      `json:"figure,omitempty"`
	Export    *Export             `json:"export,omitempty"`
}

// Table is a possibly truncated grid of display strings
type Table struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Total     int        `json:"total"`
	Truncated bool       `json:"truncated"`
}

// Export describes the download of the filtered rows
type Export struct {
	FileName string `json:"file_name"`
	// DataURI is only set when the user asked for the export
	DataURI string `json:"data_uri,omitempty"`
}

// Panel returns the panel with the given id
func (v *View) Panel(id string) (*Panel, bool) {
	for i := range v.Panels {
		if v.Panels[i].ID == id {
			return &v.Panels[i], true
		}
	}
	return nil, false
}

// Failed reports whether rendering stopped before the panels
func (v *View) Failed() bool {
	return len(v.Errors) > 0
}
