package dashboard

import (
	"encoding/json"
	"fmt"
	"testing"

	"facilitydash/domain/facility"
	"facilitydash/internal/filter"
	"facilitydash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario(t *testing.T, v Variant) *facility.Dataset {
	t.Helper()
	opts := v.LoadOptions()
	ds, err := testkit.BuildDataset(testkit.ScenarioRows(), opts.Coerce...)
	require.NoError(t, err)
	return ds
}

func panelIDs(v View) []string {
	ids := make([]string, len(v.Panels))
	for i, p := range v.Panels {
		ids[i] = p.ID
	}
	return ids
}

func bounds(lo, hi float64) FilterState {
	return FilterState{}.WithBounds(lo, hi)
}

func TestRender_PanelOrderPerVariant(t *testing.T) {
	tests := []struct {
		variant Variant
		want    []string
	}{
		{Facility, []string{PanelDataset, PanelFiltered, PanelHistogram, PanelTop, PanelMap}},
		{Infections, []string{
			PanelDataset, PanelFiltered, PanelHistogram, PanelTop,
			PanelInteractive, PanelZIPScatter, PanelBoxPlot, PanelPairplot, PanelExportID,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.variant.Name, func(t *testing.T) {
			view := Render(Input{Variant: tt.variant, Dataset: scenario(t, tt.variant)})

			assert.Empty(t, view.Errors)
			assert.Equal(t, tt.want, panelIDs(view))
			assert.Equal(t, tt.variant.Title, view.Title)
		})
	}
}

func TestRender_DefaultsToFirstStateAndFullRange(t *testing.T) {
	view := Render(Input{Variant: Facility, Dataset: scenario(t, Facility)})

	require.NotNil(t, view.Controls)
	assert.Equal(t, []string{"TX", "CA"}, view.Controls.States)
	assert.Equal(t, "TX", view.Controls.SelectedState)
	assert.False(t, view.Controls.ExportEnabled)

	require.NotNil(t, view.Controls.Slider)
	assert.Equal(t, Slider{Min: 5, Max: 9, Low: 5, High: 9, Step: 1}, *view.Controls.Slider)
	assert.Equal(t, &Applied{State: "TX", Min: 5, Max: 9}, view.Filter)
	assert.Equal(t, 2, view.Filtered.Len())
}

func TestRender_ScenarioFilter(t *testing.T) {
	in := Input{Variant: Facility, Dataset: scenario(t, Facility), Filter: bounds(6, 10)}
	in.Filter.State = "TX"

	view := Render(in)

	filtered, ok := view.Panel(PanelFiltered)
	require.True(t, ok)
	require.Len(t, filtered.Table.Rows, 1)
	assert.Equal(t, "Beta Hospital", filtered.Table.Rows[0][0])
	assert.Equal(t, 9.0, view.Filter.Max, "requested max is clamped to the slider bounds")

	top, ok := view.Panel(PanelTop)
	require.True(t, ok)
	assert.Equal(t, []string{facility.ColFacilityName, facility.ColScore}, top.Table.Columns)
	assert.Equal(t, [][]string{{"Beta Hospital", "9"}}, top.Table.Rows)
}

func TestRender_BoundsScope(t *testing.T) {
	filter := FilterState{State: "CA"}

	byDataset := Render(Input{Variant: Facility, Dataset: scenario(t, Facility), Filter: filter})
	assert.Equal(t, 5.0, byDataset.Controls.Slider.Min)
	assert.Equal(t, 9.0, byDataset.Controls.Slider.Max)

	byState := Render(Input{Variant: Infections, Dataset: scenario(t, Infections), Filter: filter})
	assert.Equal(t, 7.0, byState.Controls.Slider.Min)
	assert.Equal(t, 7.0, byState.Controls.Slider.Max)
	assert.Equal(t, 1, byState.Filtered.Len())
}

func TestRender_EmptyRangeStillRenders(t *testing.T) {
	in := Input{Variant: Facility, Dataset: scenario(t, Facility), Filter: bounds(6, 8)}
	in.Filter.State = "TX"

	view := Render(in)

	assert.Empty(t, view.Errors)
	assert.Equal(t, 0, view.Filtered.Len())
	hist, ok := view.Panel(PanelHistogram)
	require.True(t, ok)
	assert.Equal(t, NoScoresMessage, hist.Error)
	assert.Nil(t, hist.Histogram)

	top, _ := view.Panel(PanelTop)
	assert.Empty(t, top.Table.Rows)
}

func TestRender_LoadError(t *testing.T) {
	view := Render(Input{Variant: Infections, LoadErr: fmt.Errorf("file not found")})

	assert.Equal(t, []string{"Error loading dataset: file not found", LoadFailedMessage}, view.Errors)
	assert.Empty(t, view.Panels)
	assert.Nil(t, view.Controls)
	assert.True(t, view.Failed())
}

func TestRender_ScoreSchemaError(t *testing.T) {
	rows := testkit.ScenarioRows()
	rows[1][5] = "high"
	ds, err := testkit.BuildDataset(rows)
	require.NoError(t, err)

	view := Render(Input{Variant: Facility, Dataset: ds})

	assert.Equal(t, []string{filter.ScoreErrorMessage}, view.Errors)
	assert.Equal(t, []string{PanelDataset}, panelIDs(view))
	require.NotNil(t, view.Controls)
	assert.Nil(t, view.Controls.Slider)
	assert.Nil(t, view.Filter)
}

func TestRender_MissingStateColumn(t *testing.T) {
	ds := facility.NewDataset(
		[]string{facility.ColScore},
		[]facility.ColumnKind{facility.KindNumeric},
		[]facility.Record{{Cells: []string{"1"}, Numbers: []float64{1}}},
	)

	view := Render(Input{Variant: Infections, Dataset: ds})

	assert.Equal(t, []string{StateMissingMessage}, view.Errors)
	assert.Equal(t, []string{PanelDataset}, panelIDs(view))
	assert.Nil(t, view.Controls)
}

func TestRender_MapNeedsCoordinates(t *testing.T) {
	rows := testkit.ScenarioRows()
	for i := range rows {
		rows[i] = rows[i][:6]
	}
	ds, err := testkit.BuildDataset(rows)
	require.NoError(t, err)

	view := Render(Input{Variant: Facility, Dataset: ds})

	m, ok := view.Panel(PanelMap)
	require.True(t, ok)
	assert.Nil(t, m.Figure)
	assert.Equal(t, "Latitude and Longitude columns not found in the dataset.", m.Error)
}

func TestRender_ExportPayloadOnRequest(t *testing.T) {
	ds := scenario(t, Infections)

	idle := Render(Input{Variant: Infections, Dataset: ds})
	p, ok := idle.Panel(PanelExportID)
	require.True(t, ok)
	assert.Equal(t, ExportFileName, p.Export.FileName)
	assert.Empty(t, p.Export.DataURI)

	clicked := Render(Input{Variant: Infections, Dataset: ds, Export: true})
	p, _ = clicked.Panel(PanelExportID)
	payload, err := ExportCSV(clicked.Filtered, Infections.Encoding)
	require.NoError(t, err)
	assert.Equal(t, DataURI(payload), p.Export.DataURI)
}

func TestRender_Deterministic(t *testing.T) {
	in := Input{Variant: Infections, Dataset: scenario(t, Infections), Filter: bounds(5, 9), Export: true}

	first, err := json.Marshal(Render(in))
	require.NoError(t, err)
	second, err := json.Marshal(Render(in))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestRender_TableTruncation(t *testing.T) {
	gen := testkit.NewFacilityDataGenerator(testkit.DefaultFacilityConfig())
	ds, err := testkit.BuildDataset(gen.GenerateRows(), facility.ColScore)
	require.NoError(t, err)

	view := Render(Input{Variant: Infections, Dataset: ds, TableLimit: 25})

	raw, ok := view.Panel(PanelDataset)
	require.True(t, ok)
	assert.Len(t, raw.Table.Rows, 25)
	assert.Equal(t, ds.Len(), raw.Table.Total)
	assert.True(t, raw.Table.Truncated)
}

func TestSliderStep(t *testing.T) {
	assert.Equal(t, 1.0, sliderStep(scenario(t, Facility)))

	rows := testkit.ScenarioRows()
	rows[1][5] = "1.25"
	ds, err := testkit.BuildDataset(rows)
	require.NoError(t, err)
	assert.Equal(t, 0.01, sliderStep(ds))
}
