package charts

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"facilitydash/domain/facility"
	"facilitydash/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func sampleFacilities() []facility.Facility {
	nan := math.NaN()
	return []facility.Facility{
		{Name: "Alpha Hospital", State: "TX", County: "Harris", ZIP: "77001", Measure: "CLABSI", Score: 5, Latitude: 29.76, Longitude: -95.36},
		{Name: "Beta Hospital", State: "TX", County: "Travis", ZIP: "78701", Measure: "CAUTI", Score: 9, Latitude: 30.27, Longitude: -97.74},
		{Name: "Delta Clinic", State: "TX", County: "Harris", ZIP: "77002", Measure: "CLABSI", Score: 7, Latitude: nan, Longitude: nan},
		{Name: "Echo Clinic", State: "TX", County: "Harris", ZIP: "77003", Measure: "CLABSI", Score: nan, Latitude: 29.7, Longitude: -95.3},
	}
}

func TestHistogramPNG(t *testing.T) {
	h, err := analysis.NewHistogram([]float64{1, 2, 2, 3, 5, 8}, analysis.DefaultBins)
	require.NoError(t, err)

	data, err := HistogramPNG(h, 640, 360)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 360, img.Bounds().Dy())

	_, err = HistogramPNG(nil, 640, 360)
	assert.Error(t, err)
}

func TestPairplotPNG(t *testing.T) {
	nan := math.NaN()
	ds := facility.NewDataset(
		[]string{"Score", "Beds"},
		[]facility.ColumnKind{facility.KindNumeric, facility.KindNumeric},
		[]facility.Record{
			{Cells: []string{"1", "10"}, Numbers: []float64{1, 10}},
			{Cells: []string{"2", "25"}, Numbers: []float64{2, 25}},
			{Cells: []string{"4", ""}, Numbers: []float64{4, nan}},
			{Cells: []string{"3", "30"}, Numbers: []float64{3, 30}},
		},
	)
	g := analysis.NewPairGrid(ds, analysis.NumericColumns(ds), analysis.MaxPairColumns)

	data, err := PairplotPNG(g, 200)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	_, err = PairplotPNG(&analysis.PairGrid{}, 200)
	assert.Error(t, err)
}

func TestGeoScatter_SkipsUnlocatedAndMissingScores(t *testing.T) {
	raw, err := GeoScatter(sampleFacilities()).JSON()
	require.NoError(t, err)
	doc := gjson.ParseBytes(raw)

	assert.Equal(t, "scattergeo", doc.Get("data.0.type").String())
	assert.Equal(t, int64(2), doc.Get("data.0.lat.#").Int())
	assert.Equal(t, "Alpha Hospital", doc.Get("data.0.hovertext.0").String())
	assert.Equal(t, "area", doc.Get("data.0.marker.sizemode").String())
	assert.Equal(t, 9.0, doc.Get("data.0.marker.color.1").Float())
	assert.Equal(t, "natural earth", doc.Get("layout.geo.projection.type").String())
}

func TestGeoScatter_EmptyKeepsArrays(t *testing.T) {
	raw, err := GeoScatter(nil).JSON()
	require.NoError(t, err)
	doc := gjson.ParseBytes(raw)

	assert.True(t, doc.Get("data.0.lat").IsArray())
	assert.Equal(t, int64(0), doc.Get("data.0.lat.#").Int())
}

func TestZIPScatter_OneTracePerCounty(t *testing.T) {
	raw, err := ZIPScatter(sampleFacilities()).JSON()
	require.NoError(t, err)
	doc := gjson.ParseBytes(raw)

	require.Equal(t, int64(2), doc.Get("data.#").Int())
	assert.Equal(t, "Harris", doc.Get("data.0.name").String())
	assert.Equal(t, "Travis", doc.Get("data.1.name").String())
	assert.Equal(t, []interface{}{77001.0, 77002.0}, doc.Get("data.0.x").Value())
	assert.Equal(t, "Scores vs. ZIP Code", doc.Get("layout.title.text").String())
}

func TestBoxPlot_GroupsByCounty(t *testing.T) {
	raw, err := BoxPlot(sampleFacilities()).JSON()
	require.NoError(t, err)
	doc := gjson.ParseBytes(raw)

	require.Equal(t, int64(2), doc.Get("data.#").Int())
	assert.Equal(t, "box", doc.Get("data.0.type").String())
	assert.Equal(t, "Harris", doc.Get("data.0.name").String())
	assert.Equal(t, "CLABSI", doc.Get("data.0.x.0").String())
	assert.Equal(t, 6.0, doc.Get("data.0.median.0").Float())
	assert.Equal(t, "group", doc.Get("layout.boxmode").String())
}

func TestZIPValue(t *testing.T) {
	assert.Equal(t, 77001.0, zipValue("77001"))
	assert.Equal(t, "00901-1234", zipValue("00901-1234"))
}
