package charts

import (
	"encoding/json"
	"math"
	"strconv"

	"facilitydash/domain/facility"
	"facilitydash/internal/analysis"
)

// Trace is one plotly.js trace
type Trace map[string]interface{}

// Figure is a plotly.js figure: traces plus layout
type Figure struct {
	Data   []Trace                `json:"data"`
	Layout map[string]interface{} `json:"layout"`
}

// JSON encodes the figure for embedding in a page
func (f *Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}

// GeoScatter places located facilities on a world map; marker size and colour follow Score
func GeoScatter(facilities []facility.Facility) *Figure {
	var lats, lons, scores []float64
	names := []string{}
	for _, f := range facilities {
		if !f.HasLocation() || !f.HasScore() {
			continue
		}
		lats = append(lats, f.Latitude)
		lons = append(lons, f.Longitude)
		scores = append(scores, f.Score)
		names = append(names, f.Name)
	}
	sizes, sizeref := analysis.MarkerSizing(scores, analysis.DefaultMarkerSizeMax)

	trace := Trace{
		"type":          "scattergeo",
		"mode":          "markers",
		"lat":           nonNil(lats),
		"lon":           nonNil(lons),
		"hovertext":     names,
		"hovertemplate": "<b>%{hovertext}</b><br>Score=%{marker.color}<extra></extra>",
		"marker": map[string]interface{}{
			"size":       nonNil(sizes),
			"sizemode":   "area",
			"sizeref":    sizeref,
			"color":      nonNil(scores),
			"colorscale": "Plasma",
			"showscale":  true,
			"colorbar":   map[string]interface{}{"title": map[string]string{"text": "Score"}},
		},
	}

	return &Figure{
		Data: []Trace{trace},
		Layout: map[string]interface{}{
			"geo": map[string]interface{}{
				"projection":    map[string]string{"type": "natural earth"},
				"showcountries": true,
				"countrywidth":  0.5,
				"countrycolor":  "Black",
			},
			"margin": map[string]int{"l": 0, "r": 0, "t": 30, "b": 0},
		},
	}
}

// ZIPScatter plots Score against ZIP Code with one trace per county
func ZIPScatter(facilities []facility.Facility) *Figure {
	type group struct {
		x     []interface{}
		y     []float64
		names []string
	}
	var order []string
	groups := make(map[string]*group)
	for _, f := range facilities {
		if !f.HasScore() {
			continue
		}
		g, ok := groups[f.County]
		if !ok {
			g = &group{}
			groups[f.County] = g
			order = append(order, f.County)
		}
		g.x = append(g.x, zipValue(f.ZIP))
		g.y = append(g.y, f.Score)
		g.names = append(g.names, f.Name)
	}

	traces := make([]Trace, 0, len(order))
	for _, county := range order {
		g := groups[county]
		traces = append(traces, Trace{
			"type":          "scatter",
			"mode":          "markers",
			"name":          county,
			"x":             g.x,
			"y":             g.y,
			"hovertext":     g.names,
			"hovertemplate": "<b>%{hovertext}</b><br>ZIP Code=%{x}<br>Score=%{y}<extra>" + county + "</extra>",
		})
	}

	return &Figure{
		Data: traces,
		Layout: map[string]interface{}{
			"title":  map[string]string{"text": "Scores vs. ZIP Code"},
			"xaxis":  map[string]interface{}{"title": map[string]string{"text": "ZIP Code"}},
			"yaxis":  map[string]interface{}{"title": map[string]string{"text": "Score"}},
			"legend": map[string]interface{}{"title": map[string]string{"text": facility.ColCounty}},
		},
	}
}

// BoxPlot shows Score by Measure Name, one coloured trace per county,
// using precomputed quartiles.
func BoxPlot(facilities []facility.Facility) *Figure {
	var measures, counties []string
	var scores []float64
	for _, f := range facilities {
		if !f.HasScore() {
			continue
		}
		measures = append(measures, f.Measure)
		counties = append(counties, f.County)
		scores = append(scores, f.Score)
	}
	cats, groups, boxes := analysis.GroupedBoxes(measures, counties, scores)

	traces := make([]Trace, 0, len(groups))
	for _, county := range groups {
		var x []string
		var q1, med, q3, lo, hi, mean []float64
		for _, measure := range cats {
			b, ok := boxes[analysis.GroupKey{Category: measure, Group: county}]
			if !ok {
				continue
			}
			x = append(x, measure)
			q1 = append(q1, b.Q1)
			med = append(med, b.Median)
			q3 = append(q3, b.Q3)
			lo = append(lo, b.LowerFence)
			hi = append(hi, b.UpperFence)
			mean = append(mean, b.Mean)
		}
		traces = append(traces, Trace{
			"type":       "box",
			"name":       county,
			"x":          x,
			"q1":         q1,
			"median":     med,
			"q3":         q3,
			"lowerfence": lo,
			"upperfence": hi,
			"mean":       mean,
		})
	}

	return &Figure{
		Data: traces,
		Layout: map[string]interface{}{
			"title":   map[string]string{"text": "Scores by Measure Name"},
			"boxmode": "group",
			"xaxis":   map[string]interface{}{"title": map[string]string{"text": facility.ColMeasureName}},
			"yaxis":   map[string]interface{}{"title": map[string]string{"text": "Score"}},
			"legend":  map[string]interface{}{"title": map[string]string{"text": facility.ColCounty}},
		},
	}
}

// zipValue keeps numeric ZIP codes on a numeric axis
func zipValue(zip string) interface{} {
	if v, err := strconv.ParseFloat(zip, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	return zip
}

func nonNil(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}
