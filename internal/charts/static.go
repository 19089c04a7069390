package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"facilitydash/internal/analysis"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	barColor     = drawing.ColorFromHex("4c72b0")
	densityColor = drawing.ColorFromHex("1f3b73")
)

// HistogramPNG draws the score histogram with its density line
func HistogramPNG(h *analysis.Histogram, width, height int) ([]byte, error) {
	if h == nil || h.N == 0 {
		return nil, fmt.Errorf("histogram has no values")
	}

	maxCount := 0
	for _, c := range h.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	counts := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		counts[i] = float64(c)
	}
	yMax := float64(maxCount)
	if h.KDE != nil {
		for _, y := range h.KDE.Y {
			yMax = math.Max(yMax, y)
		}
	}

	series := []chart.Series{
		chart.HistogramSeries{
			Name: "Count",
			Style: chart.Style{
				FillColor:   barColor.WithAlpha(180),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
			InnerSeries: chart.ContinuousSeries{XValues: h.Centers(), YValues: counts},
		},
	}
	if h.KDE != nil {
		series = append(series, chart.ContinuousSeries{
			Name:    "KDE",
			Style:   chart.Style{StrokeColor: densityColor, StrokeWidth: 2},
			XValues: h.KDE.X,
			YValues: h.KDE.Y,
		})
	}

	ch := chart.Chart{
		Title:  "Distribution of Scores",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Score",
			Range: &chart.ContinuousRange{Min: h.Edges[0], Max: h.Edges[len(h.Edges)-1]},
		},
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.1},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render histogram: %w", err)
	}
	return buf.Bytes(), nil
}

// PairplotPNG tiles a grid of small charts: histograms on the diagonal and
// scatter plots elsewhere.
func PairplotPNG(g *analysis.PairGrid, cell int) ([]byte, error) {
	n := len(g.Columns)
	if n == 0 {
		return nil, fmt.Errorf("no numeric columns to plot")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, n*cell, n*cell))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var (
				tile []byte
				err  error
			)
			if i == j {
				tile, err = diagonalTile(g, i, cell)
			} else {
				tile, err = scatterTile(g, i, j, cell)
			}
			if err != nil {
				return nil, err
			}
			if tile == nil {
				continue
			}
			img, err := png.Decode(bytes.NewReader(tile))
			if err != nil {
				return nil, fmt.Errorf("failed to decode pairplot tile: %w", err)
			}
			origin := image.Pt(j*cell, i*cell)
			draw.Draw(canvas, image.Rectangle{Min: origin, Max: origin.Add(img.Bounds().Size())}, img, img.Bounds().Min, draw.Over)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode pairplot: %w", err)
	}
	return buf.Bytes(), nil
}

// diagonalTile returns nil when the column has no values
func diagonalTile(g *analysis.PairGrid, i, cell int) ([]byte, error) {
	values := g.Present(i)
	if len(values) == 0 {
		return nil, nil
	}
	h, err := analysis.NewHistogram(values, analysis.DefaultBins)
	if err != nil {
		return nil, err
	}
	counts := make([]float64, len(h.Counts))
	maxCount := 0.0
	for k, c := range h.Counts {
		counts[k] = float64(c)
		maxCount = math.Max(maxCount, counts[k])
	}

	ch := tileChart(g.Columns[i], cell)
	ch.XAxis.Range = &chart.ContinuousRange{Min: h.Edges[0], Max: h.Edges[len(h.Edges)-1]}
	ch.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: maxCount * 1.1}
	ch.Series = []chart.Series{
		chart.HistogramSeries{
			Style:       chart.Style{FillColor: barColor.WithAlpha(180), StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
			InnerSeries: chart.ContinuousSeries{XValues: h.Centers(), YValues: counts},
		},
	}
	return renderTile(ch)
}

// scatterTile plots column j on x against column i on y
func scatterTile(g *analysis.PairGrid, i, j, cell int) ([]byte, error) {
	ys, xs := g.Pairs(i, j)
	if len(xs) == 0 {
		return nil, nil
	}
	title := fmt.Sprintf("%s vs %s", g.Columns[i], g.Columns[j])
	if r := g.Corr[i][j]; !math.IsNaN(r) {
		title = fmt.Sprintf("%s (r=%.2f)", title, r)
	}

	ch := tileChart(title, cell)
	ch.XAxis.Range = paddedRange(xs)
	ch.YAxis.Range = paddedRange(ys)
	ch.Series = []chart.Series{
		chart.ContinuousSeries{
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 2, DotColor: barColor.WithAlpha(160)},
			XValues: xs,
			YValues: ys,
		},
	}
	return renderTile(ch)
}

func tileChart(title string, cell int) chart.Chart {
	return chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 8},
		Width:      cell,
		Height:     cell,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 8, Right: 8, Bottom: 8}},
		XAxis:      chart.XAxis{Style: chart.Style{FontSize: 6}},
		YAxis:      chart.YAxis{Style: chart.Style{FontSize: 6}},
	}
}

func renderTile(ch chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render pairplot tile %q: %w", ch.Title, err)
	}
	return buf.Bytes(), nil
}

// paddedRange spans the values with 5% margin; a constant series gets ±0.5
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return &chart.ContinuousRange{Min: lo - 0.5, Max: hi + 0.5}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
