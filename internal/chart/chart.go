// Package chart renders a customer's per-date transaction totals as a bar chart.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"txboard/internal/core"
)

// SeriesLabel names the plotted series.
const SeriesLabel = "Total Transaction Amount"

var ErrNoData = errors.New("no data to chart")

var (
	barStroke = drawing.Color{R: 75, G: 192, B: 192, A: 255}
	barFill   = drawing.Color{R: 75, G: 192, B: 192, A: 51}
)

// Renderer draws PNG bar charts of a fixed size.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	return &Renderer{Width: width, Height: height}
}

// RenderPNG writes agg's series as a PNG bar chart, one bar per date in series
// order. The y-axis always includes zero.
func (r *Renderer) RenderPNG(w io.Writer, agg core.Aggregate) error {
	if len(agg.Series) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(agg.Series))
	lo, hi := 0.0, 0.0
	for _, p := range agg.Series {
		bars = append(bars, chart.Value{
			Label: p.Date,
			Value: p.Amount,
			Style: chart.Style{
				FillColor:   barFill,
				StrokeColor: barStroke,
				StrokeWidth: 1,
			},
		})
		lo = min(lo, p.Amount)
		hi = max(hi, p.Amount)
	}
	if lo == 0 && hi == 0 {
		hi = 1
	}

	title := SeriesLabel
	if agg.Customer.Name != "" {
		title = fmt.Sprintf("%s: %s", SeriesLabel, agg.Customer.Name)
	}

	barChart := chart.BarChart{
		Title: title,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:        r.Width,
		Height:       r.Height,
		Bars:         bars,
		UseBaseValue: true,
		BaseValue:    0,
	}
	barChart.YAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	barChart.YAxis.ValueFormatter = func(v interface{}) string {
		if vf, isFloat := v.(float64); isFloat {
			return core.FormatAmount(vf)
		}
		return ""
	}

	if err := barChart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// PNG renders agg into memory.
func (r *Renderer) PNG(agg core.Aggregate) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderPNG(&buf, agg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
