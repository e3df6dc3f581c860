package render

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Line is one plotted series. Points must be in time order.
type Line struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// Level is a horizontal reference line such as support or resistance.
type Level struct {
	Name  string
	Value float64
	Color drawing.Color
}

// ChartSpec describes a PNG line chart.
type ChartSpec struct {
	Title      string
	Width      int
	Height     int
	TimeFormat string
	Lines      []Line
	Levels     []Level
}

var lineColors = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
}

// Level colours.
var (
	ColorResistance = drawing.ColorFromHex("d62728")
	ColorSupport    = drawing.ColorFromHex("2ca02c")
	ColorAverage    = drawing.ColorFromHex("9467bd")
)

// RenderChart writes spec as a PNG.
func RenderChart(w io.Writer, spec ChartSpec) error {
	if len(spec.Lines) == 0 || len(spec.Lines[0].Times) < 2 {
		return &RenderError{Format: "png", Err: ErrNotEnoughPoints}
	}
	width, height := spec.Width, spec.Height
	if width == 0 {
		width = 1024
	}
	if height == 0 {
		height = 512
	}
	format := spec.TimeFormat
	if format == "" {
		format = "02 Jan"
	}

	var series []chart.Series
	for i, l := range spec.Lines {
		if len(l.Times) != len(l.Values) {
			return &RenderError{Format: "png", Err: fmt.Errorf("line %q: %d times, %d values", l.Name, len(l.Times), len(l.Values))}
		}
		series = append(series, chart.TimeSeries{
			Name:    l.Name,
			XValues: l.Times,
			YValues: l.Values,
			Style: chart.Style{
				StrokeColor: lineColors[i%len(lineColors)],
				StrokeWidth: 2,
			},
		})
	}

	first := spec.Lines[0]
	start, end := first.Times[0], first.Times[len(first.Times)-1]
	for _, lv := range spec.Levels {
		series = append(series, chart.TimeSeries{
			Name:    fmt.Sprintf("%s %.2f", lv.Name, lv.Value),
			XValues: []time.Time{start, end},
			YValues: []float64{lv.Value, lv.Value},
			Style: chart.Style{
				StrokeColor:     lv.Color,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		})
	}

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat(format),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return &RenderError{Format: "png", Err: err}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ChartPNG renders spec into memory, for embedding into documents.
func ChartPNG(spec ChartSpec) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, spec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
