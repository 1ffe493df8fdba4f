package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/KaramelBytes/sosdash/internal/freq"
	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNothingToPlot is returned for an empty table or series.
var ErrNothingToPlot = errors.New("nothing to plot")

var (
	barColor  = color.RGBA{R: 58, G: 169, B: 159, A: 255}
	lineColor = color.RGBA{R: 67, G: 133, B: 190, A: 255}
)

// FreqChart saves a bar chart of a frequency table. The image format
// follows the extension of path (png, svg, pdf, ...).
func FreqChart(t *freq.Table, path string) error {
	if t.Empty() {
		return ErrNothingToPlot
	}
	p := plot.New()
	p.Title.Text = "Frequency of " + t.Variable
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = t.Variable
	p.Y.Label.Text = "Count"

	values := make(plotter.Values, len(t.Rows))
	labels := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		values[i] = float64(r.Count)
		labels[i] = Cell(r.Value)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)
	if len(labels) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	p.Y.Min = 0

	width := vg.Length(len(labels))*0.6*vg.Inch + 3*vg.Inch
	if err := p.Save(width, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// ActivityChart saves a line chart of active volunteers per period.
func ActivityChart(by string, buckets []pipeline.ActivityBucket, path string) error {
	if len(buckets) == 0 {
		return ErrNothingToPlot
	}
	p := plot.New()
	p.Title.Text = "Active volunteers by " + by
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = by
	p.Y.Label.Text = "Volunteers"

	points := make(plotter.XYs, len(buckets))
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		points[i].X = float64(i)
		points[i].Y = float64(b.Volunteers)
		labels[i] = b.Period
	}
	line, marks, err := plotter.NewLinePoints(points)
	if err != nil {
		return fmt.Errorf("line chart: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	marks.Shape = draw.CircleGlyph{}
	marks.Color = lineColor
	p.Add(line, marks, plotter.NewGrid())
	p.NominalX(labels...)
	if len(labels) > 8 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	p.Y.Min = 0

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
