// Package charts renders the dashboard bar charts as PNG images.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"sipeta/models"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("charts: no data to plot")

const (
	barWidth    = 20
	chartHeight = 6 * vg.Inch
	maxRating   = 5.0
)

// CategoryBarChart draws one bar per category, height = listing count,
// shaded by mean rating (darker is better).
func CategoryBarChart(w io.Writer, stats []models.CategoryStat, title string) error {
	if len(stats) == 0 {
		return ErrNoData
	}

	p := newPlot(title, "Kategori", "Jumlah UMKM")
	labels := make([]string, len(stats))
	var maxCount float64

	for i, s := range stats {
		bars, err := plotter.NewBarChart(plotter.Values{float64(s.Count)}, vg.Points(barWidth))
		if err != nil {
			return fmt.Errorf("charts: category bar: %w", err)
		}
		bars.XMin = float64(i)
		bars.Color = ratingShade(s.MeanRating)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)

		labels[i] = s.Category
		maxCount = math.Max(maxCount, float64(s.Count))
	}

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0
	p.Y.Max = maxCount * 1.15

	return render(w, p, chartWidth(len(stats)))
}

// GroupBarChart draws listing counts per business group.
func GroupBarChart(w io.Writer, stats []models.GroupStat, title string) error {
	if len(stats) == 0 {
		return ErrNoData
	}

	p := newPlot(title, "Kelompok Bisnis", "Jumlah UMKM")
	values := make(plotter.Values, len(stats))
	labels := make([]string, len(stats))
	for i, s := range stats {
		values[i] = float64(s.Count)
		labels[i] = string(s.Group)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(barWidth*2))
	if err != nil {
		return fmt.Errorf("charts: group bars: %w", err)
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	for i, v := range values {
		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: float64(i), Y: v}},
			Labels: []string{fmt.Sprintf("%.0f", v)},
		})
		if err == nil {
			p.Add(label)
		}
	}

	p.NominalX(labels...)
	p.Y.Min = 0

	return render(w, p, chartWidth(len(stats)))
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func render(w io.Writer, p *plot.Plot, width vg.Length) error {
	wt, err := p.WriterTo(width, chartHeight, "png")
	if err != nil {
		return fmt.Errorf("charts: prepare png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("charts: write png: %w", err)
	}
	return nil
}

// chartWidth grows with the number of bars, within sane limits.
func chartWidth(n int) vg.Length {
	width := vg.Length(n) * vg.Points(barWidth*2.5)
	if width < 8*vg.Inch {
		return 8 * vg.Inch
	}
	if width > 24*vg.Inch {
		return 24 * vg.Inch
	}
	return width
}

// ratingShade maps a 0-5 rating onto a light-to-dark red ramp.
func ratingShade(rating float64) color.RGBA {
	t := rating / maxRating
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return color.RGBA{R: lerp(254, 165), G: lerp(224, 15), B: lerp(210, 21), A: 255}
}
