package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tsawler/radardoc/model"
)

// CoherenceSize is the rendered size of a coherence plot (600x600 px at 100 dpi).
const CoherenceSize = 6 * vg.Inch

var (
	markerBlue = color.RGBA{B: 255, A: 255}
	majorGrid  = color.Gray{Y: 102}
	minorGrid  = color.Gray{Y: 178}
)

// Fit is a least-squares line y = Intercept + Slope*x.
type Fit struct {
	Intercept float64
	Slope     float64
}

// At returns the fitted value at x.
func (f Fit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// FitLine returns the least-squares line through the samples. ok is false
// when the before values do not span a range.
func FitLine(samples []model.CoherenceSample) (fit Fit, ok bool) {
	before, after := model.SplitCoherence(samples)
	if len(before) < 2 || floats.Min(before) == floats.Max(before) {
		return Fit{}, false
	}
	alpha, beta := stat.LinearRegression(before, after, nil, false)
	return Fit{Intercept: alpha, Slope: beta}, true
}

// coherenceTicks marks 0, 0.5 and 1 with labels and every 0.1 in between.
func coherenceTicks() plot.ConstantTicks {
	var ticks []plot.Tick
	for i := 0; i <= 10; i++ {
		v := float64(i) / 10
		label := ""
		if i%5 == 0 {
			label = fmt.Sprint(v)
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	return ticks
}

// Coherence builds the before/after coherence scatter plot of one policy.
// index is the policy's 1-based position, shown in the title.
func Coherence(samples []model.CoherenceSample, index int) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no coherence samples")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Coherence before and after filtering (%d)", index)
	p.Title.TextStyle.Font.Size = vg.Points(20)
	p.X.Label.Text = "Coherence before filtering"
	p.Y.Label.Text = "Coherence after filtering"
	p.X.Label.TextStyle.Font.Size = vg.Points(18)
	p.Y.Label.TextStyle.Font.Size = vg.Points(18)
	p.X.Tick.Marker = coherenceTicks()
	p.Y.Tick.Marker = coherenceTicks()

	grid := plotter.NewGrid()
	grid.Vertical.Color = minorGrid
	grid.Horizontal.Color = minorGrid
	grid.Vertical.Width = vg.Points(0.5)
	grid.Horizontal.Width = vg.Points(0.5)
	p.Add(grid)

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Before
		pts[i].Y = s.After
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("building scatter: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.RingGlyph{}
	scatter.GlyphStyle.Color = markerBlue
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	if fit, ok := FitLine(samples); ok {
		before, _ := model.SplitCoherence(samples)
		lo, hi := floats.Min(before), floats.Max(before)
		line, err := plotter.NewLine(plotter.XYs{{X: lo, Y: fit.At(lo)}, {X: hi, Y: fit.At(hi)}})
		if err != nil {
			return nil, fmt.Errorf("building trend line: %w", err)
		}
		line.LineStyle.Color = color.Black
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(line)
	}

	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return p, nil
}

// SaveCoherence renders the coherence plot of samples to a PNG file.
func SaveCoherence(path string, samples []model.CoherenceSample, index int) error {
	p, err := Coherence(samples, index)
	if err != nil {
		return err
	}
	p.X.Tick.Label.Font.Size = vg.Points(12)
	p.Y.Tick.Label.Font.Size = vg.Points(12)
	return savePlot(path, p, CoherenceSize, CoherenceSize)
}
