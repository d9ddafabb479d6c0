package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tsawler/radardoc/model"
)

// Rendered size of the coregistration chart (1500x1060 px at 100 dpi).
const (
	CoregistrationWidth  = 15 * vg.Inch
	CoregistrationHeight = 10.6 * vg.Inch
)

var (
	firstPassColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	secondPassColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// Summary holds the statistics shown in a chart legend.
type Summary struct {
	Min, Max, Mean, Std float64
}

// Summarize returns min, max, mean and population standard deviation of v.
func Summarize(v []float64) Summary {
	if len(v) == 0 {
		return Summary{}
	}
	return Summary{
		Min:  floats.Min(v),
		Max:  floats.Max(v),
		Mean: stat.Mean(v, nil),
		Std:  stat.PopStdDev(v, nil),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("min %.2f  max %.2f  mean %.2f  std %.2f", s.Min, s.Max, s.Mean, s.Std)
}

// yTicks marks 0 to 2 pixels every 0.2.
func yTicks() plot.ConstantTicks {
	var ticks []plot.Tick
	for i := 0; i <= 10; i++ {
		v := float64(i) * 0.2
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%.1f", v)})
	}
	return ticks
}

// CoregistrationAxis builds the chart of one axis: both passes over the
// period labels, with their statistics in the legend.
func CoregistrationAxis(c *model.Coregistration, axis model.Axis) (*plot.Plot, error) {
	first, second := c.Series(axis)
	if len(first) == 0 {
		return nil, fmt.Errorf("no %s values", axis)
	}
	periods := c.Periods()[:len(first)]

	p := plot.New()
	p.Title.Text = string(axis)
	p.Title.TextStyle.Font.Size = vg.Points(20)
	p.Y.Label.Text = "Error (pixel)"
	p.Y.Label.TextStyle.Font.Size = vg.Points(18)
	p.NominalX(periods...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(10)

	for _, pass := range []struct {
		name   string
		values []float64
		color  color.Color
	}{
		{"First pass", first, firstPassColor},
		{"Second pass", second, secondPassColor},
	} {
		pts := make(plotter.XYs, len(pass.values))
		for i, v := range pass.values {
			pts[i].X = float64(i)
			pts[i].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("building %s line: %w", pass.name, err)
		}
		line.LineStyle.Color = pass.color
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s  %s", pass.name, Summarize(pass.values)), line)
	}

	// Fixed ranges override the data ranges widened by Add.
	p.Y.Min, p.Y.Max = 0, 2
	p.Y.Tick.Marker = yTicks()
	p.X.Min, p.X.Max = 0, float64(len(periods)-1)

	return p, nil
}

// SaveCoregistration renders the range chart above the azimuth chart to a
// PNG file.
func SaveCoregistration(path string, c *model.Coregistration) error {
	var rows [][]*plot.Plot
	for _, axis := range []model.Axis{model.AxisRange, model.AxisAzimuth} {
		p, err := CoregistrationAxis(c, axis)
		if err != nil {
			return err
		}
		rows = append(rows, []*plot.Plot{p})
	}

	img := newCanvas(CoregistrationWidth, CoregistrationHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(rows),
		Cols:      1,
		PadTop:    vg.Points(10),
		PadBottom: vg.Points(10),
		PadLeft:   vg.Points(10),
		PadRight:  vg.Points(20),
		PadY:      vg.Points(40),
	}
	canvases := plot.Align(rows, tiles, dc)
	for j := range rows {
		rows[j][0].Draw(canvases[j][0])
	}

	return writePNG(path, img)
}
