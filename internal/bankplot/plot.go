// Package bankplot renders template banks as static PNG plots and
// interactive HTML charts in the chirp-time plane.
package bankplot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/hexbank/internal/bank"
	"github.com/banshee-data/hexbank/internal/bank/geometry"
)

const (
	// curveSamples is the number of points drawn per boundary curve.
	curveSamples = 400
	// ellipseSamples is the number of points per ellipse outline.
	ellipseSamples = 48
	// MaxEllipses is the largest bank whose ellipses are outlined.
	MaxEllipses = 1000
)

// Default image size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 7 * vg.Inch
)

var (
	templateColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	ellipseColor  = color.RGBA{R: 31, G: 119, B: 180, A: 90}
	lowerColor    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	upperColor    = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// Curve is a sampled boundary curve.
type Curve struct {
	Name   string
	Points []geometry.Point
}

// BoundaryCurves samples the equal-mass and upper boundary curves of gp
// over the physical t0 range, clipped to the search box.
func BoundaryCurves(gp bank.GridParam) []Curve {
	bound := gp.Boundary()
	c := bound.Coeffs
	lo := math.Max(c.FromMasses(gp.MassMax, gp.MassMax).T0, gp.Box.T0Min)
	hi := math.Min(c.FromMasses(gp.MassMin, gp.MassMin).T0, gp.Box.T0Max)
	if !(hi > lo) {
		return nil
	}

	lower := Curve{Name: "equal mass", Points: make([]geometry.Point, 0, curveSamples)}
	upper := Curve{Name: "upper boundary", Points: make([]geometry.Point, 0, curveSamples)}
	for i := 0; i < curveSamples; i++ {
		t0 := lo + (hi-lo)*float64(i)/float64(curveSamples-1)
		lower.Points = append(lower.Points, geometry.Point{T0: t0, T3: bound.Lower(t0)})
		upper.Points = append(upper.Points, geometry.Point{T0: t0, T3: bound.Upper(t0)})
	}
	return []Curve{lower, upper}
}

// Plot builds the bank plot: templates as points over the boundary curves.
func Plot(b *bank.Bank) (*plot.Plot, error) {
	if b == nil {
		return nil, fmt.Errorf("bankplot: nil bank")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Template bank (%d templates)", len(b.Templates))
	p.X.Label.Text = "τ0 (s)"
	p.Y.Label.Text = "τ3 (s)"

	for i, curve := range BoundaryCurves(b.Params) {
		pts := make(plotter.XYs, 0, len(curve.Points))
		for _, q := range curve.Points {
			if math.IsNaN(q.T3) {
				continue
			}
			pts = append(pts, plotter.XY{X: q.T0, Y: q.T3})
		}
		if len(pts) < 2 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = lowerColor
		if i > 0 {
			line.Color = upperColor
		}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(curve.Name, line)
	}

	if len(b.Templates) <= MaxEllipses {
		for _, t := range b.Templates {
			line, err := plotter.NewLine(ellipseOutline(t))
			if err != nil {
				return nil, err
			}
			line.Color = ellipseColor
			line.Width = vg.Points(0.5)
			p.Add(line)
		}
	}

	if len(b.Templates) > 0 {
		pts := make(plotter.XYs, len(b.Templates))
		for i, t := range b.Templates {
			pts[i] = plotter.XY{X: t.T0, Y: t.T3}
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Color = templateColor
		scatter.GlyphStyle.Radius = vg.Points(1)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add("templates", scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// ellipseOutline samples the boundary of a template's mismatch ellipse.
func ellipseOutline(t bank.Template) plotter.XYs {
	center := geometry.Point{T0: t.T0, T3: t.T3}
	pts := make(plotter.XYs, ellipseSamples+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ellipseSamples
		q := geometry.ToPlane(center, t.Ellipse.Theta, t.Ellipse.A*math.Cos(a), t.Ellipse.B*math.Sin(a))
		pts[i] = plotter.XY{X: q.T0, Y: q.T3}
	}
	return pts
}

// SavePNG writes the bank plot to path. The format follows the file
// extension, as for plot.Save.
func SavePNG(path string, b *bank.Bank) error {
	p, err := Plot(b)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("bankplot: saving %s: %w", path, err)
	}
	return nil
}

// WritePNG writes the bank plot as PNG to w.
func WritePNG(w io.Writer, b *bank.Bank) error {
	p, err := Plot(b)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
