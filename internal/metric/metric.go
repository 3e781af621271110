// Package metric is the port through which the bank asks for the local
// mismatch ellipse at a point of the chirp-time plane.
package metric

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/hexbank/internal/bank/geometry"
)

// ErrInvalidEllipse is returned when a provider yields a degenerate shape.
var ErrInvalidEllipse = errors.New("metric: invalid ellipse")

// Ellipse is a mismatch ellipse: semi-axis A along the orientation angle
// Theta (radians from the t0 axis) and semi-axis B perpendicular to it.
type Ellipse struct {
	A     float64
	B     float64
	Theta float64
}

// Validate reports whether both semi-axes are positive and finite.
func (e Ellipse) Validate() error {
	for _, v := range []float64{e.A, e.B, e.Theta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite %+v", ErrInvalidEllipse, e)
		}
	}
	if e.A <= 0 || e.B <= 0 {
		return fmt.Errorf("%w: non-positive semi-axis %+v", ErrInvalidEllipse, e)
	}
	return nil
}

// Scaled returns the ellipse with both semi-axes multiplied by k.
func (e Ellipse) Scaled(k float64) Ellipse {
	return Ellipse{A: e.A * k, B: e.B * k, Theta: e.Theta}
}

// Normalized returns the metric distance of the local offset (du, dv); it
// is 1 on the ellipse.
func (e Ellipse) Normalized(du, dv float64) float64 {
	return math.Hypot(du/e.A, dv/e.B)
}

// Distance returns the metric distance of p from an ellipse centred at c.
func (e Ellipse) Distance(c, p geometry.Point) float64 {
	du, dv := geometry.ToLocal(c, e.Theta, p)
	return e.Normalized(du, dv)
}

// Extent returns the half-widths of the ellipse's bounding box along t0
// and t3.
func (e Ellipse) Extent() (hx, hy float64) {
	c, s := math.Cos(e.Theta), math.Sin(e.Theta)
	hx = math.Sqrt(e.A*e.A*c*c + e.B*e.B*s*s)
	hy = math.Sqrt(e.A*e.A*s*s + e.B*e.B*c*c)
	return hx, hy
}

// Moments is whatever precomputed noise-moment data a provider needs. The
// bank passes it through untouched.
type Moments any

// Provider yields the unit-mismatch ellipse at a point.
type Provider interface {
	Metric(p geometry.Point, m Moments) (Ellipse, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(p geometry.Point, m Moments) (Ellipse, error)

// Metric calls f.
func (f ProviderFunc) Metric(p geometry.Point, m Moments) (Ellipse, error) {
	return f(p, m)
}

// Constant returns the same ellipse everywhere.
type Constant struct {
	Ellipse Ellipse
}

// Metric implements Provider.
func (c Constant) Metric(geometry.Point, Moments) (Ellipse, error) {
	return c.Ellipse, nil
}
