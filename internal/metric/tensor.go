package metric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/hexbank/internal/bank/geometry"
)

// ErrNotPositiveDefinite is returned for a metric tensor with a
// non-positive eigenvalue.
var ErrNotPositiveDefinite = errors.New("metric: tensor is not positive definite")

// Tensor is a constant 2x2 metric g on the plane, mismatch ds² = g_ij dx^i dx^j.
type Tensor struct {
	g       *mat.SymDense
	ellipse Ellipse
}

// NewTensor builds a Tensor from the components g00 (t0 t0), g01 and g11
// (t3 t3) and precomputes its unit-mismatch ellipse.
func NewTensor(g00, g01, g11 float64) (*Tensor, error) {
	g := mat.NewSymDense(2, []float64{g00, g01, g01, g11})
	e, err := EllipseFromTensor(g)
	if err != nil {
		return nil, err
	}
	return &Tensor{g: g, ellipse: e}, nil
}

// Metric implements Provider.
func (t *Tensor) Metric(geometry.Point, Moments) (Ellipse, error) {
	return t.ellipse, nil
}

// Mismatch returns g_ij dx^i dx^j for the plane offset (dt0, dt3).
func (t *Tensor) Mismatch(dt0, dt3 float64) float64 {
	x := mat.NewVecDense(2, []float64{dt0, dt3})
	return mat.Inner(x, t.g, x)
}

// EllipseFromTensor returns the unit-mismatch ellipse of a symmetric 2x2
// metric. A lies along the eigenvector of the smallest eigenvalue, so that
// A >= B, and each semi-axis is 1/sqrt(eigenvalue).
func EllipseFromTensor(g mat.Symmetric) (Ellipse, error) {
	if n := g.SymmetricDim(); n != 2 {
		return Ellipse{}, fmt.Errorf("metric: tensor dimension %d, want 2", n)
	}
	var es mat.EigenSym
	if ok := es.Factorize(g, true); !ok {
		return Ellipse{}, fmt.Errorf("metric: eigen-decomposition failed")
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	lo, hi := 0, 1
	if vals[1] < vals[0] {
		lo, hi = 1, 0
	}
	if !(vals[lo] > 0) {
		return Ellipse{}, fmt.Errorf("%w: eigenvalues %v", ErrNotPositiveDefinite, vals)
	}

	theta := math.Atan2(vecs.At(1, lo), vecs.At(0, lo))
	// An axis direction is only defined modulo π.
	if theta > math.Pi/2 {
		theta -= math.Pi
	} else if theta <= -math.Pi/2 {
		theta += math.Pi
	}
	e := Ellipse{
		A:     1 / math.Sqrt(vals[lo]),
		B:     1 / math.Sqrt(vals[hi]),
		Theta: theta,
	}
	return e, e.Validate()
}
