package metric

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/hexbank/internal/bank/geometry"
)

func TestEllipseExtent(t *testing.T) {
	tests := []struct {
		name   string
		e      Ellipse
		hx, hy float64
	}{
		{"aligned", Ellipse{A: 2, B: 1, Theta: 0}, 2, 1},
		{"vertical", Ellipse{A: 2, B: 1, Theta: math.Pi / 2}, 1, 2},
		{"circle", Ellipse{A: 3, B: 3, Theta: 0.7}, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hx, hy := tt.e.Extent()
			assert.InDelta(t, tt.hx, hx, 1e-12)
			assert.InDelta(t, tt.hy, hy, 1e-12)
		})
	}
}

func TestEllipseDistance(t *testing.T) {
	e := Ellipse{A: 0.2, B: 0.05, Theta: 0.4}
	c := geometry.Point{T0: 5, T3: 1}
	onMajor := geometry.ToPlane(c, e.Theta, 0.2, 0)
	onMinor := geometry.ToPlane(c, e.Theta, 0, -0.05)
	assert.InDelta(t, 1, e.Distance(c, onMajor), 1e-12)
	assert.InDelta(t, 1, e.Distance(c, onMinor), 1e-12)
	assert.InDelta(t, 0, e.Distance(c, c), 0)

	s := e.Scaled(2)
	assert.InDelta(t, 0.5, s.Distance(c, onMajor), 1e-12)
	assert.Equal(t, e.Theta, s.Theta)
}

func TestEllipseValidate(t *testing.T) {
	assert.NoError(t, Ellipse{A: 1, B: 0.1}.Validate())
	for _, e := range []Ellipse{
		{A: 0, B: 1},
		{A: 1, B: -1},
		{A: math.NaN(), B: 1},
		{A: 1, B: 1, Theta: math.Inf(1)},
	} {
		assert.ErrorIs(t, e.Validate(), ErrInvalidEllipse, "%+v", e)
	}
}

func TestProviders(t *testing.T) {
	want := Ellipse{A: 0.3, B: 0.1, Theta: 1}
	got, err := Constant{Ellipse: want}.Metric(geometry.Point{T0: 1, T3: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	boom := errors.New("boom")
	var p Provider = ProviderFunc(func(geometry.Point, Moments) (Ellipse, error) {
		return Ellipse{}, boom
	})
	_, err = p.Metric(geometry.Point{}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestTensorDiagonal(t *testing.T) {
	tn, err := NewTensor(4, 0, 100)
	require.NoError(t, err)
	e, err := tn.Metric(geometry.Point{T0: 1, T3: 1}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, e.A, 1e-12)
	assert.InDelta(t, 0.1, e.B, 1e-12)
	assert.InDelta(t, 0, e.Theta, 1e-12)
	assert.InDelta(t, 1, tn.Mismatch(0.5, 0), 1e-12)
}

func TestTensorRotated(t *testing.T) {
	const angle = 0.4
	l1, l2 := 9.0, 400.0
	c, s := math.Cos(angle), math.Sin(angle)
	// g = R diag(l1, l2) Rᵀ
	g00 := l1*c*c + l2*s*s
	g01 := (l1 - l2) * c * s
	g11 := l1*s*s + l2*c*c

	tn, err := NewTensor(g00, g01, g11)
	require.NoError(t, err)
	e, _ := tn.Metric(geometry.Point{}, nil)
	assert.InDelta(t, 1.0/3, e.A, 1e-9)
	assert.InDelta(t, 0.05, e.B, 1e-9)
	assert.InDelta(t, angle, e.Theta, 1e-9)

	// Points on the unit-mismatch ellipse have unit mismatch.
	p := geometry.ToPlane(geometry.Point{}, e.Theta, 0.6*e.A, 0.8*e.B)
	assert.InDelta(t, 1, tn.Mismatch(p.T0, p.T3), 1e-9)
}

func TestTensorNotPositiveDefinite(t *testing.T) {
	_, err := NewTensor(1, 2, 1)
	assert.ErrorIs(t, err, ErrNotPositiveDefinite)
}
