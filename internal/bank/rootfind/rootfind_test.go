package rootfind

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBisect(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }
	tests := []struct {
		name   string
		lo, hi float64
	}{
		{"ordered", 0, 2},
		{"reversed", 2, 0},
		{"wide", -0.5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bisect(f, tt.lo, tt.hi, 1e-12)
			require.NoError(t, err)
			assert.InDelta(t, math.Sqrt2, got, 1e-12)
		})
	}
}

func TestBisectEndpointRoot(t *testing.T) {
	f := func(x float64) float64 { return x - 1 }
	got, err := Bisect(f, 1, 5, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = Bisect(f, -3, 1, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestBisectNoSignChange(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	_, err := Bisect(f, -1, 1, 1e-9)
	if !errors.Is(err, ErrNoSignChange) {
		t.Fatalf("Bisect error = %v, want ErrNoSignChange", err)
	}
}

func TestBisectNonFinite(t *testing.T) {
	f := func(x float64) float64 { return math.Log(x) }
	_, err := Bisect(f, -1, 2, 1e-9)
	assert.ErrorIs(t, err, ErrNoSignChange)
}

func TestBisectDefaultTolerance(t *testing.T) {
	f := func(x float64) float64 { return x - 0.25 }
	got, err := Bisect(f, 0, 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, DefaultTolerance)
}

func TestBisectArc(t *testing.T) {
	const delta = 0.05
	tests := []struct {
		name   string
		dir    Direction
		lo, hi float64
		root   float64
	}{
		{"upper", TrackUpper, -math.Pi/2 + delta, math.Pi/2 - delta, 0.3},
		{"lower", TrackLower, math.Pi/2 + delta, 3*math.Pi/2 - delta, math.Pi + 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f func(float64) float64
			if tt.dir == TrackUpper {
				f = func(phi float64) float64 { return math.Sin(phi - tt.root) }
			} else {
				f = func(phi float64) float64 { return math.Sin(tt.root - phi) }
			}
			arc := BisectArc(f, tt.lo, tt.hi, tt.dir, ArcTolerance, ArcMaxIterations)
			assert.True(t, arc.Converged)
			assert.LessOrEqual(t, arc.Iterations, ArcMaxIterations)
			assert.InDelta(t, tt.root, arc.Angle, ArcTolerance)
		})
	}
}

func TestBisectArcIterationCap(t *testing.T) {
	f := func(phi float64) float64 { return math.Sin(phi - 0.3) }
	arc := BisectArc(f, -1.5, 1.5, TrackUpper, ArcTolerance, 3)
	assert.False(t, arc.Converged)
	assert.Equal(t, 3, arc.Iterations)
	// Three halvings of a 3 rad bracket leave a 0.375 rad window.
	assert.InDelta(t, 0.3, arc.Angle, 0.1875)
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "upper", TrackUpper.String())
	assert.Equal(t, "lower", TrackLower.String())
	assert.Equal(t, "unknown", Direction(7).String())
}

func TestGoldenMin(t *testing.T) {
	tests := []struct {
		name   string
		f      func(float64) float64
		lo, hi float64
		want   float64
	}{
		{"parabola", func(x float64) float64 { return (x - 0.3) * (x - 0.3) }, -1, 2, 0.3},
		{"secant", func(x float64) float64 { return 0.4 / math.Cos(x-0.1) }, -0.5, 0.5, 0.1},
		{"edge of bracket", func(x float64) float64 { return x }, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, fx := GoldenMin(tt.f, tt.lo, tt.hi, 40)
			assert.InDelta(t, tt.want, x, 1e-6)
			assert.Equal(t, tt.f(x), fx)
		})
	}
}
