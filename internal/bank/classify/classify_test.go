package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/metric"
)

func wideRegion() Region {
	return Region{
		Coeffs:   geometry.NewChirpCoeffs(40),
		Box:      geometry.Box{T0Min: 0.01, T0Max: 100, T3Min: 0.01, T3Max: 10},
		MassMin:  1,
		MassMax:  20,
		TotalMin: 2,
		TotalMax: 40,
	}
}

func TestClassify(t *testing.T) {
	r := wideRegion()
	c := r.Coeffs
	eq := c.FromMasses(5, 5)

	tests := []struct {
		name string
		p    geometry.Point
		want Position
	}{
		{"interior", c.FromMasses(5, 3), In},
		{"light-heavy vertex", c.FromMasses(1, 20), In},
		{"heavy vertex", c.FromMasses(20, 20), In},
		{"below equal mass", geometry.Point{T0: eq.T0, T3: 0.95 * eq.T3}, Below},
		{"light component too light", c.FromMasses(0.8, 10), Above},
		{"heavy component too heavy", c.FromMasses(25, 3), Above},
		{"both too light", c.FromMasses(0.9, 0.9), Out},
		{"both too heavy", c.FromMasses(25, 30), Out},
		{"outside box", geometry.Point{T0: 200, T3: 1}, Out},
		{"non-positive", geometry.Point{T0: 0, T3: 1}, Out},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Classify(tt.p); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestClassifyTotalMassAndEta(t *testing.T) {
	r := wideRegion()
	c := r.Coeffs
	r.TotalMax = 30
	assert.Equal(t, Out, r.Classify(c.FromMasses(18, 15)))
	assert.Equal(t, In, r.Classify(c.FromMasses(14, 15)))

	r = wideRegion()
	r.EtaMin = 0.1
	assert.Equal(t, Out, r.Classify(c.FromMasses(1, 20)))
	assert.Equal(t, In, r.Classify(c.FromMasses(5, 3)))
}

func TestClassifyBoxEdgesInclusive(t *testing.T) {
	r := wideRegion()
	p := r.Coeffs.FromMasses(5, 3)
	r.Box.T0Max = p.T0
	r.Box.T3Min = p.T3
	assert.Equal(t, In, r.Classify(p))
}

func TestCorners(t *testing.T) {
	r := wideRegion()
	p := r.Coeffs.FromMasses(5, 3)
	small := metric.Ellipse{A: 1e-3, B: 1e-4, Theta: 0.3}
	assert.Equal(t, [4]Position{In, In, In, In}, r.Corners(p, small))

	// A tall ellipse on the equal-mass line pokes below it.
	eq := r.Coeffs.FromMasses(5, 5)
	tall := metric.Ellipse{A: 0.05, B: 1e-3, Theta: 1.5707963}
	corners := r.Corners(eq, tall)
	assert.Contains(t, corners[:], Below)
	assert.Contains(t, corners[:], In)
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		center  Position
		corners [4]Position
		want    Position
	}{
		{"in centre", In, [4]Position{Out, Out, Out, Out}, In},
		{"above reaching in", Above, [4]Position{Above, In, Above, Above}, Above},
		{"below reaching in", Below, [4]Position{Below, Below, In, Below}, Below},
		{"above detached", Above, [4]Position{Above, Above, Out, Above}, Out},
		{"out centre", Out, [4]Position{In, In, In, In}, Out},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.center, tt.corners))
		})
	}
}

func TestTouchesBothAndCount(t *testing.T) {
	assert.True(t, TouchesBoth([4]Position{Above, In, Below, In}))
	assert.False(t, TouchesBoth([4]Position{Above, Above, In, In}))
	assert.False(t, TouchesBoth([4]Position{Below, Out, In, In}))
	assert.Equal(t, 2, Count([4]Position{Above, In, Above, Out}, Above))
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "in", In.String())
	assert.Equal(t, "above", Above.String())
	assert.Equal(t, "below", Below.String())
	assert.Equal(t, "out", Out.String())
}
