package geometry

import "gonum.org/v1/gonum/floats"

// limitSamples is the number of points taken along each boundary segment
// when bounding t3.
const limitSamples = 256

// SearchLimits returns the smallest box holding the physical region of b.
// The t0 range runs from the heavy (MassMax, MassMax) vertex to the light
// (MassMin, MassMin) vertex; the t3 range is taken from samples of the three
// boundary segments.
func SearchLimits(b Boundary) Box {
	c := b.Coeffs
	heavy := c.FromMasses(b.MassMax, b.MassMax)
	light := c.FromMasses(b.MassMin, b.MassMin)

	t3 := make([]float64, 0, 3*(limitSamples+1))
	for i := 0; i <= limitSamples; i++ {
		m := b.MassMin + (b.MassMax-b.MassMin)*float64(i)/limitSamples
		t3 = append(t3,
			c.FromMasses(m, m).T3,
			c.FromMasses(m, b.MassMin).T3,
			c.FromMasses(b.MassMax, m).T3,
		)
	}

	return Box{
		T0Min: heavy.T0,
		T0Max: light.T0,
		T3Min: floats.Min(t3),
		T3Max: floats.Max(t3),
	}
}
