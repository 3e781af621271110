package geometry

import (
	"math"

	"github.com/banshee-data/hexbank/internal/units"
)

// Point is a template position in the (t0, t3) chirp-time plane, in seconds.
type Point struct {
	T0 float64
	T3 float64
}

// ChirpCoeffs holds the Newtonian and 1.5PN chirp-time prefactors for a
// given low-frequency cutoff.
type ChirpCoeffs struct {
	FLower float64
	A0     float64
	A3     float64
}

// NewChirpCoeffs computes the chirp-time prefactors for cutoff fLower (Hz).
func NewChirpCoeffs(fLower float64) ChirpCoeffs {
	piFl := math.Pi * fLower
	return ChirpCoeffs{
		FLower: fLower,
		A0:     5.0 / (256.0 * math.Pow(piFl, 8.0/3.0)),
		A3:     math.Pi / (8.0 * math.Pow(piFl, 5.0/3.0)),
	}
}

// Tau0 returns the Newtonian chirp time for a total mass in seconds.
func (c ChirpCoeffs) Tau0(totalSeconds, eta float64) float64 {
	return c.A0 / (eta * math.Pow(totalSeconds, 5.0/3.0))
}

// Tau3 returns the 1.5PN chirp time for a total mass in seconds.
func (c ChirpCoeffs) Tau3(totalSeconds, eta float64) float64 {
	return c.A3 / (eta * math.Pow(totalSeconds, 2.0/3.0))
}

// FromMasses maps component masses (M☉) to plane coordinates.
func (c ChirpCoeffs) FromMasses(m1, m2 float64) Point {
	total := m1 + m2
	eta := m1 * m2 / (total * total)
	ts := units.MassToSeconds(total)
	return Point{T0: c.Tau0(ts, eta), T3: c.Tau3(ts, eta)}
}

// equalMassTolerance is the floor on 1-4η below which a point is treated as
// an equal-mass binary. The component masses are otherwise dominated by
// the rounding error of η, amplified through the square root.
const equalMassTolerance = 1e-12

// Params are the physical parameters behind a plane point. Masses are in M☉
// and Mass1 >= Mass2.
type Params struct {
	TotalMass float64
	Eta       float64
	Mass1     float64
	Mass2     float64
	ChirpMass float64
}

// Params inverts the chirp times. Eta is reported as computed and exceeds
// 1/4 below the equal-mass line; the component masses are then those of the
// equal-mass binary with the same total mass, as they are within rounding
// of the line itself. ok is false when either
// coordinate is not positive.
func (c ChirpCoeffs) Params(p Point) (Params, bool) {
	if !(p.T0 > 0) || !(p.T3 > 0) {
		return Params{}, false
	}
	totalSeconds := c.A0 * p.T3 / (c.A3 * p.T0)
	eta := c.A3 / (p.T3 * math.Pow(totalSeconds, 2.0/3.0))
	total := units.SecondsToMass(totalSeconds)

	disc := 1 - 4*eta
	if disc < equalMassTolerance {
		disc = 0
	}
	root := math.Sqrt(disc)
	return Params{
		TotalMass: total,
		Eta:       eta,
		Mass1:     0.5 * total * (1 + root),
		Mass2:     0.5 * total * (1 - root),
		ChirpMass: total * math.Pow(eta, 3.0/5.0),
	}, true
}
