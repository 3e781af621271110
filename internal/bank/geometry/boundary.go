package geometry

import (
	"math"

	"github.com/banshee-data/hexbank/internal/units"
)

// EqualMassTau3 is the equal-mass (eta = 1/4) curve, the lower boundary of
// the physical region: t3 = 4 A3 (t0 / 4 A0)^(2/5).
func (c ChirpCoeffs) EqualMassTau3(t0 float64) float64 {
	if !(t0 > 0) {
		return math.NaN()
	}
	return 4 * c.A3 * math.Pow(t0/(4*c.A0), 2.0/5.0)
}

// MassFromTau0AndComponent returns the total mass (M☉) of the binary with
// Newtonian chirp time t0 in which one component weighs m (M☉).
//
// With x = M^(1/3) the chirp-time relation becomes the depressed cubic
// x³ - (A0 / (t0 m)) x - m = 0, which has exactly one positive root.
func (c ChirpCoeffs) MassFromTau0AndComponent(t0, m float64) float64 {
	if !(t0 > 0) || !(m > 0) {
		return math.NaN()
	}
	ms := units.MassToSeconds(m)
	x := depressedCubicRoot(-c.A0/(t0*ms), -ms)
	return units.SecondsToMass(x * x * x)
}

// depressedCubicRoot returns the largest real root of x³ + p x + q = 0.
func depressedCubicRoot(p, q float64) float64 {
	disc := q*q/4 + p*p*p/27
	if disc >= 0 {
		s := math.Sqrt(disc)
		return math.Cbrt(-q/2+s) + math.Cbrt(-q/2-s)
	}
	arg := 3 * q / (2 * p) * math.Sqrt(-3/p)
	arg = math.Max(-1, math.Min(1, arg))
	return 2 * math.Sqrt(-p/3) * math.Cos(math.Acos(arg)/3)
}

// Boundary describes the physical region for a component-mass range. The
// lower curve is the equal-mass line; the upper curve holds one component at
// MassMin on the light side of Split and at MassMax on the heavy side.
type Boundary struct {
	Coeffs  ChirpCoeffs
	MassMin float64
	MassMax float64
}

// Split is the t0 of the (MassMin, MassMax) vertex where the two upper
// segments meet.
func (b Boundary) Split() float64 {
	return b.Coeffs.FromMasses(b.MassMin, b.MassMax).T0
}

// Lower returns t3 on the equal-mass curve.
func (b Boundary) Lower(t0 float64) float64 {
	return b.Coeffs.EqualMassTau3(t0)
}

// Upper returns t3 on the upper boundary curve.
func (b Boundary) Upper(t0 float64) float64 {
	if !(t0 > 0) {
		return math.NaN()
	}
	m := b.MassMax
	if t0 >= b.Split() {
		m = b.MassMin
	}
	total := b.Coeffs.MassFromTau0AndComponent(t0, m)
	eta := m * (total - m) / (total * total)
	return b.Coeffs.Tau3(units.MassToSeconds(total), eta)
}

// Bisector is the mean of the lower and upper curves at t0.
func (b Boundary) Bisector(t0 float64) float64 {
	return 0.5 * (b.Lower(t0) + b.Upper(t0))
}
