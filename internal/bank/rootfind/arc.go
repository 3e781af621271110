package rootfind

import "math"

// Direction selects which half of an arc bracket is kept while bisecting.
// It is always chosen by the caller.
type Direction int

const (
	// TrackUpper walks toward larger t0. Its arc runs counterclockwise
	// from below the target curve to above it.
	TrackUpper Direction = iota
	// TrackLower walks toward smaller t0. Its arc runs counterclockwise
	// from above the target curve to below it.
	TrackLower
)

func (d Direction) String() string {
	switch d {
	case TrackUpper:
		return "upper"
	case TrackLower:
		return "lower"
	default:
		return "unknown"
	}
}

// Arc search defaults.
const (
	ArcMaxIterations = 20
	ArcTolerance     = 0.1 * math.Pi / 180
)

// Arc is the outcome of BisectArc.
type Arc struct {
	Angle      float64
	Iterations int
	Converged  bool
}

// BisectArc bisects the angle bracket [lo, hi] for a zero of f, the signed
// offset of the arc point from the target curve. With TrackUpper the lower
// half is kept when f(mid) > 0, with TrackLower the upper half. It never
// fails: when maxIter halvings do not bring the bracket below tol, the
// midpoint is returned with Converged unset.
func BisectArc(f func(float64) float64, lo, hi float64, dir Direction, tol float64, maxIter int) Arc {
	if !(tol > 0) {
		tol = ArcTolerance
	}
	if maxIter <= 0 {
		maxIter = ArcMaxIterations
	}
	for i := 0; i < maxIter; i++ {
		if hi-lo <= tol {
			return Arc{Angle: 0.5 * (lo + hi), Iterations: i, Converged: true}
		}
		mid := 0.5 * (lo + hi)
		above := f(mid) > 0
		if above == (dir == TrackUpper) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return Arc{Angle: 0.5 * (lo + hi), Iterations: maxIter, Converged: hi-lo <= tol}
}
