// Package rootfind holds the one-dimensional bisection solvers used to snap
// points onto boundary curves and to follow the bisector between them.
package rootfind

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoSignChange is returned when the supplied bracket does not straddle a
// root.
var ErrNoSignChange = errors.New("rootfind: no sign change in bracket")

// DefaultTolerance is the absolute tolerance used when callers pass a
// non-positive one. Plane coordinates are in seconds.
const DefaultTolerance = 1e-6

// maxBisectIterations bounds Bisect for pathological tolerances; 200 halvings
// exhaust float64 resolution on any finite bracket.
const maxBisectIterations = 200

// Bisect finds a root of f between lo and hi to within tol. The bracket may
// be given in either order. Both ends must be finite and f must change sign
// across them, otherwise the returned error wraps ErrNoSignChange.
func Bisect(f func(float64) float64, lo, hi, tol float64) (float64, error) {
	if !(tol > 0) {
		tol = DefaultTolerance
	}
	flo, fhi := f(lo), f(hi)
	if !finite(flo) || !finite(fhi) {
		return math.NaN(), fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoSignChange, lo, flo, hi, fhi)
	}
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if (flo > 0) == (fhi > 0) {
		return math.NaN(), fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoSignChange, lo, flo, hi, fhi)
	}

	for i := 0; i < maxBisectIterations && math.Abs(hi-lo) > tol; i++ {
		mid := lo + 0.5*(hi-lo)
		fm := f(mid)
		if !finite(fm) {
			return math.NaN(), fmt.Errorf("%w: f(%g)=%g inside bracket", ErrNoSignChange, mid, fm)
		}
		if fm == 0 {
			return mid, nil
		}
		if (fm > 0) == (flo > 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return lo + 0.5*(hi-lo), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
