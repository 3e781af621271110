package rootfind

import "math"

var invPhi = (math.Sqrt(5) - 1) / 2

// GoldenMin narrows [lo, hi] around a minimum of f by golden-section search
// and returns the best of the two final interior points with its value. f
// should be unimodal on the interval; otherwise the result is a local
// minimum.
func GoldenMin(f func(float64) float64, lo, hi float64, iterations int) (x, fx float64) {
	x1, x2 := hi-invPhi*(hi-lo), lo+invPhi*(hi-lo)
	f1, f2 := f(x1), f(x2)
	for i := 0; i < iterations; i++ {
		if f1 < f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = f(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = f(x2)
		}
	}
	if f1 < f2 {
		return x1, f1
	}
	return x2, f2
}
