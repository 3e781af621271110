package bank

import (
	"fmt"
	"math"

	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/bank/rootfind"
)

// snapReach lists the bracket lengths tried by snap, in multiples of the
// caller's reach.
var snapReach = []float64{1, 2, 4, 8, 16}

// nudgeFactor scales the root tolerance into the step taken past a snapped
// root, onto the side of the curve the search moved toward.
const nudgeFactor = 10

// snap moves p along the line through it at angle theta until it crosses
// curve, a function giving t3 from t0. Brackets [0, ±k·reach] along the
// line are tried in turn. The result lies just past the crossing.
func (b *builder) snap(p geometry.Point, theta, reach float64, curve func(float64) float64) (geometry.Point, error) {
	c, s := math.Cos(theta), math.Sin(theta)
	at := func(d float64) geometry.Point {
		return geometry.Point{T0: p.T0 + d*c, T3: p.T3 + d*s}
	}
	offset := func(d float64) float64 {
		q := at(d)
		return q.T3 - curve(q.T0)
	}

	tol := b.gp.Tolerance
	var lastErr error
	for _, k := range snapReach {
		for _, dir := range [2]float64{1, -1} {
			root, err := rootfind.Bisect(offset, 0, dir*k*reach, tol)
			if err != nil {
				lastErr = err
				continue
			}
			return at(root + dir*nudgeFactor*tol), nil
		}
	}
	return geometry.Point{}, fmt.Errorf("bank: snapping (%g, %g) at angle %g: %w", p.T0, p.T3, theta, lastErr)
}
