// Package classify places points of the chirp-time plane relative to the
// physical region of a bank: inside it, above the upper mass boundary,
// below the equal-mass line, or outside the configured ranges.
package classify

import (
	"math"

	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/metric"
)

// Position is the classification of a point.
type Position int

const (
	In Position = iota
	Above
	Below
	Out
)

func (p Position) String() string {
	switch p {
	case In:
		return "in"
	case Above:
		return "above"
	case Below:
		return "below"
	case Out:
		return "out"
	default:
		return "unknown"
	}
}

// Tolerance is the relative slack applied to every range comparison, so
// points snapped onto a boundary classify as In.
const Tolerance = 1e-9

// Region is the physical parameter region of a bank.
type Region struct {
	Coeffs   geometry.ChirpCoeffs
	Box      geometry.Box
	MassMin  float64
	MassMax  float64
	TotalMin float64
	TotalMax float64
	// EtaMin is ignored when zero.
	EtaMin float64
}

// Classify returns the position of p. Checks run in order: the search box
// and coordinate validity, the equal-mass line, both components beyond the
// same extreme, one component beyond its extreme, the total mass and
// finally the symmetric mass ratio floor.
func (r Region) Classify(p geometry.Point) Position {
	if !r.Box.Contains(p) {
		return Out
	}
	par, ok := r.Coeffs.Params(p)
	if !ok {
		return Out
	}
	if exceeds(par.Eta, 0.25) {
		return Below
	}
	if under(par.Mass1, r.MassMin) || exceeds(par.Mass2, r.MassMax) {
		return Out
	}
	if under(par.Mass2, r.MassMin) || exceeds(par.Mass1, r.MassMax) {
		return Above
	}
	if under(par.TotalMass, r.TotalMin) || exceeds(par.TotalMass, r.TotalMax) {
		return Out
	}
	if r.EtaMin > 0 && under(par.Eta, r.EtaMin) {
		return Out
	}
	return In
}

func under(x, limit float64) bool {
	return x < limit-Tolerance*math.Abs(limit)
}

func exceeds(x, limit float64) bool {
	return x > limit+Tolerance*math.Abs(limit)
}

// Corners classifies the four corners of the rectangle circumscribing e
// around p, at local offsets (+A,+B), (-A,+B), (-A,-B) and (+A,-B).
func (r Region) Corners(p geometry.Point, e metric.Ellipse) [4]Position {
	offsets := [4][2]float64{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
	var out [4]Position
	for i, o := range offsets {
		out[i] = r.Classify(geometry.ToPlane(p, e.Theta, o[0]*e.A, o[1]*e.B))
	}
	return out
}

// Aggregate combines a centre classification with its corners. An In
// centre stays In. An Above or Below centre keeps its tag when at least
// one corner is In, since the cell still reaches into the region;
// otherwise the cell is Out.
func Aggregate(center Position, corners [4]Position) Position {
	if center == In {
		return In
	}
	if center == Above || center == Below {
		for _, c := range corners {
			if c == In {
				return center
			}
		}
	}
	return Out
}

// TouchesBoth reports whether the corners straddle the region, with at
// least one above the upper boundary and one below the equal-mass line.
func TouchesBoth(corners [4]Position) bool {
	var above, below bool
	for _, c := range corners {
		switch c {
		case Above:
			above = true
		case Below:
			below = true
		}
	}
	return above && below
}

// Count returns how many corners carry tag p.
func Count(corners [4]Position, p Position) int {
	n := 0
	for _, c := range corners {
		if c == p {
			n++
		}
	}
	return n
}
