package bank

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/hexbank/internal/bank/cells"
	"github.com/banshee-data/hexbank/internal/bank/classify"
	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/bank/rootfind"
	"github.com/banshee-data/hexbank/internal/metric"
	"github.com/banshee-data/hexbank/internal/monitoring"
)

// latticeScale is the distance between neighbouring template centres in
// units of the ellipse semi-axes.
var latticeScale = math.Sqrt(3)

// Nearest-point search resolution. Radii are in units of the candidate's
// ellipse.
const (
	nearestRays   = 64
	nearestSteps  = 16
	nearestBisect = 20
	nearestGolden = 20
)

// grow runs growth passes until no fertile cell is left. Each pass works on
// a snapshot of the worklist, so cells spawned during a pass first grow in
// the next one.
func (b *builder) grow() error {
	st := b.store.State()
	for st.Fertile > 0 {
		if st.Passes >= b.maxPasses {
			return fmt.Errorf("%w: %d passes with %d fertile cells left", ErrRunawayGrowth, st.Passes, st.Fertile)
		}
		for _, id := range b.store.FertileSnapshot() {
			if b.store.Get(id).Status != cells.Fertile {
				continue
			}
			if err := b.populate(id); err != nil {
				return err
			}
		}
		st.Passes++
		monitoring.Debugf("bank: pass %d: %d cells, %d fertile", st.Passes, st.Templates, st.Fertile)
	}
	return nil
}

// populate spawns the six lattice neighbours of a fertile cell around its
// anchor and then retires it, as an Edge cell when nothing survived or its
// ellipse spans both boundaries.
func (b *builder) populate(id int) error {
	parent := *b.store.Get(id)
	e := parent.Ellipse

	survivors := 0
	for k := 0; k < 6; k++ {
		angle := float64(k) * math.Pi / 3
		u := latticeScale * e.A * math.Cos(angle)
		v := latticeScale * e.B * math.Sin(angle)
		q := geometry.ToPlane(parent.Anchor, e.Theta, u, v)

		kept, err := b.spawn(parent, q)
		if err != nil {
			return err
		}
		if kept {
			survivors++
		}
	}

	if survivors == 0 || classify.TouchesBoth(parent.Corners) {
		return b.store.MarkEdge(id)
	}
	return b.store.MarkSterile(id)
}

// spawn decides the fate of the lattice candidate q next to parent. It
// reports whether the candidate survived, either stored as a new cell or
// already covered by an existing one.
//
// A candidate outside the region survives only when some valid point lies
// inside its ellipse. The cell stays anchored at q and keeps growing from
// there. Its template moves onto the upper boundary for an Above
// candidate, to the nearest valid point for one outside the box or the
// mass limits, and stays put for a Below candidate until the assembler
// corrects it onto the equal-mass line.
func (b *builder) spawn(parent cells.Cell, q geometry.Point) (bool, error) {
	if b.covered(parent, q) {
		return true, nil
	}

	pos := b.region.Classify(q)
	p := q
	var heading, reach float64
	if pos != classify.In {
		near, ok := b.nearest(q, parent.Ellipse)
		if !ok {
			return false, nil
		}
		heading = math.Atan2(near.T3-q.T3, near.T0-q.T0)
		reach = 2 * math.Hypot(near.T0-q.T0, near.T3-q.T3)

		p = near
		switch pos {
		case classify.Above:
			if s, ok := b.snapInto(q, heading, reach, b.bound.Upper); ok {
				p = s
			}
		case classify.Below:
			// The assembler repeats this snap once growth is done.
			if _, ok := b.snapInto(q, heading, reach, b.bound.Lower); ok {
				p = q
			}
		}
	}

	c, err := b.newCell(p)
	if err != nil {
		return false, err
	}
	c.Anchor = q
	c.Snapped = p != q
	if c.Position == classify.Below {
		c.Heading, c.Reach = heading, reach
	}

	c.Parent = parent.ID
	child, err := b.insert(c)
	if err != nil {
		return false, err
	}
	b.store.Get(parent.ID).AddChild(child)
	return true, nil
}

// snapInto snaps q onto curve along heading and reports whether the result
// lies inside the region at positive t0.
func (b *builder) snapInto(q geometry.Point, heading, reach float64, curve func(float64) float64) (geometry.Point, bool) {
	p, err := b.snap(q, heading, reach, curve)
	if err != nil {
		if !errors.Is(err, rootfind.ErrNoSignChange) {
			monitoring.Debugf("bank: %v", err)
		}
		return geometry.Point{}, false
	}
	return p, p.T0 > 0 && b.region.Classify(p) == classify.In
}

// nearest returns the valid point closest to q in the metric of e, looking
// no further than the unit ellipse around q. It reports false when that
// ellipse holds no valid point.
//
// Rays are marched outward from q, the ones entering the region first are
// bisected onto the boundary and the best of them is refined by a
// golden-section search over the ray angle. Where the region is locally
// convex, every valid point within unit distance of q stays within unit
// distance of the result.
func (b *builder) nearest(q geometry.Point, e metric.Ellipse) (geometry.Point, bool) {
	at := func(phi, r float64) geometry.Point {
		return geometry.ToPlane(q, e.Theta, r*e.A*math.Cos(phi), r*e.B*math.Sin(phi))
	}
	valid := func(phi, r float64) bool {
		return b.region.Classify(at(phi, r)) == classify.In
	}
	// entry returns the first valid march step along phi, or 0.
	entry := func(phi float64) int {
		for i := 1; i <= nearestSteps; i++ {
			if valid(phi, float64(i)/nearestSteps) {
				return i
			}
		}
		return 0
	}
	refine := func(phi float64, step int) float64 {
		lo, hi := float64(step-1)/nearestSteps, float64(step)/nearestSteps
		for i := 0; i < nearestBisect; i++ {
			mid := 0.5 * (lo + hi)
			if valid(phi, mid) {
				hi = mid
			} else {
				lo = mid
			}
		}
		return hi
	}
	radius := func(phi float64) float64 {
		if step := entry(phi); step > 0 {
			return refine(phi, step)
		}
		return math.Inf(1)
	}

	const dphi = 2 * math.Pi / nearestRays
	var steps [nearestRays]int
	first := 0
	for k := range steps {
		steps[k] = entry(float64(k) * dphi)
		if steps[k] > 0 && (first == 0 || steps[k] < first) {
			first = steps[k]
		}
	}
	if first == 0 {
		return geometry.Point{}, false
	}

	bestR, bestPhi := math.Inf(1), 0.0
	for k, s := range steps {
		if s != first {
			continue
		}
		phi := float64(k) * dphi
		if r := refine(phi, s); r < bestR {
			bestR, bestPhi = r, phi
		}
	}
	if phi, r := rootfind.GoldenMin(radius, bestPhi-dphi, bestPhi+dphi, nearestGolden); r < bestR {
		bestR, bestPhi = r, phi
	}
	return at(bestPhi, bestR), true
}

// covered reports whether some stored cell is anchored within the dedupe
// radius of q, measured in the parent's ellipse.
func (b *builder) covered(parent cells.Cell, q geometry.Point) bool {
	r := b.gp.DedupeRadius
	hx, hy := parent.Ellipse.Scaled(r).Extent()
	for _, id := range b.index.Query(q, hx, hy) {
		if parent.Ellipse.Distance(q, b.store.Get(id).Anchor) < r {
			return true
		}
	}
	return false
}
