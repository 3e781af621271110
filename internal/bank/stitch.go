package bank

import (
	"fmt"
	"math"

	"github.com/banshee-data/hexbank/internal/bank/cells"
	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/bank/rootfind"
	"github.com/banshee-data/hexbank/internal/monitoring"
)

// arcMargin keeps the arc bracket clear of the points where the arc turns
// back toward the current cell.
const arcMargin = 0.05

// stitch lays templates along the bisector of the boundary curves from the
// first two Edge cells, in id order, to the box edges. The one with the
// larger t0 walks toward T0Max and the other toward T0Min. With fewer than
// two Edge cells, or two at the same t0, nothing is placed.
func (b *builder) stitch() error {
	edges := b.store.EdgeIDs()
	if len(edges) < 2 {
		monitoring.Debugf("bank: %d edge cells, skipping stitch", len(edges))
		return nil
	}
	hi, lo := edges[0], edges[1]
	switch t0hi, t0lo := b.store.Get(hi).Pos.T0, b.store.Get(lo).Pos.T0; {
	case t0hi == t0lo:
		monitoring.Debugf("bank: edge cells %d and %d share t0, skipping stitch", hi, lo)
		return nil
	case t0hi < t0lo:
		hi, lo = lo, hi
	}

	if err := b.walk(hi, rootfind.TrackUpper); err != nil {
		return err
	}
	return b.walk(lo, rootfind.TrackLower)
}

// walk places one template after another on the bisector, each on the
// √3-scaled ellipse of the previous one, until a template sits on the box
// edge the walk is heading for.
func (b *builder) walk(start int, dir rootfind.Direction) error {
	box := b.gp.Box
	edge := box.T0Max
	if dir == rootfind.TrackLower {
		edge = box.T0Min
	}
	reached := func(t0 float64) bool {
		if dir == rootfind.TrackUpper {
			return t0 >= edge
		}
		return t0 <= edge
	}

	head := start
	for steps := 0; !reached(b.store.Get(head).Pos.T0); steps++ {
		if steps >= b.maxPasses {
			return fmt.Errorf("%w: %s stitch exceeded %d steps", ErrRunawayGrowth, dir, b.maxPasses)
		}
		next := b.clampToBox(b.arcPoint(*b.store.Get(head), dir), edge)

		c, err := b.newCell(next)
		if err != nil {
			return err
		}
		c.Parent = head
		id, err := b.insert(c)
		if err != nil {
			return err
		}
		b.store.Get(head).AddChild(id)
		if err := b.release(head); err != nil {
			return err
		}
		head = id
		b.stats.Stitched++
	}
	return b.release(head)
}

// release takes a cell out of play once the walk has moved past it.
func (b *builder) release(id int) error {
	if b.store.Get(id).Status == cells.Edge {
		return b.store.Retire(id)
	}
	return b.store.MarkSterile(id)
}

// arcPoint returns the point of the √3-scaled ellipse around c that lies on
// the bisector, on the half of the ellipse facing the walk direction.
//
// The ellipse is parameterised by φ' = φ + ψ with ψ = atan2(b sinθ, a cosθ),
// so that t0 - t0c = R cos φ'. TrackUpper searches the half with cos φ' > 0,
// TrackLower the other one.
func (b *builder) arcPoint(c cells.Cell, dir rootfind.Direction) geometry.Point {
	e := c.Ellipse
	a, bb := latticeScale*e.A, latticeScale*e.B
	psi := math.Atan2(bb*math.Sin(e.Theta), a*math.Cos(e.Theta))
	point := func(phi float64) geometry.Point {
		phi -= psi
		return geometry.ToPlane(c.Pos, e.Theta, a*math.Cos(phi), bb*math.Sin(phi))
	}
	offset := func(phi float64) float64 {
		p := point(phi)
		return p.T3 - b.bound.Bisector(p.T0)
	}

	lo, hi := -math.Pi/2+arcMargin, math.Pi/2-arcMargin
	if dir == rootfind.TrackLower {
		lo, hi = math.Pi/2+arcMargin, 3*math.Pi/2-arcMargin
	}
	arc := rootfind.BisectArc(offset, lo, hi, dir, rootfind.ArcTolerance, rootfind.ArcMaxIterations)
	if !arc.Converged {
		monitoring.Debugf("bank: %s arc search from cell %d stopped after %d iterations", dir, c.ID, arc.Iterations)
	}
	return point(arc.Angle)
}

// clampToBox pins a stitched point that left the search box. A t0 past
// either edge is pinned to that edge; a t3 outside the box pins t0 to edge,
// the edge the walk is heading for. In both cases t3 follows the bisector.
func (b *builder) clampToBox(p geometry.Point, edge float64) geometry.Point {
	box := b.gp.Box
	switch {
	case p.T0 > box.T0Max:
		p = geometry.Point{T0: box.T0Max, T3: b.bound.Bisector(box.T0Max)}
	case p.T0 < box.T0Min:
		p = geometry.Point{T0: box.T0Min, T3: b.bound.Bisector(box.T0Min)}
	}
	if p.T3 > box.T3Max || p.T3 < box.T3Min {
		p = geometry.Point{T0: edge, T3: b.bound.Bisector(edge)}
	}
	return p
}
