package cells

import (
	"github.com/banshee-data/hexbank/internal/bank/classify"
	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/metric"
)

// None marks an absent parent or child link.
const None = -1

// Status is the growth state of a cell.
type Status int

const (
	// Fertile cells may still spawn neighbours.
	Fertile Status = iota
	// Sterile cells are finished. The state is final.
	Sterile
	// Edge cells stopped growing at a narrow part of the region and seed
	// the edge stitcher.
	Edge
)

func (s Status) String() string {
	switch s {
	case Fertile:
		return "fertile"
	case Sterile:
		return "sterile"
	case Edge:
		return "edge"
	default:
		return "unknown"
	}
}

// Cell is one template candidate.
type Cell struct {
	ID       int
	Pos      geometry.Point
	Ellipse  metric.Ellipse // scaled to the bank's minimum mismatch
	Status   Status
	Position classify.Position
	Corners  [4]classify.Position
	Parent   int
	Children [2]int
	// Anchor is the lattice point the cell grew from. Neighbours are
	// spawned and deduplicated around it.
	Anchor geometry.Point
	// Snapped cells were moved from their anchor into the region, so Pos
	// and Anchor differ.
	Snapped bool
	// Heading and Reach give the line, as a plane angle and a length in
	// seconds, along which a cell below the equal-mass line is corrected.
	// A zero Reach means the major axis.
	Heading float64
	Reach   float64
}

// NewCell returns a fertile cell at p, anchored there, with no links.
func NewCell(p geometry.Point, e metric.Ellipse) Cell {
	return Cell{
		Pos:      p,
		Anchor:   p,
		Ellipse:  e,
		Status:   Fertile,
		Parent:   None,
		Children: [2]int{None, None},
	}
}

// AddChild records child in the first free child slot. It reports false
// when both slots are taken.
func (c *Cell) AddChild(child int) bool {
	for i := range c.Children {
		if c.Children[i] == None {
			c.Children[i] = child
			return true
		}
	}
	return false
}
