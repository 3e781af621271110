package cells

import (
	"math"

	"github.com/banshee-data/hexbank/internal/bank/geometry"
)

// Index is a uniform grid over the plane for neighbour lookups. Grid cells
// may be anisotropic since t0 and t3 spacings differ by an order of
// magnitude.
type Index struct {
	CellX float64
	CellY float64
	Grid  map[int64][]int // grid cell key → cell ids
}

// NewIndex creates an index with grid cells of cellX by cellY seconds.
func NewIndex(cellX, cellY float64) *Index {
	return &Index{
		CellX: cellX,
		CellY: cellY,
		Grid:  make(map[int64][]int),
	}
}

// Insert adds id at p.
func (ix *Index) Insert(id int, p geometry.Point) {
	key := gridKey(ix.coords(p))
	ix.Grid[key] = append(ix.Grid[key], id)
}

// Query returns the ids in every grid cell overlapping the rectangle of
// half-widths hx, hy around p. Callers filter by exact distance.
func (ix *Index) Query(p geometry.Point, hx, hy float64) []int {
	x0 := int64(math.Floor((p.T0 - hx) / ix.CellX))
	x1 := int64(math.Floor((p.T0 + hx) / ix.CellX))
	y0 := int64(math.Floor((p.T3 - hy) / ix.CellY))
	y1 := int64(math.Floor((p.T3 + hy) / ix.CellY))

	var ids []int
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			ids = append(ids, ix.Grid[gridKey(cx, cy)]...)
		}
	}
	return ids
}

func (ix *Index) coords(p geometry.Point) (int64, int64) {
	return int64(math.Floor(p.T0 / ix.CellX)), int64(math.Floor(p.T3 / ix.CellY))
}

// gridKey maps grid coordinates to a unique key: zigzag encoding of each
// signed coordinate followed by Szudzik's pairing function.
func gridKey(cx, cy int64) int64 {
	a, b := zigzag(cx), zigzag(cy)
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

func zigzag(v int64) int64 {
	if v >= 0 {
		return 2 * v
	}
	return -2*v - 1
}
