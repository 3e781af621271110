package cells

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacity is returned when the arena would exceed its cell limit.
	ErrCapacity = errors.New("cells: capacity exceeded")
	// ErrLifecycle is returned for a status transition the lifecycle does
	// not allow.
	ErrLifecycle = errors.New("cells: invalid status transition")
)

// DefaultBatch is the number of cells the arena grows by when full.
const DefaultBatch = 1000

// Store is the cell arena. Ids are indices into it and stay valid for the
// life of the store.
type Store struct {
	cells   []Cell
	batch   int
	limit   int
	fertile *Worklist
	state   GrowthState
}

// NewStore returns an empty store that refuses to hold more than limit
// cells. A non-positive limit means no limit.
func NewStore(limit int) *Store {
	return &Store{
		batch:   DefaultBatch,
		limit:   limit,
		fertile: NewWorklist(),
	}
}

// Allocate reserves room for at least n cells. Existing ids are kept.
func (s *Store) Allocate(n int) error {
	if n <= cap(s.cells) {
		return nil
	}
	if s.limit > 0 && n > s.limit {
		return fmt.Errorf("%w: allocate %d cells, limit %d", ErrCapacity, n, s.limit)
	}
	grown := make([]Cell, len(s.cells), n)
	copy(grown, s.cells)
	s.cells = grown
	s.state.Capacity = n
	return nil
}

// Append stores c and returns its id. A fertile cell joins the worklist.
// The arena grows by a fixed batch when full.
func (s *Store) Append(c Cell) (int, error) {
	id := len(s.cells)
	if s.limit > 0 && id >= s.limit {
		return None, fmt.Errorf("%w: %d cells", ErrCapacity, s.limit)
	}
	if id == cap(s.cells) {
		n := cap(s.cells) + s.batch
		if s.limit > 0 && n > s.limit {
			n = s.limit
		}
		if err := s.Allocate(n); err != nil {
			return None, err
		}
	}
	c.ID = id
	s.cells = append(s.cells, c)
	s.state.Templates++
	if c.Status == Fertile {
		s.fertile.Add(id)
		s.state.Fertile++
	}
	return id, nil
}

// Get returns the cell with the given id, or nil if there is none. The
// pointer is valid until the next Append.
func (s *Store) Get(id int) *Cell {
	if id < 0 || id >= len(s.cells) {
		return nil
	}
	return &s.cells[id]
}

// Len returns the number of stored cells.
func (s *Store) Len() int { return len(s.cells) }

// Cells returns the arena. Callers must not append to it.
func (s *Store) Cells() []Cell { return s.cells }

// State returns the growth counters.
func (s *Store) State() *GrowthState { return &s.state }

// FertileSnapshot returns the fertile ids in ascending order.
func (s *Store) FertileSnapshot() []int { return s.fertile.Snapshot() }

// MarkSterile moves a fertile cell to Sterile and out of the worklist.
func (s *Store) MarkSterile(id int) error {
	return s.leaveWorklist(id, Sterile)
}

// MarkEdge moves a fertile cell to Edge and out of the worklist.
func (s *Store) MarkEdge(id int) error {
	return s.leaveWorklist(id, Edge)
}

func (s *Store) leaveWorklist(id int, to Status) error {
	c := s.Get(id)
	if c == nil {
		return fmt.Errorf("%w: no cell %d", ErrLifecycle, id)
	}
	if c.Status != Fertile {
		return fmt.Errorf("%w: cell %d is %s, cannot become %s", ErrLifecycle, id, c.Status, to)
	}
	c.Status = to
	s.fertile.Remove(id)
	s.state.Fertile--
	return nil
}

// Retire moves an Edge cell to Sterile once the stitcher has used it.
func (s *Store) Retire(id int) error {
	c := s.Get(id)
	if c == nil {
		return fmt.Errorf("%w: no cell %d", ErrLifecycle, id)
	}
	if c.Status != Edge {
		return fmt.Errorf("%w: cell %d is %s, cannot retire", ErrLifecycle, id, c.Status)
	}
	c.Status = Sterile
	return nil
}

// EdgeIDs returns the ids of all Edge cells in ascending order.
func (s *Store) EdgeIDs() []int {
	var ids []int
	for i := range s.cells {
		if s.cells[i].Status == Edge {
			ids = append(ids, i)
		}
	}
	return ids
}
