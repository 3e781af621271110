package cells

import "slices"

// Worklist is a set of cell ids. Order is not significant.
type Worklist struct {
	ids []int
	pos map[int]int
}

// NewWorklist returns an empty worklist.
func NewWorklist() *Worklist {
	return &Worklist{pos: make(map[int]int)}
}

// Add inserts id. It reports false if id was already present.
func (w *Worklist) Add(id int) bool {
	if _, ok := w.pos[id]; ok {
		return false
	}
	w.pos[id] = len(w.ids)
	w.ids = append(w.ids, id)
	return true
}

// Remove deletes id. It reports false if id was absent.
func (w *Worklist) Remove(id int) bool {
	i, ok := w.pos[id]
	if !ok {
		return false
	}
	last := len(w.ids) - 1
	moved := w.ids[last]
	w.ids[i] = moved
	w.pos[moved] = i
	w.ids = w.ids[:last]
	delete(w.pos, id)
	return true
}

// Contains reports whether id is present.
func (w *Worklist) Contains(id int) bool {
	_, ok := w.pos[id]
	return ok
}

// Len returns the number of ids.
func (w *Worklist) Len() int { return len(w.ids) }

// Snapshot returns the ids in ascending order. The slice is a copy.
func (w *Worklist) Snapshot() []int {
	out := slices.Clone(w.ids)
	slices.Sort(out)
	return out
}
