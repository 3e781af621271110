package cells

// GrowthState carries the counters of one bank construction. It is owned by
// the Store and shared by pointer with the growth and stitching phases.
type GrowthState struct {
	Templates int // cells stored
	Capacity  int // cells the arena can hold without growing
	Fertile   int // cells still in the worklist
	Passes    int // completed growth passes
}
