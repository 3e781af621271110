// Package cells owns template candidates while a bank is being built.
//
// Responsibilities: the cell arena with stable integer ids, the worklist of
// fertile ids, lifecycle transitions (Fertile to Sterile or Edge, Edge to
// Sterile) with their counters, and a spatial hash used to find cells near
// a point.
// Key types: Cell, Store, Worklist, GrowthState, Index.
//
// A Store is owned by a single bank construction and is not safe for
// concurrent use.
package cells
