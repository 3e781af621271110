// Package bank builds hybrid hexagonal template banks in the (t0, t3)
// chirp-time plane.
//
// Construction runs in three phases over one cells.Store:
//
//   - growth: starting from a seed, every fertile cell spawns up to six
//     neighbours on the hexagonal lattice of its own mismatch ellipse,
//     centred on its lattice anchor. A candidate outside the region is kept
//     only when its ellipse still reaches a valid point: above the upper
//     mass boundary it is snapped onto that curve, outside the box or the
//     mass limits it moves to the nearest valid point, and below the
//     equal-mass line it is kept for later correction. Moved cells keep
//     their anchor and grow like any other. Cells whose ellipse straddles
//     both boundaries become Edge cells.
//   - stitching: from the first two Edge cells, a string of templates is
//     laid along the bisector of the two boundary curves until the search
//     box edge is reached, one walk toward each end of the box.
//   - assembly: cells below the equal-mass line are projected onto it and
//     every cell that ends up inside the region is emitted with a dense id.
//
// Build is synchronous and keeps no state between calls; independent banks
// may be built concurrently.
package bank
