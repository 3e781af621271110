// Package geometry owns the plane geometry of the template bank.
//
// Responsibilities: chirp-time coordinates (t0, t3) and their inversion to
// masses, the boundary curves of the physical region (equal-mass line,
// upper mass boundary, their bisector), ellipse-frame transforms and the
// default search box.
// Key types: Point, ChirpCoeffs, Boundary, Box.
//
// Everything here is a pure function of its inputs. No state is kept.
package geometry
