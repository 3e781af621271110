package geometry

import "math"

// ToPlane maps ellipse-local offsets (u along the orientation angle theta,
// v perpendicular to it) around center into the plane.
func ToPlane(center Point, theta, u, v float64) Point {
	c, s := math.Cos(theta), math.Sin(theta)
	return Point{
		T0: center.T0 + u*c - v*s,
		T3: center.T3 + u*s + v*c,
	}
}

// ToLocal is the inverse of ToPlane.
func ToLocal(center Point, theta float64, p Point) (u, v float64) {
	c, s := math.Cos(theta), math.Sin(theta)
	dx, dy := p.T0-center.T0, p.T3-center.T3
	return dx*c + dy*s, -dx*s + dy*c
}

// Box is an axis-aligned rectangle of the plane. Bounds are inclusive.
type Box struct {
	T0Min float64
	T0Max float64
	T3Min float64
	T3Max float64
}

// Valid reports whether the box is non-empty and lies at positive t0.
func (b Box) Valid() bool {
	return b.T0Min > 0 && b.T0Min < b.T0Max && b.T3Min < b.T3Max
}

// Contains reports whether p lies in the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.T0 >= b.T0Min && p.T0 <= b.T0Max && p.T3 >= b.T3Min && p.T3 <= b.T3Max
}

// Center returns the middle of the box.
func (b Box) Center() Point {
	return Point{T0: 0.5 * (b.T0Min + b.T0Max), T3: 0.5 * (b.T3Min + b.T3Max)}
}

// Area returns the box area in s².
func (b Box) Area() float64 {
	return (b.T0Max - b.T0Min) * (b.T3Max - b.T3Min)
}
