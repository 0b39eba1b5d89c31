package geom

import (
	"fmt"
	"math"
)

// Point is a 2-D coordinate in micrometres.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale multiplies both coordinates by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of p × q. It is positive when q lies
// counter-clockwise of p.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Len returns the distance from the origin.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// String formats p as "(x, y)".
func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Eq reports whether p and q are within tol of each other on both axes.
func (p Point) Eq(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Rotate rotates p by deg degrees counter-clockwise about the origin.
func (p Point) Rotate(deg float64) Point {
	s, c := sincosDeg(deg)
	return Point{p.X*c - p.Y*s, p.X*s + p.Y*c}
}

// Unit returns the unit vector pointing at angle deg (0 is +x, 90 is +y).
func Unit(deg float64) Point {
	s, c := sincosDeg(deg)
	return Point{c, s}
}

// NormalizeAngle maps deg into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// Snap values that are within floating point noise of a multiple of 90.
	if r := math.Round(deg/90) * 90; math.Abs(deg-r) < 1e-9 {
		deg = r
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// sincosDeg is math.Sincos in degrees with exact values at multiples of 90.
func sincosDeg(deg float64) (sin, cos float64) {
	d := NormalizeAngle(deg)
	switch d {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(d * math.Pi / 180)
}
