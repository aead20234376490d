package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by approximate comparisons.
const Epsilon = 1e-9

// Point is a 2-D point or vector.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Dot(q Point) float64   { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64  { return p.Sub(q).Len() }
func (p Point) Perp() Point           { return Point{-p.Y, p.X} }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Normalize returns p scaled to unit length. The zero vector is returned unchanged.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return p
	}
	return p.Scale(1 / l)
}

// Near reports whether p and q are within tol of each other on both axes.
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }
