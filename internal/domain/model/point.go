// Package model contains the value types shared by the clustering layers.
package model

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Point is an immutable coordinate on a 2-dimensional plane.
// Two points are equal only when both coordinates are exactly equal.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint returns the point (x, y).
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Origin returns (0, 0).
func Origin() Point {
	return Point{}
}

// RandomPoint returns a point drawn uniformly from [0,rows) x [0,cols).
func RandomPoint(rng *rand.Rand, rows, cols float64) Point {
	return Point{
		X: rng.Float64() * rows,
		Y: rng.Float64() * cols,
	}
}

// Distance returns the Euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the componentwise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Divide returns p with both coordinates divided by scalar.
func (p Point) Divide(scalar float64) (Point, error) {
	if scalar == 0 {
		return Point{}, ErrDivisionByZero
	}
	return Point{X: p.X / scalar, Y: p.Y / scalar}, nil
}

// Equal reports exact equality on both coordinates.
func (p Point) Equal(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Centroids is an ordered snapshot of cluster centroids.
type Centroids []Point

// Equal reports whether both snapshots have the same length and pairwise
// equal points.
func (c Centroids) Equal(other Centroids) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !c[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
