package grid

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Scalar is the coordinate type of a Point.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Point is a 2D coordinate. Integer points address pixels, float points
// carry intermediate geometry such as barycentric mappings and distances.
type Point[T Scalar] struct {
	X, Y T
}

// Pt is shorthand for an integer pixel coordinate.
func Pt(x, y int) Point[int] { return Point[int]{X: x, Y: y} }

// Vec is shorthand for a floating-point coordinate.
func Vec(x, y float64) Point[float64] { return Point[float64]{X: x, Y: y} }

// Add returns p+q.
func (p Point[T]) Add(q Point[T]) Point[T] { return Point[T]{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point[T]) Sub(q Point[T]) Point[T] { return Point[T]{p.X - q.X, p.Y - q.Y} }

// Float converts p to floating point.
func Float[T Scalar](p Point[T]) Point[float64] {
	return Point[float64]{float64(p.X), float64(p.Y)}
}

// Round returns the nearest integer point.
func Round(p Point[float64]) Point[int] {
	return Point[int]{int(math.Round(p.X)), int(math.Round(p.Y))}
}

// Dot returns the dot product of p and q.
func Dot(p, q Point[float64]) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the cross product of p and q.
func Cross(p, q Point[float64]) float64 { return p.X*q.Y - p.Y*q.X }

// Dist returns the Euclidean distance between p and q.
func Dist[T Scalar](p, q Point[T]) float64 {
	return math.Hypot(float64(p.X)-float64(q.X), float64(p.Y)-float64(q.Y))
}

// Finite reports whether both coordinates are finite.
func Finite(p Point[float64]) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
