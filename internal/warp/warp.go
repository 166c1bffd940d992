// Package warp maps the texture under one triangle onto another triangle
// using inverse barycentric sampling.
package warp

import (
	"fmt"
	"math"

	"maptex/internal/grid"
)

// Epsilon bounds the barycentric denominator below which a triangle is
// treated as degenerate.
const Epsilon = 1e-9

// Triangle is three vertices in pixel space. Orientation is free.
type Triangle [3]grid.Point[float64]

// Tri builds a triangle from integer pixel vertices.
func Tri(a, b, c grid.Point[int]) Triangle {
	return Triangle{grid.Float(a), grid.Float(b), grid.Float(c)}
}

// DegenerateTriangleError reports a triangle whose vertices are collinear
// or coincide, so no barycentric mapping exists.
type DegenerateTriangleError struct {
	Triangle Triangle
	Denom    float64
}

func (e *DegenerateTriangleError) Error() string {
	t := e.Triangle
	return fmt.Sprintf("maptex: degenerate triangle (%g,%g) (%g,%g) (%g,%g): denominator %g",
		t[0].X, t[0].Y, t[1].X, t[1].Y, t[2].X, t[2].Y, e.Denom)
}

// Is makes errors.Is(err, grid.ErrInvalidGeometry) hold.
func (e *DegenerateTriangleError) Is(target error) bool {
	return target == grid.ErrInvalidGeometry
}

// basis caches the per-triangle terms of the dot-product barycentric
// formulation.
type basis struct {
	a             grid.Point[float64]
	v0, v1        grid.Point[float64]
	d00, d01, d11 float64
	denom         float64
}

func newBasis(t Triangle) (basis, error) {
	for _, p := range t {
		if !grid.Finite(p) {
			return basis{}, &DegenerateTriangleError{Triangle: t, Denom: math.NaN()}
		}
	}
	b := basis{a: t[0], v0: t[1].Sub(t[0]), v1: t[2].Sub(t[0])}
	b.d00 = grid.Dot(b.v0, b.v0)
	b.d01 = grid.Dot(b.v0, b.v1)
	b.d11 = grid.Dot(b.v1, b.v1)
	b.denom = b.d00*b.d11 - b.d01*b.d01
	if math.Abs(b.denom) < Epsilon {
		return basis{}, &DegenerateTriangleError{Triangle: t, Denom: b.denom}
	}
	return b, nil
}

func (b basis) weights(p grid.Point[float64]) (w1, w2, w3 float64) {
	v2 := p.Sub(b.a)
	d20 := grid.Dot(v2, b.v0)
	d21 := grid.Dot(v2, b.v1)
	w2 = (b.d11*d20 - b.d01*d21) / b.denom
	w3 = (b.d00*d21 - b.d01*d20) / b.denom
	return 1 - w2 - w3, w2, w3
}

// Barycentric returns the weights of p relative to t, such that
// p = w1*t[0] + w2*t[1] + w3*t[2].
func Barycentric(t Triangle, p grid.Point[float64]) (w1, w2, w3 float64, err error) {
	b, err := newBasis(t)
	if err != nil {
		return 0, 0, 0, err
	}
	w1, w2, w3 = b.weights(p)
	return w1, w2, w3, nil
}

// Contains reports whether p lies inside t or on its boundary: the three
// edge cross products must not have mixed signs.
func Contains(t Triangle, p grid.Point[float64]) bool {
	d1 := grid.Cross(t[1].Sub(t[0]), p.Sub(t[0]))
	d2 := grid.Cross(t[2].Sub(t[1]), p.Sub(t[1]))
	d3 := grid.Cross(t[0].Sub(t[2]), p.Sub(t[2]))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// Warp returns a new w×h grid, with src's channel count, holding the
// pixels of src under srcTri mapped onto dstTri. Everything else is zero.
func Warp(src *grid.Grid, srcTri, dstTri Triangle, w, h int) (*grid.Grid, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst, err := grid.New(w, h, src.C)
	if err != nil {
		return nil, err
	}
	if _, err := WarpInto(dst, src, srcTri, dstTri); err != nil {
		return nil, err
	}
	return dst, nil
}

// WarpInto samples src under srcTri into the pixels of dst covered by
// dstTri, leaving the rest of dst untouched, and returns the number of
// pixels written. Sampling is nearest-pixel; pixels whose source falls
// outside src are skipped.
func WarpInto(dst, src *grid.Grid, srcTri, dstTri Triangle) (int, error) {
	if err := src.Validate(); err != nil {
		return 0, err
	}
	if err := dst.Validate(); err != nil {
		return 0, err
	}
	if dst.C != src.C {
		return 0, &grid.ConfigError{Field: "channels", Reason: fmt.Sprintf("destination has %d, source has %d", dst.C, src.C)}
	}
	for _, p := range srcTri {
		if !grid.Finite(p) {
			return 0, &DegenerateTriangleError{Triangle: srcTri, Denom: math.NaN()}
		}
	}
	b, err := newBasis(dstTri)
	if err != nil {
		return 0, err
	}

	minX, minY, maxX, maxY := bounds(dstTri, dst.W, dst.H)
	grid.Logger().Debug("warp triangle", "bbox", [4]int{minX, minY, maxX, maxY})

	n := 0
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := grid.Vec(float64(x), float64(y))
			if !Contains(dstTri, p) {
				continue
			}
			w1, w2, w3 := b.weights(p)
			s := grid.Round(grid.Vec(
				w1*srcTri[0].X+w2*srcTri[1].X+w3*srcTri[2].X,
				w1*srcTri[0].Y+w2*srcTri[1].Y+w3*srcTri[2].Y,
			))
			px := src.At(s.X, s.Y)
			if px == nil {
				continue
			}
			dst.Set(x, y, px)
			n++
		}
	}
	return n, nil
}

// bounds returns the inclusive pixel bounding box of t clipped to w×h.
// An empty box has min > max.
func bounds(t Triangle, w, h int) (minX, minY, maxX, maxY int) {
	lx := math.Min(t[0].X, math.Min(t[1].X, t[2].X))
	ly := math.Min(t[0].Y, math.Min(t[1].Y, t[2].Y))
	hx := math.Max(t[0].X, math.Max(t[1].X, t[2].X))
	hy := math.Max(t[0].Y, math.Max(t[1].Y, t[2].Y))

	minX = max(int(math.Ceil(lx)), 0)
	minY = max(int(math.Ceil(ly)), 0)
	maxX = min(int(math.Floor(hx)), w-1)
	maxY = min(int(math.Floor(hy)), h-1)
	return minX, minY, maxX, maxY
}
