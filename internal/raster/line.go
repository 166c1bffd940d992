// Package raster draws straight segments into pixel grids and flood-fills
// the regions they enclose.
package raster

import (
	"fmt"
	"slices"

	"maptex/internal/grid"
)

// LinePoints returns the 8-connected cells of the segment from p0 to p1,
// in order, both endpoints included. It always visits max(|dx|,|dy|)+1
// cells, and LinePoints(p1, p0) is exactly the reverse of LinePoints(p0, p1).
func LinePoints(p0, p1 grid.Point[int]) []grid.Point[int] {
	// Step from a canonical endpoint so that tie-breaking on the minor
	// axis does not depend on argument order.
	reversed := p1.X < p0.X || (p1.X == p0.X && p1.Y < p0.Y)
	if reversed {
		p0, p1 = p1, p0
	}

	dx, dy := abs(p1.X-p0.X), abs(p1.Y-p0.Y)
	sx, sy := sign(p1.X-p0.X), sign(p1.Y-p0.Y)
	pts := make([]grid.Point[int], 0, max(dx, dy)+1)

	x, y := p0.X, p0.Y
	if dx >= dy {
		e := 2*dy - dx
		for i := 0; i <= dx; i++ {
			pts = append(pts, grid.Pt(x, y))
			if e > 0 {
				y += sy
				e -= 2 * dx
			}
			e += 2 * dy
			x += sx
		}
	} else {
		e := 2*dx - dy
		for i := 0; i <= dy; i++ {
			pts = append(pts, grid.Pt(x, y))
			if e > 0 {
				x += sx
				e -= 2 * dy
			}
			e += 2 * dx
			y += sy
		}
	}

	if reversed {
		slices.Reverse(pts)
	}
	return pts
}

// DrawLine paints v into every in-bounds cell of the segment p0-p1 and
// returns how many cells were painted. Cells outside g are skipped.
func DrawLine(g *grid.Grid, p0, p1 grid.Point[int], v []uint8) (int, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	if err := g.CheckValue("line value", v); err != nil {
		return 0, err
	}
	return drawLine(g, p0, p1, v), nil
}

func drawLine(g *grid.Grid, p0, p1 grid.Point[int], v []uint8) int {
	n := 0
	for _, p := range LinePoints(p0, p1) {
		if g.Set(p.X, p.Y, v) {
			n++
		}
	}
	return n
}

// DrawPolyline paints the segments joining consecutive points. Shared
// vertices are painted once per segment, which is harmless for opaque
// values.
func DrawPolyline(g *grid.Grid, pts []grid.Point[int], v []uint8) (int, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	if err := g.CheckValue("line value", v); err != nil {
		return 0, err
	}
	if len(pts) < 2 {
		return 0, &grid.ConfigError{Field: "polyline", Reason: fmt.Sprintf("%d points, need at least 2", len(pts))}
	}
	n := 0
	for i := 1; i < len(pts); i++ {
		n += drawLine(g, pts[i-1], pts[i], v)
	}
	return n, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
