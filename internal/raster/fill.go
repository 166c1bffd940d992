package raster

import (
	"slices"

	"maptex/internal/grid"
)

// neighbours4 lists the 4-connected offsets.
var neighbours4 = [4]grid.Point[int]{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

// FloodFill replaces every pixel 4-connected to seed through pixels equal
// to blank with fill, and returns how many pixels changed. A seed that is
// out of bounds or not blank leaves g untouched.
//
// The walk uses an explicit stack and a visited set, so each pixel is
// tested at most once regardless of region size.
func FloodFill(g *grid.Grid, seed grid.Point[int], fill, blank []uint8) (int, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	if err := g.CheckValue("fill value", fill); err != nil {
		return 0, err
	}
	if err := g.CheckValue("blank value", blank); err != nil {
		return 0, err
	}
	if !g.Equal(seed.X, seed.Y, blank) || slices.Equal(fill, blank) {
		return 0, nil
	}

	visited := make([]bool, g.W*g.H)
	visited[seed.Y*g.W+seed.X] = true
	stack := []grid.Point[int]{seed}
	n := 0

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		g.Set(p.X, p.Y, fill)
		n++

		for _, d := range neighbours4 {
			np := p.Add(d)
			if !g.In(np.X, np.Y) {
				continue
			}
			i := np.Y*g.W + np.X
			if visited[i] {
				continue
			}
			visited[i] = true
			if g.Equal(np.X, np.Y, blank) {
				stack = append(stack, np)
			}
		}
	}

	grid.Logger().Debug("flood fill", "seed", seed, "filled", n)
	return n, nil
}
