package palette

import (
	"fmt"

	"maptex/internal/grid"
)

// Stats summarises a finalizer run.
type Stats struct {
	// Iterations counts passes that recoloured at least one pixel.
	Iterations int
	// Recolored is the total number of pixels changed.
	Recolored int
	// Unreached counts pixels still unapproved at convergence. They sit in
	// 4-connected components holding no approved pixel and are left as is.
	Unreached int
}

// up, down, left, right: the tie-break order for neighbour votes.
var voteOrder = [4]grid.Point[int]{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

type recolor struct {
	i int
	c RGB
}

// Finalize returns a copy of img in which approved colours have been
// diffused into every unapproved pixel they can reach.
func Finalize(img *grid.Grid, p Palette) (*grid.Grid, Stats, error) {
	if err := img.Validate(); err != nil {
		return nil, Stats{}, err
	}
	out := img.Clone()
	st, err := FinalizeInPlace(out, p)
	if err != nil {
		return nil, Stats{}, err
	}
	return out, st, nil
}

// FinalizeInPlace repairs img so that its pixels belong to p.
//
// Each pass collects, from the image as it stood at the start of the pass,
// every unapproved pixel with at least one approved 4-neighbour. Each such
// pixel takes the most frequent approved neighbour colour, ties going to
// the first in up, down, left, right order. All recolourings land together
// after the scan; the loop ends on the first pass with no candidates.
// Alpha, when present, is left untouched.
func FinalizeInPlace(img *grid.Grid, p Palette) (Stats, error) {
	if err := img.Validate(); err != nil {
		return Stats{}, err
	}
	if img.C < 3 {
		return Stats{}, &grid.ConfigError{Field: "channels", Reason: fmt.Sprintf("palette needs RGB or RGBA, got %d", img.C)}
	}
	if len(p) == 0 {
		return Stats{}, &grid.ConfigError{Field: "palette", Reason: "empty"}
	}

	var st Stats
	var frontier []recolor
	for {
		frontier = frontier[:0]
		for y := 0; y < img.H; y++ {
			for x := 0; x < img.W; x++ {
				if p.Contains(img.At(x, y)) {
					continue
				}
				if c, ok := vote(img, p, x, y); ok {
					frontier = append(frontier, recolor{i: (y*img.W + x) * img.C, c: c})
				}
			}
		}
		if len(frontier) == 0 {
			break
		}
		for _, r := range frontier {
			copy(img.Pix[r.i:r.i+3], r.c[:])
		}
		st.Iterations++
		st.Recolored += len(frontier)
		grid.Logger().Debug("palette pass", "pass", st.Iterations, "recolored", len(frontier))
	}

	for i := 0; i < len(img.Pix); i += img.C {
		if !p.Contains(img.Pix[i : i+3]) {
			st.Unreached++
		}
	}
	return st, nil
}

// vote returns the most frequent approved colour among the 4-neighbours of
// (x, y), or false when none is approved.
func vote(img *grid.Grid, p Palette, x, y int) (RGB, bool) {
	var seen [4]RGB
	var counts [4]int
	n := 0
	for _, d := range voteOrder {
		px := img.At(x+d.X, y+d.Y)
		if px == nil || !p.Contains(px) {
			continue
		}
		c := RGB(px[:3])
		j := 0
		for j < n && seen[j] != c {
			j++
		}
		if j == n {
			seen[n] = c
			n++
		}
		counts[j]++
	}
	if n == 0 {
		return RGB{}, false
	}
	best := 0
	for j := 1; j < n; j++ {
		if counts[j] > counts[best] {
			best = j
		}
	}
	return seen[best], true
}
