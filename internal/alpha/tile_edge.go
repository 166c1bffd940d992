package alpha

import (
	"fmt"
	"math"
	"strings"

	"maptex/internal/grid"
)

// Side names a tile edge.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

var sideNames = [...]string{"top", "bottom", "left", "right"}

func (s Side) String() string {
	if s < Top || s > Right {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// ParseSide accepts "top", "bottom", "left" or "right".
func ParseSide(s string) (Side, error) {
	for i, n := range sideNames {
		if strings.EqualFold(s, n) {
			return Side(i), nil
		}
	}
	return 0, &grid.ConfigError{Field: "side", Reason: fmt.Sprintf("unknown side %q", s)}
}

// EdgeSources scans tile inward from side, one line per row or column, and
// returns the first tile pixel that follows a blank pixel on each line.
// Lines that start on tile, or hold no tile at all, contribute nothing.
func EdgeSources(tile *grid.Grid, blank []uint8, side Side) ([]grid.Point[int], error) {
	if err := tile.Validate(); err != nil {
		return nil, err
	}
	if err := tile.CheckValue("blank value", blank); err != nil {
		return nil, err
	}

	var lines, depth int
	var at func(line, d int) grid.Point[int]
	switch side {
	case Top:
		lines, depth = tile.W, tile.H
		at = func(l, d int) grid.Point[int] { return grid.Pt(l, d) }
	case Bottom:
		lines, depth = tile.W, tile.H
		at = func(l, d int) grid.Point[int] { return grid.Pt(l, tile.H-1-d) }
	case Left:
		lines, depth = tile.H, tile.W
		at = func(l, d int) grid.Point[int] { return grid.Pt(d, l) }
	case Right:
		lines, depth = tile.H, tile.W
		at = func(l, d int) grid.Point[int] { return grid.Pt(tile.W-1-d, l) }
	default:
		return nil, &grid.ConfigError{Field: "side", Reason: side.String()}
	}

	var sources []grid.Point[int]
	for l := 0; l < lines; l++ {
		if p := at(l, 0); !tile.Equal(p.X, p.Y, blank) {
			continue
		}
		for d := 1; d < depth; d++ {
			if p := at(l, d); !tile.Equal(p.X, p.Y, blank) {
				sources = append(sources, p)
				break
			}
		}
	}
	return sources, nil
}

// TileEdgeParams tunes the tile-edge falloff. The constants are visual
// knobs, not fixed behaviour.
type TileEdgeParams struct {
	// Scale maps distance to grey: grey = distance*Scale, capped at 255.
	Scale float64
	// Jitter is the largest grey offset per pixel of distance. The offset
	// is signed and uniform, so pixels far from the edge wobble more.
	Jitter float64
	// Cutoff in [0,1] scales the chance that a pixel is forced fully
	// transparent: a uniform draw in [0,255) below grey*Cutoff cuts it.
	Cutoff float64
	// Rand supplies the draws. Required when Jitter or Cutoff is non-zero.
	Rand Rand
}

func (p TileEdgeParams) validate() error {
	switch {
	case !(p.Scale > 0) || math.IsInf(p.Scale, 0):
		return &grid.ConfigError{Field: "scale", Reason: fmt.Sprintf("%g is not positive", p.Scale)}
	case p.Jitter < 0 || math.IsNaN(p.Jitter):
		return &grid.ConfigError{Field: "jitter", Reason: fmt.Sprintf("%g is negative", p.Jitter)}
	case !(p.Cutoff >= 0 && p.Cutoff <= 1):
		return &grid.ConfigError{Field: "cutoff", Reason: fmt.Sprintf("%g not in [0,1]", p.Cutoff)}
	case (p.Jitter > 0 || p.Cutoff > 0) && p.Rand == nil:
		return &grid.ConfigError{Field: "rand", Reason: "jitter and cutoff need a random source"}
	}
	return nil
}

// TileEdge returns a w×h alpha mask, 255 opaque, fading with distance from
// the nearest source. Each pixel goes through: distance to grey, signed
// jitter, stochastic cutoff to zero, and finally source pixels are pinned
// to 255 whatever the draws produced.
//
// Distances are brute force over all sources, fine at tile sizes.
func TileEdge(w, h int, sources []grid.Point[int], p TileEdgeParams) (*grid.Grid, error) {
	out, err := grid.New(w, h, 1)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, &grid.ConfigError{Field: "sources", Reason: "no distance sources"}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := Nearest(sources, grid.Pt(x, y))
			grey := math.Min(d*p.Scale, 255)
			if p.Jitter > 0 {
				grey = clamp255(grey + (2*p.Rand.Float64()-1)*p.Jitter*d)
			}
			a := 255 - grey
			if p.Cutoff > 0 && p.Rand.Float64()*255 < grey*p.Cutoff {
				a = 0
			}
			if d == 0 {
				a = 255
			}
			out.Pix[y*w+x] = uint8(math.Round(a))
		}
	}

	grid.Logger().Debug("tile edge alpha", "size", [2]int{w, h}, "sources", len(sources))
	return out, nil
}
