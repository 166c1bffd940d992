// Package alpha derives 1-channel alpha masks from distance fields.
//
// Two variants are provided. TileEdge fades a tile out with distance from
// the pixels where it meets a blank margin, with stochastic jitter and
// cutoff so the edge looks ragged. Mountain bounds a silhouette by a
// radial falloff around its peak.
package alpha

import (
	"fmt"
	"math"

	"maptex/internal/grid"
)

// Rand is the random source used for jitter. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Nearest returns the Euclidean distance from p to the closest source,
// or +Inf when sources is empty.
func Nearest(sources []grid.Point[int], p grid.Point[int]) float64 {
	best := math.Inf(1)
	for _, s := range sources {
		if d := grid.Dist(s, p); d < best {
			best = d
		}
	}
	return best
}

// Apply returns an RGBA copy of img whose alpha is mask. When img already
// carries alpha the two are multiplied.
func Apply(img, mask *grid.Grid) (*grid.Grid, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := mask.Validate(); err != nil {
		return nil, err
	}
	if img.C == 1 {
		return nil, &grid.ConfigError{Field: "channels", Reason: "image must be RGB or RGBA"}
	}
	if mask.C != 1 || mask.W != img.W || mask.H != img.H {
		return nil, &grid.ConfigError{Field: "mask", Reason: fmt.Sprintf("want %dx%dx1, got %dx%dx%d", img.W, img.H, mask.W, mask.H, mask.C)}
	}

	out := grid.MustNew(img.W, img.H, 4)
	px := make([]uint8, 4)
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			src := img.At(x, y)
			a := mask.At(x, y)[0]
			copy(px, src[:3])
			px[3] = a
			if img.C == 4 {
				px[3] = uint8((int(a)*int(src[3]) + 127) / 255)
			}
			out.Set(x, y, px)
		}
	}
	return out, nil
}

func clamp255(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}
