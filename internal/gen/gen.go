// Package gen builds game-map textures by composing the raster, alpha,
// warp and palette passes.
package gen

import (
	"maptex/internal/noise"
	"maptex/internal/palette"
)

// Rand is the random source a generator draws from. *rand.Rand satisfies
// it. Generators never touch global randomness, so one seed reproduces one
// texture.
type Rand interface {
	Float64() float64
	Int63() int64
}

// newField derives a noise field from rng.
func newField(rng Rand) *noise.Simplex {
	return noise.New(rng.Int63())
}

func shade(c palette.RGB, f float64) []uint8 {
	out := make([]uint8, 3)
	for i, v := range c {
		out[i] = uint8(min(255, max(0, float64(v)*f)))
	}
	return out
}
