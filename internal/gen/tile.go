package gen

import (
	"fmt"
	"math"

	"maptex/internal/alpha"
	"maptex/internal/grid"
	"maptex/internal/noise"
	"maptex/internal/palette"
)

// TileConfig describes a terrain tile that fades out along one edge.
type TileConfig struct {
	Size    int
	Side    alpha.Side
	Blank   palette.RGB   // margin colour, must not be in Palette
	Palette []palette.RGB // terrain bands, low to high
	// Depth is the deepest the ragged blank margin may reach, in pixels.
	Depth int
	// Scale, Jitter and Cutoff feed alpha.TileEdgeParams.
	Scale, Jitter, Cutoff float64
}

// Validate reports the first invalid field as a *grid.ConfigError.
func (c TileConfig) Validate() error {
	switch {
	case c.Size < 2:
		return &grid.ConfigError{Field: "size", Reason: fmt.Sprintf("%d, need at least 2", c.Size)}
	case c.Side < alpha.Top || c.Side > alpha.Right:
		return &grid.ConfigError{Field: "side", Reason: c.Side.String()}
	case len(c.Palette) == 0:
		return &grid.ConfigError{Field: "palette", Reason: "empty"}
	case c.Depth < 1 || c.Depth >= c.Size:
		return &grid.ConfigError{Field: "depth", Reason: fmt.Sprintf("%d not in [1,%d)", c.Depth, c.Size)}
	case !(c.Scale > 0):
		return &grid.ConfigError{Field: "scale", Reason: fmt.Sprintf("%g is not positive", c.Scale)}
	case !(c.Jitter >= 0):
		return &grid.ConfigError{Field: "jitter", Reason: fmt.Sprintf("%g is negative", c.Jitter)}
	case !(c.Cutoff >= 0 && c.Cutoff <= 1):
		return &grid.ConfigError{Field: "cutoff", Reason: fmt.Sprintf("%g not in [0,1]", c.Cutoff)}
	}
	if palette.New(c.Palette...).Contains(c.Blank[:]) {
		return &grid.ConfigError{Field: "blank", Reason: fmt.Sprintf("%v is also a palette colour", c.Blank)}
	}
	return nil
}

// TileResult holds every stage of a generated tile.
type TileResult struct {
	Tile    *grid.Grid // RGB, palette colours plus the blank margin
	Repair  palette.Stats
	Sources []grid.Point[int]
	Alpha   *grid.Grid // 1 channel, zero over the margin
	Decal   *grid.Grid // RGBA
}

// Tile paints noise bands from the palette, softens band borders (which
// introduces off-palette colours), repairs them with the palette
// finalizer, carves a ragged blank margin along cfg.Side, and derives the
// decal's alpha from the distance to the margin.
func Tile(cfg TileConfig, rng Rand) (*TileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	field := newField(rng)
	n := cfg.Size

	tile := grid.MustNew(n, n, 3)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := field.Fractal(float64(x), float64(y), noise.Terrain)
			band := min(int(v*float64(len(cfg.Palette))), len(cfg.Palette)-1)
			tile.Set(x, y, cfg.Palette[band][:])
		}
	}
	tile = soften(tile)

	stats, err := palette.FinalizeInPlace(tile, palette.New(cfg.Palette...))
	if err != nil {
		return nil, fmt.Errorf("repair: %w", err)
	}

	carveMargin(tile, cfg, field)

	sources, err := alpha.EdgeSources(tile, cfg.Blank[:], cfg.Side)
	if err != nil {
		return nil, fmt.Errorf("edge sources: %w", err)
	}
	mask, err := alpha.TileEdge(n, n, sources, alpha.TileEdgeParams{
		Scale:  cfg.Scale,
		Jitter: cfg.Jitter,
		Cutoff: cfg.Cutoff,
		Rand:   rng,
	})
	if err != nil {
		return nil, fmt.Errorf("alpha: %w", err)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if tile.Equal(x, y, cfg.Blank[:]) {
				mask.Set(x, y, sky)
			}
		}
	}

	decal, err := alpha.Apply(tile, mask)
	if err != nil {
		return nil, fmt.Errorf("decal: %w", err)
	}

	grid.Logger().Debug("tile generated", "size", n, "side", cfg.Side, "sources", len(sources), "repaired", stats.Recolored)
	return &TileResult{Tile: tile, Repair: stats, Sources: sources, Alpha: mask, Decal: decal}, nil
}

// soften averages every pixel that borders a different colour with its
// 4-neighbours, reading from the unmodified input.
func soften(g *grid.Grid) *grid.Grid {
	out := g.Clone()
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := g.At(x, y)
			sum := [3]int{int(c[0]), int(c[1]), int(c[2])}
			k, border := 1, false
			for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
				nb := g.At(x+d[0], y+d[1])
				if nb == nil {
					continue
				}
				if nb[0] != c[0] || nb[1] != c[1] || nb[2] != c[2] {
					border = true
				}
				for i := range sum {
					sum[i] += int(nb[i])
				}
				k++
			}
			if border {
				out.Set(x, y, []uint8{uint8(sum[0] / k), uint8(sum[1] / k), uint8(sum[2] / k)})
			}
		}
	}
	return out
}

// carveMargin blanks a noise-shaped run of 1..cfg.Depth pixels at the start
// of every line scanned inward from cfg.Side.
func carveMargin(tile *grid.Grid, cfg TileConfig, field *noise.Simplex) {
	n := tile.W
	edgeNoise := noise.Octaves{Freq: 0.12, Count: 2, Lacunarity: 2, Persistence: 0.5}
	for l := 0; l < n; l++ {
		v := field.Fractal(float64(l), 500, edgeNoise)
		depth := 1 + int(math.Round(v*float64(cfg.Depth-1)))
		for d := 0; d < depth; d++ {
			var x, y int
			switch cfg.Side {
			case alpha.Top:
				x, y = l, d
			case alpha.Bottom:
				x, y = l, n-1-d
			case alpha.Left:
				x, y = d, l
			default:
				x, y = n-1-d, l
			}
			tile.Set(x, y, cfg.Blank[:])
		}
	}
}
