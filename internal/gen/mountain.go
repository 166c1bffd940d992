package gen

import (
	"fmt"
	"math"

	"maptex/internal/alpha"
	"maptex/internal/grid"
	"maptex/internal/noise"
	"maptex/internal/palette"
	"maptex/internal/raster"
)

var (
	sky  = []uint8{0}
	rock = []uint8{255}
)

// MountainConfig describes a mountain silhouette decal.
type MountainConfig struct {
	Width, Height int
	Color         palette.RGB
	// MaxRadius bounds the alpha falloff around the peak.
	MaxRadius float64
	// Roughness in [0,1] mixes ridge noise into the triangular envelope.
	Roughness float64
	// RidgePoints is the number of ridge control points, at least 2.
	RidgePoints int
}

// Validate reports the first invalid field as a *grid.ConfigError.
func (c MountainConfig) Validate() error {
	switch {
	case c.Width < 2 || c.Height < 4:
		return &grid.ConfigError{Field: "size", Reason: fmt.Sprintf("%dx%d, need at least 2x4", c.Width, c.Height)}
	case !(c.MaxRadius > 0):
		return &grid.ConfigError{Field: "max radius", Reason: fmt.Sprintf("%g is not positive", c.MaxRadius)}
	case !(c.Roughness >= 0 && c.Roughness <= 1):
		return &grid.ConfigError{Field: "roughness", Reason: fmt.Sprintf("%g not in [0,1]", c.Roughness)}
	case c.RidgePoints < 2:
		return &grid.ConfigError{Field: "ridge points", Reason: fmt.Sprintf("%d, need at least 2", c.RidgePoints)}
	}
	return nil
}

// MountainResult holds every stage of a generated mountain.
type MountainResult struct {
	Ridge      []grid.Point[int]
	Peak       grid.Point[int]
	Silhouette *grid.Grid // 1 channel: 0 sky, 255 rock
	Alpha      *grid.Grid // 1 channel
	Texture    *grid.Grid // RGBA
}

// Mountain draws a ridge line across the full width, fills everything
// below it, and masks the result by a radial falloff from the highest
// ridge point.
func Mountain(cfg MountainConfig, rng Rand) (*MountainResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	field := newField(rng)

	ridge := ridgeLine(cfg, field, rng)
	peak := ridge[0]
	for _, p := range ridge[1:] {
		if p.Y < peak.Y {
			peak = p
		}
	}

	sil := grid.MustNew(cfg.Width, cfg.Height, 1)
	if _, err := raster.DrawPolyline(sil, ridge, rock); err != nil {
		return nil, fmt.Errorf("ridge: %w", err)
	}
	// The ridge spans every column above the bottom row, so one seed
	// reaches the whole area under it.
	if _, err := raster.FloodFill(sil, grid.Pt(0, cfg.Height-1), rock, sky); err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}

	mask, err := alpha.Mountain(sil, alpha.MountainParams{Blank: sky, Peak: peak, MaxRadius: cfg.MaxRadius})
	if err != nil {
		return nil, fmt.Errorf("alpha: %w", err)
	}

	rgb := grid.MustNew(cfg.Width, cfg.Height, 3)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			f := 0.8 + 0.3*field.Fractal(float64(x), float64(y)+1000, noise.Terrain)
			rgb.Set(x, y, shade(cfg.Color, f))
		}
	}
	tex, err := alpha.Apply(rgb, mask)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}

	grid.Logger().Debug("mountain generated", "size", [2]int{cfg.Width, cfg.Height}, "peak", peak)
	return &MountainResult{Ridge: ridge, Peak: peak, Silhouette: sil, Alpha: mask, Texture: tex}, nil
}

// ridgeLine places cfg.RidgePoints control points from x=0 to x=Width-1.
// Heights follow a triangular envelope around a random summit column,
// roughened by noise, and stay within rows [1, Height-2].
func ridgeLine(cfg MountainConfig, field *noise.Simplex, rng Rand) []grid.Point[int] {
	w, h := cfg.Width, cfg.Height
	summit := float64(w-1) * (0.3 + 0.4*rng.Float64())
	reach := math.Max(summit, float64(w-1)-summit)
	ridgeNoise := noise.Octaves{Freq: 0.15, Count: 3, Lacunarity: 2, Persistence: 0.5}

	pts := make([]grid.Point[int], cfg.RidgePoints)
	for i := range pts {
		x := int(math.Round(float64(i) * float64(w-1) / float64(cfg.RidgePoints-1)))
		env := 1 - math.Abs(float64(x)-summit)/reach
		n := field.Fractal(float64(x), 0, ridgeNoise)
		height := env*(1-cfg.Roughness) + n*env*cfg.Roughness
		y := int(math.Round(float64(h-2) - height*float64(h-3)))
		pts[i] = grid.Pt(x, min(max(y, 1), h-2))
	}
	return pts
}
