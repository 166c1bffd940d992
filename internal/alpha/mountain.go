package alpha

import (
	"fmt"
	"math"

	"maptex/internal/grid"
)

// MountainParams configures the silhouette mask.
type MountainParams struct {
	// Blank is the silhouette value that counts as empty sky.
	Blank []uint8
	// Peak is the focal point of the radial bound.
	Peak grid.Point[int]
	// MaxRadius is the distance from Peak at which alpha reaches zero.
	MaxRadius float64
}

// Mountain returns the per-pixel minimum of two fields over sil: binary
// opacity (0 where sil is Blank, 255 elsewhere) and a radial falloff that
// is 255 at Peak and drops linearly to 0 at MaxRadius. The mask therefore
// never exceeds either the shape or the radial bound.
func Mountain(sil *grid.Grid, p MountainParams) (*grid.Grid, error) {
	if err := sil.Validate(); err != nil {
		return nil, err
	}
	if err := sil.CheckValue("blank value", p.Blank); err != nil {
		return nil, err
	}
	if !(p.MaxRadius > 0) || math.IsInf(p.MaxRadius, 0) {
		return nil, &grid.ConfigError{Field: "max radius", Reason: fmt.Sprintf("%g is not positive", p.MaxRadius)}
	}

	out := grid.MustNew(sil.W, sil.H, 1)
	for y := 0; y < sil.H; y++ {
		for x := 0; x < sil.W; x++ {
			if sil.Equal(x, y, p.Blank) {
				continue
			}
			d := grid.Dist(p.Peak, grid.Pt(x, y))
			radial := 255 * math.Max(0, 1-d/p.MaxRadius)
			out.Pix[y*sil.W+x] = uint8(math.Round(math.Min(255, radial)))
		}
	}
	return out, nil
}
