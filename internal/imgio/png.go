// Package imgio reads and writes grids as PNG files.
package imgio

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"maptex/internal/grid"
)

// Auto asks LoadPNG to pick the channel count from the decoded image.
const Auto = 0

// LoadPNG decodes a PNG file into a grid with the given channel count, or
// with the channel count reported by Channels when channels is Auto.
func LoadPNG(path string, channels int) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if channels == Auto {
		channels = Channels(img)
	}
	g, err := grid.FromImage(img, channels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Channels reports 1 for greyscale images, 3 for opaque colour images and
// 4 otherwise.
func Channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// SavePNG encodes g to path, replacing any existing file.
func SavePNG(path string, g *grid.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, g.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
