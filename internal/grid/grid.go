// Package grid holds the pixel buffer shared by every rasterization and
// compositing pass, plus the small geometry and error types they agree on.
package grid

import (
	"fmt"
	"slices"
)

// Grid is a row-major buffer of W×H pixels with C 8-bit channels each.
// C is 1 (grey/alpha), 3 (RGB) or 4 (RGBA).
type Grid struct {
	W, H, C int
	Pix     []uint8
}

// New allocates a zeroed grid.
func New(w, h, c int) (*Grid, error) {
	if err := CheckShape(w, h, c); err != nil {
		return nil, err
	}
	return &Grid{W: w, H: h, C: c, Pix: make([]uint8, w*h*c)}, nil
}

// MustNew is like New but panics on an invalid shape.
func MustNew(w, h, c int) *Grid {
	g, err := New(w, h, c)
	if err != nil {
		panic(err)
	}
	return g
}

// CheckShape validates grid dimensions and channel count.
func CheckShape(w, h, c int) error {
	if w <= 0 || h <= 0 {
		return &ConfigError{Field: "size", Reason: fmt.Sprintf("%dx%d is not positive", w, h)}
	}
	switch c {
	case 1, 3, 4:
		return nil
	}
	return &ConfigError{Field: "channels", Reason: fmt.Sprintf("%d not in {1,3,4}", c)}
}

// Validate reports whether g is a usable grid.
func (g *Grid) Validate() error {
	if g == nil {
		return &ConfigError{Field: "grid", Reason: "nil"}
	}
	if err := CheckShape(g.W, g.H, g.C); err != nil {
		return err
	}
	if len(g.Pix) != g.W*g.H*g.C {
		return &ConfigError{Field: "pix", Reason: fmt.Sprintf("len %d, want %d", len(g.Pix), g.W*g.H*g.C)}
	}
	return nil
}

// CheckValue validates that v carries exactly one value per channel.
func (g *Grid) CheckValue(name string, v []uint8) error {
	if len(v) != g.C {
		return &ConfigError{Field: name, Reason: fmt.Sprintf("%d channels, grid has %d", len(v), g.C)}
	}
	return nil
}

// In reports whether (x, y) lies inside the grid.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

func (g *Grid) offset(x, y int) int {
	return (y*g.W + x) * g.C
}

// At returns the channels of pixel (x, y) as a view into Pix, or nil when
// the coordinate is out of bounds.
func (g *Grid) At(x, y int) []uint8 {
	if !g.In(x, y) {
		return nil
	}
	i := g.offset(x, y)
	return g.Pix[i : i+g.C : i+g.C]
}

// Set writes v into pixel (x, y). Out-of-bounds writes are dropped and
// reported as false.
func (g *Grid) Set(x, y int, v []uint8) bool {
	if !g.In(x, y) {
		return false
	}
	copy(g.Pix[g.offset(x, y):], v[:g.C])
	return true
}

// Equal reports whether pixel (x, y) is in bounds and holds v.
func (g *Grid) Equal(x, y int, v []uint8) bool {
	p := g.At(x, y)
	return p != nil && slices.Equal(p, v)
}

// Fill sets every pixel to v.
func (g *Grid) Fill(v []uint8) {
	for i := 0; i < len(g.Pix); i += g.C {
		copy(g.Pix[i:i+g.C], v)
	}
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{W: g.W, H: g.H, C: g.C, Pix: slices.Clone(g.Pix)}
}

// SameShape reports whether g and o have the same dimensions and channels.
func (g *Grid) SameShape(o *Grid) bool {
	return g.W == o.W && g.H == o.H && g.C == o.C
}
