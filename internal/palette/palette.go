// Package palette restricts images to a fixed set of approved colours.
package palette

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"maptex/internal/grid"
)

// RGB is an 8-bit colour triple.
type RGB [3]uint8

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Palette is a set of approved colours. It is never mutated while a
// finalizer runs over it.
type Palette map[RGB]struct{}

// New builds a palette from the given colours.
func New(colors ...RGB) Palette {
	p := make(Palette, len(colors))
	for _, c := range colors {
		p[c] = struct{}{}
	}
	return p
}

// FromGrid collects the distinct colours of an RGB or RGBA grid, ignoring
// alpha.
func FromGrid(g *grid.Grid) (Palette, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.C < 3 {
		return nil, &grid.ConfigError{Field: "channels", Reason: "palette needs RGB or RGBA"}
	}
	p := make(Palette)
	for i := 0; i < len(g.Pix); i += g.C {
		p[RGB(g.Pix[i:i+3])] = struct{}{}
	}
	return p, nil
}

// Contains reports whether the first three channels of px are approved.
// Any alpha channel is ignored.
func (p Palette) Contains(px []uint8) bool {
	_, ok := p[RGB(px[:3])]
	return ok
}

// Colors lists the palette in ascending RGB order.
func (p Palette) Colors() []RGB {
	out := make([]RGB, 0, len(p))
	for c := range p {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b RGB) int {
		return cmp.Or(cmp.Compare(a[0], b[0]), cmp.Compare(a[1], b[1]), cmp.Compare(a[2], b[2]))
	})
	return out
}
