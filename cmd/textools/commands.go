package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"maptex/internal/grid"
	"maptex/internal/imgio"
	"maptex/internal/palette"
	"maptex/internal/preset"
	"maptex/internal/render"
	"maptex/internal/warp"
)

// stdout is swapped by tests.
var stdout io.Writer = os.Stdout

// --- validate ---

type ValidateCmd struct {
	Dir string `arg:"" type:"existingdir" help:"Directory of preset JSON files."`
}

func (c *ValidateCmd) Run() error {
	all, err := preset.LoadDir(c.Dir)
	if err != nil {
		return err
	}

	failed := 0
	for _, name := range preset.Names(all) {
		p := all[name]
		fmt.Fprintf(stdout, "Validating %q...\n", name)
		tex, err := p.Generate(p.Seed)
		if err != nil {
			fmt.Fprintf(stdout, "  ERROR: %v\n", err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "  OK (%s, %dx%d)\n", p.Kind, tex.W, tex.H)
	}

	if failed > 0 {
		return fmt.Errorf("%d preset(s) failed to generate", failed)
	}
	fmt.Fprintf(stdout, "\nAll %d presets valid\n", len(all))
	return nil
}

// --- gen ---

type GenCmd struct {
	Preset string `arg:"" type:"existingfile" help:"Preset JSON file."`
	Output string `short:"o" required:"" type:"path" help:"Output PNG."`
	Seed   string `help:"Seed to use instead of the preset's."`
}

func (c *GenCmd) Run() error {
	p, err := preset.Load(c.Preset)
	if err != nil {
		return err
	}
	seed := p.Seed
	if c.Seed != "" {
		if seed, err = strconv.ParseInt(c.Seed, 10, 64); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	tex, err := p.Generate(seed)
	if err != nil {
		return err
	}
	if err := imgio.SavePNG(c.Output, tex); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %dx%d %s texture, seed %d\n", c.Output, tex.W, tex.H, p.Kind, seed)
	return nil
}

// --- viz ---

type VizCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Preset JSON file or PNG."`
	Scale  int    `default:"1" help:"Magnification before printing."`
	Smooth bool   `help:"Use bilinear filtering when scaling."`
}

func (c *VizCmd) Run() error {
	tex, title, err := loadTexture(c.Input)
	if err != nil {
		return err
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale %d must be at least 1", c.Scale)
	}
	if c.Scale > 1 {
		if tex, err = grid.Scale(tex, tex.W*c.Scale, tex.H*c.Scale, c.Smooth); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "%s (%dx%d)\n", title, tex.W, tex.H)
	fmt.Fprint(stdout, render.Snapshot(tex))
	return nil
}

// loadTexture reads a PNG, or generates a preset with its own seed.
func loadTexture(path string) (*grid.Grid, string, error) {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		g, err := imgio.LoadPNG(path, imgio.Auto)
		return g, filepath.Base(path), err
	}
	p, err := preset.Load(path)
	if err != nil {
		return nil, "", err
	}
	g, err := p.Generate(p.Seed)
	return g, fmt.Sprintf("%s seed %d", p.Name, p.Seed), err
}

// --- stats ---

type StatsCmd struct {
	Input  string `arg:"" type:"existingfile" help:"PNG to inspect."`
	Preset string `type:"existingfile" help:"Also count pixels outside this tile preset's palette."`
	Top    int    `default:"8" help:"How many of the most common colours to list."`
}

func (c *StatsCmd) Run() error {
	g, err := imgio.LoadPNG(c.Input, imgio.Auto)
	if err != nil {
		return err
	}
	total := g.W * g.H
	fmt.Fprintf(stdout, "%s (%dx%d = %d pixels, %d channels)\n\n", filepath.Base(c.Input), g.W, g.H, total, g.C)

	if g.C == 1 {
		lo, hi := g.Pix[0], g.Pix[0]
		for _, v := range g.Pix {
			lo, hi = min(lo, v), max(hi, v)
		}
		fmt.Fprintf(stdout, "Grey range: %d..%d\n", lo, hi)
		return nil
	}

	counts := make(map[palette.RGB]int)
	var opaque, transparent int
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			px := g.At(x, y)
			counts[palette.RGB{px[0], px[1], px[2]}]++
			if g.C == 4 {
				switch px[3] {
				case 255:
					opaque++
				case 0:
					transparent++
				}
			}
		}
	}

	// Print sorted by count descending
	colors := make([]palette.RGB, 0, len(counts))
	for col := range counts {
		colors = append(colors, col)
	}
	sort.Slice(colors, func(i, j int) bool {
		if counts[colors[i]] != counts[colors[j]] {
			return counts[colors[i]] > counts[colors[j]]
		}
		return colors[i].String() < colors[j].String()
	})
	fmt.Fprintf(stdout, "Distinct colours: %d\n", len(colors))
	for _, col := range colors[:min(max(c.Top, 0), len(colors))] {
		pct := float64(counts[col]) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/2))
		fmt.Fprintf(stdout, "  %s %6d (%5.1f%%) %s\n", col, counts[col], pct, bar)
	}

	if g.C == 4 {
		partial := total - opaque - transparent
		fmt.Fprintf(stdout, "\nAlpha: %d opaque, %d partial, %d transparent\n", opaque, partial, transparent)
	}

	if c.Preset != "" {
		pal, err := presetPalette(c.Preset)
		if err != nil {
			return err
		}
		off := 0
		for col, n := range counts {
			if !pal.Contains(col[:]) {
				off += n
			}
		}
		fmt.Fprintf(stdout, "Off-palette pixels: %d/%d\n", off, total)
	}
	return nil
}

func presetPalette(path string) (palette.Palette, error) {
	p, err := preset.Load(path)
	if err != nil {
		return nil, err
	}
	pal := p.Palette()
	if pal == nil {
		return nil, fmt.Errorf("preset %q (%s) has no palette", p.Name, p.Kind)
	}
	return pal, nil
}

// --- finalize ---

type FinalizeCmd struct {
	Input  string   `arg:"" type:"existingfile" help:"PNG to repair."`
	Preset string   `xor:"palette" type:"existingfile" help:"Tile preset whose palette is approved."`
	Colors []string `xor:"palette" help:"Approved colours as #rrggbb."`
	Output string   `short:"o" required:"" type:"path" help:"Output PNG."`
}

func (c *FinalizeCmd) Run() error {
	var pal palette.Palette
	switch {
	case c.Preset != "":
		p, err := presetPalette(c.Preset)
		if err != nil {
			return err
		}
		pal = p
	case len(c.Colors) > 0:
		cols := make([]palette.RGB, len(c.Colors))
		for i, s := range c.Colors {
			col, err := preset.ParseColor(s)
			if err != nil {
				return err
			}
			cols[i] = col
		}
		pal = palette.New(cols...)
	default:
		return fmt.Errorf("need --preset or --colors")
	}

	img, err := imgio.LoadPNG(c.Input, imgio.Auto)
	if err != nil {
		return err
	}
	out, stats, err := palette.Finalize(img, pal)
	if err != nil {
		return err
	}
	if err := imgio.SavePNG(c.Output, out); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d pixels recoloured in %d passes, %d unreached\n",
		c.Output, stats.Recolored, stats.Iterations, stats.Unreached)
	return nil
}

// --- warp ---

type WarpCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Source PNG."`
	Src    string `required:"" help:"Source triangle as x,y,x,y,x,y."`
	Dst    string `required:"" help:"Destination triangle as x,y,x,y,x,y."`
	Onto   string `type:"existingfile" help:"Composite onto this PNG instead of a blank canvas."`
	Width  int    `help:"Blank canvas width (default: source width)."`
	Height int    `help:"Blank canvas height (default: source height)."`
	Output string `short:"o" required:"" type:"path" help:"Output PNG."`
}

func (c *WarpCmd) Run() error {
	srcTri, err := parseTriangle(c.Src)
	if err != nil {
		return fmt.Errorf("--src: %w", err)
	}
	dstTri, err := parseTriangle(c.Dst)
	if err != nil {
		return fmt.Errorf("--dst: %w", err)
	}
	src, err := imgio.LoadPNG(c.Input, imgio.Auto)
	if err != nil {
		return err
	}

	var out *grid.Grid
	if c.Onto != "" {
		if out, err = imgio.LoadPNG(c.Onto, src.C); err != nil {
			return err
		}
		if _, err := warp.WarpInto(out, src, srcTri, dstTri); err != nil {
			return err
		}
	} else {
		w, h := c.Width, c.Height
		if w == 0 {
			w = src.W
		}
		if h == 0 {
			h = src.H
		}
		if out, err = warp.Warp(src, srcTri, dstTri, w, h); err != nil {
			return err
		}
	}

	if err := imgio.SavePNG(c.Output, out); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %dx%d\n", c.Output, out.W, out.H)
	return nil
}

// parseTriangle reads six comma-separated integers.
func parseTriangle(s string) (warp.Triangle, error) {
	var t warp.Triangle
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return t, fmt.Errorf("want 6 comma-separated values, got %d", len(parts))
	}
	var v [6]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return t, fmt.Errorf("value %d: %w", i+1, err)
		}
		v[i] = n
	}
	return warp.Tri(grid.Pt(v[0], v[1]), grid.Pt(v[2], v[3]), grid.Pt(v[4], v[5])), nil
}
