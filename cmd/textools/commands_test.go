package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maptex/internal/grid"
	"maptex/internal/imgio"
)

const tilePreset = `{
  "name": "grass",
  "kind": "tile",
  "seed": 4,
  "size": 16,
  "side": "bottom",
  "blank": "magenta",
  "palette": ["green", "dark_green"],
  "scale": 12,
  "jitter": 2,
  "cutoff": 0.5,
  "depth": 3
}`

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func writePreset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "grass.json")
	if err := os.WriteFile(path, []byte(tilePreset), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseTriangle(t *testing.T) {
	tri, err := parseTriangle("0,0, 10,0,0,5")
	if err != nil {
		t.Fatal(err)
	}
	if tri[1] != grid.Vec(10, 0) || tri[2] != grid.Vec(0, 5) {
		t.Errorf("parsed %v", tri)
	}
	for _, bad := range []string{"", "1,2,3", "1,2,3,4,5,x", "1,2,3,4,5,6,7"} {
		if _, err := parseTriangle(bad); err == nil {
			t.Errorf("parseTriangle(%q) should fail", bad)
		}
	}
}

func TestGenStatsFinalize(t *testing.T) {
	dir := t.TempDir()
	presetPath := writePreset(t, dir)
	out := capture(t)

	decal := filepath.Join(dir, "decal.png")
	if err := (&GenCmd{Preset: presetPath, Output: decal, Seed: "12"}).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "16x16 tile texture, seed 12") {
		t.Errorf("gen output: %q", out.String())
	}
	g, err := imgio.LoadPNG(decal, imgio.Auto)
	if err != nil {
		t.Fatal(err)
	}
	if g.W != 16 || g.C != 4 {
		t.Errorf("decal is %dx%d with %d channels", g.W, g.H, g.C)
	}

	out.Reset()
	if err := (&StatsCmd{Input: decal, Preset: presetPath, Top: 3}).Run(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"16x16 = 256 pixels, 4 channels", "Alpha:", "Off-palette pixels:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stats output lacks %q:\n%s", want, out.String())
		}
	}

	// Paint one pixel off-palette, then repair it.
	bad := grid.MustNew(3, 1, 3)
	bad.Set(0, 0, []uint8{70, 140, 60})
	bad.Set(1, 0, []uint8{1, 2, 3})
	bad.Set(2, 0, []uint8{70, 140, 60})
	badPath := filepath.Join(dir, "bad.png")
	if err := imgio.SavePNG(badPath, bad); err != nil {
		t.Fatal(err)
	}
	fixed := filepath.Join(dir, "fixed.png")
	out.Reset()
	if err := (&FinalizeCmd{Input: badPath, Colors: []string{"#468c3c"}, Output: fixed}).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "1 pixels recoloured in 1 passes, 0 unreached") {
		t.Errorf("finalize output: %q", out.String())
	}
	g, err = imgio.LoadPNG(fixed, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Equal(1, 0, []uint8{70, 140, 60}) {
		t.Errorf("pixel not repaired: %v", g.At(1, 0))
	}

	if err := (&FinalizeCmd{Input: badPath, Output: fixed}).Run(); err == nil {
		t.Error("finalize without a palette should fail")
	}
}

func TestWarpCommand(t *testing.T) {
	dir := t.TempDir()
	src := grid.MustNew(8, 8, 3)
	src.Fill([]uint8{200, 10, 10})
	srcPath := filepath.Join(dir, "src.png")
	if err := imgio.SavePNG(srcPath, src); err != nil {
		t.Fatal(err)
	}
	capture(t)

	outPath := filepath.Join(dir, "out.png")
	cmd := &WarpCmd{Input: srcPath, Src: "0,0,7,0,0,7", Dst: "0,0,3,0,0,3", Width: 4, Height: 4, Output: outPath}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	g, err := imgio.LoadPNG(outPath, 3)
	if err != nil {
		t.Fatal(err)
	}
	if g.W != 4 || !g.Equal(0, 0, []uint8{200, 10, 10}) || !g.Equal(3, 3, []uint8{0, 0, 0}) {
		t.Errorf("unexpected warp result %dx%d %v %v", g.W, g.H, g.At(0, 0), g.At(3, 3))
	}

	cmd.Dst = "0,0,1,1,2,2"
	if err := cmd.Run(); err == nil {
		t.Error("degenerate destination should fail")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir)
	out := capture(t)
	if err := (&ValidateCmd{Dir: dir}).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "All 1 presets valid") {
		t.Errorf("validate output: %q", out.String())
	}
}

func TestVizCommand(t *testing.T) {
	dir := t.TempDir()
	presetPath := writePreset(t, dir)
	out := capture(t)
	if err := (&VizCmd{Input: presetPath, Scale: 2}).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "grass seed 4 (32x32)\n") {
		t.Errorf("viz header: %q", strings.SplitN(out.String(), "\n", 2)[0])
	}
	if err := (&VizCmd{Input: presetPath, Scale: 0}).Run(); err == nil {
		t.Error("scale 0 should fail")
	}
}
