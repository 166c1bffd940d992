package imgio

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"maptex/internal/grid"
)

func TestPNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, c := range []int{1, 3, 4} {
		g := grid.MustNew(5, 3, c)
		for i := range g.Pix {
			g.Pix[i] = uint8(i * 13)
		}
		if c == 4 {
			// Keep alpha non-zero so NRGBA colours survive encoding.
			for i := 3; i < len(g.Pix); i += 4 {
				g.Pix[i] = 200
			}
		}
		path := filepath.Join(dir, "out.png")
		if err := SavePNG(path, g); err != nil {
			t.Fatal(err)
		}
		got, err := LoadPNG(path, Auto)
		if err != nil {
			t.Fatal(err)
		}
		if got.C != c {
			t.Errorf("channels = %d, want %d", got.C, c)
		}
		if !slices.Equal(got.Pix, g.Pix) {
			t.Errorf("%d-channel round trip changed pixels", c)
		}
	}
}

func TestLoadPNGErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadPNG(filepath.Join(dir, "missing.png"), Auto); err == nil {
		t.Error("missing file should fail")
	}
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPNG(bad, Auto); err == nil {
		t.Error("garbage should fail to decode")
	}
}
