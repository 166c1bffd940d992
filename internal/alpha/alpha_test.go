package alpha

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"maptex/internal/grid"
)

var magenta = []uint8{255, 0, 255}

// marginTile returns a w×h RGB tile with a blank margin of the given depth
// per column along the top edge.
func marginTile(w, h int, depths []int) *grid.Grid {
	g := grid.MustNew(w, h, 3)
	g.Fill([]uint8{40, 120, 40})
	for x, d := range depths {
		for y := 0; y < d; y++ {
			g.Set(x, y, magenta)
		}
	}
	return g
}

func TestEdgeSources(t *testing.T) {
	tile := marginTile(4, 5, []int{1, 2, 0, 5})

	tests := []struct {
		side Side
		want []grid.Point[int]
	}{
		// Column 2 starts on tile and column 3 is all blank.
		{Top, []grid.Point[int]{{0, 1}, {1, 2}}},
		{Bottom, nil},
		// Only row 0 starts blank; it is blank through x=1.
		{Left, []grid.Point[int]{{2, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			got, err := EdgeSources(tile, magenta, tt.side)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("EdgeSources(%v) = %v, want %v", tt.side, got, tt.want)
			}
		})
	}
}

func TestEdgeSourcesRight(t *testing.T) {
	blank := []uint8{9}
	g := grid.MustNew(5, 2, 1)
	// Row 0 has tile on the right edge itself, so no transition.
	// Row 1 is blank at x=4,3 and tile from x=2 leftward.
	g.Set(4, 1, blank)
	g.Set(3, 1, blank)

	got, err := EdgeSources(g, blank, Right)
	if err != nil {
		t.Fatal(err)
	}
	want := []grid.Point[int]{{2, 1}}
	if !slices.Equal(got, want) {
		t.Errorf("EdgeSources(Right) = %v, want %v", got, want)
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range []Side{Top, Bottom, Left, Right} {
		got, err := ParseSide(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSide(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSide("north"); !errors.Is(err, grid.ErrConfig) {
		t.Errorf("ParseSide(north) err = %v, want ErrConfig", err)
	}
}

func TestTileEdgeSourcesAlwaysOpaque(t *testing.T) {
	sources := []grid.Point[int]{{3, 0}, {4, 1}, {10, 2}, {0, 15}}
	for seed := int64(0); seed < 20; seed++ {
		out, err := TileEdge(16, 16, sources, TileEdgeParams{
			Scale:  40,
			Jitter: 30,
			Cutoff: 1,
			Rand:   rand.New(rand.NewSource(seed)),
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range sources {
			if a := out.At(s.X, s.Y)[0]; a != 255 {
				t.Fatalf("seed %d: source %v alpha = %d, want 255", seed, s, a)
			}
		}
	}
}

func TestTileEdgeMonotonicWithoutJitter(t *testing.T) {
	sources := []grid.Point[int]{{5, 0}, {6, 1}, {7, 1}}
	out, err := TileEdge(24, 24, sources, TileEdgeParams{Scale: 12})
	if err != nil {
		t.Fatal(err)
	}

	type sample struct {
		d float64
		a uint8
	}
	var samples []sample
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			samples = append(samples, sample{Nearest(sources, grid.Pt(x, y)), out.At(x, y)[0]})
		}
	}
	slices.SortFunc(samples, func(a, b sample) int {
		switch {
		case a.d < b.d:
			return -1
		case a.d > b.d:
			return 1
		}
		return int(b.a) - int(a.a)
	})
	for i := 1; i < len(samples); i++ {
		if samples[i].a > samples[i-1].a {
			t.Fatalf("alpha rises with distance: d=%v a=%d then d=%v a=%d",
				samples[i-1].d, samples[i-1].a, samples[i].d, samples[i].a)
		}
	}
	if samples[len(samples)-1].a != 0 {
		t.Errorf("farthest pixel alpha = %d, want 0", samples[len(samples)-1].a)
	}
}

func TestTileEdgeReproducible(t *testing.T) {
	sources := []grid.Point[int]{{0, 0}, {8, 3}}
	run := func() []uint8 {
		out, err := TileEdge(12, 12, sources, TileEdgeParams{
			Scale: 20, Jitter: 10, Cutoff: 0.8,
			Rand: rand.New(rand.NewSource(42)),
		})
		if err != nil {
			t.Fatal(err)
		}
		return out.Pix
	}
	if !slices.Equal(run(), run()) {
		t.Error("same seed produced different fields")
	}
}

func TestTileEdgeConfigErrors(t *testing.T) {
	src := []grid.Point[int]{{0, 0}}
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name    string
		w, h    int
		sources []grid.Point[int]
		p       TileEdgeParams
	}{
		{"zero size", 0, 4, src, TileEdgeParams{Scale: 1}},
		{"no sources", 4, 4, nil, TileEdgeParams{Scale: 1}},
		{"zero scale", 4, 4, src, TileEdgeParams{}},
		{"negative jitter", 4, 4, src, TileEdgeParams{Scale: 1, Jitter: -1, Rand: rng}},
		{"cutoff above one", 4, 4, src, TileEdgeParams{Scale: 1, Cutoff: 2, Rand: rng}},
		{"missing rand", 4, 4, src, TileEdgeParams{Scale: 1, Jitter: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := TileEdge(tt.w, tt.h, tt.sources, tt.p); !errors.Is(err, grid.ErrConfig) {
				t.Errorf("err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestMountainIsMinimumOfShapeAndRadius(t *testing.T) {
	sil := grid.MustNew(9, 5, 1)
	for y := 2; y < 5; y++ {
		for x := 0; x < 9; x++ {
			sil.Set(x, y, []uint8{255})
		}
	}
	peak := grid.Pt(4, 2)
	out, err := Mountain(sil, MountainParams{Blank: []uint8{0}, Peak: peak, MaxRadius: 4})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		p    grid.Point[int]
		want uint8
	}{
		{grid.Pt(4, 2), 255}, // peak
		{grid.Pt(4, 0), 0},   // sky, inside radius
		{grid.Pt(6, 2), 128}, // half radius: 127.5 rounds up
		{grid.Pt(8, 2), 0},   // at radius
		{grid.Pt(0, 4), 0},   // beyond radius
		{grid.Pt(4, 4), 128},
	}
	for _, tt := range tests {
		if got := out.At(tt.p.X, tt.p.Y)[0]; got != tt.want {
			t.Errorf("alpha at %v = %d, want %d", tt.p, got, tt.want)
		}
	}
	for y := 0; y < sil.H; y++ {
		for x := 0; x < sil.W; x++ {
			if sil.At(x, y)[0] == 0 && out.At(x, y)[0] != 0 {
				t.Fatalf("alpha leaked outside the silhouette at (%d,%d)", x, y)
			}
		}
	}
}

func TestMountainConfigErrors(t *testing.T) {
	sil := grid.MustNew(4, 4, 1)
	if _, err := Mountain(sil, MountainParams{Blank: []uint8{0}, MaxRadius: 0}); !errors.Is(err, grid.ErrConfig) {
		t.Errorf("zero radius err = %v, want ErrConfig", err)
	}
	if _, err := Mountain(sil, MountainParams{Blank: []uint8{0, 0, 0}, MaxRadius: 3}); !errors.Is(err, grid.ErrConfig) {
		t.Errorf("wide blank err = %v, want ErrConfig", err)
	}
}

func TestApply(t *testing.T) {
	img := grid.MustNew(2, 1, 3)
	img.Fill([]uint8{10, 20, 30})
	mask := grid.MustNew(2, 1, 1)
	mask.Pix = []uint8{0, 200}

	out, err := Apply(img, mask)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(0, 0, []uint8{10, 20, 30, 0}) || !out.Equal(1, 0, []uint8{10, 20, 30, 200}) {
		t.Errorf("Apply = %v", out.Pix)
	}

	rgba := out.Clone()
	mask.Pix = []uint8{255, 128}
	out2, err := Apply(rgba, mask)
	if err != nil {
		t.Fatal(err)
	}
	if a := out2.At(1, 0)[3]; a != 100 {
		t.Errorf("multiplied alpha = %d, want 100", a)
	}

	if _, err := Apply(img, grid.MustNew(3, 1, 1)); !errors.Is(err, grid.ErrConfig) {
		t.Errorf("mismatched mask err = %v, want ErrConfig", err)
	}
}
