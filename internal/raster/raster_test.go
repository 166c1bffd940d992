package raster

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"maptex/internal/grid"
)

func TestLinePointsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pairs := [][2]grid.Point[int]{
		{grid.Pt(0, 0), grid.Pt(0, 0)},
		{grid.Pt(0, 0), grid.Pt(7, 0)},
		{grid.Pt(0, 0), grid.Pt(0, -5)},
		{grid.Pt(0, 0), grid.Pt(5, 5)},
		{grid.Pt(3, 9), grid.Pt(-4, 2)},
		{grid.Pt(0, 0), grid.Pt(8, 3)},
		{grid.Pt(0, 0), grid.Pt(-2, 11)},
	}
	for i := 0; i < 200; i++ {
		pairs = append(pairs, [2]grid.Point[int]{
			grid.Pt(rng.Intn(41)-20, rng.Intn(41)-20),
			grid.Pt(rng.Intn(41)-20, rng.Intn(41)-20),
		})
	}

	for _, pr := range pairs {
		p0, p1 := pr[0], pr[1]
		pts := LinePoints(p0, p1)

		want := max(abs(p1.X-p0.X), abs(p1.Y-p0.Y)) + 1
		if len(pts) != want {
			t.Fatalf("LinePoints(%v, %v) visited %d cells, want %d", p0, p1, len(pts), want)
		}
		if pts[0] != p0 || pts[len(pts)-1] != p1 {
			t.Fatalf("LinePoints(%v, %v) endpoints %v..%v", p0, p1, pts[0], pts[len(pts)-1])
		}
		for j := 1; j < len(pts); j++ {
			d := pts[j].Sub(pts[j-1])
			if abs(d.X) > 1 || abs(d.Y) > 1 || d == (grid.Point[int]{}) {
				t.Fatalf("LinePoints(%v, %v) not 8-connected at %d: %v -> %v", p0, p1, j, pts[j-1], pts[j])
			}
		}

		back := LinePoints(p1, p0)
		slices.Reverse(back)
		if !slices.Equal(pts, back) {
			t.Fatalf("LinePoints(%v, %v) differs from reversed LinePoints(%v, %v)", p0, p1, p1, p0)
		}
	}
}

func TestDrawLineClipsAndIsIdempotent(t *testing.T) {
	g := grid.MustNew(5, 5, 1)
	n, err := DrawLine(g, grid.Pt(-3, 2), grid.Pt(7, 2), []uint8{9})
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("painted %d cells, want 5 after clipping", n)
	}
	first := g.Clone()
	if _, err := DrawLine(g, grid.Pt(-3, 2), grid.Pt(7, 2), []uint8{9}); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(first.Pix, g.Pix) {
		t.Error("second identical DrawLine changed the grid")
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := uint8(0)
			if y == 2 {
				want = 9
			}
			if g.At(x, y)[0] != want {
				t.Errorf("pixel (%d,%d) = %d, want %d", x, y, g.At(x, y)[0], want)
			}
		}
	}
}

func TestDrawLineRejectsBadValue(t *testing.T) {
	g := grid.MustNew(4, 4, 3)
	if _, err := DrawLine(g, grid.Pt(0, 0), grid.Pt(3, 3), []uint8{1}); !errors.Is(err, grid.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
	if _, err := DrawPolyline(g, []grid.Point[int]{grid.Pt(0, 0)}, []uint8{1, 2, 3}); !errors.Is(err, grid.ErrConfig) {
		t.Errorf("single-point polyline err = %v, want ErrConfig", err)
	}
}

func TestDrawPolyline(t *testing.T) {
	g := grid.MustNew(6, 6, 1)
	pts := []grid.Point[int]{grid.Pt(0, 5), grid.Pt(2, 1), grid.Pt(5, 5)}
	if _, err := DrawPolyline(g, pts, []uint8{1}); err != nil {
		t.Fatal(err)
	}
	for _, p := range pts {
		if !g.Equal(p.X, p.Y, []uint8{1}) {
			t.Errorf("vertex %v not painted", p)
		}
	}
}

// gridFromRows builds a 1-channel grid from digit rows.
func gridFromRows(rows []string) *grid.Grid {
	g := grid.MustNew(len(rows[0]), len(rows), 1)
	for y, row := range rows {
		for x, ch := range row {
			g.Set(x, y, []uint8{uint8(ch - '0')})
		}
	}
	return g
}

func TestFloodFillLShape(t *testing.T) {
	// 0 marks the 8-cell blank L.
	g := gridFromRows([]string{
		"11111111",
		"10111111",
		"10111111",
		"10111111",
		"10111111",
		"10000111",
		"11111111",
		"11111111",
	})
	before := g.Clone()

	n, err := FloodFill(g, grid.Pt(1, 3), []uint8{2}, []uint8{0})
	if err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Errorf("filled %d cells, want 8", n)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			was, now := before.At(x, y)[0], g.At(x, y)[0]
			switch {
			case was == 0 && now != 2:
				t.Errorf("L cell (%d,%d) = %d, want 2", x, y, now)
			case was != 0 && now != was:
				t.Errorf("cell (%d,%d) changed from %d to %d", x, y, was, now)
			}
		}
	}

	again, err := FloodFill(g, grid.Pt(1, 3), []uint8{2}, []uint8{0})
	if err != nil {
		t.Fatal(err)
	}
	if again != 0 {
		t.Errorf("second fill changed %d cells, want 0", again)
	}
}

func TestFloodFillStopsAtDiagonalLine(t *testing.T) {
	g := grid.MustNew(6, 6, 1)
	if _, err := DrawLine(g, grid.Pt(0, 5), grid.Pt(5, 0), []uint8{1}); err != nil {
		t.Fatal(err)
	}
	n, err := FloodFill(g, grid.Pt(0, 0), []uint8{3}, []uint8{0})
	if err != nil {
		t.Fatal(err)
	}
	if n != 15 {
		t.Errorf("filled %d cells above the anti-diagonal, want 15", n)
	}
	if !g.Equal(5, 5, []uint8{0}) {
		t.Error("fill leaked across an 8-connected line")
	}
}

func TestFloodFillNoops(t *testing.T) {
	tests := []struct {
		name string
		seed grid.Point[int]
		fill []uint8
	}{
		{"seed not blank", grid.Pt(0, 0), []uint8{5}},
		{"seed out of bounds", grid.Pt(-1, 4), []uint8{5}},
		{"fill equals blank", grid.Pt(2, 2), []uint8{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridFromRows([]string{"111", "100", "100"})
			before := g.Clone()
			n, err := FloodFill(g, tt.seed, tt.fill, []uint8{0})
			if err != nil {
				t.Fatal(err)
			}
			if n != 0 || !slices.Equal(before.Pix, g.Pix) {
				t.Errorf("expected no-op, filled %d", n)
			}
		})
	}
}

func TestFloodFillLargeRegion(t *testing.T) {
	g := grid.MustNew(512, 512, 1)
	n, err := FloodFill(g, grid.Pt(256, 256), []uint8{1}, []uint8{0})
	if err != nil {
		t.Fatal(err)
	}
	if n != 512*512 {
		t.Errorf("filled %d, want %d", n, 512*512)
	}
}
