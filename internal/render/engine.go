package render

import (
	"strings"

	"maptex/internal/grid"
)

// StatusRows is the number of terminal rows reserved below the texture.
const StatusRows = 1

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch     rune
	Fg, Bg [3]uint8
	Bold   bool
}

var sentinel = Cell{Ch: '\x00', Fg: [3]uint8{255, 0, 0}, Bg: [3]uint8{0, 0, 255}, Bold: true}

var (
	backdrop = [3]uint8{10, 10, 15}
	statusBg = [3]uint8{15, 18, 30}
	statusFg = [3]uint8{180, 180, 195}
	checkers = [2]uint8{102, 153}
)

// checkerSize is the side of one checkerboard square in texture pixels.
const checkerSize = 4

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{}
	e.Resize(width, height)
	return e
}

// Resize adjusts the renderer for a new terminal size. The next frame is
// drawn in full.
func (e *Engine) Resize(width, height int) {
	e.width = max(width, 0)
	e.height = max(height, 0)
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI byte output for one frame showing tex through
// vp, with status on the bottom row. Only cells that changed since the
// previous frame are emitted.
func (e *Engine) Render(tex *grid.Grid, vp Viewport, termW, termH int, status string) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}

	rows := max(e.height-StatusRows, 0)
	for y := 0; y < rows; y++ {
		for x := 0; x < e.width; x++ {
			px, py := vp.CamX+x, vp.CamY+2*y
			e.next[y][x] = Cell{
				Ch: UpperHalf,
				Fg: PixelColor(tex, px, py),
				Bg: PixelColor(tex, px, py+1),
			}
		}
	}
	e.drawStatus(status)

	return e.flush()
}

// PixelColor returns the colour shown for texture pixel (x, y). Pixels
// outside the texture show the backdrop, greyscale is expanded, and RGBA is
// blended over a checkerboard so transparency stays visible.
func PixelColor(tex *grid.Grid, x, y int) [3]uint8 {
	px := tex.At(x, y)
	if px == nil {
		return backdrop
	}
	switch tex.C {
	case 1:
		return [3]uint8{px[0], px[0], px[0]}
	case 3:
		return [3]uint8{px[0], px[1], px[2]}
	}
	bg := uint32(checkers[(x/checkerSize+y/checkerSize)%2])
	a := uint32(px[3])
	var out [3]uint8
	for i := range out {
		out[i] = uint8((uint32(px[i])*a + bg*(255-a) + 127) / 255)
	}
	return out
}

func (e *Engine) drawStatus(status string) {
	for row := max(e.height-StatusRows, 0); row < e.height; row++ {
		for x := 0; x < e.width; x++ {
			e.next[row][x] = Cell{Ch: ' ', Fg: statusFg, Bg: statusBg}
		}
	}
	if e.height > 0 {
		e.writeText(e.height-StatusRows, 1, e.width, status, statusFg, statusBg, false)
	}
}

// writeText writes colored text into a bounded region [col, maxCol). Returns the next column position.
func (e *Engine) writeText(row, col, maxCol int, text string, fg, bg [3]uint8, bold bool) int {
	for _, r := range text {
		if col >= maxCol || col >= e.width {
			break
		}
		if row >= 0 && row < e.height && col >= 0 {
			e.next[row][col] = Cell{Ch: r, Fg: fg, Bg: bg, Bold: bold}
		}
		col++
	}
	return col
}

// flush diffs next against current, emits only changed cells and swaps the
// buffers.
func (e *Engine) flush() string {
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}

// Snapshot renders the whole texture as lines of half-block cells for
// printing to a terminal that is not under full-screen control.
func Snapshot(tex *grid.Grid) string {
	var sb strings.Builder
	for y := 0; y < tex.H; y += 2 {
		for x := 0; x < tex.W; x++ {
			WriteCellSGR(&sb, Cell{Ch: UpperHalf, Fg: PixelColor(tex, x, y), Bg: PixelColor(tex, x, y+1)})
		}
		sb.WriteString(Reset)
		sb.WriteByte('\n')
	}
	return sb.String()
}
