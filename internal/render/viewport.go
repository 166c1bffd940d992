package render

// Viewport is the window of texture pixels visible on screen.
type Viewport struct {
	CamX, CamY   int // top-left texture pixel
	ViewW, ViewH int // viewport size in pixels
}

// ViewSize returns how many texture pixels fit on a terminal of the given
// size: one column per pixel, two pixel rows per terminal row, with the
// status rows reserved at the bottom.
func ViewSize(termW, termH int) (int, int) {
	return max(termW, 0), max(termH-StatusRows, 0) * 2
}

// NewViewport calculates the camera position centered on (centerX,
// centerY), clamped to the texture edges. A texture smaller than the view
// sits at the top-left.
func NewViewport(centerX, centerY, viewW, viewH, texW, texH int) Viewport {
	camX := centerX - viewW/2
	camY := centerY - viewH/2

	// Clamp to texture edges
	if camX+viewW > texW {
		camX = texW - viewW
	}
	if camY+viewH > texH {
		camY = texH - viewH
	}
	if camX < 0 {
		camX = 0
	}
	if camY < 0 {
		camY = 0
	}

	return Viewport{
		CamX:  camX,
		CamY:  camY,
		ViewW: viewW,
		ViewH: viewH,
	}
}

// Center returns the texture pixel at the middle of the view. Feeding it
// back to NewViewport reproduces the same camera.
func (v Viewport) Center() (int, int) {
	return v.CamX + v.ViewW/2, v.CamY + v.ViewH/2
}
