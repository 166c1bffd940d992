package server

import (
	"fmt"

	"maptex/internal/grid"
	"maptex/internal/render"
)

const (
	// PanStep is how far one key press moves the camera, in screen pixels.
	PanStep = 8
	// MaxZoom is the largest nearest-neighbour magnification.
	MaxZoom = 4
)

// viewer is the per-session state between input and rendering.
type viewer struct {
	gallery *Gallery
	seeds   func() int64
	view    View
	tex     *grid.Grid // current texture at the current zoom
}

func newViewer(g *Gallery, start View, seeds func() int64) (*viewer, error) {
	v := &viewer{gallery: g, seeds: seeds, view: start}
	if v.view.Zoom < 1 || v.view.Zoom > MaxZoom {
		v.view.Zoom = 1
	}
	if err := v.load(); err != nil {
		return nil, err
	}
	if v.view.CX < 0 || v.view.CY < 0 {
		v.view.CX, v.view.CY = v.tex.W/2, v.tex.H/2
	}
	return v, nil
}

// load fetches the texture for the current view and applies the zoom.
func (v *viewer) load() error {
	tex, err := v.gallery.Texture(v.view.Preset, v.view.Seed)
	if err != nil {
		return err
	}
	if v.view.Zoom > 1 {
		tex, err = grid.Scale(tex, tex.W*v.view.Zoom, tex.H*v.view.Zoom, false)
		if err != nil {
			return fmt.Errorf("zoom: %w", err)
		}
	}
	v.tex = tex
	return nil
}

// apply updates the view for one action. viewW and viewH are the visible
// size in texture pixels, used to keep the camera inside the texture.
func (v *viewer) apply(a Action, viewW, viewH int) error {
	switch a {
	case ActionUp:
		v.view.CY -= PanStep
	case ActionDown:
		v.view.CY += PanStep
	case ActionLeft:
		v.view.CX -= PanStep
	case ActionRight:
		v.view.CX += PanStep
	case ActionReseed:
		v.view.Seed = v.seeds()
		if err := v.load(); err != nil {
			return err
		}
	case ActionNext:
		v.view.Preset = v.gallery.Next(v.view.Preset)
		v.view.Seed = v.gallery.presets[v.view.Preset].Seed
		if err := v.load(); err != nil {
			return err
		}
		v.view.CX, v.view.CY = v.tex.W/2, v.tex.H/2
	case ActionZoomIn, ActionZoomOut:
		old := v.view.Zoom
		if a == ActionZoomIn {
			v.view.Zoom = min(old+1, MaxZoom)
		} else {
			v.view.Zoom = max(old-1, 1)
		}
		if v.view.Zoom == old {
			return nil
		}
		if err := v.load(); err != nil {
			return err
		}
		v.view.CX = v.view.CX * v.view.Zoom / old
		v.view.CY = v.view.CY * v.view.Zoom / old
	default:
		return nil
	}
	// Store the clamped centre so panning past an edge does not build up
	// slack that has to be walked back.
	v.view.CX, v.view.CY = v.viewport(viewW, viewH).Center()
	return nil
}

func (v *viewer) viewport(viewW, viewH int) render.Viewport {
	return render.NewViewport(v.view.CX, v.view.CY, viewW, viewH, v.tex.W, v.tex.H)
}

func (v *viewer) status() string {
	return fmt.Sprintf("%s  seed %d  %dx%d  zoom %dx  │  ←↑↓→/WASD pan  R reseed  N next  +/- zoom  Q quit",
		v.view.Preset, v.view.Seed, v.tex.W/v.view.Zoom, v.tex.H/v.view.Zoom, v.view.Zoom)
}
