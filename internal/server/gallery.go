package server

import (
	"fmt"
	"slices"
	"sync"

	"maptex/internal/grid"
	"maptex/internal/preset"
)

// CacheSize bounds how many generated textures a Gallery keeps.
const CacheSize = 32

// View is what one viewer is looking at. It is saved per username so a
// reconnecting viewer lands where they left.
type View struct {
	Preset string
	Seed   int64
	Zoom   int
	CX, CY int // camera centre in zoomed texture pixels
}

type textureKey struct {
	name string
	seed int64
}

// Gallery holds the presets shared by all sessions and caches the textures
// generated from them.
type Gallery struct {
	presets map[string]*preset.Preset
	names   []string

	mu    sync.Mutex
	cache map[textureKey]*grid.Grid
	order []textureKey // oldest first
	saved map[string]View
}

// NewGallery creates a gallery over a non-empty preset set.
func NewGallery(presets map[string]*preset.Preset) (*Gallery, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("gallery needs at least one preset")
	}
	return &Gallery{
		presets: presets,
		names:   preset.Names(presets),
		cache:   make(map[textureKey]*grid.Grid),
		saved:   make(map[string]View),
	}, nil
}

// Names returns the preset names in sorted order.
func (g *Gallery) Names() []string {
	return slices.Clone(g.names)
}

// Preset returns the named preset.
func (g *Gallery) Preset(name string) (*preset.Preset, bool) {
	p, ok := g.presets[name]
	return p, ok
}

// Next returns the preset name after name, wrapping around.
func (g *Gallery) Next(name string) string {
	i := slices.Index(g.names, name)
	return g.names[(i+1)%len(g.names)]
}

// Texture returns the texture generated by the named preset with seed.
// Textures are shared between sessions and must not be modified.
func (g *Gallery) Texture(name string, seed int64) (*grid.Grid, error) {
	p, ok := g.presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	key := textureKey{name, seed}

	g.mu.Lock()
	tex, hit := g.cache[key]
	g.mu.Unlock()
	if hit {
		return tex, nil
	}

	// Generate outside the lock; two sessions racing on one key produce
	// identical textures and the later store wins.
	tex, err := p.Generate(seed)
	if err != nil {
		return nil, fmt.Errorf("generate %q seed %d: %w", name, seed, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.cache[key]; !exists {
		g.order = append(g.order, key)
		if len(g.order) > CacheSize {
			delete(g.cache, g.order[0])
			g.order = g.order[1:]
		}
	}
	g.cache[key] = tex
	return tex, nil
}

// Start returns the view a viewer should open with: their saved view if
// they have one, else the preset named after them, else the first preset.
func (g *Gallery) Start(user string) View {
	g.mu.Lock()
	v, ok := g.saved[user]
	g.mu.Unlock()
	if ok {
		return v
	}
	name := g.names[0]
	if _, ok := g.presets[user]; ok {
		name = user
	}
	return View{Preset: name, Seed: g.presets[name].Seed, Zoom: 1, CX: -1, CY: -1}
}

// Save records a viewer's view for their next connection.
func (g *Gallery) Save(user string, v View) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saved[user] = v
}
