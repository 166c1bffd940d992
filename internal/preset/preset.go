// Package preset loads texture generator presets from JSON files.
package preset

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"maptex/internal/alpha"
	"maptex/internal/gen"
	"maptex/internal/grid"
	"maptex/internal/palette"
)

// Kind selects the generator a preset drives.
type Kind string

const (
	KindMountain Kind = "mountain"
	KindTile     Kind = "tile"
)

// colorNames maps colour names accepted in JSON to RGB values.
var colorNames = map[string]palette.RGB{
	"black":      {0, 0, 0},
	"white":      {255, 255, 255},
	"gray":       {128, 128, 128},
	"grey":       {128, 128, 128},
	"slate":      {112, 118, 130},
	"stone":      {138, 143, 153},
	"green":      {70, 140, 60},
	"dark_green": {46, 107, 46},
	"moss":       {96, 128, 56},
	"brown":      {120, 95, 55},
	"dirt":       {150, 111, 70},
	"sand":       {214, 190, 130},
	"blue":       {52, 96, 170},
	"water":      {64, 120, 190},
	"snow":       {236, 240, 245},
	"magenta":    {255, 0, 255},
}

// ParseColor accepts a "#rrggbb" hex string or a colour name.
func ParseColor(s string) (palette.RGB, error) {
	if strings.HasPrefix(s, "#") {
		return palette.ParseHex(s)
	}
	if c, ok := colorNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	return palette.RGB{}, &grid.ConfigError{Field: "color", Reason: fmt.Sprintf("unknown colour %q", s)}
}

// Preset is a named, validated generator configuration. Exactly one of
// Mountain and Tile is set, matching Kind.
type Preset struct {
	Name     string
	Kind     Kind
	Seed     int64
	Mountain *gen.MountainConfig
	Tile     *gen.TileConfig
}

// jsonPreset is the on-disk JSON format.
type jsonPreset struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Seed int64  `json:"seed"`

	// mountain
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	Color       string  `json:"color,omitempty"`
	MaxRadius   float64 `json:"max_radius,omitempty"`
	Roughness   float64 `json:"roughness,omitempty"`
	RidgePoints int     `json:"ridge_points,omitempty"`

	// tile
	Size    int      `json:"size,omitempty"`
	Side    string   `json:"side,omitempty"`
	Blank   string   `json:"blank,omitempty"`
	Palette []string `json:"palette,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Jitter  float64  `json:"jitter,omitempty"`
	Cutoff  float64  `json:"cutoff,omitempty"`
	Depth   int      `json:"depth,omitempty"`
}

// Load reads a JSON preset file from disk.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates one JSON preset.
func Parse(data []byte) (*Preset, error) {
	var jp jsonPreset
	if err := json.Unmarshal(data, &jp); err != nil {
		return nil, fmt.Errorf("parse preset JSON: %w", err)
	}
	if jp.Name == "" {
		return nil, &grid.ConfigError{Field: "name", Reason: "missing"}
	}

	p := &Preset{Name: jp.Name, Kind: Kind(jp.Kind), Seed: jp.Seed}
	switch p.Kind {
	case KindMountain:
		c, err := jp.mountain()
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", jp.Name, err)
		}
		p.Mountain = c
	case KindTile:
		c, err := jp.tile()
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", jp.Name, err)
		}
		p.Tile = c
	default:
		return nil, fmt.Errorf("preset %q: %w", jp.Name, &grid.ConfigError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", jp.Kind)})
	}
	return p, nil
}

func (jp *jsonPreset) mountain() (*gen.MountainConfig, error) {
	col, err := ParseColor(jp.Color)
	if err != nil {
		return nil, err
	}
	c := &gen.MountainConfig{
		Width:       jp.Width,
		Height:      jp.Height,
		Color:       col,
		MaxRadius:   jp.MaxRadius,
		Roughness:   jp.Roughness,
		RidgePoints: jp.RidgePoints,
	}
	return c, c.Validate()
}

func (jp *jsonPreset) tile() (*gen.TileConfig, error) {
	side, err := alpha.ParseSide(jp.Side)
	if err != nil {
		return nil, err
	}
	blank, err := ParseColor(jp.Blank)
	if err != nil {
		return nil, fmt.Errorf("blank: %w", err)
	}
	pal := make([]palette.RGB, len(jp.Palette))
	for i, s := range jp.Palette {
		if pal[i], err = ParseColor(s); err != nil {
			return nil, fmt.Errorf("palette[%d]: %w", i, err)
		}
	}
	c := &gen.TileConfig{
		Size:    jp.Size,
		Side:    side,
		Blank:   blank,
		Palette: pal,
		Depth:   jp.Depth,
		Scale:   jp.Scale,
		Jitter:  jp.Jitter,
		Cutoff:  jp.Cutoff,
	}
	return c, c.Validate()
}

// Generate runs the preset's generator with a source seeded by seed and
// returns the RGBA texture.
func (p *Preset) Generate(seed int64) (*grid.Grid, error) {
	rng := rand.New(rand.NewSource(seed))
	switch {
	case p.Mountain != nil:
		m, err := gen.Mountain(*p.Mountain, rng)
		if err != nil {
			return nil, err
		}
		return m.Texture, nil
	case p.Tile != nil:
		t, err := gen.Tile(*p.Tile, rng)
		if err != nil {
			return nil, err
		}
		return t.Decal, nil
	}
	return nil, &grid.ConfigError{Field: "kind", Reason: fmt.Sprintf("preset %q has no generator", p.Name)}
}

// Palette returns the colours a finalizer should approve for textures of
// this preset, or nil for kinds without a palette.
func (p *Preset) Palette() palette.Palette {
	if p.Tile == nil {
		return nil
	}
	return palette.New(p.Tile.Palette...)
}

// LoadDir scans a directory for *.json files, loads each as a Preset,
// and returns them indexed by Name.
func LoadDir(dir string) (map[string]*Preset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read presets directory: %w", err)
	}

	all := make(map[string]*Preset)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		p, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		if _, exists := all[p.Name]; exists {
			return nil, fmt.Errorf("duplicate preset name %q in %s", p.Name, entry.Name())
		}
		all[p.Name] = p
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no presets in %s", dir)
	}
	return all, nil
}

// Names returns the preset names in sorted order.
func Names(all map[string]*Preset) []string {
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Defaults returns built-in presets for when no preset directory is
// available.
func Defaults() map[string]*Preset {
	return map[string]*Preset{
		"mountain": {
			Name: "mountain",
			Kind: KindMountain,
			Seed: 1,
			Mountain: &gen.MountainConfig{
				Width:       96,
				Height:      48,
				Color:       colorNames["stone"],
				MaxRadius:   70,
				Roughness:   0.45,
				RidgePoints: 13,
			},
		},
		"grass-edge": {
			Name: "grass-edge",
			Kind: KindTile,
			Seed: 1,
			Tile: &gen.TileConfig{
				Size:    32,
				Side:    alpha.Top,
				Blank:   colorNames["magenta"],
				Palette: []palette.RGB{colorNames["dark_green"], colorNames["green"], colorNames["moss"]},
				Depth:   6,
				Scale:   10,
				Jitter:  4,
				Cutoff:  0.6,
			},
		},
	}
}
