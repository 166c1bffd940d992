// Package noise provides seeded 2D simplex noise for the texture
// generators.
package noise

import (
	"math"
	"math/rand"
)

const (
	skew   = 0.3660254037844386  // (sqrt(3) - 1) / 2
	unskew = 0.21132486540518713 // (3 - sqrt(3)) / 6
)

// Simplex is a 2D simplex noise field defined by a shuffled permutation
// table. It is read-only after construction and safe for concurrent use.
type Simplex struct {
	perm [512]uint8
}

// New returns a field whose permutation is shuffled by seed.
func New(seed int64) *Simplex {
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })

	s := &Simplex{}
	for i := range s.perm {
		s.perm[i] = p[i&255]
	}
	return s
}

func (s *Simplex) hash(i, j int) int {
	return int(s.perm[i+int(s.perm[j])])
}

// gradient dots one of eight gradient directions, picked by h, with (x, y).
func gradient(h int, x, y float64) float64 {
	u, v := x, y
	if h&4 != 0 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

func corner(h int, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t <= 0 {
		return 0
	}
	t *= t
	return t * t * gradient(h, x, y)
}

// At returns noise in [-1, 1].
func (s *Simplex) At(x, y float64) float64 {
	k := (x + y) * skew
	i := math.Floor(x + k)
	j := math.Floor(y + k)

	t := (i + j) * unskew
	x0 := x - (i - t)
	y0 := y - (j - t)

	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1 := x0 - float64(i1) + unskew
	y1 := y0 - float64(j1) + unskew
	x2 := x0 - 1 + 2*unskew
	y2 := y0 - 1 + 2*unskew

	ii := int(i) & 255
	jj := int(j) & 255

	n := corner(s.hash(ii, jj), x0, y0) +
		corner(s.hash(ii+i1, jj+j1), x1, y1) +
		corner(s.hash(ii+1, jj+1), x2, y2)
	return 70 * n
}

// Octaves configures fractal summation.
type Octaves struct {
	Freq        float64 // base frequency
	Count       int     // number of layers, at least 1
	Lacunarity  float64 // frequency multiplier per layer
	Persistence float64 // amplitude multiplier per layer
}

// Terrain is a general-purpose octave setting for tile-sized textures.
var Terrain = Octaves{Freq: 0.08, Count: 4, Lacunarity: 2, Persistence: 0.5}

// Fractal sums o.Count layers of noise and normalises the result to [0, 1].
func (s *Simplex) Fractal(x, y float64, o Octaves) float64 {
	var total, norm float64
	amp, freq := 1.0, o.Freq
	for range max(o.Count, 1) {
		total += s.At(x*freq, y*freq) * amp
		norm += amp
		freq *= o.Lacunarity
		amp *= o.Persistence
	}
	return (total/norm + 1) / 2
}
