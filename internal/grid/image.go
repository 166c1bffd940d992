package grid

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// FromImage copies img into a new grid with the given channel count.
// Colors are converted through image.Gray or image.NRGBA so that RGB
// values are not premultiplied.
func FromImage(img image.Image, channels int) (*Grid, error) {
	b := img.Bounds()
	g, err := New(b.Dx(), b.Dy(), channels)
	if err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, g.W, g.H)

	if channels == 1 {
		gray := image.NewGray(rect)
		draw.Draw(gray, rect, img, b.Min, draw.Src)
		for y := 0; y < g.H; y++ {
			copy(g.Pix[y*g.W:(y+1)*g.W], gray.Pix[y*gray.Stride:])
		}
		return g, nil
	}

	// NRGBA sources are copied as stored; converting them would round-trip
	// through premultiplied colour.
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(rect)
		draw.Draw(nrgba, rect, img, b.Min, draw.Src)
	} else {
		nrgba = nrgba.SubImage(b).(*image.NRGBA)
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			i := y*nrgba.Stride + x*4
			g.Set(x, y, nrgba.Pix[i:i+4])
		}
	}
	return g, nil
}

// ToImage returns an image holding a copy of g: *image.Gray for one
// channel, *image.NRGBA otherwise (opaque for RGB grids).
func (g *Grid) ToImage() image.Image {
	rect := image.Rect(0, 0, g.W, g.H)
	if g.C == 1 {
		gray := image.NewGray(rect)
		copy(gray.Pix, g.Pix)
		return gray
	}
	img := image.NewNRGBA(rect)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			p := g.At(x, y)
			i := y*img.Stride + x*4
			copy(img.Pix[i:i+3], p[:3])
			img.Pix[i+3] = 255
			if g.C == 4 {
				img.Pix[i+3] = p[3]
			}
		}
	}
	return img
}

// Scale resizes g to w×h. Nearest-neighbour keeps hard pixel edges;
// smooth uses approximate bilinear filtering.
func Scale(g *Grid, w, h int, smooth bool) (*Grid, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := CheckShape(w, h, g.C); err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	var scaler draw.Interpolator = draw.NearestNeighbor
	if smooth {
		scaler = draw.ApproxBiLinear
	}
	src := g.ToImage()
	var dst draw.Image
	rect := image.Rect(0, 0, w, h)
	if g.C == 1 {
		dst = image.NewGray(rect)
	} else {
		dst = image.NewNRGBA(rect)
	}
	scaler.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
	return FromImage(dst, g.C)
}
