package grid

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

const (
	clearIndex = 0
	setIndex   = 1
)

// Palette is used for images produced by Image, white then black
var Palette = color.Palette{color.White, color.Black}

// Image returns the grid as a two color paletted image
func (g *Grid) Image() *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, g.width, g.height), Palette)
	for y, row := range g.cells {
		for x, v := range row {
			if v {
				m.SetColorIndex(x, y, setIndex)
			}
		}
	}
	return m
}

func luma(c color.Color) uint32 {
	r, g, b, a := c.RGBA()
	if a == 0 {
		// Fully transparent pixels count as background
		return 0xffff
	}
	return (19595*r + 38470*g + 7471*b + 1<<15) >> 16
}

// FromImage converts m into a grid of the same size. Images with more than
// two colors are reduced to two with a median cut; the darker of the two
// becomes the set pixel.
func FromImage(m image.Image) *Grid {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > 2 {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, 2), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Work out which palette entry is the darkest
	dark := uint8(0)
	for i, c := range pm.Palette {
		if luma(c) < luma(pm.Palette[dark]) {
			dark = uint8(i)
		}
	}

	g := New(b.Dx(), b.Dy())
	if len(pm.Palette) < 2 {
		// Single color image, nothing can be set
		return g
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.cells[y-b.Min.Y][x-b.Min.X] = pm.ColorIndexAt(x, y) == dark
		}
	}
	return g
}
