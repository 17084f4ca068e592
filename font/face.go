package font

import (
	"image"
	"io/ioutil"

	"github.com/bodgit/fastglyph/grid"
	"github.com/zachomedia/go-bdf"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Any alpha at or above this counts as a set pixel
const alphaThreshold = 0x80

// Builtin returns the 7x13 face shipped with golang.org/x/image
func Builtin() xfont.Face {
	return basicfont.Face7x13
}

// LoadBDF parses a BDF bitmap font from file
func LoadBDF(file string) (xfont.Face, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	f, err := bdf.Parse(b)
	if err != nil {
		return nil, err
	}
	return f.NewFace(), nil
}

func rasterize(face xfont.Face, r rune, width, height int) *grid.Grid {
	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	d := xfont.Drawer{
		Dst:  dst,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(string(r))

	g := grid.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if dst.AlphaAt(x, y).A >= alphaThreshold {
				g.Set(y, x, true)
			}
		}
	}
	return g
}

// Render draws every character the face knows about into the matching glyph,
// with the baseline at the face ascent. Committed glyphs are only replaced if
// overwrite is set. It returns the number of glyphs committed.
func (s *State) Render(face xfont.Face, overwrite bool) (int, error) {
	n := 0
	for _, c := range s.Codes() {
		g := s.glyphs[c]
		if g.State == Committed && !overwrite {
			continue
		}
		if _, ok := face.GlyphAdvance(rune(c)); !ok {
			continue
		}
		if err := s.Commit(c, rasterize(face, rune(c), s.Width, s.Height)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
