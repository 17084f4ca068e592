package font

import (
	"github.com/bodgit/fastglyph/grid"
	"github.com/bodgit/fastglyph/internal/format"
)

const magic = "FGFN"

// MarshalBinary encodes the font into binary form and returns the result
func (s *State) MarshalBinary() ([]byte, error) {
	e := format.NewEncoder(magic)
	e.String(s.Name)
	e.Int(s.Width)
	e.Int(s.Height)
	e.Int(s.First)
	e.Int(s.Last)

	for _, c := range s.Codes() {
		g := s.glyphs[c]
		e.Uint8(uint8(g.State))
		if g.State == Committed {
			e.Grid(g.Grid)
		}
	}

	return e.Bytes()
}

// UnmarshalBinary decodes the font from binary form
func (s *State) UnmarshalBinary(b []byte) error {
	d, err := format.NewDecoder(magic, b)
	if err != nil {
		return err
	}

	var n State
	if n.Name, err = d.String(); err != nil {
		return err
	}
	for _, p := range []*int{&n.Width, &n.Height, &n.First, &n.Last} {
		if *p, err = d.Int(); err != nil {
			return err
		}
	}

	if err := grid.FontBounds.Check(n.Width, n.Height); err != nil {
		return format.Corrupt("%v", err)
	}
	if n.First > n.Last || n.Last > MaxCode {
		return format.Corrupt("invalid range %d-%d", n.First, n.Last)
	}

	n.glyphs = make(map[int]*Glyph, n.Last-n.First+1)
	for c := n.First; c <= n.Last; c++ {
		state, err := d.Uint8()
		if err != nil {
			return err
		}

		g := &Glyph{State: GlyphState(state)}
		switch g.State {
		case Unset:
		case Committed:
			if g.Grid, err = d.Grid(); err != nil {
				return err
			}
			if g.Grid.Width() != n.Width || g.Grid.Height() != n.Height {
				return format.Corrupt("glyph %d is %dx%d, font is %dx%d", c, g.Grid.Width(), g.Grid.Height(), n.Width, n.Height)
			}
		default:
			return format.Corrupt("glyph %d has unknown state %d", c, state)
		}
		n.glyphs[c] = g
	}

	if err := d.Close(); err != nil {
		return err
	}

	*s = n
	return nil
}
