/*
Package bitmap implements the editable state of a single 1-bit display image.
*/
package bitmap

import (
	"image"

	"github.com/bodgit/fastglyph/grid"
	"github.com/bodgit/fastglyph/internal/format"
)

const (
	// Extension is the conventional file extension for saved bitmaps
	Extension = ".bitmap"

	// DefaultSize is used when no size is given
	DefaultSize = 16

	magic = "FGBM"
)

// State is a named bitmap. Width and Height always match the grid.
type State struct {
	Name          string
	Width, Height int
	Grid          *grid.Grid
}

// New returns a blank bitmap
func New(name string, width, height int) (*State, error) {
	g, err := grid.BitmapBounds.Create(width, height)
	if err != nil {
		return nil, err
	}
	return &State{
		Name:   name,
		Width:  width,
		Height: height,
		Grid:   g,
	}, nil
}

// FromImage converts m into a bitmap, see grid.FromImage
func FromImage(name string, m image.Image) (*State, error) {
	b := m.Bounds()
	if err := grid.BitmapBounds.Check(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	return &State{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Grid:   grid.FromImage(m),
	}, nil
}

// UpdateSize resizes the bitmap, padding or truncating at the bottom and
// right
func (s *State) UpdateSize(width, height int) error {
	if err := grid.BitmapBounds.Check(width, height); err != nil {
		return err
	}
	s.Grid.Resize(width, height)
	s.Width, s.Height = width, height
	return nil
}

// Equal reports whether both bitmaps are the same
func (s *State) Equal(o *State) bool {
	return s.Name == o.Name && s.Width == o.Width && s.Height == o.Height && s.Grid.Equal(o.Grid)
}

// MarshalBinary encodes the bitmap into binary form and returns the result
func (s *State) MarshalBinary() ([]byte, error) {
	e := format.NewEncoder(magic)
	e.String(s.Name)
	e.Grid(s.Grid)
	return e.Bytes()
}

// UnmarshalBinary decodes the bitmap from binary form
func (s *State) UnmarshalBinary(b []byte) error {
	d, err := format.NewDecoder(magic, b)
	if err != nil {
		return err
	}

	name, err := d.String()
	if err != nil {
		return err
	}
	g, err := d.Grid()
	if err != nil {
		return err
	}
	if err := grid.BitmapBounds.Check(g.Width(), g.Height()); err != nil {
		return format.Corrupt("%v", err)
	}
	if err := d.Close(); err != nil {
		return err
	}

	*s = State{
		Name:   name,
		Width:  g.Width(),
		Height: g.Height(),
		Grid:   g,
	}
	return nil
}
