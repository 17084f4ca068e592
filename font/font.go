/*
Package font implements the editable state of a fixed size display font.

Every character code between First and Last, inclusive, has a glyph. A glyph
starts out Unset and only becomes Committed once a grid has been stored for
it, even if that grid is blank. Code generation refuses to run while any
glyph is still Unset.
*/
package font

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bodgit/fastglyph/grid"
)

const (
	// MinCode and MaxCode limit the character range, the generated code
	// stores codes as uint8_t
	MinCode = 0
	MaxCode = 255

	// Extension is the conventional file extension for saved fonts
	Extension = ".font"
)

// ErrCodeOutOfRange is returned for a character code outside the font
var ErrCodeOutOfRange = errors.New("character code out of range")

// GlyphState distinguishes a glyph that has never been committed from one
// that has, however blank
type GlyphState uint8

const (
	// Unset glyphs have never been committed
	Unset GlyphState = iota
	// Committed glyphs carry a grid
	Committed
)

func (s GlyphState) String() string {
	switch s {
	case Unset:
		return "unset"
	case Committed:
		return "committed"
	default:
		return fmt.Sprintf("GlyphState(%d)", uint8(s))
	}
}

// Glyph holds the pixels for one character. Grid is nil while Unset.
type Glyph struct {
	State GlyphState
	Grid  *grid.Grid
}

func (g *Glyph) equal(o *Glyph) bool {
	return g.State == o.State && g.Grid.Equal(o.Grid)
}

// State is a complete font
type State struct {
	Name          string
	Width, Height int
	First, Last   int

	glyphs map[int]*Glyph
}

func checkRange(first, last int) (int, int, error) {
	if first > last {
		first, last = last, first
	}
	if first < MinCode || last > MaxCode {
		return 0, 0, fmt.Errorf("%w: %d-%d not within %d-%d", ErrCodeOutOfRange, first, last, MinCode, MaxCode)
	}
	return first, last, nil
}

// New returns a font with every glyph Unset. A reversed range is swapped.
func New(name string, width, height, first, last int) (*State, error) {
	if err := grid.FontBounds.Check(width, height); err != nil {
		return nil, err
	}

	first, last, err := checkRange(first, last)
	if err != nil {
		return nil, err
	}

	s := &State{
		Name:   name,
		Width:  width,
		Height: height,
		First:  first,
		Last:   last,
		glyphs: make(map[int]*Glyph, last-first+1),
	}
	for c := first; c <= last; c++ {
		s.glyphs[c] = &Glyph{}
	}
	return s, nil
}

// Len returns the number of glyphs
func (s *State) Len() int {
	return len(s.glyphs)
}

// Codes returns every character code in ascending order
func (s *State) Codes() []int {
	codes := make([]int, 0, len(s.glyphs))
	for c := range s.glyphs {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// Missing returns the codes of every Unset glyph in ascending order
func (s *State) Missing() []int {
	var missing []int
	for _, c := range s.Codes() {
		if s.glyphs[c].State == Unset {
			missing = append(missing, c)
		}
	}
	return missing
}

// Glyph returns the glyph for code c. The result must not be modified, use
// Edit and Commit instead.
func (s *State) Glyph(c int) (*Glyph, error) {
	g, ok := s.glyphs[c]
	if !ok {
		return nil, fmt.Errorf("%w: %d not within %d-%d", ErrCodeOutOfRange, c, s.First, s.Last)
	}
	return g, nil
}

// Edit returns a working copy of the glyph for code c; a copy of the
// committed grid or a blank grid if the glyph is Unset
func (s *State) Edit(c int) (*grid.Grid, error) {
	g, err := s.Glyph(c)
	if err != nil {
		return nil, err
	}
	if g.State == Unset {
		return grid.New(s.Width, s.Height), nil
	}
	return g.Grid.Clone(), nil
}

// Commit stores a copy of pixels as the glyph for code c
func (s *State) Commit(c int, pixels *grid.Grid) error {
	g, err := s.Glyph(c)
	if err != nil {
		return err
	}
	if pixels.Width() != s.Width || pixels.Height() != s.Height {
		return fmt.Errorf("glyph %d is %dx%d, font is %dx%d: %w", c, pixels.Width(), pixels.Height(), s.Width, s.Height, grid.ErrInvalidDimensions)
	}
	g.State = Committed
	g.Grid = pixels.Clone()
	return nil
}

// Reset returns the glyph for code c to Unset
func (s *State) Reset(c int) error {
	g, err := s.Glyph(c)
	if err != nil {
		return err
	}
	g.State = Unset
	g.Grid = nil
	return nil
}

// UpdateRange changes the character range. Glyphs for codes in both ranges
// are kept, new codes start Unset and dropped codes are discarded.
func (s *State) UpdateRange(first, last int) error {
	first, last, err := checkRange(first, last)
	if err != nil {
		return err
	}

	for c := range s.glyphs {
		if c < first || c > last {
			delete(s.glyphs, c)
		}
	}
	for c := first; c <= last; c++ {
		if _, ok := s.glyphs[c]; !ok {
			s.glyphs[c] = &Glyph{}
		}
	}
	s.First, s.Last = first, last
	return nil
}

// UpdateSize resizes every committed glyph, padding or truncating at the
// bottom and right
func (s *State) UpdateSize(width, height int) error {
	if err := grid.FontBounds.Check(width, height); err != nil {
		return err
	}
	for _, g := range s.glyphs {
		if g.State == Committed {
			g.Grid.Resize(width, height)
		}
	}
	s.Width, s.Height = width, height
	return nil
}

// Equal reports whether both fonts hold the same metadata and glyphs
func (s *State) Equal(o *State) bool {
	if s.Name != o.Name || s.Width != o.Width || s.Height != o.Height || s.First != o.First || s.Last != o.Last {
		return false
	}
	if len(s.glyphs) != len(o.glyphs) {
		return false
	}
	for c, g := range s.glyphs {
		og, ok := o.glyphs[c]
		if !ok || !g.equal(og) {
			return false
		}
	}
	return true
}
