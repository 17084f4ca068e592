/*
Package grid implements the rectangular 1-bit pixel matrix shared by fonts and
bitmaps.

A Grid is stored row-major; a set cell is a dark (drawn) pixel. Resizing keeps
whatever overlaps the old and new dimensions, padding at the bottom and right
and truncating from the bottom and right.
*/
package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDimensions is returned when a requested size is outside the
// configured bounds
var ErrInvalidDimensions = errors.New("invalid dimensions")

// DimensionError records the offending size along with the bounds it
// violated. It matches ErrInvalidDimensions with errors.Is.
type DimensionError struct {
	Width, Height int
	Bounds        Bounds
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%dx%d: %s (must be between %d and %d)", e.Width, e.Height, ErrInvalidDimensions, e.Bounds.Min, e.Bounds.Max)
}

// Is reports whether target is ErrInvalidDimensions
func (e *DimensionError) Is(target error) bool {
	return target == ErrInvalidDimensions
}

// Bounds limits the width and height of a grid, inclusive on both ends
type Bounds struct {
	Min, Max int
}

var (
	// FontBounds applies to font glyph cells
	FontBounds = Bounds{Min: 4, Max: 32}

	// BitmapBounds applies to whole bitmaps
	BitmapBounds = Bounds{Min: 4, Max: 255}
)

// Check returns an error if either dimension is out of bounds
func (b Bounds) Check(width, height int) error {
	if width < b.Min || height < b.Min || width > b.Max || height > b.Max {
		return &DimensionError{Width: width, Height: height, Bounds: b}
	}
	return nil
}

// Create returns an empty grid after checking the dimensions
func (b Bounds) Create(width, height int) (*Grid, error) {
	if err := b.Check(width, height); err != nil {
		return nil, err
	}
	return New(width, height), nil
}

// Grid is a width by height matrix of pixels
type Grid struct {
	width, height int
	cells         [][]bool
}

func emptyRow(width int) []bool {
	return make([]bool, width)
}

// New returns a grid with every pixel clear. It panics if either dimension is
// negative.
func New(width, height int) *Grid {
	if width < 0 || height < 0 {
		panic("grid: negative dimensions")
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([][]bool, height),
	}
	for y := range g.cells {
		g.cells[y] = emptyRow(width)
	}
	return g
}

// Width returns the number of columns
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows
func (g *Grid) Height() int {
	return g.height
}

func (g *Grid) check(row, col int) {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		panic(fmt.Sprintf("grid: (%d, %d) out of range for %dx%d", row, col, g.width, g.height))
	}
}

// Get returns the pixel at the given row and column
func (g *Grid) Get(row, col int) bool {
	g.check(row, col)
	return g.cells[row][col]
}

// Set changes the pixel at the given row and column
func (g *Grid) Set(row, col int, value bool) {
	g.check(row, col)
	g.cells[row][col] = value
}

// Clear turns every pixel off
func (g *Grid) Clear() {
	for _, row := range g.cells {
		for x := range row {
			row[x] = false
		}
	}
}

// IsBlank reports whether no pixel is set
func (g *Grid) IsBlank() bool {
	for _, row := range g.cells {
		for _, v := range row {
			if v {
				return false
			}
		}
	}
	return true
}

// Resize changes the dimensions of the grid in place
func (g *Grid) Resize(width, height int) {
	if width < 0 || height < 0 {
		panic("grid: negative dimensions")
	}

	for y, row := range g.cells {
		if width < len(row) {
			g.cells[y] = row[:width:width]
		} else {
			g.cells[y] = append(row, emptyRow(width-len(row))...)
		}
	}

	if height < len(g.cells) {
		g.cells = g.cells[:height:height]
	} else {
		for len(g.cells) < height {
			g.cells = append(g.cells, emptyRow(width))
		}
	}

	g.width, g.height = width, height
}

// Clone returns an independent copy
func (g *Grid) Clone() *Grid {
	dup := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make([][]bool, g.height),
	}
	for y, row := range g.cells {
		dup.cells[y] = append([]bool(nil), row...)
	}
	return dup
}

// Rows returns a copy of the pixels, one slice per row
func (g *Grid) Rows() [][]bool {
	return g.Clone().cells
}

// Equal reports whether both grids have the same size and pixels
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.width != o.width || g.height != o.height {
		return false
	}
	for y, row := range g.cells {
		for x, v := range row {
			if o.cells[y][x] != v {
				return false
			}
		}
	}
	return true
}

// String renders the grid one row per line using 'X' for set and '.' for
// clear pixels
func (g *Grid) String() string {
	var b strings.Builder
	for _, row := range g.cells {
		for _, v := range row {
			if v {
				b.WriteByte('X')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse builds a grid from text rows where 'X' or '#' is a set pixel and
// anything else is clear. Short rows are padded to the longest one.
func Parse(rows []string) *Grid {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	g := New(width, len(rows))
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			g.cells[y][x] = r[x] == 'X' || r[x] == '#'
		}
	}
	return g
}
