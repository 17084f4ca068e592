package bitmap

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/fastglyph/grid"
	"github.com/bodgit/fastglyph/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New("logo", DefaultSize, 8)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, s.Grid.Width())
	assert.Equal(t, 8, s.Grid.Height())
	assert.True(t, s.Grid.IsBlank())

	_, err = New("logo", 3, 8)
	assert.True(t, errors.Is(err, grid.ErrInvalidDimensions))

	_, err = New("logo", 8, 256)
	assert.True(t, errors.Is(err, grid.ErrInvalidDimensions))
}

func TestUpdateSize(t *testing.T) {
	s, err := New("logo", 8, 8)
	require.NoError(t, err)
	s.Grid.Set(7, 7, true)
	s.Grid.Set(0, 0, true)

	require.NoError(t, s.UpdateSize(10, 4))
	assert.Equal(t, 10, s.Width)
	assert.Equal(t, 4, s.Height)
	assert.Equal(t, s.Width, s.Grid.Width())
	assert.Equal(t, s.Height, s.Grid.Height())
	assert.True(t, s.Grid.Get(0, 0))

	require.NoError(t, s.UpdateSize(8, 8))
	assert.True(t, s.Grid.Get(0, 0))
	assert.False(t, s.Grid.Get(7, 7))

	assert.Error(t, s.UpdateSize(2, 2))
	assert.Equal(t, 8, s.Width)
}

func TestMarshalRoundTrip(t *testing.T) {
	s, err := New("logo", 13, 9)
	require.NoError(t, err)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.Grid.Set(y, x, (x+y)%3 == 0)
		}
	}

	b, err := s.MarshalBinary()
	require.NoError(t, err)

	var o State
	require.NoError(t, o.UnmarshalBinary(b))
	assert.True(t, s.Equal(&o))
}

func TestUnmarshalFontFile(t *testing.T) {
	e := format.NewEncoder("FGFN")
	e.String("font")
	b, err := e.Bytes()
	require.NoError(t, err)

	var o State
	assert.True(t, errors.Is(o.UnmarshalBinary(b), format.ErrCorrupt))
}

func TestUnmarshalTooSmall(t *testing.T) {
	e := format.NewEncoder(magic)
	e.String("tiny")
	e.Grid(grid.New(2, 2))
	b, err := e.Bytes()
	require.NoError(t, err)

	var o State
	assert.True(t, errors.Is(o.UnmarshalBinary(b), format.ErrCorrupt))
}

func TestFromImage(t *testing.T) {
	m := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.White, color.Black})
	m.SetColorIndex(1, 2, 1)

	s, err := FromImage("pic", m)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Width)
	assert.True(t, s.Grid.Get(2, 1))
	assert.False(t, s.Grid.Get(1, 2))

	_, err = FromImage("pic", image.NewGray(image.Rect(0, 0, 1, 1)))
	assert.True(t, errors.Is(err, grid.ErrInvalidDimensions))
}
