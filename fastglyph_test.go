package fastglyph

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/fastglyph/bitmap"
	"github.com/bodgit/fastglyph/codegen"
	"github.com/bodgit/fastglyph/font"
	"github.com/bodgit/fastglyph/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *Session {
	return New(log.New(ioutil.Discard, "", 0))
}

func newFont(t *testing.T, name string, complete bool) *font.State {
	s, err := font.New(name, 5, 8, 'a', 'c')
	require.NoError(t, err)
	g := grid.New(5, 8)
	g.Set(1, 2, true)
	require.NoError(t, s.Commit('a', g))
	if complete {
		require.NoError(t, s.Commit('b', grid.New(5, 8)))
		require.NoError(t, s.Commit('c', g))
	}
	return s
}

func TestFontRoundTrip(t *testing.T) {
	dir := t.TempDir()
	session := newSession()

	empty, err := font.New("Empty", 8, 8, 32, 127)
	require.NoError(t, err)

	for _, s := range []*font.State{empty, newFont(t, "Partial", false)} {
		file := filepath.Join(dir, s.Name+font.Extension)
		require.NoError(t, session.SaveFont(s, file))

		loaded, err := session.LoadFont(file)
		require.NoError(t, err)
		assert.True(t, s.Equal(loaded))
	}
}

func TestBitmapRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logo"+bitmap.Extension)
	session := newSession()

	s, err := bitmap.New("logo", 20, 12)
	require.NoError(t, err)
	s.Grid.Set(11, 19, true)
	s.Grid.Set(0, 3, true)
	require.NoError(t, session.SaveBitmap(s, file))

	loaded, err := session.LoadBitmap(file)
	require.NoError(t, err)
	assert.True(t, s.Equal(loaded))
}

func TestSaveOverwrites(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f"+font.Extension)
	session := newSession()

	big, err := font.New("Big", 32, 32, 0, 255)
	require.NoError(t, err)
	for _, c := range big.Codes() {
		require.NoError(t, big.Commit(c, grid.New(32, 32)))
	}
	require.NoError(t, session.SaveFont(big, file))

	small := newFont(t, "Small", true)
	require.NoError(t, session.SaveFont(small, file))

	loaded, err := session.LoadFont(file)
	require.NoError(t, err)
	assert.True(t, small.Equal(loaded))
}

func TestMissingDestination(t *testing.T) {
	session := newSession()
	s := newFont(t, "F", true)

	assert.Equal(t, ErrMissingDestination, session.SaveFont(s, ""))

	_, err := session.ExportFont(s, "", codegen.Options{Vertical: true})
	assert.Equal(t, ErrMissingDestination, err)

	_, err = session.RevertFont(s)
	assert.True(t, errors.Is(err, ErrMissingDestination))

	assert.Equal(t, ErrMissingDestination, session.ExportTree(context.Background(), "", codegen.Options{Vertical: true}))
}

func TestRevert(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f"+font.Extension)
	session := newSession()

	s := newFont(t, "F", false)
	require.NoError(t, session.SaveFont(s, file))

	require.NoError(t, s.Commit('b', grid.New(5, 8)))
	require.NoError(t, s.UpdateSize(6, 9))

	reverted, err := session.RevertFont(s)
	require.NoError(t, err)
	assert.True(t, newFont(t, "F", false).Equal(reverted))

	// The reverted state can itself be reverted
	_, err = session.RevertFont(reverted)
	assert.NoError(t, err)

	b, err := bitmap.New("b", 8, 8)
	require.NoError(t, err)
	bfile := filepath.Join(t.TempDir(), "b"+bitmap.Extension)
	require.NoError(t, session.SaveBitmap(b, bfile))
	b.Grid.Set(0, 0, true)
	rb, err := session.RevertBitmap(b)
	require.NoError(t, err)
	assert.True(t, rb.Grid.IsBlank())
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	session := newSession()

	file := filepath.Join(dir, "f"+font.Extension)
	require.NoError(t, session.SaveFont(newFont(t, "F", true), file))

	b, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	b[len(b)/2] ^= 0xff
	require.NoError(t, ioutil.WriteFile(file, b, 0644))

	_, err = session.LoadFont(file)
	assert.True(t, errors.Is(err, ErrCorruptFormat))

	// A font is not a bitmap
	other := filepath.Join(dir, "g"+font.Extension)
	require.NoError(t, session.SaveFont(newFont(t, "G", true), other))
	_, err = session.LoadBitmap(other)
	assert.True(t, errors.Is(err, ErrCorruptFormat))

	_, err = session.LoadFont(filepath.Join(dir, "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportFont(t *testing.T) {
	dir := t.TempDir()
	session := newSession()
	s := newFont(t, "Font5x8", true)

	written, err := session.ExportFont(s, dir, codegen.Options{Vertical: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Font5x8.h")}, written)

	b, err := ioutil.ReadFile(written[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), "class Font5x8 : public devices::display::Font<true>")

	written, err = session.ExportFont(s, dir, codegen.Options{Filename: "font5x8", Vertical: true, Library: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "font5x8.h"), filepath.Join(dir, "font5x8.cpp")}, written)

	b, err = ioutil.ReadFile(written[1])
	require.NoError(t, err)
	assert.Contains(t, string(b), "#include \"font5x8.h\"")

	_, err = session.ExportFont(newFont(t, "F", false), dir, codegen.Options{Vertical: true})
	assert.True(t, errors.Is(err, codegen.ErrIncompleteFont))
}

func TestExportBitmap(t *testing.T) {
	dir := t.TempDir()
	session := newSession()

	s, err := bitmap.New("logo", 8, 8)
	require.NoError(t, err)
	written, err := session.ExportBitmap(s, dir, codegen.Options{Vertical: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "logo.h")}, written)
}

func TestExportTree(t *testing.T) {
	base := t.TempDir()
	session := newSession()

	for _, d := range []string{"fonts", "images/icons", ".hidden"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, d), 0755))
	}

	require.NoError(t, session.SaveFont(newFont(t, "Small", true), filepath.Join(base, "fonts", "small"+font.Extension)))
	require.NoError(t, session.SaveFont(newFont(t, "Draft", false), filepath.Join(base, "fonts", "draft"+font.Extension)))
	require.NoError(t, session.SaveFont(newFont(t, "Secret", true), filepath.Join(base, ".hidden", "secret"+font.Extension)))

	icon, err := bitmap.New("arrow", 8, 8)
	require.NoError(t, err)
	require.NoError(t, session.SaveBitmap(icon, filepath.Join(base, "images", "icons", "arrow"+bitmap.Extension)))

	require.NoError(t, ioutil.WriteFile(filepath.Join(base, "README"), []byte("ignored"), 0644))

	require.NoError(t, session.ExportTree(context.Background(), base, codegen.Options{Vertical: true}))

	b, err := ioutil.ReadFile(filepath.Join(base, "fonts", "small.h"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "class Small ")

	assert.FileExists(t, filepath.Join(base, "images", "icons", "arrow.h"))
	for _, file := range []string{
		filepath.Join("fonts", "draft.h"),
		filepath.Join(".hidden", "secret.h"),
		"README.h",
	} {
		_, err = os.Stat(filepath.Join(base, file))
		assert.True(t, os.IsNotExist(err), file)
	}
}

func TestExportTreeCancelled(t *testing.T) {
	base := t.TempDir()
	session := newSession()
	require.NoError(t, session.SaveFont(newFont(t, "Small", true), filepath.Join(base, "small"+font.Extension)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := session.ExportTree(ctx, base, codegen.Options{Vertical: true})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExportTreeHorizontal(t *testing.T) {
	base := t.TempDir()
	session := newSession()
	require.NoError(t, session.SaveFont(newFont(t, "Small", true), filepath.Join(base, "small"+font.Extension)))

	err := session.ExportTree(context.Background(), base, codegen.Options{})
	assert.Equal(t, codegen.ErrHorizontalUnsupported, err)
}

func TestWritePreview(t *testing.T) {
	g := grid.New(3, 2)
	g.Set(1, 2, true)

	b := new(bytes.Buffer)
	require.NoError(t, WritePreview(b, g, 4))

	m, err := png.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, 12, m.Bounds().Dx())
	assert.Equal(t, 8, m.Bounds().Dy())

	r, _, _, _ := m.At(9, 5).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, color.Gray16Model.Convert(color.White), color.Gray16Model.Convert(m.At(0, 0)))
}

func TestForget(t *testing.T) {
	dir := t.TempDir()
	session := newSession()

	s := newFont(t, "F", true)
	require.NoError(t, session.SaveFont(s, filepath.Join(dir, "f"+font.Extension)))
	loaded, err := session.LoadFont(filepath.Join(dir, "f"+font.Extension))
	require.NoError(t, err)
	assert.Len(t, session.fonts, 2)

	session.ForgetFont(s)
	session.ForgetFont(loaded)
	assert.Len(t, session.fonts, 0)
	_, err = session.RevertFont(s)
	assert.True(t, errors.Is(err, ErrMissingDestination))

	b, err := bitmap.New("b", 8, 8)
	require.NoError(t, err)
	require.NoError(t, session.SaveBitmap(b, filepath.Join(dir, "b"+bitmap.Extension)))
	session.ForgetBitmap(b)
	assert.Len(t, session.bitmaps, 0)
	_, err = session.RevertBitmap(b)
	assert.True(t, errors.Is(err, ErrMissingDestination))
}

func TestExportTreeDuplicate(t *testing.T) {
	base := t.TempDir()
	session := newSession()

	require.NoError(t, session.SaveFont(newFont(t, "Small", true), filepath.Join(base, "a"+font.Extension)))
	b, err := bitmap.New("a", 8, 8)
	require.NoError(t, err)
	require.NoError(t, session.SaveBitmap(b, filepath.Join(base, "a"+bitmap.Extension)))

	err = session.ExportTree(context.Background(), base, codegen.Options{Vertical: true})
	assert.True(t, errors.Is(err, ErrDuplicateExport))
	assert.Contains(t, err.Error(), "a.h")
}
