package fastglyph

import (
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/fastglyph/bitmap"
	"github.com/bodgit/fastglyph/codegen"
	"github.com/bodgit/fastglyph/font"
	"github.com/bodgit/fastglyph/grid"
	"golang.org/x/image/draw"
)

func writeFile(file, content string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(f, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Session) writeFiles(dir string, files *codegen.Files) ([]string, error) {
	if dir == "" {
		return nil, ErrMissingDestination
	}

	written := []string{filepath.Join(dir, files.Filename+".h")}
	if err := writeFile(written[0], files.Header); err != nil {
		return nil, err
	}

	if files.Source != "" {
		written = append(written, filepath.Join(dir, files.Filename+".cpp"))
		if err := writeFile(written[1], files.Source); err != nil {
			return nil, err
		}
	}

	for _, file := range written {
		s.logger.Printf("Wrote \"%s\"\n", file)
	}

	return written, nil
}

// ExportFont generates the code for state into dir, returning the files
// written
func (s *Session) ExportFont(state *font.State, dir string, o codegen.Options) ([]string, error) {
	if dir == "" {
		return nil, ErrMissingDestination
	}
	files, err := codegen.Font(state, o)
	if err != nil {
		return nil, err
	}
	return s.writeFiles(dir, files)
}

// ExportBitmap generates the header for state into dir, returning the file
// written
func (s *Session) ExportBitmap(state *bitmap.State, dir string, o codegen.Options) ([]string, error) {
	if dir == "" {
		return nil, ErrMissingDestination
	}
	files, err := codegen.Bitmap(state, o)
	if err != nil {
		return nil, err
	}
	return s.writeFiles(dir, files)
}

// WritePreview encodes g as a PNG with every pixel enlarged to a square of
// scale pixels
func WritePreview(w io.Writer, g *grid.Grid, scale int) error {
	if scale < 1 {
		scale = 1
	}
	src := g.Image()
	dst := image.NewPaletted(image.Rect(0, 0, g.Width()*scale, g.Height()*scale), grid.Palette)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return png.Encode(w, dst)
}
