package codegen

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"unicode"

	"github.com/bodgit/fastglyph/bitmap"
	"github.com/bodgit/fastglyph/font"
)

const (
	// DefaultNamespace is where the FastArduino fonts live
	DefaultNamespace = "devices::display"

	// DefaultInclude is the Font base class header relative to the
	// FastArduino fonts directory
	DefaultInclude = "../font.h"

	regularInclude = "<fastarduino/devices/font.h>"
	bitmapInclude  = "<fastarduino/flash.h>"
)

var (
	// ErrIncompleteFont is returned when any glyph is still unset
	ErrIncompleteFont = errors.New("incomplete font")

	// ErrHorizontalUnsupported is returned when a horizontal layout is
	// requested
	ErrHorizontalUnsupported = errors.New("horizontal font layout is not supported")
)

// IncompleteFontError lists every character code without a committed glyph.
// It matches ErrIncompleteFont with errors.Is.
type IncompleteFontError struct {
	Codes []int
}

func (e *IncompleteFontError) Error() string {
	s := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		s[i] = fmt.Sprintf("0x%02x %s", c, glyphChar(c))
	}
	return fmt.Sprintf("%s: undefined glyphs for %s", ErrIncompleteFont, strings.Join(s, ", "))
}

// Is reports whether target is ErrIncompleteFont
func (e *IncompleteFontError) Is(target error) bool {
	return target == ErrIncompleteFont
}

// Options controls the generated code
type Options struct {
	// Name of the C++ class or array, defaults to the state name. It is
	// passed through Identifier.
	Name string
	// Filename is the root name of the generated files, defaults to Name
	Filename string
	// Namespace and Include are only used with Library
	Namespace string
	Include   string
	// Copyright is prepended as a comment to library files
	Copyright string
	// Vertical must be true, it is the only layout supported
	Vertical bool
	// Library produces a header and source pair for inclusion in a
	// namespace rather than a single self-contained header
	Library bool
}

// Files holds the generated code. Source is empty unless generating a
// library font.
type Files struct {
	Filename string
	Header   string
	Source   string
}

var (
	identifier = regexp.MustCompile(`[^A-Za-z0-9_]`)

	funcs = template.FuncMap{
		"hex": func(v int) string {
			return fmt.Sprintf("0x%02x", v)
		},
	}

	regularFont = template.Must(template.New("regular").Funcs(funcs).Parse(`
#include {{.Include}}

class {{.Name}} : public devices::display::Font<{{.Vertical}}>
{
public:
	{{.Name}}() : Font{{"{"}}{{hex .First}}, {{hex .Last}}, {{.Width}}, {{.Height}}, FONT} {}

private:
	static const uint8_t FONT[] PROGMEM;
};

const uint8_t {{.Name}}::FONT[] PROGMEM =
{
{{.Glyphs}}};
`))

	libraryHeader = template.Must(template.New("header").Funcs(funcs).Parse(`{{.Copyright}}/// @cond api

#ifndef {{.Guard}}
#define {{.Guard}}

#include {{.Include}}

namespace {{.Namespace}}
{
	class {{.Name}} : public {{.Base}}<{{.Vertical}}>
	{
	public:
		{{.Name}}() : Font{{"{"}}{{hex .First}}, {{hex .Last}}, {{.Width}}, {{.Height}}, FONT} {}

	private:
		static const uint8_t FONT[] PROGMEM;
	};
}
#endif /* {{.Guard}} */

/// @endcond
`))

	librarySource = template.Must(template.New("source").Parse(`{{.Copyright}}#include "{{.Filename}}.h"

const uint8_t {{.Namespace}}::{{.Name}}::FONT[] PROGMEM =
{
{{.Glyphs}}};
`))

	regularBitmap = template.Must(template.New("bitmap").Parse(`
#include {{.Include}}

static constexpr uint8_t {{.Name}}_WIDTH = {{.Width}};
static constexpr uint8_t {{.Name}}_HEIGHT = {{.Height}};

static const uint8_t {{.Name}}[] PROGMEM =
{
{{.Glyphs}}};
`))
)

type context struct {
	Name, Filename  string
	Namespace, Base string
	Include, Guard  string
	Copyright       string
	Vertical        bool
	First, Last     int
	Width, Height   int
	Glyphs          string
}

func glyphChar(c int) string {
	switch r := rune(c); {
	case r == '\\':
		// A trailing backslash would continue the comment onto the next line
		return `\ (backslash)`
	case !unicode.IsPrint(r):
		return "(non-printable)"
	default:
		return string(r)
	}
}

// GlyphRows returns the packed glyph rows for every character of s, one line
// per band with a trailing comment naming the character
func GlyphRows(s *font.State) (string, error) {
	if missing := s.Missing(); len(missing) > 0 {
		return "", &IncompleteFontError{Codes: missing}
	}

	var sb strings.Builder
	for _, c := range s.Codes() {
		g, err := s.Glyph(c)
		if err != nil {
			return "", err
		}
		for band := 0; band < Bands(s.Height); band++ {
			fmt.Fprintf(&sb, "\t%s\t// 0x%02x %s\n", hexBytes(packBand(g.Grid, band)), c, glyphChar(c))
		}
	}
	return sb.String(), nil
}

func copyright(text string) string {
	if text == "" {
		return ""
	}
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			sb.WriteString("//\n")
		} else {
			sb.WriteString("//   " + line + "\n")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func include(path string) string {
	if strings.HasPrefix(path, "<") || strings.HasPrefix(path, `"`) {
		return path
	}
	return `"` + path + `"`
}

// Identifier turns name into a valid C++ identifier, replacing any other
// character with an underscore and prefixing one to a leading digit
func Identifier(name string) string {
	id := identifier.ReplaceAllString(name, "_")
	if id != "" && id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}

func (o Options) context(name string) (context, error) {
	if !o.Vertical {
		return context{}, ErrHorizontalUnsupported
	}

	c := context{
		Name:      o.Name,
		Filename:  o.Filename,
		Namespace: o.Namespace,
		Include:   o.Include,
		Copyright: copyright(o.Copyright),
		Vertical:  o.Vertical,
		Base:      "Font",
	}
	if c.Name == "" {
		c.Name = name
	}
	if c.Name == "" {
		return context{}, errors.New("no name given")
	}
	if c.Filename == "" {
		c.Filename = c.Name
	}
	c.Name = Identifier(c.Name)
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.Namespace != DefaultNamespace {
		c.Base = DefaultNamespace + "::Font"
	}
	c.Guard = strings.ToUpper(Identifier(filepath.Base(c.Filename))) + "_HH"

	return c, nil
}

func execute(t *template.Template, c context) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, c); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Font generates the code for s
func Font(s *font.State, o Options) (*Files, error) {
	c, err := o.context(s.Name)
	if err != nil {
		return nil, err
	}
	c.First, c.Last = s.First, s.Last
	c.Width, c.Height = s.Width, s.Height

	if c.Glyphs, err = GlyphRows(s); err != nil {
		return nil, err
	}

	files := &Files{Filename: c.Filename}

	if !o.Library {
		c.Include = regularInclude
		files.Header, err = execute(regularFont, c)
		return files, err
	}

	if c.Include == "" {
		c.Include = DefaultInclude
	}
	c.Include = include(c.Include)

	if files.Header, err = execute(libraryHeader, c); err != nil {
		return nil, err
	}
	if files.Source, err = execute(librarySource, c); err != nil {
		return nil, err
	}
	return files, nil
}

// BitmapRows returns the packed bitmap, one line per band
func BitmapRows(s *bitmap.State) string {
	var sb strings.Builder
	for band := 0; band < Bands(s.Height); band++ {
		fmt.Fprintf(&sb, "\t%s\n", hexBytes(packBand(s.Grid, band)))
	}
	return sb.String()
}

// Bitmap generates a single self-contained header for s. Only Name,
// Filename and Vertical are used from o.
func Bitmap(s *bitmap.State, o Options) (*Files, error) {
	c, err := o.context(s.Name)
	if err != nil {
		return nil, err
	}
	c.Include = bitmapInclude
	c.Width, c.Height = s.Width, s.Height
	c.Glyphs = BitmapRows(s)

	header, err := execute(regularBitmap, c)
	if err != nil {
		return nil, err
	}
	return &Files{Filename: c.Filename, Header: header}, nil
}
