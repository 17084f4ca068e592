package font

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bodgit/fastglyph/grid"
)

// DecodeText reads glyphs written one pixel row per line as
//
//	A  [X X X]
//	A  [ X X ]
//
// where the first character is the glyph and 'X' marks a set pixel.
// Consecutive lines for the same character form one glyph. A character that
// is not printable is written as \x followed by two hex digits.
func DecodeText(r io.Reader) (map[rune]*grid.Grid, error) {
	rows := make(map[rune][]string)
	var order []rune

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		c, size := decodeChar(text)
		start := strings.IndexByte(text[size:], '[')
		end := strings.LastIndexByte(text, ']')
		if start < 0 || end < size+start {
			return nil, fmt.Errorf("line %d: expected pixels between [ and ]", line)
		}
		if _, ok := rows[c]; !ok {
			order = append(order, c)
		}
		rows[c] = append(rows[c], text[size+start+1:end])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	glyphs := make(map[rune]*grid.Grid, len(order))
	for _, c := range order {
		glyphs[c] = grid.Parse(rows[c])
	}
	return glyphs, nil
}

func decodeChar(text string) (rune, int) {
	if len(text) >= 4 && text[0] == '\\' && text[1] == 'x' {
		if v, err := strconv.ParseUint(text[2:4], 16, 8); err == nil {
			return rune(v), 4
		}
	}
	return utf8.DecodeRuneInString(text)
}

func encodeChar(c int) string {
	if r := rune(c); unicode.IsPrint(r) {
		return string(r)
	}
	return fmt.Sprintf("\\x%02x", c)
}

// EncodeText writes every committed glyph in the format read by DecodeText
func (s *State) EncodeText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, c := range s.Codes() {
		g := s.glyphs[c]
		if g.State != Committed {
			continue
		}
		for _, row := range g.Grid.Rows() {
			var b strings.Builder
			for _, v := range row {
				if v {
					b.WriteByte('X')
				} else {
					b.WriteByte(' ')
				}
			}
			if _, err := fmt.Fprintf(bw, "%s  [%s]\n", encodeChar(c), b.String()); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Import commits each glyph, padding or truncating it to the font size
func (s *State) Import(glyphs map[rune]*grid.Grid) error {
	for c := range glyphs {
		if _, err := s.Glyph(int(c)); err != nil {
			return err
		}
	}
	for c, g := range glyphs {
		g = g.Clone()
		g.Resize(s.Width, s.Height)
		if err := s.Commit(int(c), g); err != nil {
			return err
		}
	}
	return nil
}
