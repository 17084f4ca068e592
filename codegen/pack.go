/*
Package codegen turns fonts and bitmaps into C++ declarations for the
FastArduino display devices.

Pixels are packed vertically: the grid is cut into bands of eight rows and
each column of a band becomes one byte, the top row in the least significant
bit. All bytes of a band are written before those of the next band. Rows
missing from a partial last band are zero.
*/
package codegen

import (
	"fmt"
	"strings"

	"github.com/bodgit/fastglyph/grid"
)

const bandHeight = 8

// Bands returns the number of bands needed for height rows
func Bands(height int) int {
	return (height + bandHeight - 1) / bandHeight
}

// PackVertical returns width bytes for each band of g
func PackVertical(g *grid.Grid) []byte {
	out := make([]byte, 0, Bands(g.Height())*g.Width())
	for band := 0; band < Bands(g.Height()); band++ {
		out = append(out, packBand(g, band)...)
	}
	return out
}

func packBand(g *grid.Grid, band int) []byte {
	b := make([]byte, g.Width())
	for col := range b {
		for i := 0; i < bandHeight; i++ {
			row := band*bandHeight + i
			if row == g.Height() {
				break
			}
			if g.Get(row, col) {
				b[col] |= 1 << uint(i)
			}
		}
	}
	return b
}

func hexBytes(b []byte) string {
	var sb strings.Builder
	for _, v := range b {
		fmt.Fprintf(&sb, "0x%02x, ", v)
	}
	return sb.String()
}
