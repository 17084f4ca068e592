/*
Package format implements the framing shared by the saved font and bitmap
files.

A file is a four byte magic, a one byte version, a little-endian body and a
CRC-32 (IEEE) of everything before it. Grids are stored as a uint16 width and
height followed by each row packed MSB first into ceil(width/8) bytes.
*/
package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/bodgit/fastglyph/grid"
)

// Version is the current format version
const Version = 1

// ErrCorrupt is returned for anything that does not decode cleanly
var ErrCorrupt = errors.New("corrupt or incompatible format")

// Corrupt returns an ErrCorrupt error with more detail
func Corrupt(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, a...))
}

// Encoder accumulates a file body
type Encoder struct {
	b   bytes.Buffer
	err error
}

// NewEncoder starts a file with the given magic and the current version
func NewEncoder(magic string) *Encoder {
	e := new(Encoder)
	e.b.WriteString(magic)
	e.b.WriteByte(Version)
	return e
}

func (e *Encoder) write(v interface{}) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(&e.b, binary.LittleEndian, v)
}

// Uint8 writes a single byte
func (e *Encoder) Uint8(v uint8) {
	e.write(v)
}

// Int writes v as a uint16
func (e *Encoder) Int(v int) {
	if v < 0 || v > math.MaxUint16 {
		if e.err == nil {
			e.err = fmt.Errorf("value %d does not fit in 16 bits", v)
		}
		return
	}
	e.write(uint16(v))
}

// String writes a length-prefixed string
func (e *Encoder) String(s string) {
	e.Int(len(s))
	if e.err == nil {
		e.b.WriteString(s)
	}
}

// Grid writes the dimensions and packed rows of g
func (e *Encoder) Grid(g *grid.Grid) {
	e.Int(g.Width())
	e.Int(g.Height())
	if e.err != nil {
		return
	}
	row := make([]byte, (g.Width()+7)>>3)
	for y := 0; y < g.Height(); y++ {
		for i := range row {
			row[i] = 0
		}
		for x := 0; x < g.Width(); x++ {
			if g.Get(y, x) {
				row[x>>3] |= 0x80 >> uint(x&7)
			}
		}
		e.b.Write(row)
	}
}

// Bytes appends the checksum and returns the finished file
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	sum := crc32.ChecksumIEEE(e.b.Bytes())
	if err := binary.Write(&e.b, binary.LittleEndian, sum); err != nil {
		return nil, err
	}
	return e.b.Bytes(), nil
}

// Decoder reads back a file produced by an Encoder
type Decoder struct {
	r *bytes.Reader
}

// NewDecoder validates the magic, version and checksum of b
func NewDecoder(magic string, b []byte) (*Decoder, error) {
	if len(b) < len(magic)+1+crc32.Size {
		return nil, Corrupt("file too short")
	}
	if string(b[:len(magic)]) != magic {
		return nil, Corrupt("bad signature %q", b[:len(magic)])
	}
	if v := b[len(magic)]; v != Version {
		return nil, Corrupt("unsupported version %d", v)
	}

	body, trailer := b[:len(b)-crc32.Size], b[len(b)-crc32.Size:]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(trailer) {
		return nil, Corrupt("checksum mismatch")
	}

	return &Decoder{r: bytes.NewReader(body[len(magic)+1:])}, nil
}

func (d *Decoder) read(v interface{}) error {
	if err := binary.Read(d.r, binary.LittleEndian, v); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Corrupt("not enough data")
		}
		return err
	}
	return nil
}

// Uint8 reads a single byte
func (d *Decoder) Uint8() (uint8, error) {
	var v uint8
	err := d.read(&v)
	return v, err
}

// Int reads a uint16
func (d *Decoder) Int() (int, error) {
	var v uint16
	err := d.read(&v)
	return int(v), err
}

// String reads a length-prefixed string
func (d *Decoder) String() (string, error) {
	n, err := d.Int()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return "", Corrupt("not enough data")
	}
	return string(b), nil
}

// Grid reads a grid
func (d *Decoder) Grid() (*grid.Grid, error) {
	w, err := d.Int()
	if err != nil {
		return nil, err
	}
	h, err := d.Int()
	if err != nil {
		return nil, err
	}
	if int64(h)*int64((w+7)>>3) > int64(d.r.Len()) {
		return nil, Corrupt("not enough data")
	}

	g := grid.New(w, h)
	row := make([]byte, (w+7)>>3)
	for y := 0; y < h; y++ {
		if _, err := io.ReadFull(d.r, row); err != nil {
			return nil, Corrupt("not enough data")
		}
		for x := 0; x < w; x++ {
			if row[x>>3]&(0x80>>uint(x&7)) != 0 {
				g.Set(y, x, true)
			}
		}
	}
	return g, nil
}

// Close fails if there is unread data
func (d *Decoder) Close() error {
	if d.r.Len() != 0 {
		return Corrupt("%d bytes of trailing data", d.r.Len())
	}
	return nil
}
