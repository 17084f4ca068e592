package sizes

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const avrLog = `make: Entering directory 'examples/Blink1'
avr-size -C --mcu=atmega328p ../build/examples/Blink1
AVR Memory Usage
----------------
Program:     172 bytes (0.5% Full)
(.text + .data + .bootloader)

Data:          0 bytes (0.0% Full)
(.data + .bss + .noinit)

avr-size -C --mcu=atmega328p ../build/examples/Conway
AVR Memory Usage
Program:    2048 bytes (6.2% Full)
Data:        113 bytes (5.5% Full)
`

const arduinoLog = `Building... Blink
Sketch uses 924 bytes (2%) of program storage space. Maximum is 32256 bytes.
Global variables use 9 bytes (0%) of dynamic memory, leaving 2039 bytes for local variables. Maximum is 2048 bytes.
`

func TestParseLog(t *testing.T) {
	tables := []struct {
		dialect Dialect
		log     string
		want    []Record
	}{
		{
			AVRSize,
			avrLog,
			[]Record{
				{"Blink1", 172, 0},
				{"Conway", 2048, 113},
			},
		},
		{
			ArduinoCLI,
			arduinoLog,
			[]Record{
				{"Blink", 924, 9},
			},
		},
	}

	for _, table := range tables {
		records, err := ParseLog(strings.NewReader(table.log), table.dialect)
		require.NoError(t, err)
		assert.Equal(t, table.want, records)
	}

	d, ok := Dialects["avr-size"]
	require.True(t, ok)
	assert.Equal(t, "Program:", d.Code)
}

func TestParseLogErrors(t *testing.T) {
	_, err := ParseLog(strings.NewReader("Program: 12 bytes\n"), AVRSize)
	assert.Error(t, err)

	_, err = ParseLog(strings.NewReader("avr-size x/y\nProgram: lots\n"), AVRSize)
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	records := []Record{
		{"Blink1", 172, 0},
		{"Conway", 2048, 113},
	}

	b := new(bytes.Buffer)
	require.NoError(t, WriteStats(b, records))
	assert.Equal(t, "Blink1\t172\t0\nConway\t2048\t113\n", b.String())

	read, err := ReadStats(b)
	require.NoError(t, err)
	assert.Equal(t, records, read)

	_, err = ReadStats(strings.NewReader("Blink1\t172\n"))
	assert.Error(t, err)
}

func TestReadExamples(t *testing.T) {
	examples, err := ReadExamples(strings.NewReader("Blink\tBlinking LED \n\nConway\n"))
	require.NoError(t, err)
	assert.Equal(t, []Example{
		{"Blink", "Blinking LED"},
		{"Conway", ""},
	}, examples)
}

var (
	examples = []Example{
		{"Blink", "Blinking LED"},
		{"Conway", ""},
	}
	targets = []string{"UNO", "ATmega328"}
)

const oldSheet = "Example\tDescription\tUNO\t\tATmega328\t\n" +
	"\t\tcode\tdata\tcode\tdata\n" +
	"Blink\tBlinking LED\t172\t0\t180\t0\n" +
	"Conway\t\t2000\t100\t\t\n"

func TestWriteSheet(t *testing.T) {
	lookup := StatsLookup(map[string][]Record{
		"UNO": {
			{"Blink", 172, 0},
			{"Conway", 2000, 100},
		},
		"ATmega328": {
			{"Blink", 180, 0},
		},
	})

	b := new(bytes.Buffer)
	require.NoError(t, WriteSheet(b, examples, targets, lookup))
	assert.Equal(t, oldSheet, b.String())
}

func TestReadSheet(t *testing.T) {
	s, err := ReadSheet(strings.NewReader(oldSheet))
	require.NoError(t, err)
	assert.Equal(t, targets, s.Targets)

	r, ok, err := s.Lookup("UNO", "Conway")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Record{"Conway", 2000, 100}, r)

	_, ok, _ = s.Lookup("ATmega328", "Conway")
	assert.False(t, ok)

	_, err = ReadSheet(strings.NewReader(""))
	assert.Error(t, err)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 50.0, Percent(100, 150))
	assert.Equal(t, 0.0, Percent(0, 10))
	assert.Equal(t, -25.0, Percent(200, 150))

	assert.Equal(t, "\t100\t50\t50", diff(100, 150))
	assert.Equal(t, "\t0\t10\t0", diff(0, 10))
	assert.Equal(t, "\t200\t5\t2", diff(200, 205))
	assert.Equal(t, "\t200\t7\t4", diff(200, 207))
}

func TestWriteComparison(t *testing.T) {
	old, err := ReadSheet(strings.NewReader(oldSheet))
	require.NoError(t, err)

	b := new(bytes.Buffer)
	require.NoError(t, WriteSheet(b, examples, targets, StatsLookup(map[string][]Record{
		"UNO": {
			{"Blink", 258, 9},
			{"Conway", 2000, 100},
		},
		"ATmega328": {
			{"Blink", 180, 0},
		},
	})))
	cur, err := ReadSheet(b)
	require.NoError(t, err)

	out := new(bytes.Buffer)
	require.NoError(t, WriteComparison(out, examples, old, cur))
	assert.Equal(t, "Example\tUNO\t\t\t\t\t\tATmega328\t\t\t\t\t\n"+
		"\tcode\tdiff\tdiff%\tdata\tdiff\tdiff%\tcode\tdiff\tdiff%\tdata\tdiff\tdiff%\n"+
		"Blink\t172\t86\t50\t0\t9\t0\t180\t0\t0\t0\t0\t0\n"+
		"Conway\t2000\t0\t0\t100\t0\t0\t\t\t\t\t\t\n", out.String())
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 byte", FormatSize(0))
	assert.Equal(t, "1 byte", FormatSize(1))
	assert.Equal(t, "2 bytes", FormatSize(2))
}

func TestWriteTables(t *testing.T) {
	tables, err := ReadTables(strings.NewReader("blink\tArduino API\tBlink\tFastArduino\tBlink1\n"))
	require.NoError(t, err)
	require.Equal(t, []Table{
		{
			Tag:      "blink",
			Labels:   []string{"Arduino API", "FastArduino"},
			Programs: []string{"Blink", "Blink1"},
		},
	}, tables)

	b := new(bytes.Buffer)
	require.NoError(t, WriteTables(b, tables, []Record{
		{"Blink", 924, 9},
		{"Blink1", 172, 1},
	}))
	assert.Equal(t, "//! [blink]\n"+
		"<table class=\"markdownTable\">\n"+
		"\t<tr class=\"markdownTableHead\">\n"+
		"\t\t<th class=\"markdownTableHeadNone\"></th>\n"+
		"\t\t<th class=\"markdownTableHeadNone\">Arduino API</th>\n"+
		"\t\t<th class=\"markdownTableHeadNone\">FastArduino</th>\n"+
		"\t</tr>\n"+
		"\t<tr class=\"markdownTableBody\" class=\"markdownTableRowOdd\">\n"+
		"\t\t<td class=\"markdownTableBodyNone\">code size</td>\n"+
		"\t\t<td class=\"markdownTableBodyNone\">924 bytes</td>\n"+
		"\t\t<td class=\"markdownTableBodyNone\">172 bytes</td>\n"+
		"\t</tr>\n"+
		"\t<tr class=\"markdownTableBody\" class=\"markdownTableRowEven\">\n"+
		"\t\t<td class=\"markdownTableBodyNone\">data size</td>\n"+
		"\t\t<td class=\"markdownTableBodyNone\">9 bytes</td>\n"+
		"\t\t<td class=\"markdownTableBodyNone\">1 byte</td>\n"+
		"\t</tr>\n"+
		"</table>\n"+
		"//! [blink]\n"+
		"\n", b.String())

	err = WriteTables(new(bytes.Buffer), tables, []Record{{"Blink", 924, 9}})
	assert.Error(t, err)
}

func TestDB(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "sizes.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Import("UNO", []Record{
		{"Blink", 172, 0},
		{"Conway", 2000, 100},
	}))
	require.NoError(t, db.Import("ATmega328", []Record{
		{"Blink", 180, 0},
	}))

	targets, err := db.Targets()
	require.NoError(t, err)
	assert.Equal(t, []string{"ATmega328", "UNO"}, targets)

	r, ok, err := db.Lookup("UNO", "Conway")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Record{"Conway", 2000, 100}, r)

	_, ok, err = db.Lookup("ATmega328", "Conway")
	require.NoError(t, err)
	assert.False(t, ok)

	b := new(bytes.Buffer)
	require.NoError(t, WriteSheet(b, examples, []string{"UNO", "ATmega328"}, db.Lookup))
	assert.Equal(t, oldSheet, b.String())

	// Importing again replaces the previous sizes
	require.NoError(t, db.Import("UNO", []Record{
		{"Blink", 258, 9},
	}))
	_, ok, err = db.Lookup("UNO", "Conway")
	require.NoError(t, err)
	assert.False(t, ok)
	r, ok, err = db.Lookup("UNO", "Blink")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 258, r.Code)
}
