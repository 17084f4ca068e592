/*
Package sizes implements the code and data size reports produced from
embedded build output.

Build logs are filtered into stats, three tab-separated columns of example,
code size and data size. Stats for several targets are combined into a sheet,
two sheets can be compared, and stats can be turned into HTML tables for the
documentation. Every format is tab-separated text, one row per example.
*/
package sizes

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Record holds the sizes in bytes of one example
type Record struct {
	Example string
	Code    int
	Data    int
}

// Dialect describes how a build tool reports sizes
type Dialect struct {
	Name string
	// Marker identifies the line naming the example
	Marker string
	// Code and Data are the prefixes of the lines carrying each size
	Code, Data string

	example func(string) string
}

var (
	// AVRSize matches the output of avr-size as run by the FastArduino
	// makefiles
	AVRSize = Dialect{
		Name:   "avr-size",
		Marker: "avr-size",
		Code:   "Program:",
		Data:   "Data:",
		example: func(line string) string {
			return line[strings.LastIndexByte(line, '/')+1:]
		},
	}

	// ArduinoCLI matches the output of the Arduino IDE build tools
	ArduinoCLI = Dialect{
		Name:   "arduino",
		Marker: "Building... ",
		Code:   "Sketch uses",
		Data:   "Global variables use",
		example: func(line string) string {
			return line[strings.IndexByte(line, ' ')+1:]
		},
	}

	// Dialects lists every known dialect by name
	Dialects = map[string]Dialect{
		AVRSize.Name:    AVRSize,
		ArduinoCLI.Name: ArduinoCLI,
	}
)

var bytesExtractor = regexp.MustCompile(`([0-9]+) bytes`)

func byteCount(line string, n int) (int, error) {
	m := bytesExtractor.FindStringSubmatch(line)
	if m == nil {
		return 0, fmt.Errorf("line %d: no byte count in %q", n, line)
	}
	return strconv.Atoi(m[1])
}

// ParseLog extracts a record for every example found in a build log. Lines
// that are not recognised are ignored.
func ParseLog(r io.Reader, d Dialect) ([]Record, error) {
	var (
		records []Record
		current *Record
	)

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.Contains(line, d.Marker):
			current = &Record{Example: strings.TrimSpace(d.example(line))}
		case strings.HasPrefix(line, d.Code):
			if current == nil {
				return nil, fmt.Errorf("line %d: code size before any example", n)
			}
			code, err := byteCount(line, n)
			if err != nil {
				return nil, err
			}
			current.Code = code
		case strings.HasPrefix(line, d.Data):
			if current == nil {
				return nil, fmt.Errorf("line %d: data size before any example", n)
			}
			data, err := byteCount(line, n)
			if err != nil {
				return nil, err
			}
			current.Data = data
			records = append(records, *current)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// WriteStats writes one example\tcode\tdata line per record
func WriteStats(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%d\n", r.Example, r.Code, r.Data); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadStats reads the output of WriteStats
func ReadStats(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		data := strings.Split(scanner.Text(), "\t")
		if len(data) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns, got %d", n, len(data))
		}
		code, err := strconv.Atoi(strings.TrimSpace(data[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		size, err := strconv.Atoi(strings.TrimSpace(data[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		records = append(records, Record{
			Example: strings.TrimSpace(data[0]),
			Code:    code,
			Data:    size,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
