package sizes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sheet is a size sheet read back from WriteSheet output
type Sheet struct {
	Targets []string
	sizes   map[string]map[string]Record
}

// Lookup returns the sizes of example for target
func (s *Sheet) Lookup(target, example string) (Record, bool, error) {
	r, ok := s.sizes[example][target]
	return r, ok, nil
}

// ReadSheet reads a size sheet. The first header line names the targets, the
// second is ignored.
func ReadSheet(r io.Reader) (*Sheet, error) {
	s := &Sheet{
		sizes: make(map[string]map[string]Record),
	}

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		data := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
		switch n {
		case 1:
			if len(data) < 2 {
				return nil, errors.New("line 1: missing sheet header")
			}
			for _, t := range data[2:] {
				if t = strings.TrimSpace(t); t != "" {
					s.Targets = append(s.Targets, t)
				}
			}
			continue
		case 2:
			continue
		}

		example := strings.TrimSpace(data[0])
		if example == "" {
			continue
		}
		if len(data) < 2 {
			continue
		}
		info := data[2:]
		m := make(map[string]Record)
		for i, t := range s.Targets {
			if 2*i >= len(info) || strings.TrimSpace(info[2*i]) == "" {
				continue
			}
			if 2*i+1 >= len(info) {
				return nil, fmt.Errorf("line %d: no data size for %s", n, t)
			}
			code, err := strconv.Atoi(strings.TrimSpace(info[2*i]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			size, err := strconv.Atoi(strings.TrimSpace(info[2*i+1]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			m[t] = Record{Example: example, Code: code, Data: size}
		}
		s.sizes[example] = m
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errors.New("empty sheet")
	}

	return s, nil
}

// Percent returns the change from old to cur as a percentage of old, or 0 if
// old is not positive
func Percent(old, cur int) float64 {
	if old <= 0 {
		return 0
	}
	return 100 * float64(cur-old) / float64(old)
}

func diff(old, cur int) string {
	// %.0f rounds half to even
	return fmt.Sprintf("\t%d\t%d\t%.0f", old, cur-old, Percent(old, cur))
}

// WriteComparison writes, for every example and each target of cur, the old
// code and data sizes along with the absolute and relative change. Examples
// missing from either sheet for a target are left blank.
func WriteComparison(w io.Writer, examples []Example, old, cur *Sheet) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("Example")
	for _, t := range cur.Targets {
		fmt.Fprintf(bw, "\t%s\t\t\t\t\t", t)
	}
	bw.WriteString("\n")
	for range cur.Targets {
		bw.WriteString("\tcode\tdiff\tdiff%\tdata\tdiff\tdiff%")
	}
	bw.WriteString("\n")

	for _, e := range examples {
		bw.WriteString(e.Name)
		for _, t := range cur.Targets {
			r1, ok1, _ := old.Lookup(t, e.Name)
			r2, ok2, _ := cur.Lookup(t, e.Name)
			if ok1 && ok2 {
				bw.WriteString(diff(r1.Code, r2.Code))
				bw.WriteString(diff(r1.Data, r2.Data))
			} else {
				bw.WriteString("\t\t\t\t\t\t")
			}
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}
