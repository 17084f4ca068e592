package sizes

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Example names an example program and describes it
type Example struct {
	Name        string
	Description string
}

// ReadExamples reads a list of examples, one name\tdescription per line.
// The description is optional.
func ReadExamples(r io.Reader) ([]Example, error) {
	var examples []Example

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		data := strings.SplitN(line, "\t", 2)
		e := Example{Name: strings.TrimSpace(data[0])}
		if len(data) > 1 {
			e.Description = strings.TrimRightFunc(data[1], func(r rune) bool {
				return r == ' ' || r == '\t'
			})
		}
		examples = append(examples, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return examples, nil
}

// Lookup returns the sizes of an example built for a target, ok is false if
// there are none
type Lookup func(target, example string) (r Record, ok bool, err error)

// StatsLookup returns a Lookup over stats already read for each target
func StatsLookup(stats map[string][]Record) Lookup {
	index := make(map[string]map[string]Record, len(stats))
	for target, records := range stats {
		m := make(map[string]Record, len(records))
		for _, r := range records {
			m[r.Example] = r
		}
		index[target] = m
	}
	return func(target, example string) (Record, bool, error) {
		r, ok := index[target][example]
		return r, ok, nil
	}
}

// WriteSheet writes one row per example with its code and data sizes for
// each target. Sizes that lookup cannot find are left blank.
func WriteSheet(w io.Writer, examples []Example, targets []string, lookup Lookup) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("Example\tDescription")
	for _, t := range targets {
		fmt.Fprintf(bw, "\t%s\t", t)
	}
	bw.WriteString("\n\t")
	for range targets {
		bw.WriteString("\tcode\tdata")
	}
	bw.WriteString("\n")

	for _, e := range examples {
		fmt.Fprintf(bw, "%s\t%s", e.Name, e.Description)
		for _, t := range targets {
			r, ok, err := lookup(t, e.Name)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(bw, "\t%d\t%d", r.Code, r.Data)
			} else {
				bw.WriteString("\t\t")
			}
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}
