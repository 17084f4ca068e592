package sizes

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Table describes one documentation table: the tag marking it and the
// programs compared, each with its column label
type Table struct {
	Tag      string
	Labels   []string
	Programs []string
}

// ReadTables reads table descriptions, one tag\tlabel\tprogram[\tlabel\tprogram...]
// per line
func ReadTables(r io.Reader) ([]Table, error) {
	var tables []Table

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		data := strings.Split(line, "\t")
		t := Table{Tag: strings.TrimSpace(data[0])}
		for i := 1; i+1 < len(data); i += 2 {
			t.Labels = append(t.Labels, strings.TrimSpace(data[i]))
			t.Programs = append(t.Programs, strings.TrimSpace(data[i+1]))
		}
		tables = append(tables, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

// FormatSize renders a size in bytes
func FormatSize(size int) string {
	if size == 0 || size == 1 {
		return fmt.Sprintf("%d byte", size)
	}
	return fmt.Sprintf("%d bytes", size)
}

const (
	tagFormat  = "//! [%s]\n"
	headFormat = "\t\t<th class=\"markdownTableHeadNone\">%s</th>"
	cellFormat = "\t\t<td class=\"markdownTableBodyNone\">%s</td>"
)

func row(class, label string, cells []string) string {
	return fmt.Sprintf("\n\t<tr class=\"markdownTableBody\" class=\"%s\">\n"+cellFormat+"\n%s\n\t</tr>", class, label, strings.Join(cells, "\n"))
}

// WriteTables writes an HTML table comparing the code and data sizes of the
// programs of each table, between a pair of tag markers. Every program must
// be in sizes.
func WriteTables(w io.Writer, tables []Table, sizes []Record) error {
	index := make(map[string]Record, len(sizes))
	for _, r := range sizes {
		index[r.Example] = r
	}

	bw := bufio.NewWriter(w)
	for _, t := range tables {
		heads := make([]string, len(t.Labels))
		codes := make([]string, len(t.Programs))
		datas := make([]string, len(t.Programs))
		for i, p := range t.Programs {
			r, ok := index[p]
			if !ok {
				return fmt.Errorf("table %s: no sizes for %q", t.Tag, p)
			}
			heads[i] = fmt.Sprintf(headFormat, t.Labels[i])
			codes[i] = fmt.Sprintf(cellFormat, FormatSize(r.Code))
			datas[i] = fmt.Sprintf(cellFormat, FormatSize(r.Data))
		}

		fmt.Fprintf(bw, tagFormat, t.Tag)
		bw.WriteString("<table class=\"markdownTable\">")
		bw.WriteString("\n\t<tr class=\"markdownTableHead\">\n\t\t<th class=\"markdownTableHeadNone\"></th>\n")
		bw.WriteString(strings.Join(heads, "\n"))
		bw.WriteString("\n\t</tr>")
		bw.WriteString(row("markdownTableRowOdd", "code size", codes))
		bw.WriteString(row("markdownTableRowEven", "data size", datas))
		bw.WriteString("\n</table>\n")
		fmt.Fprintf(bw, tagFormat, t.Tag)
		bw.WriteString("\n")
	}

	return bw.Flush()
}
