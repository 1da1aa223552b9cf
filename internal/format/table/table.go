package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const gutter = "  "

// Format returns the rows padded to the widest cell of each column, measured
// in terminal cells. The last column is never padded on the right.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	var widths []int
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], ansi.StringWidth(cell))
		}
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString(gutter)
			}
			pad := strings.Repeat(" ", max(widths[c]-ansi.StringWidth(cell), 0))
			switch {
			case c < len(alignments) && alignments[c] == AlignRight:
				b.WriteString(pad)
				b.WriteString(cell)
			case c == len(row)-1:
				b.WriteString(cell)
			default:
				b.WriteString(cell)
				b.WriteString(pad)
			}
		}
		out[i] = b.String()
	}
	return out
}

// Write formats header and rows together and writes one line per row.
func Write(w io.Writer, header []string, rows [][]string, alignments []Alignment) error {
	all := rows
	if header != nil {
		all = append([][]string{header}, rows...)
	}
	for _, line := range Format(all, alignments) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
