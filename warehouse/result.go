package warehouse

import (
	"fmt"
	"strings"
)

// Result is ordered, column-named query output. It is produced fresh
// per query and owned by the caller.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Empty returns a result with no columns and no rows, used to keep a
// variable bound after a failed query.
func Empty() *Result {
	return &Result{}
}

// Len returns the number of rows.
func (r *Result) Len() int {
	return len(r.Rows)
}

// Format renders the result as an ASCII table. At most limit rows are
// shown (limit <= 0 shows everything); a truncated render ends with a
// "showing N of M rows" notice instead of the usual row count.
func (r *Result) Format(limit int) string {
	if len(r.Columns) == 0 {
		return "(0 rows)\n"
	}

	rows := r.Rows
	truncated := false
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		truncated = true
	}

	widths := make([]int, len(r.Columns))
	for i, c := range r.Columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	sep := buildSeparator(widths)

	b.WriteString(sep)
	b.WriteByte('|')
	for i, c := range r.Columns {
		fmt.Fprintf(&b, " %-*s |", widths[i], c)
	}
	b.WriteByte('\n')
	b.WriteString(sep)

	for _, row := range rows {
		b.WriteByte('|')
		for i, cell := range row {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteByte('\n')
	}

	b.WriteString(sep)

	if truncated {
		fmt.Fprintf(&b, "... showing %d of %d rows\n", len(rows), len(r.Rows))
	} else if len(rows) == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", len(rows))
	}

	return b.String()
}

func buildSeparator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		for j := 0; j < w+2; j++ {
			b.WriteByte('-')
		}
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}
