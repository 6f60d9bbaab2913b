// Package formatter renders console output: tabwriter tables, card rows,
// colored status badges, and pretty-printed JSON payloads.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders columnar listings (proposal rows, action logs) through a
// tabwriter. Headers and their separator line are emitted lazily on the
// first row, so an empty listing produces no output at all.
type Table struct {
	w             *tabwriter.Writer
	headers       []string
	maxWidth      map[int]int // column index -> max width (0 = unlimited)
	headerWritten bool
}

// NewTable creates a table that writes to w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		w:        tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers:  headers,
		maxWidth: make(map[int]int),
	}
}

// SetMaxWidth caps the display width of a column (0-indexed). Free-text
// columns like proposal titles are truncated with "..." past the cap.
func (t *Table) SetMaxWidth(col, width int) *Table {
	t.maxWidth[col] = width
	return t
}

// AddRow appends a data row. Extra values beyond the header count are
// ignored; missing values render as empty cells.
func (t *Table) AddRow(values ...string) {
	if !t.headerWritten {
		t.headerWritten = true
		t.writeHeader()
	}

	cells := make([]string, len(t.headers))
	for i := range cells {
		if i < len(values) {
			cells[i] = t.truncate(i, values[i])
		}
	}
	//nolint:errcheck // tabwriter output to stdout
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

// Render flushes the underlying tabwriter. Must be called after all
// AddRow calls.
func (t *Table) Render() error {
	return t.w.Flush()
}

func (t *Table) writeHeader() {
	separators := make([]string, len(t.headers))
	for i, h := range t.headers {
		separators[i] = strings.Repeat("-", len(h))
	}
	//nolint:errcheck // tabwriter output to stdout
	fmt.Fprintln(t.w, strings.Join(t.headers, "\t"))
	//nolint:errcheck // tabwriter output to stdout
	fmt.Fprintln(t.w, strings.Join(separators, "\t"))
}

func (t *Table) truncate(col int, s string) string {
	max, ok := t.maxWidth[col]
	if !ok || max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
