// Package table implements a row-oriented table with ordered columns
// and CSV serialization. Tables from different models may carry
// different column sets (e.g. a different number of site classes);
// concatenation unions the columns and leaves missing cells blank.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Cell is a single named value of a row.
type Cell struct {
	Col string
	Val string
}

// Row is an ordered sequence of cells.
type Row []Cell

// Table stores rows with a shared ordered column set. A blank cell
// means the value was not computed for that row's model, which is
// distinct from a literal zero.
type Table struct {
	cols []string
	rows []map[string]string
}

// New creates an empty table with an initial column order.
func New(cols ...string) *Table {
	t := &Table{cols: make([]string, len(cols))}
	copy(t.cols, cols)
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return t.cols
}

// NRows returns the number of rows.
func (t *Table) NRows() int {
	return len(t.rows)
}

func (t *Table) hasCol(col string) bool {
	for _, c := range t.cols {
		if c == col {
			return true
		}
	}
	return false
}

func (t *Table) addCol(col string) {
	if !t.hasCol(col) {
		t.cols = append(t.cols, col)
	}
}

// Append adds a row; columns not seen before are appended to the
// column order.
func (t *Table) Append(r Row) {
	m := make(map[string]string, len(r))
	for _, c := range r {
		t.addCol(c.Col)
		m[c.Col] = c.Val
	}
	t.rows = append(t.rows, m)
}

// Concat appends all rows of o, unioning the column sets.
func (t *Table) Concat(o *Table) {
	if o == nil {
		return
	}
	for _, c := range o.cols {
		t.addCol(c)
	}
	t.rows = append(t.rows, o.rows...)
}

// Cell returns the value at row i, column col; missing cells are
// blank.
func (t *Table) Cell(i int, col string) string {
	return t.rows[i][col]
}

// SetCell sets the value at row i, column col, extending the column
// order if needed.
func (t *Table) SetCell(i int, col, val string) {
	t.addCol(col)
	t.rows[i][col] = val
}

// Drop removes columns from the table.
func (t *Table) Drop(cols ...string) {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	kept := t.cols[:0]
	for _, c := range t.cols {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	t.cols = kept
	for _, r := range t.rows {
		for c := range drop {
			delete(r, c)
		}
	}
}

// Write writes the table in CSV format.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.cols); err != nil {
		return err
	}
	rec := make([]string, len(t.cols))
	for _, r := range t.rows {
		for i, c := range t.cols {
			rec[i] = r[c]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table in CSV format to a file.
func (t *Table) WriteFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Write(f)
}

// Read parses a CSV file produced by Write back into a table.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("empty csv input")
	}
	t := New(recs[0]...)
	for _, rec := range recs[1:] {
		row := make(Row, 0, len(rec))
		for i, v := range rec {
			row = append(row, Cell{recs[0][i], v})
		}
		t.Append(row)
	}
	return t, nil
}

// ReadFile parses a CSV file from disk.
func ReadFile(fn string) (*Table, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Float formats a float for a table cell.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Int formats an integer for a table cell.
func Int(v int) string {
	return strconv.Itoa(v)
}
