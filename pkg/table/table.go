package table

import (
	"math"
	"strconv"
	"strings"
)

// Table is a named rectangular grid of string cells.
//
// Rows always hold exactly len(Columns) cells; short input rows are padded
// with "" when appended.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New creates an empty table with the given column names.
// Duplicate column names resolve to the first occurrence.
func New(name string, columns []string) *Table {
	t := &Table{Name: name, Columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the table has a column named col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Index returns the position of col, or -1 when the column does not exist.
func (t *Table) Index(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}
	return -1
}

// Missing returns the names in cols that are not columns of t, in order.
func (t *Table) Missing(cols ...string) []string {
	var out []string
	for _, c := range cols {
		if !t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Value returns the cell at row and col, or "" when the column is unknown
// or the row is out of range.
func (t *Table) Value(row int, col string) string {
	i := t.Index(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][i]
}

// Float parses the cell at row and col as a number.
// Empty or non-numeric cells return (NaN, false).
func (t *Table) Float(row int, col string) (float64, bool) {
	return ParseFloat(t.Value(row, col))
}

// ParseFloat parses a cell value as a finite number, accepting surrounding
// whitespace and a decimal comma. NaN and infinities are rejected.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f, err = strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return math.NaN(), false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.NaN(), false
	}
	return f, true
}

// Append adds a row, padding or truncating it to the column count.
func (t *Table) Append(row []string) {
	r := make([]string, len(t.Columns))
	copy(r, row)
	t.Rows = append(t.Rows, r)
}

// AddColumn appends a column filled with def and returns its index.
// If the column already exists its index is returned unchanged.
func (t *Table) AddColumn(name, def string) int {
	if i := t.Index(name); i >= 0 {
		return i
	}
	t.Columns = append(t.Columns, name)
	t.index[name] = len(t.Columns) - 1
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], def)
	}
	return len(t.Columns) - 1
}

// DeleteColumn removes a column. Unknown names are ignored.
func (t *Table) DeleteColumn(name string) {
	i := t.Index(name)
	if i < 0 {
		return
	}
	t.Columns = append(t.Columns[:i:i], t.Columns[i+1:]...)
	for r, row := range t.Rows {
		t.Rows[r] = append(row[:i:i], row[i+1:]...)
	}
	t.reindex()
}

// Set stores v at row and col, adding the column when it does not exist.
func (t *Table) Set(row int, col, v string) {
	i := t.AddColumn(col, "")
	t.Rows[row][i] = v
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := New(t.Name, t.Columns)
	c.Rows = make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		c.Rows[i] = append([]string(nil), r...)
	}
	return c
}

// Select returns a new table holding only the given rows, in order.
func (t *Table) Select(rows []int) *Table {
	c := New(t.Name, t.Columns)
	c.Rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		c.Rows = append(c.Rows, append([]string(nil), t.Rows[r]...))
	}
	return c
}
