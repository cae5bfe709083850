package survey

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrColumnMissing is returned when a column lookup names a column the table does not carry.
var ErrColumnMissing = errors.New("column missing")

// naTokens are the cell spellings spreadsheet and dataframe exports use for "no value".
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// IsNA reports whether a raw cell is blank or one of the usual missing-value spellings.
func IsNA(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	_, ok := naTokens[s]
	return ok
}

// Value is a single response cell. A Value with Valid=false is the missing marker.
type Value struct {
	Text  string
	Valid bool
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// Text wraps a present value.
func Text(s string) Value { return Value{Text: s, Valid: true} }

// Float parses the cell as a finite number. Missing, non-numeric, NaN and infinite cells report false.
func (v Value) Float() (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (v Value) String() string {
	if !v.Valid {
		return "<NA>"
	}
	return v.Text
}

// Table is a column-ordered response table, one row per respondent.
// Columns are stored column-major so derived columns can be appended without touching existing ones.
type Table struct {
	columns []string
	index   map[string]int
	cells   [][]Value
	rows    int
}

// NewTable builds a table from a header row and raw string records. Blank cells and NA spellings
// become missing, short records are padded with missing and extra trailing cells are dropped.
// A repeated header is renamed name.1, name.2 and so on, so every column stays addressable.
func NewTable(headers []string, records [][]string) *Table {
	t := &Table{
		columns: make([]string, 0, len(headers)),
		index:   make(map[string]int, len(headers)),
		rows:    len(records),
	}
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if _, dup := t.index[name]; dup {
			base := name
			for {
				seen[base]++
				name = fmt.Sprintf("%s.%d", base, seen[base])
				if _, taken := t.index[name]; !taken {
					break
				}
			}
		}
		col := make([]Value, len(records))
		for r, rec := range records {
			if i < len(rec) && !IsNA(rec[i]) {
				col[r] = Text(rec[i])
			}
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, name)
		t.cells = append(t.cells, col)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether every named column is present.
func (t *Table) Has(names ...string) bool {
	if t == nil {
		return false
	}
	for _, n := range names {
		if _, ok := t.index[n]; !ok {
			return false
		}
	}
	return true
}

// Column returns the cells of a column. The slice must not be modified.
func (t *Table) Column(name string) ([]Value, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnMissing, name)
	}
	return t.cells[i], nil
}

// Cell returns one value, or missing when the column is absent.
func (t *Table) Cell(row int, name string) Value {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return Missing()
	}
	return t.cells[i][row]
}

// SetColumn adds a column at the end, or replaces an existing column in place.
func (t *Table) SetColumn(name string, values []Value) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), t.rows)
	}
	if i, ok := t.index[name]; ok {
		t.cells[i] = values
		return nil
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	t.cells = append(t.cells, values)
	return nil
}

// Rename applies a header → internal-name map. Headers not present are skipped, a target that already
// exists leaves the source untouched, and column order is preserved. Returns the number of renamed columns.
func (t *Table) Rename(mapping map[string]string) int {
	renamed := 0
	for i, name := range t.columns {
		target, ok := mapping[name]
		if !ok || target == name {
			continue
		}
		if _, taken := t.index[target]; taken {
			continue
		}
		delete(t.index, name)
		t.index[target] = i
		t.columns[i] = target
		renamed++
	}
	return renamed
}

// Filter returns a copy holding only the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var selected []int
	for r := 0; r < t.rows; r++ {
		if keep(r) {
			selected = append(selected, r)
		}
	}
	out := &Table{
		columns: t.Columns(),
		index:   make(map[string]int, len(t.index)),
		cells:   make([][]Value, len(t.cells)),
		rows:    len(selected),
	}
	for name, i := range t.index {
		out.index[name] = i
	}
	for c, col := range t.cells {
		dst := make([]Value, len(selected))
		for j, r := range selected {
			dst[j] = col[r]
		}
		out.cells[c] = dst
	}
	return out
}

// Present returns a filter predicate keeping rows where every named column has a value.
func (t *Table) Present(names ...string) func(row int) bool {
	return func(row int) bool {
		for _, n := range names {
			if !t.Cell(row, n).Valid {
				return false
			}
		}
		return true
	}
}
