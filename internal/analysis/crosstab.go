package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"

	"gosurvey/domain/survey"
)

// CrossTab is a two-way table. Cells hold counts, or row percentages after NormalizeRows.
type CrossTab struct {
	RowVar     string      `json:"row_var"`
	ColVar     string      `json:"col_var"`
	Rows       []string    `json:"rows"`
	Cols       []string    `json:"cols"`
	Cells      [][]float64 `json:"cells"`
	Normalized bool        `json:"normalized"`
}

// NewCrossTab counts rows by (rowCol, colCol) over rows where both values are present.
// Labels are sorted; labels that never occur are not listed.
func NewCrossTab(t *survey.Table, rowCol, colCol string) (*CrossTab, error) {
	rv, err := t.Column(rowCol)
	if err != nil {
		return nil, err
	}
	cv, err := t.Column(colCol)
	if err != nil {
		return nil, err
	}

	type key struct{ r, c string }
	counts := make(map[key]float64)
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)
	for i := range rv {
		if !rv[i].Valid || !cv[i].Valid {
			continue
		}
		k := key{Label(rv[i]), Label(cv[i])}
		counts[k]++
		rowSet[k.r] = true
		colSet[k.c] = true
	}

	ct := &CrossTab{
		RowVar: rowCol,
		ColVar: colCol,
		Rows:   sortedLabels(rowSet),
		Cols:   sortedLabels(colSet),
	}
	ct.Cells = make([][]float64, len(ct.Rows))
	for i, r := range ct.Rows {
		ct.Cells[i] = make([]float64, len(ct.Cols))
		for j, c := range ct.Cols {
			ct.Cells[i][j] = counts[key{r, c}]
		}
	}
	return ct, nil
}

func sortedLabels(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return lessLabel(out[i], out[j]) })
	return out
}

// Empty reports whether the table has no cells.
func (c *CrossTab) Empty() bool {
	return c == nil || len(c.Rows) == 0 || len(c.Cols) == 0
}

// Column returns one column across all rows.
func (c *CrossTab) Column(j int) []float64 {
	out := make([]float64, len(c.Rows))
	for i := range c.Rows {
		out[i] = c.Cells[i][j]
	}
	return out
}

// RowTotal sums one row.
func (c *CrossTab) RowTotal(i int) float64 {
	sum := 0.0
	for _, v := range c.Cells[i] {
		sum += v
	}
	return sum
}

// ReindexColumns puts columns in the given order. With zeroFill every label in order is kept,
// absent ones as zero columns; without it, labels that never occurred are dropped.
// Columns not named in order are dropped either way.
func (c *CrossTab) ReindexColumns(order []string, zeroFill bool) *CrossTab {
	pos := indexOf(c.Cols)
	out := c.shell()
	out.Rows = append([]string(nil), c.Rows...)
	for _, label := range order {
		if _, ok := pos[label]; ok || zeroFill {
			out.Cols = append(out.Cols, label)
		}
	}
	out.Cells = make([][]float64, len(out.Rows))
	for i := range out.Rows {
		out.Cells[i] = make([]float64, len(out.Cols))
		for j, label := range out.Cols {
			if src, ok := pos[label]; ok {
				out.Cells[i][j] = c.Cells[i][src]
			}
		}
	}
	return out
}

// ReindexRows keeps only the rows named in order, in that order.
func (c *CrossTab) ReindexRows(order []string) *CrossTab {
	pos := indexOf(c.Rows)
	out := c.shell()
	out.Cols = append([]string(nil), c.Cols...)
	for _, label := range order {
		src, ok := pos[label]
		if !ok {
			continue
		}
		out.Rows = append(out.Rows, label)
		out.Cells = append(out.Cells, append([]float64(nil), c.Cells[src]...))
	}
	return out
}

// NormalizeRows converts each row to percentages of its own total, rounded to one decimal.
// A row with no observations stays all zero.
func (c *CrossTab) NormalizeRows() *CrossTab {
	out := c.shell()
	out.Rows = append([]string(nil), c.Rows...)
	out.Cols = append([]string(nil), c.Cols...)
	out.Normalized = true
	out.Cells = make([][]float64, len(c.Rows))
	for i := range c.Rows {
		total := c.RowTotal(i)
		out.Cells[i] = make([]float64, len(c.Cols))
		if total == 0 {
			continue
		}
		for j, v := range c.Cells[i] {
			pct, _ := stats.Round(v/total*100, 1)
			out.Cells[i][j] = pct
		}
	}
	return out
}

func (c *CrossTab) shell() *CrossTab {
	return &CrossTab{RowVar: c.RowVar, ColVar: c.ColVar, Normalized: c.Normalized}
}

func indexOf(labels []string) map[string]int {
	m := make(map[string]int, len(labels))
	for i, l := range labels {
		m[l] = i
	}
	return m
}

// Group is one (a, b) combination with its row count.
type Group struct {
	A string `json:"a"`
	B string `json:"b"`
	N int    `json:"n"`
}

// GroupSizes counts rows per observed (a, b) combination, ordered by a then b.
func GroupSizes(t *survey.Table, a, b string) ([]Group, error) {
	ct, err := NewCrossTab(t, a, b)
	if err != nil {
		return nil, err
	}
	var groups []Group
	for i, r := range ct.Rows {
		for j, c := range ct.Cols {
			if n := ct.Cells[i][j]; n > 0 {
				groups = append(groups, Group{A: r, B: c, N: int(n)})
			}
		}
	}
	return groups, nil
}
