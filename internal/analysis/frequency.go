package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gosurvey/domain/survey"
)

// Count is the number of rows carrying one label.
type Count struct {
	Label string `json:"label"`
	N     int    `json:"n"`
}

// Counts is an ordered frequency table.
type Counts []Count

// Labels returns the labels in display order.
func (c Counts) Labels() []string {
	out := make([]string, len(c))
	for i, x := range c {
		out[i] = x.Label
	}
	return out
}

// Values returns the counts as floats, in display order.
func (c Counts) Values() []float64 {
	out := make([]float64, len(c))
	for i, x := range c {
		out[i] = float64(x.N)
	}
	return out
}

// Total sums all counts.
func (c Counts) Total() int {
	n := 0
	for _, x := range c {
		n += x.N
	}
	return n
}

// Reindex returns the counts in the given order. Labels missing from the table get zero,
// labels not named in order are dropped.
func (c Counts) Reindex(order []string) Counts {
	byLabel := make(map[string]int, len(c))
	for _, x := range c {
		byLabel[x.Label] = x.N
	}
	out := make(Counts, len(order))
	for i, label := range order {
		out[i] = Count{Label: label, N: byLabel[label]}
	}
	return out
}

// Frequency counts each distinct non-missing value of col, most frequent first.
// Ties keep the order of first appearance.
func Frequency(t *survey.Table, col string) (Counts, error) {
	counts, err := tally(t, col)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].N > counts[j].N })
	return counts, nil
}

// FrequencyByKey counts like Frequency but orders by label, numerically when labels are numbers.
func FrequencyByKey(t *survey.Table, col string) (Counts, error) {
	counts, err := tally(t, col)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(counts, func(i, j int) bool { return lessLabel(counts[i].Label, counts[j].Label) })
	return counts, nil
}

func tally(t *survey.Table, col string) (Counts, error) {
	values, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int)
	var counts Counts
	for _, v := range values {
		if !v.Valid {
			continue
		}
		label := Label(v)
		if i, ok := pos[label]; ok {
			counts[i].N++
			continue
		}
		pos[label] = len(counts)
		counts = append(counts, Count{Label: label, N: 1})
	}
	return counts, nil
}

// IndicatorCounts counts, per 0/1 indicator column, the rows equal to 1. Absent indicator columns
// are skipped; if none is present the error wraps survey.ErrColumnMissing. Result is sorted by count.
func IndicatorCounts(t *survey.Table, indicators []survey.Indicator) (Counts, error) {
	var counts Counts
	for _, ind := range indicators {
		values, err := t.Column(ind.Column)
		if err != nil {
			continue
		}
		n := 0
		for _, v := range values {
			if f, ok := v.Float(); ok && f == 1 {
				n++
			}
		}
		counts = append(counts, Count{Label: ind.Label, N: n})
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: no indicator columns", survey.ErrColumnMissing)
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].N > counts[j].N })
	return counts, nil
}

// Label returns the grouping label of a cell. Numeric text is canonicalised so "5" and "5.0"
// fall into the same group.
func Label(v survey.Value) string {
	s := strings.TrimSpace(v.Text)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return v.Text
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// lessLabel orders numeric labels numerically and before any text label.
func lessLabel(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// SortLabels sorts labels in place, numerically when they are numbers.
func SortLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool { return lessLabel(labels[i], labels[j]) })
}
