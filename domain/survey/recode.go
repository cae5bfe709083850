package survey

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeyKind selects how raw cells are matched against a code table.
type KeyKind int

const (
	// KeyText matches the (normalised) cell text.
	KeyText KeyKind = iota
	// KeyInteger matches the cell parsed as a whole number, so "3" and "3.0" share key 3.
	KeyInteger
)

// Normalization is applied to text cells before lookup.
type Normalization int

const (
	NormalizeNone Normalization = iota
	NormalizeTrim
	NormalizeTrimLower
)

// Fallback decides what an unmapped value becomes.
type Fallback int

const (
	// FallbackMissing turns unmapped values into the missing marker.
	FallbackMissing Fallback = iota
	// FallbackTitleCase keeps the trimmed original in title case. Blank and NA spellings stay missing.
	FallbackTitleCase
)

// Outcome reports how a single lookup was resolved.
type Outcome int

const (
	Mapped Outcome = iota
	Unmapped
	FellBack
	Absent
)

// FieldSpec describes one value recode: a closed code table from a source column to a derived column.
type FieldSpec struct {
	Source    string
	Target    string
	Keys      KeyKind
	Normalize Normalization
	// Codes maps normalised keys to display labels. Integer keys are written in decimal ("1", "2").
	Codes    map[string]string
	Fallback Fallback
}

var titleCaser = cases.Title(language.Und)

// Lookup maps one raw cell to its display label.
func (f FieldSpec) Lookup(raw Value) (Value, Outcome) {
	if !raw.Valid {
		return Missing(), Absent
	}
	key, ok := f.key(raw.Text)
	if ok {
		if label, found := f.Codes[key]; found {
			return Text(label), Mapped
		}
	}
	if f.Fallback == FallbackTitleCase {
		cleaned := strings.TrimSpace(raw.Text)
		if IsNA(cleaned) {
			return Missing(), Unmapped
		}
		return Text(titleCaser.String(cleaned)), FellBack
	}
	return Missing(), Unmapped
}

func (f FieldSpec) key(raw string) (string, bool) {
	switch f.Keys {
	case KeyInteger:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return "", false
		}
		return strconv.FormatInt(int64(n), 10), true
	default:
		switch f.Normalize {
		case NormalizeTrim:
			return strings.TrimSpace(raw), true
		case NormalizeTrimLower:
			return strings.ToLower(strings.TrimSpace(raw)), true
		}
		return raw, true
	}
}

// RecodeResult summarises one applied FieldSpec.
type RecodeResult struct {
	Source   string
	Target   string
	Applied  bool
	Mapped   int
	Unmapped int
	FellBack int
}

// Apply writes the derived column. The source column is never modified. A table without the source
// column is left unchanged and the result reports Applied=false.
func (f FieldSpec) Apply(t *Table) RecodeResult {
	res := RecodeResult{Source: f.Source, Target: f.Target}
	src, err := t.Column(f.Source)
	if err != nil {
		return res
	}
	out := make([]Value, len(src))
	for i, v := range src {
		mapped, outcome := f.Lookup(v)
		out[i] = mapped
		switch outcome {
		case Mapped:
			res.Mapped++
		case Unmapped:
			res.Unmapped++
		case FellBack:
			res.FellBack++
		}
	}
	if err := t.SetColumn(f.Target, out); err != nil {
		return res
	}
	res.Applied = true
	return res
}

// CoerceNumeric replaces non-numeric cells of the named columns with the missing marker.
// Absent columns are skipped.
func CoerceNumeric(t *Table, names ...string) {
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			continue
		}
		out := make([]Value, len(col))
		for i, v := range col {
			if f, ok := v.Float(); ok && !math.IsNaN(f) {
				out[i] = Text(strings.TrimSpace(v.Text))
			}
		}
		_ = t.SetColumn(name, out)
	}
}
