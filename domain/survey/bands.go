package survey

import "strings"

// Usage categories for the 1–5 AI-product usage rating, lowest band first.
var UsageOrder = []string{"Muito Baixo (1)", "Baixo (2)", "Médio (3)", "Alto (4)", "Muito Alto (5)"}

// Knowledge bands shown on charts. "Outro" is assigned but never charted.
var KnowledgeBandOrder = []string{"Baixo", "Médio", "Alto"}

const KnowledgeBandOther = "Outro"

var knowledgeBands = map[string]string{
	"I have no knowledge":              "Baixo",
	"I've heard a little about it":     "Baixo",
	"I have basic knowledge":           "Médio",
	"I have a good level of knowledge": "Alto",
}

// UsageCategory bins a usage rating into right-closed intervals (0,1], (1,2] … (4,5], with 0 itself
// included in the lowest bin. Values outside [0,5] and non-numeric cells become missing.
func UsageCategory(v Value) Value {
	f, ok := v.Float()
	if !ok || f < 0 || f > 5 {
		return Missing()
	}
	for i := range UsageOrder {
		if f <= float64(i+1) {
			return Text(UsageOrder[i])
		}
	}
	return Missing()
}

// KnowledgeBand groups the self-reported knowledge answer into Baixo/Médio/Alto, anything else is Outro.
func KnowledgeBand(v Value) Value {
	if !v.Valid {
		return Text(KnowledgeBandOther)
	}
	if band, ok := knowledgeBands[strings.TrimSpace(v.Text)]; ok {
		return Text(band)
	}
	return Text(KnowledgeBandOther)
}

// Derive applies fn cell by cell from source into a new target column. Returns false when the
// source column is absent.
func Derive(t *Table, source, target string, fn func(Value) Value) bool {
	col, err := t.Column(source)
	if err != nil {
		return false
	}
	out := make([]Value, len(col))
	for i, v := range col {
		out[i] = fn(v)
	}
	return t.SetColumn(target, out) == nil
}
