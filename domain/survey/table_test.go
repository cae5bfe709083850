package survey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameIsIdempotentAndOrderPreserving(t *testing.T) {
	table := NewTable([]string{"id", "Q1.AI_knowledge", "Q16.GPA"}, [][]string{{"1", "5", "3.1"}})

	n := table.Rename(AcademicSurvey.Renames)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"id", ColKnowledge, ColGPA}, table.Columns())

	n = table.Rename(AcademicSurvey.Renames)
	assert.Equal(t, 0, n)
	assert.Equal(t, []string{"id", ColKnowledge, ColGPA}, table.Columns())
	assert.Equal(t, Text("5"), table.Cell(0, ColKnowledge))
}

func TestColumnMissing(t *testing.T) {
	table := NewTable([]string{"a"}, nil)

	_, err := table.Column("b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnMissing))
	assert.False(t, table.Has("a", "b"))
	assert.True(t, table.Has("a"))
}

func TestNewTablePadsShortRecords(t *testing.T) {
	table := NewTable([]string{" a ", "b"}, [][]string{{"1"}, {"2", "x", "extra"}})

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"a", "b"}, table.Columns())
	assert.Equal(t, Missing(), table.Cell(0, "b"))
	assert.Equal(t, Text("x"), table.Cell(1, "b"))
}

func TestNewTableTreatsNASpellingsAsMissing(t *testing.T) {
	table := NewTable([]string{"a"}, [][]string{{"nan"}, {" NaN "}, {"N/A"}, {"None"}, {"<NA>"}, {"null"}, {"Nancy"}, {"0"}})

	for row := 0; row < 6; row++ {
		assert.Equal(t, Missing(), table.Cell(row, "a"), "row %d", row)
	}
	assert.Equal(t, Text("Nancy"), table.Cell(6, "a"))
	assert.Equal(t, Text("0"), table.Cell(7, "a"))
}

func TestFloatRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "-inf", "+Infinity", "1e400"} {
		_, ok := Text(raw).Float()
		assert.False(t, ok, "raw %q", raw)
	}
	f, ok := Text(" 3.5 ").Float()
	require.True(t, ok)
	assert.Equal(t, 3.5, f)
}

func TestNewTableNumbersDuplicateHeaders(t *testing.T) {
	table := NewTable([]string{"a", "b", "a", " a ", "a.1"}, [][]string{{"1", "2", "3", "4", "5"}})

	assert.Equal(t, []string{"a", "b", "a.1", "a.2", "a.1.1"}, table.Columns())
	assert.Equal(t, Text("1"), table.Cell(0, "a"))
	assert.Equal(t, Text("3"), table.Cell(0, "a.1"))
	assert.Equal(t, Text("4"), table.Cell(0, "a.2"))
	assert.Equal(t, Text("5"), table.Cell(0, "a.1.1"))
}

func TestFilterReturnsCopy(t *testing.T) {
	table := NewTable([]string{"a", "b"}, [][]string{{"1", ""}, {"2", "y"}, {"3", "z"}})

	filtered := table.Filter(table.Present("b"))
	require.Equal(t, 2, filtered.Len())
	assert.Equal(t, Text("2"), filtered.Cell(0, "a"))

	require.NoError(t, filtered.SetColumn("c", []Value{Text("p"), Text("q")}))
	assert.False(t, table.Has("c"))
	assert.Equal(t, 3, table.Len())
}

func TestUsageCategory(t *testing.T) {
	tests := map[string]Value{
		"0":   Text("Muito Baixo (1)"),
		"1":   Text("Muito Baixo (1)"),
		"1.5": Text("Baixo (2)"),
		"3":   Text("Médio (3)"),
		"4":   Text("Alto (4)"),
		"5":   Text("Muito Alto (5)"),
		"6":   Missing(),
		"-1":  Missing(),
		"abc": Missing(),
	}
	for raw, want := range tests {
		assert.Equal(t, want, UsageCategory(Text(raw)), "raw %q", raw)
	}
}

func TestKnowledgeBand(t *testing.T) {
	assert.Equal(t, Text("Baixo"), KnowledgeBand(Text("I've heard a little about it")))
	assert.Equal(t, Text("Médio"), KnowledgeBand(Text(" I have basic knowledge ")))
	assert.Equal(t, Text("Alto"), KnowledgeBand(Text("I have a good level of knowledge")))
	assert.Equal(t, Text(KnowledgeBandOther), KnowledgeBand(Text("expert")))
	assert.Equal(t, Text(KnowledgeBandOther), KnowledgeBand(Missing()))
}

func TestPrepareImpactSurvey(t *testing.T) {
	headers := []string{
		"Do you generally trust artificial intelligence (AI)?",
		"What is your occupation? (optional)",
		"Please rate how actively you use AI-powered products in your daily life on a scale from 1 to 5.",
		"How often do you use technological devices?",
	}
	table := NewTable(headers, [][]string{
		{"I trust it ", "engineer", "4", "Between 2 to 5 hours per day"},
		{"I'm undecided", "Baker", "x", "All day"},
	})

	rep := ImpactSurvey.Prepare(table)
	assert.Equal(t, 4, rep.Renamed)
	assert.Contains(t, rep.Derived, ColUsageCategory)

	assert.Equal(t, Text("Confio"), table.Cell(0, Desc(ColTrust)))
	assert.Equal(t, Text("Neutro"), table.Cell(1, Desc(ColTrust)))
	assert.Equal(t, Text("Engenheiro(a)"), table.Cell(0, Desc(ColProfession)))
	assert.Equal(t, Text("Baker"), table.Cell(1, Desc(ColProfession)))
	assert.Equal(t, Text("Alto (4)"), table.Cell(0, ColUsageCategory))
	assert.Equal(t, Missing(), table.Cell(1, ColUsageCategory))
	assert.Equal(t, Text("2 a 5 horas por dia"), table.Cell(0, Desc(ColDeviceFrequency)))
	assert.Equal(t, Missing(), table.Cell(1, Desc(ColDeviceFrequency)))
}
