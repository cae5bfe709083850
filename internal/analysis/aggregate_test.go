package analysis

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosurvey/domain/survey"
)

func column(name string, values ...string) *survey.Table {
	records := make([][]string, len(values))
	for i, v := range values {
		records[i] = []string{v}
	}
	return survey.NewTable([]string{name}, records)
}

func TestFrequencyOrdersByCountThenFirstAppearance(t *testing.T) {
	table := column("feeling", "Ansioso", "Otimista", "Otimista", "Cético", "", "Ansioso", "Indiferente")

	got, err := Frequency(table, "feeling")
	require.NoError(t, err)

	want := Counts{
		{Label: "Ansioso", N: 2},
		{Label: "Otimista", N: 2},
		{Label: "Cético", N: 1},
		{Label: "Indiferente", N: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Frequency mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequencyByKeySortsNumerically(t *testing.T) {
	table := column("k", "10", "2", "2.0", "1", "10")

	got, err := FrequencyByKey(table, "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "10"}, got.Labels())
	assert.Equal(t, []float64{1, 2, 2}, got.Values())
}

func TestFrequencyByKeyDropsNaNSpellings(t *testing.T) {
	table := column("k", "5", "nan", "NaN", "5", "N/A", "8")

	got, err := FrequencyByKey(table, "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "8"}, got.Labels())
	assert.Equal(t, 3, got.Total())
}

func TestReindexZeroFills(t *testing.T) {
	table := column("likert", "Neutro", "Concordo", "Neutro")

	counts, err := Frequency(table, "likert")
	require.NoError(t, err)

	got := counts.Reindex(survey.LikertOrder)
	assert.Equal(t, survey.LikertOrder, got.Labels())
	assert.Equal(t, []float64{0, 0, 2, 1, 0}, got.Values())
	assert.Equal(t, 3, got.Total())
}

func TestFrequencyMissingColumn(t *testing.T) {
	_, err := Frequency(column("a", "x"), "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, survey.ErrColumnMissing))
}

func TestCrossTabAndNormalize(t *testing.T) {
	table := survey.NewTable([]string{"g", "k"}, [][]string{
		{"Feminino", "5"},
		{"Feminino", "5"},
		{"Feminino", "7"},
		{"Masculino", "7"},
		{"Masculino", ""},
		{"", "5"},
	})

	ct, err := NewCrossTab(table, "g", "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"Feminino", "Masculino"}, ct.Rows)
	assert.Equal(t, []string{"5", "7"}, ct.Cols)
	assert.Equal(t, [][]float64{{2, 1}, {0, 1}}, ct.Cells)

	pct := ct.NormalizeRows()
	assert.True(t, pct.Normalized)
	assert.Equal(t, []float64{66.7, 33.3}, pct.Cells[0])
	assert.Equal(t, []float64{0, 100}, pct.Cells[1])
	for i := range pct.Rows {
		assert.InDelta(t, 100, pct.RowTotal(i), 0.1)
	}
	// source table keeps its counts
	assert.Equal(t, []float64{2, 1}, ct.Cells[0])
}

func TestCrossTabReindex(t *testing.T) {
	table := survey.NewTable([]string{"r", "c"}, [][]string{
		{"Médio", "Alto (4)"},
		{"Baixo", "Muito Baixo (1)"},
		{"Outro", "Alto (4)"},
	})
	ct, err := NewCrossTab(table, "r", "c")
	require.NoError(t, err)

	filled := ct.ReindexColumns(survey.UsageOrder, true)
	assert.Equal(t, survey.UsageOrder, filled.Cols)
	assert.Len(t, filled.Cells[0], len(survey.UsageOrder))

	sparse := ct.ReindexColumns(survey.UsageOrder, false)
	assert.Equal(t, []string{"Muito Baixo (1)", "Alto (4)"}, sparse.Cols)

	rows := ct.ReindexRows(survey.KnowledgeBandOrder)
	assert.Equal(t, []string{"Baixo", "Médio"}, rows.Rows)
	assert.Equal(t, []float64{1, 0}, rows.Cells[1])
}

func TestGroupSizes(t *testing.T) {
	table := survey.NewTable([]string{"s", "k"}, [][]string{
		{"Otimista", "8"}, {"Otimista", "8"}, {"Ansioso", "3"}, {"Otimista", "10"},
	})

	groups, err := GroupSizes(table, "s", "k")
	require.NoError(t, err)
	assert.Equal(t, []Group{
		{A: "Ansioso", B: "3", N: 1},
		{A: "Otimista", B: "8", N: 2},
		{A: "Otimista", B: "10", N: 1},
	}, groups)
}

func TestIndicatorCounts(t *testing.T) {
	table := survey.NewTable([]string{"Q2#1.Internet", "Q2#3.Social_media"}, [][]string{
		{"1", "1"}, {"1", "0"}, {"0", ""}, {"1.0", "1"},
	})

	got, err := IndicatorCounts(table, survey.SourceIndicators)
	require.NoError(t, err)
	assert.Equal(t, Counts{{Label: "Internet", N: 3}, {Label: "Redes Sociais", N: 2}}, got)

	_, err = IndicatorCounts(column("x", "1"), survey.SourceIndicators)
	assert.True(t, errors.Is(err, survey.ErrColumnMissing))
}
