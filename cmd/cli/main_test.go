package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosurvey/internal"
	"gosurvey/internal/analysis"
	"gosurvey/internal/dashboard"
	"gosurvey/internal/dataset"
	"gosurvey/internal/render"
)

func TestWriteCrossTab(t *testing.T) {
	ct := &analysis.CrossTab{
		RowVar: "Gênero", Rows: []string{"Feminino", "Masculino"},
		Cols:  []string{"1", "2"},
		Cells: [][]float64{{25, 75}, {50, 50}}, Normalized: true,
	}
	var buf bytes.Buffer
	require.NoError(t, writeData(&buf, dashboard.Data{Table: ct}))
	assert.Contains(t, buf.String(), "75.0%")
	assert.Contains(t, buf.String(), "Masculino")
}

func TestRunSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Survey_AI.csv")
	require.NoError(t, os.WriteFile(path, []byte("Q1.AI_knowledge,Q5.Feelings\n4,1\n6,2\n4,1\n"), 0o644))

	log := internal.NewNopLogger()
	content, err := dashboard.LoadContent()
	require.NoError(t, err)
	dash := dashboard.New(
		dataset.NewLoader(dataset.WithLogger(log)),
		[]dataset.Source{
			{Instrument: "survey", Kind: dataset.KindFile, Locator: path},
			{Instrument: "impact", Kind: dataset.KindFile, Locator: filepath.Join(t.TempDir(), "absent.csv")},
		},
		render.NewRenderer(render.DefaultTheme(), log),
		content,
		dashboard.WithLogger(log),
	)

	var buf bytes.Buffer
	require.NoError(t, runSummary(context.Background(), &buf, dash, ""))
	out := buf.String()
	assert.Contains(t, out, "1. Distribuição do Nível de Conhecimento sobre IA (Q1)")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "Impact_AI_v2.csv")

	buf.Reset()
	require.NoError(t, runSummary(context.Background(), &buf, dash, "impact"))
	assert.NotContains(t, buf.String(), "Pesquisa Acadêmica")
}
