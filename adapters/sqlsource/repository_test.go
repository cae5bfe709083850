package sqlsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosurvey/domain/survey"
	"gosurvey/internal"
	"gosurvey/internal/errors"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	db.MustExecContext(ctx, `CREATE TABLE survey_ai ("Q1.AI_knowledge" INTEGER, "Q5.Feelings" INTEGER, "Q16.GPA" REAL, "Q14.Major" TEXT)`)
	db.MustExecContext(ctx, `INSERT INTO survey_ai VALUES (5, 1, 3.5, 'x'), (8, 4, NULL, NULL), (2, 9, 2.75, '1')`)

	repo := NewRepository(db, internal.NewNopLogger())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestQueryTable(t *testing.T) {
	repo := newTestRepository(t)

	table, err := repo.QueryTable(context.Background(), "SELECT * FROM survey_ai")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"Q1.AI_knowledge", "Q5.Feelings", "Q16.GPA", "Q14.Major"}, table.Columns())
	assert.Equal(t, survey.Text("5"), table.Cell(0, "Q1.AI_knowledge"))
	assert.Equal(t, survey.Text("2.75"), table.Cell(2, "Q16.GPA"))
	assert.Equal(t, survey.Missing(), table.Cell(1, "Q16.GPA"))
	assert.Equal(t, survey.Missing(), table.Cell(1, "Q14.Major"))
}

func TestQueryTableThroughInstrument(t *testing.T) {
	repo := newTestRepository(t)

	table, err := repo.QueryTable(context.Background(), "SELECT * FROM survey_ai")
	require.NoError(t, err)

	survey.AcademicSurvey.Prepare(table)
	assert.Equal(t, survey.Text("Otimista"), table.Cell(0, "Sentimentos_IA_Desc"))
	assert.Equal(t, survey.Missing(), table.Cell(2, "Sentimentos_IA_Desc"))
}

func TestQueryTableFailure(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.QueryTable(context.Background(), "SELECT * FROM missing_table")
	require.Error(t, err)
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeDatabaseError))
}
