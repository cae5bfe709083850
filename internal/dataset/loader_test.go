package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gosurvey/domain/survey"
	"gosurvey/internal"
	"gosurvey/internal/config"
	"gosurvey/internal/errors"
	"gosurvey/internal/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const surveyCSV = "Q1.AI_knowledge,Q5.Feelings,Q16.GPA\n5,1,3.2\n7,2,x\n3,9,2.8\n"

func surveySource(t *testing.T) Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Survey_AI.csv")
	require.NoError(t, os.WriteFile(path, []byte(surveyCSV), 0o644))
	return Source{Instrument: survey.AcademicSurvey.Name, Kind: KindFile, Locator: path}
}

func TestLoadPreparesAndMemoises(t *testing.T) {
	src := surveySource(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	loader := NewLoader(WithLogger(internal.NewNopLogger()), WithMetrics(m))

	first, err := loader.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Len())
	assert.Equal(t, survey.Text("Otimista"), first.Cell(0, "Sentimentos_IA_Desc"))
	assert.Equal(t, survey.Missing(), first.Cell(1, "GPA"))

	second, err := loader.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.Loads(src))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("survey")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceLoads.WithLabelValues("survey", "ok")))
}

func TestLoadMissingFileIsNotCached(t *testing.T) {
	src := Source{Instrument: "survey", Kind: KindFile, Locator: filepath.Join(t.TempDir(), "absent.csv")}
	loader := NewLoader(WithLogger(internal.NewNopLogger()))

	table, err := loader.Load(context.Background(), src)
	require.Error(t, err)
	assert.Nil(t, table)
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))

	_, err = loader.Load(context.Background(), src)
	require.Error(t, err)
	assert.Equal(t, 2, loader.Loads(src))
}

func TestLoadUnknownInstrument(t *testing.T) {
	src := surveySource(t)
	src.Instrument = "census"

	_, err := NewLoader(WithLogger(internal.NewNopLogger())).Load(context.Background(), src)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

type countingRunner struct {
	calls atomic.Int32
	delay time.Duration
}

func (r *countingRunner) QueryTable(ctx context.Context, query string) (*survey.Table, error) {
	r.calls.Add(1)
	time.Sleep(r.delay)
	return survey.NewTable([]string{"Q5.Feelings"}, [][]string{{"1"}, {"3"}}), nil
}

func TestSQLSourceExpiresAfterTTL(t *testing.T) {
	runner := &countingRunner{}
	now := time.Date(2025, 11, 29, 12, 0, 0, 0, time.UTC)
	loader := NewLoader(
		WithLogger(internal.NewNopLogger()),
		WithQueryRunner(runner),
		WithTTL(10*time.Minute),
		WithClock(func() time.Time { return now }),
	)
	src := Source{Instrument: "survey", Kind: KindSQL, Locator: "SELECT * FROM survey_ai"}

	_, err := loader.Load(context.Background(), src)
	require.NoError(t, err)
	now = now.Add(9 * time.Minute)
	_, err = loader.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(1), runner.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = loader.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(2), runner.calls.Load())
}

func TestConcurrentLoadsShareOneRead(t *testing.T) {
	runner := &countingRunner{delay: 50 * time.Millisecond}
	loader := NewLoader(WithLogger(internal.NewNopLogger()), WithQueryRunner(runner))
	src := Source{Instrument: "survey", Kind: KindSQL, Locator: "SELECT 1"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := loader.Load(context.Background(), src)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	good := surveySource(t)
	bad := Source{Instrument: "impact", Kind: KindFile, Locator: filepath.Join(t.TempDir(), "absent.csv")}

	results := NewLoader(WithLogger(internal.NewNopLogger())).LoadAll(context.Background(), good, bad)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Table)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Table)
}

func TestSourcesFromConfig(t *testing.T) {
	files := Sources(config.DataConfig{Backend: config.BackendFile, SurveySource: "a.csv", ImpactSource: "b.csv"})
	require.Len(t, files, 2)
	assert.Equal(t, KindFile, files[0].Kind)
	assert.Equal(t, "impact", files[1].Instrument)

	queries := Sources(config.DataConfig{Backend: config.BackendSQL, SurveyQuery: "q1", ImpactQuery: "q2"})
	assert.Equal(t, KindSQL, queries[1].Kind)
	assert.Equal(t, "q2", queries[1].Locator)
	assert.NotEqual(t, files[0].Key(), queries[0].Key())
}
