package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SourceLoaded("survey", nil)
	m.SourceLoaded("impact", errors.New("boom"))
	m.CacheHit("survey")
	m.CacheHit("survey")
	m.ChartNotice("trust")
	m.PageRendered("charts")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceLoads.WithLabelValues("survey", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceLoads.WithLabelValues("impact", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("survey")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChartNotices.WithLabelValues("trust")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageRenders.WithLabelValues("charts")))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SourceLoaded("survey", nil)
		m.CacheHit("survey")
		m.ChartNotice("trust")
		m.PageRendered("home")
	})
}

func TestNewWithoutRegistry(t *testing.T) {
	m := New(nil)
	m.CacheHit("impact")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("impact")))
}
