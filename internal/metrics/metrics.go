package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dashboard's Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	SourceLoads  *prometheus.CounterVec
	CacheHits    *prometheus.CounterVec
	ChartNotices *prometheus.CounterVec
	PageRenders  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SourceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gosurvey",
			Name:      "source_loads_total",
			Help:      "Source reads that reached the file or database, by source and outcome.",
		}, []string{"source", "outcome"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gosurvey",
			Name:      "source_cache_hits_total",
			Help:      "Source loads served from the memo cache.",
		}, []string{"source"}),
		ChartNotices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gosurvey",
			Name:      "chart_notices_total",
			Help:      "Charts replaced by a data-not-available notice.",
		}, []string{"chart"}),
		PageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gosurvey",
			Name:      "page_renders_total",
			Help:      "Assembled pages by section.",
		}, []string{"section"}),
	}
	if reg != nil {
		reg.MustRegister(m.SourceLoads, m.CacheHits, m.ChartNotices, m.PageRenders)
	}
	return m
}

func (m *Metrics) SourceLoaded(source string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.SourceLoads.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) CacheHit(source string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(source).Inc()
}

func (m *Metrics) ChartNotice(chart string) {
	if m == nil {
		return
	}
	m.ChartNotices.WithLabelValues(chart).Inc()
}

func (m *Metrics) PageRendered(section string) {
	if m == nil {
		return
	}
	m.PageRenders.WithLabelValues(section).Inc()
}
