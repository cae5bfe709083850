package dataset

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"gosurvey/adapters/filesource"
	"gosurvey/domain/survey"
	"gosurvey/internal"
	"gosurvey/internal/errors"
	"gosurvey/internal/metrics"
)

// Kind says how a source is read.
type Kind string

const (
	KindFile Kind = "file"
	KindSQL  Kind = "sql"
)

// Source identifies one survey table: which instrument it holds and where it comes from.
type Source struct {
	Instrument string
	Kind       Kind
	Locator    string // file path or SQL query
	Encodings  []filesource.Encoding
}

// Key is the memoisation identity of the source.
func (s Source) Key() string {
	encs := make([]string, len(s.Encodings))
	for i, e := range s.Encodings {
		encs[i] = string(e)
	}
	return fmt.Sprintf("%s|%s|%s|%s", s.Instrument, s.Kind, s.Locator, strings.Join(encs, ","))
}

// QueryRunner runs a query and returns its result as a response table.
type QueryRunner interface {
	QueryTable(ctx context.Context, query string) (*survey.Table, error)
}

type entry struct {
	table    *survey.Table
	loadedAt time.Time
	expires  bool
}

// Loader reads and prepares sources, memoising prepared tables by source identity.
// File sources are kept for the life of the process; SQL sources for ttl. Failures are not cached.
type Loader struct {
	mu      sync.RWMutex
	entries map[string]entry
	loads   map[string]int
	group   singleflight.Group

	sql     QueryRunner
	ttl     time.Duration
	now     func() time.Time
	log     *internal.Logger
	metrics *metrics.Metrics
}

// Option configures a Loader
type Option func(*Loader)

// WithQueryRunner enables SQL sources
func WithQueryRunner(r QueryRunner) Option { return func(l *Loader) { l.sql = r } }

// WithTTL sets how long SQL results are reused
func WithTTL(ttl time.Duration) Option { return func(l *Loader) { l.ttl = ttl } }

// WithLogger sets the logger
func WithLogger(log *internal.Logger) Option { return func(l *Loader) { l.log = log } }

// WithMetrics records loads and cache hits
func WithMetrics(m *metrics.Metrics) Option { return func(l *Loader) { l.metrics = m } }

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option { return func(l *Loader) { l.now = now } }

// NewLoader creates a loader
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		entries: make(map[string]entry),
		loads:   make(map[string]int),
		ttl:     10 * time.Minute,
		now:     time.Now,
		log:     internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the prepared table for src, reading it at most once per cache lifetime.
// Concurrent loads of the same source share one read.
func (l *Loader) Load(ctx context.Context, src Source) (*survey.Table, error) {
	key := src.Key()
	if t, ok := l.cached(key); ok {
		l.metrics.CacheHit(src.Instrument)
		return t, nil
	}

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		if t, ok := l.cached(key); ok {
			return t, nil
		}
		t, err := l.read(ctx, src)
		l.metrics.SourceLoaded(src.Instrument, err)

		l.mu.Lock()
		l.loads[key]++
		if err == nil {
			l.entries[key] = entry{table: t, loadedAt: l.now(), expires: src.Kind == KindSQL}
		}
		l.mu.Unlock()

		return t, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*survey.Table), nil
}

func (l *Loader) cached(key string) (*survey.Table, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	if e.expires && l.now().Sub(e.loadedAt) >= l.ttl {
		return nil, false
	}
	return e.table, true
}

func (l *Loader) read(ctx context.Context, src Source) (*survey.Table, error) {
	instrument, ok := survey.Instruments[src.Instrument]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown instrument %q", src.Instrument))
	}

	start := time.Now()
	var (
		table *survey.Table
		err   error
	)
	switch src.Kind {
	case KindFile:
		table, err = filesource.NewDataReader(src.Locator, l.log, src.Encodings...).ReadTable()
	case KindSQL:
		if l.sql == nil {
			return nil, errors.SourceUnavailable(src.Locator, fmt.Errorf("no database configured"))
		}
		table, err = l.sql.QueryTable(ctx, src.Locator)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown source kind %q", src.Kind))
	}
	if err != nil {
		l.log.Error("[Loader] %s source unavailable: %v", src.Instrument, err)
		return nil, err
	}

	rep := instrument.Prepare(table)
	for _, rc := range rep.Recodes {
		if rc.Applied && rc.Unmapped > 0 {
			l.log.Debug("[Loader] %s: %d unmapped values in %s", src.Instrument, rc.Unmapped, rc.Source)
		}
	}
	l.log.Info("[Loader] %s loaded: %d rows, %d columns renamed, %d recodes, %d derived in %s",
		src.Instrument, table.Len(), rep.Renamed, len(rep.Recodes), len(rep.Derived), time.Since(start))
	return table, nil
}

// Loads reports how many times src was actually read (cache misses, failed or not).
func (l *Loader) Loads(src Source) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loads[src.Key()]
}

// Result is one source's outcome from LoadAll.
type Result struct {
	Source Source
	Table  *survey.Table
	Err    error
}

// LoadAll loads every source concurrently. A failing source does not affect the others.
func (l *Loader) LoadAll(ctx context.Context, sources ...Source) []Result {
	results := make([]Result, len(sources))
	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			t, err := l.Load(ctx, src)
			results[i] = Result{Source: src, Table: t, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
