package dashboard

import (
	stderrors "errors"

	"gosurvey/domain/survey"
	"gosurvey/internal/analysis"
	"gosurvey/internal/errors"
	"gosurvey/internal/render"
)

// Data is the aggregation behind one chart. Which fields are set depends on the chart kind.
type Data struct {
	Counts analysis.Counts    `json:"counts,omitempty"`
	Table  *analysis.CrossTab `json:"crosstab,omitempty"`
	Groups []analysis.Group   `json:"groups,omitempty"`
	X      []float64          `json:"x,omitempty"`
	Y      []float64          `json:"y,omitempty"`
	Trend  *analysis.Trend    `json:"trend,omitempty"`
}

// Empty reports whether there is anything to draw.
func (d Data) Empty() bool {
	return d.Counts.Total() == 0 && d.Table.Empty() && len(d.Groups) == 0 && len(d.X) == 0
}

// ChartSpec is one entry of a tab's chart sequence.
type ChartSpec struct {
	ID      string
	Heading string
	// Requires lists the columns the chart reads; if any is absent the chart shows the missing notice.
	Requires []string
	// Subjects are the names shown in the missing notice.
	Subjects      []string
	MissingNotice string
	Render        render.Spec
	// KeepZero draws an all-zero count series as zero-height bars instead of the no-data notice.
	KeepZero  bool
	Aggregate func(t *survey.Table) (Data, error)
	Caption   func(Data) string
}

// missingNotice is the text shown when the chart's columns are absent.
func (c ChartSpec) missingNotice() string {
	if c.MissingNotice != "" {
		return c.MissingNotice
	}
	return render.NoticeMissing(c.Subjects...)
}

// Tab is one of the charts page's tabs, bound to one survey instrument.
type Tab struct {
	ID          string
	Title       string
	Heading     string
	Instrument  string
	SourceError string
	Charts      []ChartSpec
}

// Chart looks a chart up by id.
func (t Tab) Chart(id string) (ChartSpec, bool) {
	for _, c := range t.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return ChartSpec{}, false
}

// Catalog is the ordered list of tabs.
type Catalog []Tab

// Tab looks a tab up by id.
func (c Catalog) Tab(id string) (Tab, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// DefaultCatalog is the academic survey tab followed by the general impact tab.
func DefaultCatalog() Catalog {
	return Catalog{surveyTab(), impactTab()}
}

// noticeError carries a chart-specific notice out of an aggregation. The wrapped AppError gives the
// API its status: MISSING_COLUMN when the data is absent, INVALID_INPUT when too little of it is usable.
type noticeError struct {
	notice string
	cause  *errors.AppError
}

func (e *noticeError) Error() string { return e.notice }

func (e *noticeError) Unwrap() error { return e.cause }

func missingData(notice string) error {
	return &noticeError{notice: notice, cause: errors.New(errors.CodeMissingColumn, notice)}
}

func insufficientData(notice string) error {
	return &noticeError{notice: notice, cause: errors.InvalidInput(notice)}
}

func noticeOf(err error) (string, bool) {
	var n *noticeError
	if stderrors.As(err, &n) {
		return n.notice, true
	}
	return "", false
}

// Aggregation helpers shared by the tabs.

func frequency(col string) func(*survey.Table) (Data, error) {
	return func(t *survey.Table) (Data, error) {
		c, err := analysis.Frequency(t, col)
		return Data{Counts: c}, err
	}
}

func frequencyByKey(col string) func(*survey.Table) (Data, error) {
	return func(t *survey.Table) (Data, error) {
		c, err := analysis.FrequencyByKey(t, col)
		return Data{Counts: c}, err
	}
}

func likertCounts(col string) func(*survey.Table) (Data, error) {
	return func(t *survey.Table) (Data, error) {
		c, err := analysis.Frequency(t, col)
		if err != nil {
			return Data{}, err
		}
		return Data{Counts: c.Reindex(survey.LikertOrder)}, nil
	}
}

// crossOpts shapes a crosstab after counting.
type crossOpts struct {
	rows       []string
	cols       []string
	zeroFill   bool
	normalized bool
	rowFilter  func(t *survey.Table) ([]string, error)
}

func crosstab(rowCol, colCol string, o crossOpts) func(*survey.Table) (Data, error) {
	return func(t *survey.Table) (Data, error) {
		answered := t.Filter(t.Present(rowCol, colCol))
		ct, err := analysis.NewCrossTab(answered, rowCol, colCol)
		if err != nil {
			return Data{}, err
		}
		rows := o.rows
		if o.rowFilter != nil {
			if rows, err = o.rowFilter(t); err != nil {
				return Data{}, err
			}
		}
		if rows != nil {
			ct = ct.ReindexRows(rows)
		}
		if o.cols != nil {
			ct = ct.ReindexColumns(o.cols, o.zeroFill)
		}
		if o.normalized {
			ct = ct.NormalizeRows()
		}
		return Data{Table: ct}, nil
	}
}

func groups(a, b string) func(*survey.Table) (Data, error) {
	return func(t *survey.Table) (Data, error) {
		g, err := analysis.GroupSizes(t, a, b)
		return Data{Groups: g}, err
	}
}

func scatterWithTrend(xCol, yCol string) func(*survey.Table) (Data, error) {
	return func(t *survey.Table) (Data, error) {
		xs, ys, err := analysis.Pairs(t, xCol, yCol)
		if err != nil {
			return Data{}, err
		}
		d := Data{X: xs, Y: ys}
		if trend, ok := analysis.FitTrend(xs, ys); ok {
			d.Trend = trend
		}
		return d, nil
	}
}

func indicators(list []survey.Indicator, notice string) func(*survey.Table) (Data, error) {
	return func(t *survey.Table) (Data, error) {
		c, err := analysis.IndicatorCounts(t, list)
		if stderrors.Is(err, survey.ErrColumnMissing) {
			return Data{}, missingData(notice)
		}
		return Data{Counts: c}, err
	}
}
