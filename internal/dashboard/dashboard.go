package dashboard

import (
	"context"
	stderrors "errors"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"

	"gosurvey/domain/survey"
	"gosurvey/internal"
	"gosurvey/internal/dataset"
	"gosurvey/internal/errors"
	"gosurvey/internal/metrics"
	"gosurvey/internal/render"
)

// Dashboard assembles pages from the narrative content, the chart catalog and the loaded sources.
// It holds no per-request state; every call rebuilds its page from top to bottom.
type Dashboard struct {
	loader    *dataset.Loader
	sources   []dataset.Source
	renderer  *render.Renderer
	content   *Content
	catalog   Catalog
	assetsDir string
	log       *internal.Logger
	metrics   *metrics.Metrics
}

// Option configures a Dashboard
type Option func(*Dashboard)

// WithAssetsDir sets where portraits are read from
func WithAssetsDir(dir string) Option { return func(d *Dashboard) { d.assetsDir = dir } }

// WithLogger sets the logger
func WithLogger(log *internal.Logger) Option { return func(d *Dashboard) { d.log = log } }

// WithMetrics records page renders and chart notices
func WithMetrics(m *metrics.Metrics) Option { return func(d *Dashboard) { d.metrics = m } }

// New creates a dashboard over the given sources
func New(loader *dataset.Loader, sources []dataset.Source, renderer *render.Renderer, content *Content, opts ...Option) *Dashboard {
	d := &Dashboard{
		loader:    loader,
		sources:   sources,
		renderer:  renderer,
		content:   content,
		catalog:   DefaultCatalog(),
		assetsDir: "assets",
		log:       internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Catalog returns the chart catalog
func (d *Dashboard) Catalog() Catalog { return d.catalog }

// NavItem is one entry of the sidebar navigation.
type NavItem struct {
	ID     string
	Label  string
	Active bool
}

// Block is a rendered narrative section.
type Block struct {
	Style      string
	Title      string
	Body       template.HTML
	Highlights []Highlight
	People     []PersonCard
}

// PersonCard is a rendered author or advisor card.
type PersonCard struct {
	Name     string
	Body     template.HTML
	Portrait Portrait
}

// TabView is one rendered tab of the charts page. Error is set instead of Figures when the source is absent.
type TabView struct {
	ID      string
	Title   string
	Heading string
	Error   string
	Figures []render.Figure
}

// Page is everything a page template needs.
type Page struct {
	ID      string
	Section string
	Title   string
	Sidebar string
	Nav     []NavItem
	Heading string
	Blocks  []Block
	Tabs    []TabView
	Footer  []template.HTML
}

// NormalizeSection maps a navigation value to a known section, defaulting to home.
func NormalizeSection(section string) string {
	for _, s := range Sections {
		if s == section {
			return s
		}
	}
	return SectionHome
}

// Page builds one section. Unknown sections render the home page.
func (d *Dashboard) Page(ctx context.Context, section string) (*Page, error) {
	section = NormalizeSection(section)
	start := time.Now()
	pc := d.content.Pages[section]
	id := uuid.NewString()
	log := d.log.With("page", id, "section", section)

	page := &Page{
		ID:      id,
		Section: section,
		Title:   d.content.Title,
		Sidebar: d.content.Sidebar,
		Heading: pc.Heading,
	}
	for _, s := range Sections {
		page.Nav = append(page.Nav, NavItem{ID: s, Label: d.content.Pages[s].Label, Active: s == section})
	}
	for _, line := range d.content.Footer {
		page.Footer = append(page.Footer, inlineMarkdown(line))
	}
	for _, sec := range pc.Sections {
		page.Blocks = append(page.Blocks, d.block(sec))
	}

	if section == SectionCharts {
		tabs, err := d.Tabs(ctx)
		if err != nil {
			log.Error("[Dashboard] page failed: %v", err)
			return nil, err
		}
		page.Tabs = tabs
	}

	d.metrics.PageRendered(section)
	log.Info("[Dashboard] page assembled in %s", time.Since(start))
	return page, nil
}

func (d *Dashboard) block(sec TextSection) Block {
	b := Block{Style: sec.Style, Title: sec.Title, Highlights: sec.Highlights}
	if sec.Body != "" {
		b.Body = Markdown(sec.Body)
	}
	for _, p := range sec.People {
		portrait, err := LoadPortrait(d.assetsDir, p.Portrait, p.Role)
		if err != nil {
			d.log.Warn("[Dashboard] portrait for %s: %v", p.Name, err)
		}
		b.People = append(b.People, PersonCard{Name: p.Name, Body: Markdown(p.Body), Portrait: portrait})
	}
	return b
}

// inlineMarkdown renders a one-line fragment without the enclosing paragraph.
func inlineMarkdown(src string) template.HTML {
	out := string(Markdown(src))
	if len(out) > len("<p></p>") && out[:3] == "<p>" && out[len(out)-4:] == "</p>" {
		out = out[3 : len(out)-4]
	}
	return template.HTML(out)
}

// Tabs loads every source concurrently and renders each tab's chart sequence.
func (d *Dashboard) Tabs(ctx context.Context) ([]TabView, error) {
	results := d.loader.LoadAll(ctx, d.sources...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	byInstrument := make(map[string]dataset.Result, len(results))
	for _, r := range results {
		byInstrument[r.Source.Instrument] = r
	}

	views := make([]TabView, 0, len(d.catalog))
	for _, tab := range d.catalog {
		view := TabView{ID: tab.ID, Title: tab.Title, Heading: tab.Heading}
		r, ok := byInstrument[tab.Instrument]
		if !ok || r.Err != nil || r.Table == nil {
			view.Error = tab.SourceError
			views = append(views, view)
			continue
		}
		view.Figures = d.Figures(tab, r.Table)
		views = append(views, view)
	}
	return views, nil
}

// Figures renders a tab's charts in order. Headings are numbered by position.
func (d *Dashboard) Figures(tab Tab, t *survey.Table) []render.Figure {
	figures := make([]render.Figure, len(tab.Charts))
	for i, spec := range tab.Charts {
		figures[i] = d.figure(i+1, spec, t)
		if !figures[i].Available() {
			d.metrics.ChartNotice(tab.ID + "/" + spec.ID)
		}
	}
	return figures
}

func (d *Dashboard) figure(pos int, spec ChartSpec, t *survey.Table) render.Figure {
	fig := render.Figure{
		ID:      spec.ID,
		Heading: fmt.Sprintf("%d. %s", pos, spec.Heading),
		Title:   spec.Render.Title,
	}

	data, err := aggregate(spec, t)
	if err != nil {
		fig.Notice = d.notice(spec, err)
		return fig
	}

	svg, err := d.draw(spec.Render, data)
	if err != nil {
		d.log.Warn("[Dashboard] chart %s: %v", spec.ID, err)
		fig.Notice = render.NoticeNoValidData
		return fig
	}
	fig.SVG = svg
	if spec.Caption != nil {
		fig.Caption = spec.Caption(data)
	}
	return fig
}

// aggregate checks the chart's columns and computes its data. Absent columns fail with
// MISSING_COLUMN, data that is empty after filtering with INVALID_INPUT. A KeepZero chart with
// labelled counts is drawn even when every count is zero.
func aggregate(spec ChartSpec, t *survey.Table) (Data, error) {
	if !t.Has(spec.Requires...) {
		return Data{}, errors.MissingColumn(spec.Requires...)
	}
	data, err := spec.Aggregate(t)
	if err != nil {
		return Data{}, err
	}
	if spec.KeepZero && len(data.Counts) > 0 {
		return data, nil
	}
	if data.Empty() {
		return Data{}, errors.InvalidInput(render.NoticeNoValidData)
	}
	return data, nil
}

func (d *Dashboard) notice(spec ChartSpec, err error) string {
	if n, ok := noticeOf(err); ok {
		return n
	}
	switch {
	case errors.HasCode(err, errors.CodeMissingColumn), stderrors.Is(err, survey.ErrColumnMissing):
		return spec.missingNotice()
	case errors.HasCode(err, errors.CodeInvalidInput):
		return render.NoticeNoValidData
	}
	d.log.Warn("[Dashboard] chart %s: %v", spec.ID, err)
	return render.NoticeNoValidData
}

func (d *Dashboard) draw(spec render.Spec, data Data) (template.HTML, error) {
	switch spec.Kind {
	case render.KindBar:
		return d.renderer.Bar(spec, data.Counts)
	case render.KindPie:
		return d.renderer.Pie(spec, data.Counts)
	case render.KindLine:
		return d.renderer.Line(spec, data.Groups)
	case render.KindScatter:
		return d.renderer.Scatter(spec, data.X, data.Y, data.Trend)
	case render.KindStacked:
		return d.renderer.Stacked(spec, data.Table)
	case render.KindGrouped:
		return d.renderer.Grouped(spec, data.Table)
	}
	return "", fmt.Errorf("unknown chart kind %q", spec.Kind)
}

// ChartData returns the aggregation behind one chart.
func (d *Dashboard) ChartData(ctx context.Context, tabID, chartID string) (Data, error) {
	tab, ok := d.catalog.Tab(tabID)
	if !ok {
		return Data{}, errors.NotFound("tab " + tabID)
	}
	spec, ok := tab.Chart(chartID)
	if !ok {
		return Data{}, errors.NotFound("chart " + chartID)
	}
	t, err := d.table(ctx, tab.Instrument)
	if err != nil {
		return Data{}, err
	}
	return aggregate(spec, t)
}

// ChartStatus is a chart's id and whether it can currently be drawn.
type ChartStatus struct {
	ID        string `json:"id"`
	Heading   string `json:"heading"`
	Kind      string `json:"kind"`
	Available bool   `json:"available"`
	Notice    string `json:"notice,omitempty"`
}

// TabStatus lists a tab's charts in display order without drawing them.
func (d *Dashboard) TabStatus(ctx context.Context, tabID string) ([]ChartStatus, error) {
	tab, ok := d.catalog.Tab(tabID)
	if !ok {
		return nil, errors.NotFound("tab " + tabID)
	}
	t, err := d.table(ctx, tab.Instrument)
	if err != nil {
		return nil, err
	}
	out := make([]ChartStatus, len(tab.Charts))
	for i, spec := range tab.Charts {
		out[i] = ChartStatus{
			ID:      spec.ID,
			Heading: fmt.Sprintf("%d. %s", i+1, spec.Heading),
			Kind:    string(spec.Render.Kind),
		}
		if _, err := aggregate(spec, t); err != nil {
			out[i].Notice = d.notice(spec, err)
		} else {
			out[i].Available = true
		}
	}
	return out, nil
}

// SourceStatus describes one configured source.
type SourceStatus struct {
	Instrument string   `json:"instrument"`
	Kind       string   `json:"kind"`
	Available  bool     `json:"available"`
	Rows       int      `json:"rows"`
	Columns    []string `json:"columns,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Sources loads every source and reports what was found.
func (d *Dashboard) Sources(ctx context.Context) []SourceStatus {
	results := d.loader.LoadAll(ctx, d.sources...)
	out := make([]SourceStatus, len(results))
	for i, r := range results {
		out[i] = SourceStatus{Instrument: r.Source.Instrument, Kind: string(r.Source.Kind)}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		out[i].Available = true
		out[i].Rows = r.Table.Len()
		out[i].Columns = r.Table.Columns()
	}
	return out
}

// Table returns the prepared table for an instrument.
func (d *Dashboard) Table(ctx context.Context, instrument string) (*survey.Table, error) {
	return d.table(ctx, instrument)
}

func (d *Dashboard) table(ctx context.Context, instrument string) (*survey.Table, error) {
	for _, src := range d.sources {
		if src.Instrument == instrument {
			return d.loader.Load(ctx, src)
		}
	}
	return nil, errors.NotFound("source " + instrument)
}
