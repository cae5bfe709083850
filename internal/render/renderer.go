package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"gosurvey/internal"
	"gosurvey/internal/analysis"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to plot")

// Renderer draws charts as inline SVG. Axis charts use gonum/plot, pies use go-chart.
type Renderer struct {
	theme Theme
	log   *internal.Logger
}

// NewRenderer creates a renderer for theme
func NewRenderer(theme Theme, log *internal.Logger) *Renderer {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Renderer{theme: theme, log: log}
}

// Theme returns the renderer's theme
func (r *Renderer) Theme() Theme { return r.theme }

// Bar draws one bar per label, colored along the palette by value.
func (r *Renderer) Bar(spec Spec, counts analysis.Counts) (template.HTML, error) {
	return r.guard(spec, func() (template.HTML, error) {
		if len(counts) == 0 {
			return "", ErrNoData
		}
		p := r.newPlot(spec)
		values := counts.Values()
		lo, hi := minMax(values)
		w := r.slotWidth(len(values), 0.7)
		for i, v := range values {
			bc, err := plotter.NewBarChart(plotter.Values{v}, w)
			if err != nil {
				return "", err
			}
			bc.XMin = float64(i)
			bc.Color = r.theme.Continuous(spec.Palette, v, lo, hi)
			bc.LineStyle.Width = 0
			p.Add(bc)
		}
		p.Y.Min = 0
		if hi <= 0 {
			p.Y.Max = 1
		}
		p.NominalX(counts.Labels()...)
		return r.svg(p)
	})
}

// Grouped draws the crosstab's columns side by side within each row category.
func (r *Renderer) Grouped(spec Spec, ct *analysis.CrossTab) (template.HTML, error) {
	return r.guard(spec, func() (template.HTML, error) {
		if ct.Empty() {
			return "", ErrNoData
		}
		p := r.newPlot(spec)
		k := len(ct.Cols)
		w := r.slotWidth(len(ct.Rows), 0.8) / vg.Length(k)
		colors := r.theme.Spread(spec.Palette, k)
		for j, col := range ct.Cols {
			bc, err := plotter.NewBarChart(plotter.Values(ct.Column(j)), w)
			if err != nil {
				return "", err
			}
			bc.Color = colors[j]
			bc.LineStyle.Width = 0
			bc.Offset = w * vg.Length(float64(j)-float64(k-1)/2)
			p.Add(bc)
			p.Legend.Add(col, bc)
		}
		p.Y.Min = 0
		p.NominalX(ct.Rows...)
		return r.svg(p)
	})
}

// Stacked draws the crosstab's columns stacked within each row category.
func (r *Renderer) Stacked(spec Spec, ct *analysis.CrossTab) (template.HTML, error) {
	return r.guard(spec, func() (template.HTML, error) {
		if ct.Empty() {
			return "", ErrNoData
		}
		p := r.newPlot(spec)
		w := r.slotWidth(len(ct.Rows), 0.6)
		colors := r.theme.Spread(spec.Palette, len(ct.Cols))
		var below *plotter.BarChart
		for j, col := range ct.Cols {
			bc, err := plotter.NewBarChart(plotter.Values(ct.Column(j)), w)
			if err != nil {
				return "", err
			}
			bc.Color = colors[j]
			bc.LineStyle.Width = 0
			if below != nil {
				bc.StackOn(below)
			}
			below = bc
			p.Add(bc)
			p.Legend.Add(col, bc)
		}
		p.Y.Min = 0
		if ct.Normalized {
			p.Y.Max = 100
		}
		p.NominalX(ct.Rows...)
		return r.svg(p)
	})
}

// Line draws one line with markers per A value of the groups, over the B values.
func (r *Renderer) Line(spec Spec, groups []analysis.Group) (template.HTML, error) {
	return r.guard(spec, func() (template.HTML, error) {
		if len(groups) == 0 {
			return "", ErrNoData
		}
		var series []string
		xs := map[string]bool{}
		bySeries := map[string][]analysis.Group{}
		for _, g := range groups {
			if _, ok := bySeries[g.A]; !ok {
				series = append(series, g.A)
			}
			bySeries[g.A] = append(bySeries[g.A], g)
			xs[g.B] = true
		}
		xLabels := make([]string, 0, len(xs))
		for x := range xs {
			xLabels = append(xLabels, x)
		}
		analysis.SortLabels(xLabels)
		numeric := allNumeric(xLabels)
		position := make(map[string]float64, len(xLabels))
		for i, x := range xLabels {
			if numeric {
				position[x], _ = strconv.ParseFloat(x, 64)
			} else {
				position[x] = float64(i)
			}
		}

		p := r.newPlot(spec)
		for i, name := range series {
			pts := make(plotter.XYs, 0, len(bySeries[name]))
			for _, g := range bySeries[name] {
				pts = append(pts, plotter.XY{X: position[g.B], Y: float64(g.N)})
			}
			line, marks, err := plotter.NewLinePoints(pts)
			if err != nil {
				return "", err
			}
			c := r.theme.Discrete(spec.Palette, i)
			line.Color = c
			line.Width = vg.Points(2)
			marks.Color = c
			marks.Shape = draw.CircleGlyph{}
			marks.Radius = vg.Points(3)
			p.Add(line, marks)
			p.Legend.Add(name, line, marks)
		}
		if !numeric {
			p.NominalX(xLabels...)
		}
		p.Y.Min = 0
		return r.svg(p)
	})
}

// Scatter draws the pairs colored by y along the palette, with the trendline when one is given.
func (r *Renderer) Scatter(spec Spec, xs, ys []float64, trend *analysis.Trend) (template.HTML, error) {
	return r.guard(spec, func() (template.HTML, error) {
		if len(xs) == 0 || len(xs) != len(ys) {
			return "", ErrNoData
		}
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return "", err
		}
		lo, hi := minMax(ys)
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  r.theme.Continuous(spec.Palette, ys[i], lo, hi),
				Radius: vg.Points(4),
				Shape:  draw.CircleGlyph{},
			}
		}

		p := r.newPlot(spec)
		p.Add(s)
		if trend != nil {
			line := make(plotter.XYs, len(trend.X))
			for i := range trend.X {
				line[i] = plotter.XY{X: trend.X[i], Y: trend.Y[i]}
			}
			l, err := plotter.NewLine(line)
			if err != nil {
				return "", err
			}
			l.Color = hex(r.theme.Accent)
			l.Width = vg.Points(2)
			l.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
			p.Add(l)
			p.Legend.Add("Linha de Tendência", l)
		}
		return r.svg(p)
	})
}

// guard turns a panic inside a drawing library into an error so one chart cannot take down the page.
func (r *Renderer) guard(spec Spec, fn func() (template.HTML, error)) (out template.HTML, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("[Render] %s chart %q panicked: %v", spec.Kind, spec.Title, rec)
			out, err = "", fmt.Errorf("render %s: %v", spec.Kind, rec)
		}
	}()
	return fn()
}

func (r *Renderer) newPlot(spec Spec) *plot.Plot {
	p := plot.New()
	fg := hex(r.theme.Foreground)

	p.Title.Text = spec.Title
	p.Title.TextStyle.Color = fg
	p.Title.TextStyle.Font.Size = r.theme.FontSize + vg.Points(3)
	p.BackgroundColor = hex(r.theme.PlotArea)
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Color = fg
		ax.Label.TextStyle.Color = fg
		ax.Tick.Label.Color = fg
		ax.Tick.Color = fg
	}
	if spec.RotateTicks {
		p.X.Tick.Label.Rotation = math.Pi / 6
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
	}
	p.Legend.TextStyle.Color = fg
	p.Legend.Top = true
	if spec.LegendTitle != "" {
		// an entry without thumbnails renders as a plain heading line
		p.Legend.Add(spec.LegendTitle)
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = hex(r.theme.Grid)
	p.Add(grid)
	return p
}

// slotWidth is the bar width for n categories filling fill of each category slot.
func (r *Renderer) slotWidth(n int, fill float64) vg.Length {
	if n < 1 {
		n = 1
	}
	w := (r.theme.Width - vg.Points(100)) / vg.Length(n) * vg.Length(fill)
	if w < vg.Points(2) {
		w = vg.Points(2)
	}
	return w
}

func (r *Renderer) svg(p *plot.Plot) (template.HTML, error) {
	wt, err := p.WriterTo(r.theme.Width, r.theme.Height, "svg")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return "", err
	}
	return inlineSVG(buf.String()), nil
}

// inlineSVG drops any XML prolog so the document can be embedded in HTML.
func inlineSVG(doc string) template.HTML {
	if i := strings.Index(doc, "<svg"); i > 0 {
		doc = doc[i:]
	}
	return template.HTML(doc)
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func allNumeric(labels []string) bool {
	for _, l := range labels {
		if _, err := strconv.ParseFloat(l, 64); err != nil {
			return false
		}
	}
	return len(labels) > 0
}
