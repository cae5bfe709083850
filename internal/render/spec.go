package render

import (
	"fmt"
	"html/template"
	"strings"
)

// Kind is a chart type.
type Kind string

const (
	KindBar     Kind = "bar"
	KindPie     Kind = "pie"
	KindLine    Kind = "line"
	KindScatter Kind = "scatter"
	KindStacked Kind = "stacked"
	KindGrouped Kind = "grouped"
)

// Spec is the presentation of one chart.
type Spec struct {
	Kind        Kind
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	Palette     string
	// Hole is the donut hole fraction for pies; zero draws a full pie.
	Hole float64
	// RotateTicks tilts category labels for long names.
	RotateTicks bool
}

// Figure is a rendered chart, or the notice shown in its place.
type Figure struct {
	ID      string
	Heading string
	Title   string
	SVG     template.HTML
	Notice  string
	Caption string
}

// Available reports whether the figure carries a chart.
func (f Figure) Available() bool { return f.Notice == "" && f.SVG != "" }

// Notice texts
const NoticeNoValidData = "Não há dados válidos para exibir o gráfico."

// NoticeMissing is the notice for a chart whose data is not available.
func NoticeMissing(what ...string) string {
	return fmt.Sprintf("Dados para '%s' não disponíveis.", strings.Join(what, "' ou '"))
}
