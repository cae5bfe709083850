package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	chart "github.com/wcharczuk/go-chart/v2"

	"gosurvey/internal/analysis"
)

// Pie draws the counts as a pie, or a donut when spec.Hole is set. Slices are labeled with their share.
// go-chart writes text verbatim into the SVG, so labels are escaped here.
func (r *Renderer) Pie(spec Spec, counts analysis.Counts) (template.HTML, error) {
	return r.guard(spec, func() (template.HTML, error) {
		total := counts.Total()
		if total == 0 {
			return "", ErrNoData
		}
		values := make([]chart.Value, 0, len(counts))
		for i, c := range counts {
			if c.N == 0 {
				continue
			}
			values = append(values, chart.Value{
				Label: fmt.Sprintf("%s (%.1f%%)", html.EscapeString(c.Label), 100*float64(c.N)/float64(total)),
				Value: float64(c.N),
				Style: chart.Style{
					FillColor:   r.theme.Discrete(spec.Palette, i),
					StrokeColor: hex(r.theme.Background),
					StrokeWidth: 1.5,
					FontColor:   hex(r.theme.Foreground),
					FontSize:    float64(r.theme.FontSize.Points()),
				},
			})
		}

		width := int(r.theme.Width.Points())
		height := int(r.theme.Height.Points())
		background := chart.Style{FillColor: hex(r.theme.Background)}
		canvas := chart.Style{FillColor: hex(r.theme.PlotArea)}

		var buf bytes.Buffer
		if spec.Hole > 0 {
			donut := chart.DonutChart{
				Title:      spec.Title,
				TitleStyle: chart.Style{FontColor: hex(r.theme.Foreground)},
				Width:      width,
				Height:     height,
				Background: background,
				Canvas:     canvas,
				Values:     values,
			}
			if err := donut.Render(chart.SVG, &buf); err != nil {
				return "", err
			}
		} else {
			pie := chart.PieChart{
				Title:      spec.Title,
				TitleStyle: chart.Style{FontColor: hex(r.theme.Foreground)},
				Width:      width,
				Height:     height,
				Background: background,
				Canvas:     canvas,
				Values:     values,
			}
			if err := pie.Render(chart.SVG, &buf); err != nil {
				return "", err
			}
		}
		return inlineSVG(buf.String()), nil
	})
}
