package render

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot/vg"
)

// Palette names
const (
	Viridis  = "Viridis"
	Plasma   = "Plasma"
	Sunset   = "Sunset"
	RdBu     = "RdBu"
	Set1     = "Set1"
	Mint     = "Mint"
	Agsunset = "Agsunset"
)

// Theme is the dashboard's static look. Built once at startup and passed by value.
type Theme struct {
	PageTitle  string
	Background string
	PlotArea   string
	Foreground string
	Grid       string
	Accent     string
	FontSize   vg.Length
	Width      vg.Length
	Height     vg.Length
	Palettes   map[string][]string
}

// DefaultTheme is the dark dashboard theme.
func DefaultTheme() Theme {
	return Theme{
		PageTitle:  "Relação de crescimento inversamente proporcional entre Inteligência Artificial e Inteligência Humana",
		Background: "#0a0f2c",
		PlotArea:   "#111739",
		Foreground: "#ffffff",
		Grid:       "#2a3050",
		Accent:     "#0099ff",
		FontSize:   vg.Points(11),
		Width:      vg.Points(720),
		Height:     vg.Points(400),
		Palettes: map[string][]string{
			Viridis:  {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
			Plasma:   {"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"},
			Sunset:   {"#f3e79b", "#fac484", "#f8a07e", "#eb7f86", "#ce6693", "#a059a0", "#5c53a5"},
			RdBu:     {"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061"},
			Set1:     {"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#ffff33", "#a65628", "#f781bf", "#999999"},
			Mint:     {"#e4f1e1", "#b4d9cc", "#89c0b6", "#63a6a0", "#448c8a", "#287274", "#0d585f"},
			Agsunset: {"#4b2991", "#872ca2", "#c0369d", "#ea4f88", "#fa7876", "#f6a97a", "#edd9a3"},
		},
	}
}

func hex(s string) drawing.Color { return drawing.ColorFromHex(s) }

func (t Theme) palette(name string) []string {
	if p, ok := t.Palettes[name]; ok && len(p) > 0 {
		return p
	}
	return t.Palettes[Viridis]
}

// Discrete returns the i-th color of a palette, cycling.
func (t Theme) Discrete(name string, i int) drawing.Color {
	p := t.palette(name)
	return hex(p[i%len(p)])
}

// Spread picks n colors evenly spaced across a palette, first and last included.
func (t Theme) Spread(name string, n int) []drawing.Color {
	p := t.palette(name)
	out := make([]drawing.Color, n)
	for i := range out {
		idx := 0
		if n > 1 {
			idx = i * (len(p) - 1) / (n - 1)
		}
		out[i] = hex(p[idx])
	}
	return out
}

// Continuous maps v within [lo, hi] to a palette color.
func (t Theme) Continuous(name string, v, lo, hi float64) drawing.Color {
	p := t.palette(name)
	if hi <= lo {
		return hex(p[len(p)-1])
	}
	idx := int((v - lo) / (hi - lo) * float64(len(p)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p) {
		idx = len(p) - 1
	}
	return hex(p[idx])
}
