package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosurvey/domain/survey"
	"gosurvey/internal"
	"gosurvey/internal/analysis"
)

func newTestRenderer() *Renderer {
	return NewRenderer(DefaultTheme(), internal.NewNopLogger())
}

func crosstab(t *testing.T) *analysis.CrossTab {
	t.Helper()
	table := survey.NewTable([]string{"g", "k"}, [][]string{
		{"Masculino", "Baixo"}, {"Masculino", "Alto"}, {"Feminino", "Alto"}, {"Feminino", "Alto"},
	})
	ct, err := analysis.NewCrossTab(table, "g", "k")
	require.NoError(t, err)
	return ct
}

func assertSVG(t *testing.T, out string) {
	t.Helper()
	assert.True(t, strings.HasPrefix(out, "<svg"), "output should start with <svg, got %.40q", out)
	assert.Contains(t, out, "</svg>")
}

func TestBar(t *testing.T) {
	out, err := newTestRenderer().Bar(
		Spec{Kind: KindBar, Title: "Conhecimento", XLabel: "Nível", YLabel: "Contagem", Palette: Viridis},
		analysis.Counts{{Label: "5", N: 3}, {Label: "7", N: 1}},
	)
	require.NoError(t, err)
	assertSVG(t, string(out))
	assert.Contains(t, string(out), "Conhecimento")
}

func TestBarAllZeroCounts(t *testing.T) {
	counts := analysis.Counts{}
	for _, label := range survey.LikertOrder {
		counts = append(counts, analysis.Count{Label: label})
	}
	out, err := newTestRenderer().Bar(Spec{Kind: KindBar, Title: "Limites", Palette: Mint}, counts)
	require.NoError(t, err)
	assertSVG(t, string(out))
	assert.Contains(t, string(out), "Neutro")
}

func TestBarWithoutData(t *testing.T) {
	_, err := newTestRenderer().Bar(Spec{Kind: KindBar}, nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPieAndDonut(t *testing.T) {
	r := newTestRenderer()
	counts := analysis.Counts{{Label: "Otimista", N: 2}, {Label: "Pessimista", N: 1}}

	pie, err := r.Pie(Spec{Kind: KindPie, Title: "Sentimentos", Palette: RdBu}, counts)
	require.NoError(t, err)
	assertSVG(t, string(pie))
	assert.Contains(t, string(pie), "Otimista (66.7%)")

	donut, err := r.Pie(Spec{Kind: KindPie, Title: "Sentimentos", Palette: RdBu, Hole: 0.3}, counts)
	require.NoError(t, err)
	assertSVG(t, string(donut))
}

func TestPieRejectsZeroTotal(t *testing.T) {
	_, err := newTestRenderer().Pie(Spec{Kind: KindPie}, analysis.Counts{{Label: "a", N: 0}})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestGroupedAndStacked(t *testing.T) {
	r := newTestRenderer()
	ct := crosstab(t)

	grouped, err := r.Grouped(Spec{Kind: KindGrouped, Title: "Gênero", Palette: Viridis}, ct)
	require.NoError(t, err)
	assertSVG(t, string(grouped))

	ct = ct.NormalizeRows()
	stacked, err := r.Stacked(Spec{Kind: KindStacked, Title: "Percentual", Palette: Sunset, RotateTicks: true}, ct)
	require.NoError(t, err)
	assertSVG(t, string(stacked))
	assert.Contains(t, string(stacked), "Feminino")
}

func TestLine(t *testing.T) {
	groups := []analysis.Group{
		{A: "Otimista", B: "3", N: 2},
		{A: "Otimista", B: "7", N: 1},
		{A: "Neutro", B: "5", N: 4},
	}
	out, err := newTestRenderer().Line(Spec{Kind: KindLine, Title: "Sentimentos", Palette: Set1}, groups)
	require.NoError(t, err)
	assertSVG(t, string(out))
	assert.Contains(t, string(out), "Neutro")
}

func TestLineCategoricalAxis(t *testing.T) {
	groups := []analysis.Group{{A: "x", B: "Baixo", N: 1}, {A: "x", B: "Alto", N: 2}}
	out, err := newTestRenderer().Line(Spec{Kind: KindLine}, groups)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Baixo")
}

func TestScatterWithTrend(t *testing.T) {
	xs := []float64{2.0, 2.5, 3.0, 3.5}
	ys := []float64{3, 4, 6, 8}
	trend, ok := analysis.FitTrend(xs, ys)
	require.True(t, ok)

	out, err := newTestRenderer().Scatter(Spec{Kind: KindScatter, Title: "GPA", Palette: Viridis}, xs, ys, trend)
	require.NoError(t, err)
	assertSVG(t, string(out))
	assert.Contains(t, string(out), "Linha de Tendência")
}

func TestScatterWithoutTrend(t *testing.T) {
	out, err := newTestRenderer().Scatter(Spec{Kind: KindScatter}, []float64{1}, []float64{2}, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Linha de Tendência")
}

func TestInlineSVGDropsProlog(t *testing.T) {
	assert.Equal(t, "<svg/>", string(inlineSVG("<?xml version=\"1.0\"?>\n<svg/>")))
}

func TestThemeColors(t *testing.T) {
	theme := DefaultTheme()
	spread := theme.Spread(Viridis, 2)
	assert.Equal(t, hex("#440154"), spread[0])
	assert.Equal(t, hex("#fde725"), spread[1])
	assert.Equal(t, hex("#fde725"), theme.Continuous(Viridis, 10, 0, 10))
	assert.Equal(t, hex("#440154"), theme.Continuous(Viridis, 0, 0, 10))
	assert.Equal(t, theme.Discrete(Set1, 0), theme.Discrete(Set1, 9))
	assert.Equal(t, theme.Discrete(Viridis, 1), theme.Discrete("unknown", 1))
}

func TestFigureAvailable(t *testing.T) {
	assert.True(t, Figure{SVG: "<svg/>"}.Available())
	assert.False(t, Figure{SVG: "<svg/>", Notice: NoticeNoValidData}.Available())
	assert.Equal(t, "Dados para 'Gênero' não disponíveis.", NoticeMissing("Gênero"))
	assert.Equal(t, "Dados para 'Conhecimento_IA' ou 'Gênero' não disponíveis.", NoticeMissing("Conhecimento_IA", "Gênero"))
}
