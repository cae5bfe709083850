package dashboard

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"gosurvey/domain/survey"
	"gosurvey/internal/analysis"
	"gosurvey/internal/render"
)

const (
	axisRespondents = "Contagem de Respondentes"
	axisPeople      = "Número de Respondentes"
	axisAgreement   = "Nível de Concordância"
	axisUsage       = "Nível de Uso de Produtos de IA"
	axisRisk        = "Percepção de Risco"

	// MinProfessionRespondents is the smallest group shown in the profession chart.
	MinProfessionRespondents = 3
)

func likertChart(id, heading, col, palette string) ChartSpec {
	return ChartSpec{
		ID:        id,
		Heading:   heading,
		Requires:  []string{col},
		Subjects:  []string{heading},
		Render:    render.Spec{Kind: render.KindBar, Title: heading, XLabel: axisAgreement, YLabel: axisRespondents, Palette: palette},
		KeepZero:  true,
		Aggregate: likertCounts(col),
	}
}

func surveyTab() Tab {
	knowledge := survey.ColKnowledge
	feelings := survey.Desc(survey.ColFeelings)
	gender := survey.Desc(survey.ColGender)
	major := survey.Desc(survey.ColMajor)
	replacement := survey.Desc(survey.ColJobReplacement)

	return Tab{
		ID:          survey.AcademicSurvey.Name,
		Title:       "Pesquisa Acadêmica (Survey_AI)",
		Heading:     "Resultados da Pesquisa Acadêmica (Survey_AI)",
		Instrument:  survey.AcademicSurvey.Name,
		SourceError: "Não foi possível carregar os dados da Pesquisa Acadêmica. Verifique o arquivo 'Survey_AI.csv'.",
		Charts: []ChartSpec{
			{
				ID:       "knowledge",
				Heading:  "Distribuição do Nível de Conhecimento sobre IA (Q1)",
				Requires: []string{knowledge},
				Subjects: []string{"Conhecimento_IA"},
				Render: render.Spec{
					Kind: render.KindBar, Title: "Distribuição do Nível de Conhecimento sobre IA",
					XLabel: "Nível de Conhecimento (Escala 1-10)", YLabel: axisRespondents, Palette: render.Viridis,
				},
				Aggregate: frequencyByKey(knowledge),
			},
			{
				ID:        "feelings",
				Heading:   "Sentimentos em Relação à IA (Q5)",
				Requires:  []string{feelings},
				Subjects:  []string{"Sentimentos_IA"},
				Render:    render.Spec{Kind: render.KindPie, Title: "Sentimentos Predominantes em Relação à IA", Palette: render.RdBu, Hole: 0.3},
				Aggregate: frequency(feelings),
			},
			likertChart("job-replacement", "Percepção sobre Substituição de Empregos pela IA", replacement, render.Plasma),
			likertChart("economic-growth", "Percepção sobre Crescimento Econômico pela IA", survey.Desc(survey.ColEconomicGrowth), render.Plasma),
			{
				ID:       "knowledge-by-gender",
				Heading:  "Perfil de Conhecimento sobre IA por Gênero",
				Requires: []string{knowledge, gender},
				Subjects: []string{"Conhecimento_IA", "Gênero"},
				Render: render.Spec{
					Kind: render.KindGrouped, Title: "Distribuição do Nível de Conhecimento sobre IA por Gênero",
					XLabel: "Gênero", YLabel: axisPeople, LegendTitle: "Nível de Conhecimento (1-10)", Palette: render.Viridis,
				},
				Aggregate: crosstab(gender, knowledge, crossOpts{}),
			},
			{
				ID:       "knowledge-by-feeling",
				Heading:  "Distribuição de Conhecimento por Sentimento",
				Requires: []string{knowledge, feelings},
				Subjects: []string{"Conhecimento_IA", "Sentimentos_IA"},
				Render: render.Spec{
					Kind: render.KindLine, Title: "Quantidade de Respondentes por Nível de Conhecimento e Sentimento",
					XLabel: "Nível de Conhecimento (1-10)", YLabel: "Número de Pessoas", LegendTitle: "Sentimento", Palette: render.Set1,
				},
				Aggregate: groups(feelings, knowledge),
			},
			{
				ID:       "replacement-by-major",
				Heading:  "Percepção de Substituição de Empregos por Curso",
				Requires: []string{major, replacement},
				Subjects: []string{"Curso", "Substituicao_Emprego"},
				Render: render.Spec{
					Kind: render.KindGrouped, Title: "Percepção de Substituição de Empregos pela IA por Curso",
					XLabel: "Curso", YLabel: axisPeople, LegendTitle: axisAgreement, Palette: render.Plasma,
				},
				Aggregate: crosstab(major, replacement, crossOpts{cols: survey.LikertOrder, zeroFill: true}),
			},
			{
				ID:       "gpa-vs-knowledge",
				Heading:  "Relação entre GPA e Conhecimento sobre IA",
				Requires: []string{survey.ColGPA, knowledge},
				Subjects: []string{"GPA", "Conhecimento_IA"},
				Render: render.Spec{
					Kind: render.KindScatter, Title: "Relação entre GPA e Nível de Conhecimento sobre IA",
					XLabel: "GPA (Grade Point Average)", YLabel: "Nível de Conhecimento sobre IA (1-10)", Palette: render.Viridis,
				},
				Aggregate: scatterWithTrend(survey.ColGPA, knowledge),
				Caption:   gpaCaption,
			},
			{
				ID:      "information-sources",
				Heading: "Fontes de Informação sobre IA",
				Render: render.Spec{
					Kind: render.KindBar, Title: "Fontes de Informação sobre IA Utilizadas pelos Respondentes",
					XLabel: "Fonte de Informação", YLabel: axisPeople, Palette: render.Plasma,
				},
				Aggregate: indicators(survey.SourceIndicators, "Dados de fontes de informação sobre IA não disponíveis."),
			},
		},
	}
}

func gpaCaption(d Data) string {
	mean, err := stats.Mean(d.X)
	if err != nil {
		return ""
	}
	caption := fmt.Sprintf("%d respondentes, GPA médio %.2f", len(d.X), mean)
	if d.Trend != nil {
		caption += fmt.Sprintf(", inclinação da tendência %.2f", d.Trend.Slope)
	}
	return caption
}

func impactTab() Tab {
	trust := survey.Desc(survey.ColTrust)
	impact := survey.Desc(survey.ColImpact)
	eliminates := survey.Desc(survey.ColEliminates)
	ownJob := survey.Desc(survey.ColOwnJob)
	limits := survey.Desc(survey.ColEthicalLimits)
	conscious := survey.Desc(survey.ColConscious)
	profession := survey.Desc(survey.ColProfession)
	devices := survey.Desc(survey.ColDeviceFrequency)

	stacked := func(title, x, y, legend, palette string) render.Spec {
		return render.Spec{
			Kind: render.KindStacked, Title: title, XLabel: x, YLabel: y,
			LegendTitle: legend, Palette: palette, RotateTicks: true,
		}
	}

	return Tab{
		ID:          survey.ImpactSurvey.Name,
		Title:       "Impacto Geral (Impact_AI_v2)",
		Heading:     "Resultados da Pesquisa de Impacto Geral (Impact_AI_v2)",
		Instrument:  survey.ImpactSurvey.Name,
		SourceError: "Não foi possível carregar os dados da Pesquisa de Impacto Geral. Verifique o arquivo 'Impact_AI_v2.csv'.",
		Charts: []ChartSpec{
			{
				ID:       "trust",
				Heading:  "Confiança Geral na Inteligência Artificial",
				Requires: []string{trust},
				Subjects: []string{"Confiança_IA"},
				Render: render.Spec{
					Kind: render.KindBar, Title: "Confiança Geral na Inteligência Artificial",
					XLabel: "Nível de Confiança", YLabel: axisRespondents, Palette: render.Sunset,
				},
				Aggregate: frequency(trust),
			},
			{
				ID:        "impact",
				Heading:   "Percepção do Impacto da IA na Humanidade",
				Requires:  []string{impact},
				Subjects:  []string{"Impacto_Humanidade"},
				Render:    render.Spec{Kind: render.KindPie, Title: "Percepção do Impacto da IA na Humanidade", Palette: render.Agsunset, Hole: 0.4},
				Aggregate: frequency(impact),
			},
			likertChart("freedom-threat", "Ameaça às Liberdades Individuais pela IA", survey.Desc(survey.ColFreedomThreat), render.Plasma),
			{
				ID:        "ethical-limits",
				Heading:   "Crença na Necessidade de Limites Éticos para a IA",
				Requires:  []string{limits},
				Subjects:  []string{"Limites_Éticos"},
				Render:    render.Spec{Kind: render.KindBar, Title: "A IA deve ser limitada por regras éticas?", XLabel: axisAgreement, YLabel: axisRespondents, Palette: render.Mint},
				KeepZero:  true,
				Aggregate: likertCounts(limits),
			},
			{
				ID:       "usage-by-trust",
				Heading:  "Uso Ativo de Produtos de IA vs Nível de Confiança",
				Requires: []string{trust, survey.ColUsageCategory},
				Subjects: []string{"Confiança_IA", "Uso_IA_Produtos"},
				Render: render.Spec{
					Kind: render.KindGrouped, Title: "Distribuição do Uso de Produtos de IA por Nível de Confiança",
					XLabel: "Nível de Confiança na IA", YLabel: axisPeople, LegendTitle: axisUsage, Palette: render.Viridis,
				},
				Aggregate: crosstab(trust, survey.ColUsageCategory, crossOpts{cols: survey.UsageOrder, zeroFill: true}),
			},
			{
				ID:            "elimination-by-age",
				Heading:       "Idade vs Crença na Eliminação de Profissões pela IA",
				Requires:      []string{survey.ColAgeRange, eliminates},
				MissingNotice: "Dados para idade ou para eliminação de profissões não disponíveis.",
				Render: stacked("Percepção de Eliminação de Profissões pela IA por Faixa Etária",
					"Faixa etária", "Percentual dentro de cada faixa etária", "Eliminação de Profissões", render.Plasma),
				Aggregate: crosstab(survey.ColAgeRange, eliminates, crossOpts{normalized: true}),
			},
			{
				ID:       "impact-by-knowledge",
				Heading:  "Impacto da IA na Humanidade por Nível de Conhecimento",
				Requires: []string{survey.ColKnowledgeBand, impact},
				Subjects: []string{"Conhecimento_IA", "Impacto_Humanidade"},
				Render: stacked("Percepção de Impacto da IA na Humanidade por Nível de Conhecimento",
					"Nível de Conhecimento em IA", "Percentual dentro de cada faixa de conhecimento", "Impacto na Humanidade", render.Sunset),
				Aggregate: crosstab(survey.ColKnowledgeBand, impact, crossOpts{rows: survey.KnowledgeBandOrder, normalized: true}),
			},
			{
				ID:       "limits-vs-conscious",
				Heading:  "Limites Éticos vs Crença em IA Consciente",
				Requires: []string{limits, conscious},
				Subjects: []string{"Limites_Éticos", "IA_Consciente"},
				Render: stacked("Crença em Limites Éticos para IA vs Crença em IA Consciente",
					"Posição sobre Limites Éticos", "Percentual dentro de cada posição sobre limites éticos", "Crença em IA Consciente", render.Mint),
				Aggregate: crosstab(limits, conscious, crossOpts{rows: survey.LikertOrder, normalized: true}),
			},
			{
				ID:       "trust-by-education",
				Heading:  "Nível de Educação vs Confiança em IA",
				Requires: []string{survey.ColEducationDesc, trust},
				Subjects: []string{"Nível de Educação", "Confiança_IA"},
				Render: stacked("Confiança em IA por Nível de Educação",
					"Nível de Educação", "Percentual dentro de cada nível de educação", "Nível de Confiança", render.Sunset),
				Aggregate: crosstab(survey.ColEducationDesc, trust, crossOpts{normalized: true}),
			},
			{
				ID:       "risk-by-employment",
				Heading:  "Status de Emprego vs Percepção de Risco ao Próprio Emprego",
				Requires: []string{survey.ColEmploymentDesc, ownJob},
				Subjects: []string{"Status de Emprego", "Afeta_Emprego_Pessoal"},
				Render: stacked("Percepção de Risco ao Próprio Emprego por Status de Emprego",
					"Status de Emprego", "Percentual dentro de cada status de emprego", axisRisk, render.Plasma),
				Aggregate: crosstab(survey.ColEmploymentDesc, ownJob, crossOpts{normalized: true}),
			},
			{
				ID:       "risk-by-profession",
				Heading:  "Profissão vs Percepção de Risco ao Próprio Emprego",
				Requires: []string{profession, ownJob},
				Subjects: []string{"Profissão", "Afeta_Emprego_Pessoal"},
				Render: stacked("Percepção de Risco ao Próprio Emprego por Profissão",
					"Profissão", "Percentual dentro de cada profissão", axisRisk, render.Plasma),
				Aggregate: crosstab(profession, ownJob, crossOpts{normalized: true, rowFilter: frequentProfessions(profession)}),
			},
			{
				ID:       "usage-by-devices",
				Heading:  "Frequência de Uso de Dispositivos Tecnológicos vs Uso de Produtos de IA",
				Requires: []string{devices, survey.ColUsageCategory},
				Subjects: []string{"Frequencia_Dispositivos", "Uso_IA_Produtos"},
				Render: stacked("Distribuição do Uso de Produtos de IA por Frequência de Uso de Dispositivos Tecnológicos",
					"Frequência de Uso de Dispositivos Tecnológicos", "Percentual dentro de cada frequência de uso", axisUsage, render.Viridis),
				Aggregate: crosstab(devices, survey.ColUsageCategory, crossOpts{
					rows: survey.DeviceFrequencyOrder, cols: survey.UsageOrder, normalized: true,
				}),
			},
		},
	}
}

// frequentProfessions keeps professions with at least MinProfessionRespondents answers, most frequent first.
func frequentProfessions(col string) func(*survey.Table) ([]string, error) {
	return func(t *survey.Table) ([]string, error) {
		counts, err := analysis.Frequency(t, col)
		if err != nil {
			return nil, err
		}
		if counts.Total() == 0 {
			return nil, missingData("Não há dados de profissão disponíveis para exibir o gráfico.")
		}
		var keep []string
		for _, c := range counts {
			if c.N >= MinProfessionRespondents {
				keep = append(keep, c.Label)
			}
		}
		if len(keep) == 0 {
			return nil, insufficientData("Não há profissões com número suficiente de respondentes para exibir o gráfico.")
		}
		return keep, nil
	}
}
