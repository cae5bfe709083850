package survey

// Internal column names shared by the instruments and the chart catalog.
const (
	ColKnowledge        = "Conhecimento_IA"
	ColJobReplacement   = "Substituicao_Emprego"
	ColProblemSolving   = "Resolucao_Problemas"
	ColRulingSociety    = "IA_Governa_Sociedade"
	ColEconomicGrowth   = "Crescimento_Economico"
	ColJobLoss          = "Perda_Emprego"
	ColFeelings         = "Sentimentos_IA"
	ColGender           = "Genero"
	ColYearOfStudy      = "Ano_Estudo"
	ColMajor            = "Curso"
	ColPassedExams      = "Exames_Aprovados"
	ColGPA              = "GPA"
	ColTrust            = "Confiança_IA"
	ColImpact           = "Impacto_Humanidade"
	ColFreedomThreat    = "Ameaça_Liberdades"
	ColEliminates       = "Elimina_Profissões"
	ColOwnJob           = "Afeta_Emprego_Pessoal"
	ColEthicalLimits    = "Limites_Éticos"
	ColConscious        = "IA_Consciente"
	ColProfession       = "Profissao"
	ColDeviceFrequency  = "Frequencia_Dispositivos"
	ColProductUse       = "Uso_IA_Produtos"
	ColUsageCategory    = "Uso_IA_Categoria"
	ColKnowledgeBand    = "Conhecimento_IA_Faixa"
	ColEducationLevel   = "What is your education level?"
	ColEmploymentStatus = "What is your employment status?"
	ColAgeRange         = "What is your age range?"
	ColEducationDesc    = "Nivel_Educacao_Desc"
	ColEmploymentDesc   = "Status_Emprego_Desc"
)

// Desc returns the derived display column for a coded column.
func Desc(col string) string { return col + "_Desc" }

// Information-source indicator columns of the academic survey, with their display labels.
var SourceIndicators = []Indicator{
	{Column: "Q2#1.Internet", Label: "Internet"},
	{Column: "Q2#2.Books/Papers", Label: "Livros/Artigos"},
	{Column: "Q2#3.Social_media", Label: "Redes Sociais"},
	{Column: "Q2#4.Discussions", Label: "Discussões"},
	{Column: "Q2#5.NotInformed", Label: "Não me informo"},
}

// Indicator is a 0/1 column shown under a display label.
type Indicator struct {
	Column string
	Label  string
}

// Display orders.
var (
	LikertOrder = []string{"Discordo Fortemente", "Discordo", "Neutro", "Concordo", "Concordo Fortemente"}

	DeviceFrequencyOrder = []string{"0 a 2 horas por dia", "2 a 5 horas por dia", "5 a 10 horas por dia", "Mais de 10 horas por dia"}
)

var likertCodes = map[string]string{
	"1": "Discordo Fortemente",
	"2": "Discordo",
	"3": "Neutro",
	"4": "Concordo",
	"5": "Concordo Fortemente",
}

// Instrument is everything needed to turn one raw questionnaire export into a charting table.
type Instrument struct {
	Name    string
	Renames map[string]string
	Fields  []FieldSpec
	Numeric []string
	Derived []Derivation
}

// Derivation builds a column from another with a per-cell function.
type Derivation struct {
	Source string
	Target string
	Fn     func(Value) Value
}

// PrepareReport describes what Prepare did to a table.
type PrepareReport struct {
	Renamed int
	Recodes []RecodeResult
	Derived []string
}

// Prepare renames, recodes, coerces numeric columns and derives bands, in that order.
// Every step is skipped silently for columns the table does not have.
func (in Instrument) Prepare(t *Table) PrepareReport {
	rep := PrepareReport{Renamed: t.Rename(in.Renames)}
	CoerceNumeric(t, in.Numeric...)
	for _, f := range in.Fields {
		rep.Recodes = append(rep.Recodes, f.Apply(t))
	}
	for _, d := range in.Derived {
		if Derive(t, d.Source, d.Target, d.Fn) {
			rep.Derived = append(rep.Derived, d.Target)
		}
	}
	return rep
}

func likert(col string) FieldSpec {
	return FieldSpec{Source: col, Target: Desc(col), Keys: KeyInteger, Codes: likertCodes}
}

func trimmed(col, target string, codes map[string]string) FieldSpec {
	return FieldSpec{Source: col, Target: target, Normalize: NormalizeTrim, Codes: codes}
}

// AcademicSurvey is the student questionnaire (Survey_AI.csv) with integer-coded answers.
var AcademicSurvey = Instrument{
	Name: "survey",
	Renames: map[string]string{
		"Q1.AI_knowledge":         ColKnowledge,
		"Q3#2.Job_replacement":    ColJobReplacement,
		"Q3#3.Problem_solving":    ColProblemSolving,
		"Q3#4.AI_rulling_society": ColRulingSociety,
		"Q4#3.Economic_growth":    ColEconomicGrowth,
		"Q4#4.Job_loss":           ColJobLoss,
		"Q5.Feelings":             ColFeelings,
		"Q12.Gender":              ColGender,
		"Q13.Year_of_study":       ColYearOfStudy,
		"Q14.Major":               ColMajor,
		"Q15.Passed_exams":        ColPassedExams,
		"Q16.GPA":                 ColGPA,
	},
	Fields: []FieldSpec{
		{Source: ColFeelings, Target: Desc(ColFeelings), Keys: KeyInteger, Codes: map[string]string{
			"1": "Otimista", "2": "Ansioso", "3": "Indiferente", "4": "Cético",
		}},
		{Source: ColGender, Target: Desc(ColGender), Keys: KeyInteger, Codes: map[string]string{
			"1": "Masculino", "2": "Feminino",
		}},
		{Source: ColMajor, Target: Desc(ColMajor), Keys: KeyInteger, Codes: map[string]string{
			"1": "Curso 1", "2": "Curso 2", "3": "Curso 3",
		}},
		likert(ColJobReplacement),
		likert(ColProblemSolving),
		likert(ColRulingSociety),
		likert(ColEconomicGrowth),
		likert(ColJobLoss),
	},
	Numeric: []string{ColGPA, ColPassedExams},
}

// ImpactSurvey is the general-public questionnaire with free-text answers.
var ImpactSurvey = Instrument{
	Name: "impact",
	Renames: map[string]string{
		"How much knowledge do you have about artificial intelligence (AI) technologies?":                 ColKnowledge,
		"Do you generally trust artificial intelligence (AI)?":                                            ColTrust,
		"Do you think artificial intelligence (AI) will be generally beneficial or harmful to humanity?":  ColImpact,
		"I think artificial intelligence (AI) could threaten individual freedoms.":                        ColFreedomThreat,
		"Could artificial intelligence (AI) completely eliminate some professions?":                       ColEliminates,
		"Do you think your own job could be affected by artificial intelligence (AI)?":                    ColOwnJob,
		"Do you believe that artificial intelligence (AI) should be limited by ethical rules?":            ColEthicalLimits,
		"Could artificial intelligence (AI) one day become conscious like humans?":                        ColConscious,
		"What is your occupation? (optional)":                                                             ColProfession,
		"How often do you use technological devices?":                                                     ColDeviceFrequency,
		"Please rate how actively you use AI-powered products in your daily life on a scale from 1 to 5.": ColProductUse,
	},
	Fields: []FieldSpec{
		trimmed(ColTrust, Desc(ColTrust), map[string]string{
			"I trust it":              "Confio",
			"I don't trust it":        "Não Confio",
			"I don't trust it at all": "Não Confio",
			"I'm undecided":           "Neutro",
		}),
		trimmed(ColImpact, Desc(ColImpact), map[string]string{
			"Definitely beneficial":        "Definitivamente Benéfica",
			"More beneficial than harmful": "Mais Benéfica",
			"Both beneficial and harmful":  "Ambos",
			"More harmful than beneficial": "Mais Prejudicial",
			"Definitely harmful":           "Definitivamente Prejudicial",
			"I have no idea":               "Não Sei",
		}),
		agreement(ColFreedomThreat),
		agreement(ColEthicalLimits),
		trimmed(ColEliminates, Desc(ColEliminates), map[string]string{
			"Absolutely Can't handle it": "Com certeza não eliminará profissões",
			"Can't handle it":            "Provavelmente não eliminará profissões",
			"Removes":                    "Eliminará algumas profissões",
			"Definitely Removes":         "Com certeza eliminará profissões",
			"I have no idea":             "Não sei se eliminará profissões",
		}),
		trimmed(ColOwnJob, Desc(ColOwnJob), map[string]string{
			"Definitely I don't think so": "Com certeza não será afetado",
			"I don't think so":            "Acho que não será afetado",
			"I'm undecided":               "Estou indeciso(a)",
			"Think":                       "Talvez seja afetado",
			"I definitely think":          "Com certeza será afetado",
		}),
		trimmed(ColConscious, Desc(ColConscious), map[string]string{
			"Becomes":               "Sim, se tornará consciente",
			"Definitely Becomes":    "Com certeza se tornará consciente",
			"Can't":                 "Não pode se tornar consciente",
			"It certainly can't be": "Certamente não pode se tornar consciente",
			"I'm undecided":         "Estou indeciso(a)",
		}),
		trimmed(ColEducationLevel, ColEducationDesc, map[string]string{
			"Primary education":   "Ensino Fundamental",
			"High school":         "Ensino Médio",
			"Bachelor's degree":   "Graduação",
			"n Bachelor's degree": "Em Graduação",
		}),
		trimmed(ColEmploymentStatus, ColEmploymentDesc, map[string]string{
			"Student":    "Estudante",
			"Employed":   "Empregado",
			"Unemployed": "Desempregado",
		}),
		ProfessionField,
		trimmed(ColDeviceFrequency, Desc(ColDeviceFrequency), map[string]string{
			"Between 0 to 2 hours per day":  "0 a 2 horas por dia",
			"Between 2 to 5 hours per day":  "2 a 5 horas por dia",
			"Between 5 to 10 hours per day": "5 a 10 horas por dia",
			"More than 10 hours per day":    "Mais de 10 horas por dia",
		}),
	},
	Numeric: []string{ColProductUse},
	Derived: []Derivation{
		{Source: ColProductUse, Target: ColUsageCategory, Fn: UsageCategory},
		{Source: ColKnowledge, Target: ColKnowledgeBand, Fn: KnowledgeBand},
	},
}

// ProfessionField is the only recode that falls back to the cleaned original instead of missing.
var ProfessionField = FieldSpec{
	Source:    ColProfession,
	Target:    Desc(ColProfession),
	Normalize: NormalizeTrimLower,
	Fallback:  FallbackTitleCase,
	Codes: map[string]string{
		"student":               "Estudante",
		"engineer":              "Engenheiro(a)",
		"housewife":             "Dona de Casa",
		"teacher":               "Professor(a)",
		"textile":               "Têxtil",
		"sales & marketing":     "Vendas e Marketing",
		"sales &amp; marketing": "Vendas e Marketing",
		"child development":     "Desenvolvimento Infantil",
		"accounting":            "Contabilidade",
		"office driver":         "Motorista",
		"merchandising":         "Merchandising",
		"real estate agent":     "Corretor(a) de Imóveis",
	},
}

var agreementCodes = map[string]string{
	"strongly agree":    "Concordo Fortemente",
	"agree":             "Concordo",
	"i'm undecided":     "Neutro",
	"undecided":         "Neutro",
	"i disagree":        "Discordo",
	"disagree":          "Discordo",
	"strongly disagree": "Discordo Fortemente",
}

func agreement(col string) FieldSpec {
	return FieldSpec{Source: col, Target: Desc(col), Normalize: NormalizeTrimLower, Codes: agreementCodes}
}

// Instruments lists the known instruments by name.
var Instruments = map[string]Instrument{
	AcademicSurvey.Name: AcademicSurvey,
	ImpactSurvey.Name:   ImpactSurvey,
}
