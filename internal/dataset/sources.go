package dataset

import (
	"gosurvey/adapters/filesource"
	"gosurvey/domain/survey"
	"gosurvey/internal/config"
)

// Sources returns the academic and impact survey sources described by cfg, in that order.
func Sources(cfg config.DataConfig) []Source {
	if cfg.Backend == config.BackendSQL {
		return []Source{
			{Instrument: survey.AcademicSurvey.Name, Kind: KindSQL, Locator: cfg.SurveyQuery},
			{Instrument: survey.ImpactSurvey.Name, Kind: KindSQL, Locator: cfg.ImpactQuery},
		}
	}
	return []Source{
		{Instrument: survey.AcademicSurvey.Name, Kind: KindFile, Locator: cfg.SurveySource, Encodings: filesource.DefaultEncodings},
		{Instrument: survey.ImpactSurvey.Name, Kind: KindFile, Locator: cfg.ImpactSource, Encodings: filesource.DefaultEncodings},
	}
}
