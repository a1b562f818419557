package service

import (
	"math"

	"surq/internal/model"
)

// PointRates is the per-question-type reward schedule: what the respondent
// earns for answering and what publishing costs the creator.
type PointRates struct {
	Respondent float64
	Creator    float64
}

var pointRates = map[model.QuestionType]PointRates{
	model.QuestionTypeYesNo:          {Respondent: 0.5, Creator: 1},
	model.QuestionTypeRating:         {Respondent: 1.0, Creator: 2},
	model.QuestionTypeMultipleChoice: {Respondent: 1.0, Creator: 2.5},
	model.QuestionTypeText:           {Respondent: 1.5, Creator: 5},
}

// ComputeSurveyPoints sums the per-question rates, rounded to one decimal.
func ComputeSurveyPoints(questions []model.Question) (respondent, creator float64) {
	for _, q := range questions {
		rates, ok := pointRates[q.Type]
		if !ok {
			continue
		}
		respondent += rates.Respondent
		creator += rates.Creator
	}
	return math.Round(respondent*10) / 10, math.Round(creator*10) / 10
}
