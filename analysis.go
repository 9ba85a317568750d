package otfanalyze

import (
	"context"
	"math"

	"github.com/nsip/otf-analyze/internal/difficulty"
	"github.com/nsip/otf-analyze/internal/miscon"
	"github.com/nsip/otf-analyze/internal/text"
	"github.com/pkg/errors"
)

//
// weights of the blended answer score: similarity to the ideal answer
// dominates, misconception risk acts as a penalty term
//
const (
	simWeight  = 0.65
	riskWeight = 0.35
)

// headroom reserved in the pie for the misconception slice; a
// visual-balance constant, not a probability
const pieGapHeadroom = 0.15

// display-only ceiling on the misconception pie slice
const pieRiskCap = 0.4

type SimilarityPair struct {
	UserVsIdeal     float64 `json:"user_vs_ideal"`
	QuestionVsIdeal float64 `json:"question_vs_ideal"`
}

type PieSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type BarEntry struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type Charts struct {
	Pie  []PieSlice `json:"pie"`
	Bars []BarEntry `json:"bars"`
}

//
// AnalysisResult is the one-shot analysis payload: similarities,
// misconception prediction, difficulty, blended score, guidance and
// chart-ready data. derived per request, never persisted.
//
type AnalysisResult struct {
	QuestionText    string              `json:"question_text"`
	IdealAnswerText string              `json:"ideal_answer_text"`
	UserAnswerText  string              `json:"user_answer_text"`
	Similarity      SimilarityPair      `json:"similarity"`
	Misconception   miscon.Prediction   `json:"misconception"`
	Difficulty      difficulty.Estimate `json:"difficulty"`
	AnswerScore     float64             `json:"answer_score"`
	Guidance        string              `json:"guidance"`
	Charts          Charts              `json:"charts"`
}

//
// run the full analysis pipeline for one request against the shared,
// immutable model artifacts. all-or-nothing: any step failing fails
// the whole analysis.
//
func (s *OtfAnalyzeService) analyze(ctx context.Context, ar *AnalyzeRequest) (*AnalysisResult, error) {

	// similarities
	simUI, err := s.analyzer.Similarity(ctx, ar.UserAnswerText, ar.IdealAnswerText)
	if err != nil {
		return nil, errors.Wrap(err, "user/ideal similarity")
	}
	simQI, err := s.analyzer.Similarity(ctx, ar.QuestionText, ar.IdealAnswerText)
	if err != nil {
		return nil, errors.Wrap(err, "question/ideal similarity")
	}

	// misconception prediction
	pred, err := s.analyzer.Predict(ctx, ar.UserAnswerText, ar.QID)
	if err != nil {
		return nil, errors.Wrap(err, "misconception prediction")
	}

	// question difficulty
	diff := s.estimator.Estimate(ar.QuestionText, ar.QID)

	// blended answer quality score
	misRisk := deriveRisk(pred)
	score := answerScore(simUI, misRisk)

	guidance, err := s.analyzer.SuggestGuidance(ctx, ar.QuestionText, ar.IdealAnswerText, ar.UserAnswerText, pred.Label)
	if err != nil {
		return nil, errors.Wrap(err, "guidance generation")
	}

	return &AnalysisResult{
		QuestionText:    ar.QuestionText,
		IdealAnswerText: ar.IdealAnswerText,
		UserAnswerText:  ar.UserAnswerText,
		Similarity: SimilarityPair{
			UserVsIdeal:     text.Round(simUI, 3),
			QuestionVsIdeal: text.Round(simQI, 3),
		},
		Misconception: pred,
		Difficulty:    diff,
		AnswerScore:   score,
		Guidance:      guidance,
		Charts:        buildCharts(simUI, simQI, diff.DifficultyNorm, misRisk),
	}, nil
}

//
// misconception risk used in the blend. the "noise"/"misc" labels are
// catch-all clusters whose own risk field is uninformative, so risk is
// taken as the confidence complement for those; all other labels use
// the prediction's risk as-is. clamped to [0,1].
//
func deriveRisk(pred miscon.Prediction) float64 {

	risk := pred.Risk
	if pred.Label == "noise" || pred.Label == "misc" {
		risk = 1.0 - pred.Confidence
	}

	return math.Max(0.0, math.Min(1.0, risk))
}

func answerScore(simUI, misRisk float64) float64 {
	return text.Round(simWeight*simUI+riskWeight*(1.0-misRisk), 3)
}

//
// chart-ready payloads for the presentation client; the service does
// no rendering. the pie trades exactness for readability: the gap
// slice leaves fixed headroom and the risk slice is capped.
//
func buildCharts(simUI, simQI, diffNorm, misRisk float64) Charts {

	pie := []PieSlice{
		{Name: "Matches Ideal", Value: text.Round(simUI, 3)},
		{Name: "Gaps vs Ideal", Value: text.Round(math.Max(0.0, 1.0-simUI-pieGapHeadroom), 3)},
		{Name: "Misconception Risk", Value: text.Round(math.Min(pieRiskCap, misRisk), 3)},
	}

	bars := []BarEntry{
		{Metric: "User vs Ideal", Value: text.Round(simUI, 3)},
		{Metric: "Question vs Ideal", Value: text.Round(simQI, 3)},
		{Metric: "Difficulty (0 easy–1 hard)", Value: text.Round(diffNorm, 3)},
	}

	return Charts{Pie: pie, Bars: bars}
}
