package otfanalyze

import (
	"testing"

	"github.com/nsip/otf-analyze/internal/miscon"
	"github.com/stretchr/testify/assert"
)

func TestDeriveRisk(t *testing.T) {

	// catch-all clusters use the confidence complement
	assert.InDelta(t, 0.3, deriveRisk(miscon.Prediction{Label: "noise", Confidence: 0.7, Risk: 0.9}), 1e-9)
	assert.InDelta(t, 0.1, deriveRisk(miscon.Prediction{Label: "misc", Confidence: 0.9, Risk: 0.9}), 1e-9)

	// everything else keeps its own risk
	assert.Equal(t, 0.6, deriveRisk(miscon.Prediction{Label: "epsilon-confusion", Confidence: 0.9, Risk: 0.6}))

	// "noisey" is not "noise": exact match only
	assert.Equal(t, 0.2, deriveRisk(miscon.Prediction{Label: "noisey", Confidence: 0.7, Risk: 0.2}))
}

func TestDeriveRiskClamped(t *testing.T) {
	assert.Equal(t, 1.0, deriveRisk(miscon.Prediction{Label: "x", Risk: 1.7}))
	assert.Equal(t, 0.0, deriveRisk(miscon.Prediction{Label: "x", Risk: -0.2}))
}

func TestAnswerScoreBlend(t *testing.T) {
	// 0.65*0.8 + 0.35*(1-0.2) = 0.8
	assert.Equal(t, 0.8, answerScore(0.8, 0.2))
	assert.Equal(t, 1.0, answerScore(1.0, 0.0))
	assert.Equal(t, 0.35, answerScore(0.0, 0.0))
	assert.Equal(t, 0.0, answerScore(0.0, 1.0))
}

func TestBuildChartsGapNeverNegative(t *testing.T) {

	charts := buildCharts(0.95, 0.5, 0.5, 0.2)
	assert.Equal(t, "Gaps vs Ideal", charts.Pie[1].Name)
	assert.Equal(t, 0.0, charts.Pie[1].Value)
}

func TestBuildChartsRiskSliceCapped(t *testing.T) {

	charts := buildCharts(0.2, 0.5, 0.5, 0.9)
	assert.Equal(t, "Misconception Risk", charts.Pie[2].Name)
	assert.Equal(t, 0.4, charts.Pie[2].Value)

	// below the cap the true risk shows through
	charts = buildCharts(0.2, 0.5, 0.5, 0.25)
	assert.Equal(t, 0.25, charts.Pie[2].Value)
}

func TestBuildChartsBars(t *testing.T) {

	charts := buildCharts(0.8124, 0.61239, 0.333, 0.2)
	assert.Equal(t, []BarEntry{
		{Metric: "User vs Ideal", Value: 0.812},
		{Metric: "Question vs Ideal", Value: 0.612},
		{Metric: "Difficulty (0 easy–1 hard)", Value: 0.333},
	}, charts.Bars)
}

func TestAnalyzeRequestValidation(t *testing.T) {

	ok := AnalyzeRequest{QuestionText: "Why?", IdealAnswerText: "Because of X.", UserAnswerText: "X"}
	assert.NoError(t, ok.validate())

	short := ok
	short.QuestionText = " ab "
	assert.Error(t, short.validate())

	short = ok
	short.IdealAnswerText = "a"
	assert.Error(t, short.validate())

	short = ok
	short.UserAnswerText = "   "
	assert.Error(t, short.validate())
}
