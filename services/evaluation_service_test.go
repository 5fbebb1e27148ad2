package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluationJSON(t *testing.T) {
	raw := `{"strengths":"a","weaknesses":"b","opportunities":"c","threats":"d","riskScore":7}`

	result, err := parseEvaluationJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "a", result.Strengths)
	assert.Equal(t, 7, result.RiskScore)
}

func TestParseEvaluationJSON_StripsMarkdownFences(t *testing.T) {
	fenced := "```json\n{\"strengths\":\"a\",\"weaknesses\":\"b\",\"opportunities\":\"c\",\"threats\":\"d\",\"riskScore\":3}\n```"

	result, err := parseEvaluationJSON(fenced)
	require.NoError(t, err)
	assert.Equal(t, 3, result.RiskScore)

	bare := "```\n{\"strengths\":\"a\",\"weaknesses\":\"b\",\"opportunities\":\"c\",\"threats\":\"d\",\"riskScore\":4}\n```"
	result, err = parseEvaluationJSON(bare)
	require.NoError(t, err)
	assert.Equal(t, 4, result.RiskScore)
}

func TestParseEvaluationJSON_ScoreDefaultsAndClamps(t *testing.T) {
	missing := `{"strengths":"a","weaknesses":"b","opportunities":"c","threats":"d"}`
	result, err := parseEvaluationJSON(missing)
	require.NoError(t, err)
	assert.Equal(t, 5, result.RiskScore)

	high := `{"strengths":"a","weaknesses":"b","opportunities":"c","threats":"d","riskScore":99}`
	result, err = parseEvaluationJSON(high)
	require.NoError(t, err)
	assert.Equal(t, 10, result.RiskScore)

	low := `{"strengths":"a","weaknesses":"b","opportunities":"c","threats":"d","riskScore":-2}`
	result, err = parseEvaluationJSON(low)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RiskScore)
}

func TestParseEvaluationJSON_Unparseable(t *testing.T) {
	_, err := parseEvaluationJSON("Sorry, I cannot help with that.")
	assert.Error(t, err)
}

func TestFallbackEvaluation(t *testing.T) {
	result := fallbackEvaluation("FinTech")
	assert.Contains(t, result.Strengths, "FinTech")
	assert.Equal(t, 5, result.RiskScore)

	// Same input, same output: the fallback must be deterministic.
	assert.Equal(t, result, fallbackEvaluation("FinTech"))

	blank := fallbackEvaluation("")
	assert.Contains(t, blank.Strengths, "the target market")
}
