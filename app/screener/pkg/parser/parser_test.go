package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BareArray(t *testing.T) {
	res, err := Parse("[]")
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
	assert.NotNil(t, res.Findings)
	assert.Empty(t, res.NextSteps)
	assert.Nil(t, res.OverallRiskAssessment)

	res, err = Parse(`[{"title":"A"},{"title":"B"}]`)
	require.NoError(t, err)
	assert.Len(t, res.Findings, 2)
	assert.Empty(t, res.NextSteps)
}

func TestParse_ObjectWithOnlyFindings(t *testing.T) {
	res, err := Parse(`{"findings":[{"title":"X"}]}`)
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, map[string]any{"title": "X"}, res.Findings[0])
	assert.NotNil(t, res.NextSteps)
	assert.Empty(t, res.NextSteps)
	assert.Nil(t, res.OverallRiskAssessment)
}

func TestParse_FullObject(t *testing.T) {
	raw := `{"findings":[],"nextSteps":[{"action":"EDD"}],"overallRiskAssessment":{"level":"Low"}}`
	res, err := Parse(raw)
	require.NoError(t, err)
	assert.Len(t, res.NextSteps, 1)
	assert.Equal(t, map[string]any{"level": "Low"}, res.OverallRiskAssessment)
}

func TestParse_ProseAndCodeFences(t *testing.T) {
	raw := "Here is the screening result:\n```json\n{\"findings\":[{\"title\":\"Fine\"}]}\n```\nLet me know if you need more."
	res, err := Parse(raw)
	require.NoError(t, err)
	assert.Len(t, res.Findings, 1)
}

func TestParse_NotJSON(t *testing.T) {
	_, err := Parse("not json at all")
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "not json at all", pe.Raw)
}

func TestParse_GreedyMatchSpansMultipleBlocks(t *testing.T) {
	// 两个独立的 JSON 块会被贪婪匹配成一个非法片段
	_, err := Parse(`first {"findings":[]} and then {"nextSteps":[]}`)
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestParse_ScalarsYieldEmptyResult(t *testing.T) {
	for _, raw := range []string{"42", `"text"`, "null", "true"} {
		res, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Empty(t, res.Findings, raw)
		assert.Empty(t, res.NextSteps, raw)
		assert.Nil(t, res.OverallRiskAssessment, raw)
	}
}

func TestParse_IllTypedListsAreEmpty(t *testing.T) {
	res, err := Parse(`{"findings":{"title":"X"},"nextSteps":"none"}`)
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
	assert.Empty(t, res.NextSteps)
}
