package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const innerPayload = `{
  "analysis": {
    "overall": "Solid session",
    "pace": "Steady",
    "heartRate": "Zone 2",
    "caloriesBurned": "On target"
  },
  "improvements": [
    {"area": "Form", "recommendation": "Keep back straight"}
  ],
  "suggestions": [
    {"workout": "Intervals", "description": "4x800m at threshold"}
  ],
  "safety": ["Stay hydrated", "Warm up first"]
}`

func wrapCandidates(t *testing.T, text string) string {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{
						map[string]interface{}{"text": text},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	return string(body)
}

func wrapContents(t *testing.T, text string) string {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"contents": []interface{}{
			map[string]interface{}{
				"parts": []interface{}{
					map[string]interface{}{"text": text},
				},
			},
		},
	})
	require.NoError(t, err)
	return string(body)
}

func TestNormalizeCandidatesShape(t *testing.T) {
	parsed, err := Normalize(wrapCandidates(t, innerPayload))
	require.NoError(t, err)

	require.NotNil(t, parsed.Overall)
	require.Equal(t, "Solid session", *parsed.Overall)
	require.NotNil(t, parsed.Pace)
	require.Equal(t, "Steady", *parsed.Pace)
	require.NotNil(t, parsed.HeartRate)
	require.Equal(t, "Zone 2", *parsed.HeartRate)
	require.NotNil(t, parsed.CaloriesBurned)
	require.Equal(t, "On target", *parsed.CaloriesBurned)

	require.Equal(t, []Improvement{{Area: "Form", Recommendation: "Keep back straight"}}, parsed.Improvements)
	require.Equal(t, []Suggestion{{Workout: "Intervals", Description: "4x800m at threshold"}}, parsed.Suggestions)
	require.Equal(t, []string{"Stay hydrated", "Warm up first"}, parsed.Safety)
}

func TestNormalizeContentsShape(t *testing.T) {
	fromCandidates, err := Normalize(wrapCandidates(t, innerPayload))
	require.NoError(t, err)

	fromContents, err := Normalize(wrapContents(t, innerPayload))
	require.NoError(t, err)

	require.Equal(t, fromCandidates, fromContents)
}

func TestNormalizeFencedTextMatchesUnfenced(t *testing.T) {
	unfenced, err := Normalize(wrapCandidates(t, innerPayload))
	require.NoError(t, err)

	fenced, err := Normalize(wrapCandidates(t, "```json\n"+innerPayload+"\n```"))
	require.NoError(t, err)

	require.Equal(t, unfenced, fenced)
}

func TestNormalizeAbsentAnalysisKeys(t *testing.T) {
	parsed, err := Normalize(wrapCandidates(t, `{"analysis":{"overall":"Good pace"}}`))
	require.NoError(t, err)

	require.NotNil(t, parsed.Overall)
	require.Equal(t, "Good pace", *parsed.Overall)
	require.Nil(t, parsed.Pace)
	require.Nil(t, parsed.HeartRate)
	require.Nil(t, parsed.CaloriesBurned)
	require.Empty(t, parsed.Improvements)
	require.Empty(t, parsed.Suggestions)
	require.Empty(t, parsed.Safety)
}

func TestNormalizeMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "model unavailable"},
		{name: "no text path", raw: `{"error":{"code":429}}`},
		{name: "empty candidates", raw: `{"candidates":[]}`},
		{name: "inner not json", raw: ""},
	}
	cases[3].raw = wrapCandidates(t, "Sorry, I cannot help with that.")

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.raw)
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestNormalizeInnerNonObjectJSON(t *testing.T) {
	parsed, err := Normalize(wrapCandidates(t, `["not","an","object"]`))
	require.NoError(t, err)
	require.Equal(t, &ParsedAnalysis{}, parsed)
}

func TestNormalizeIllTypedFieldsAreDropped(t *testing.T) {
	parsed, err := Normalize(wrapCandidates(t, `{"analysis":{"overall":"Fine"},"improvements":"none","safety":[1,2]}`))
	require.NoError(t, err)

	require.NotNil(t, parsed.Overall)
	require.Empty(t, parsed.Improvements)
	require.Empty(t, parsed.Safety)
}

func TestNormalizeMissingSubKeysDefaultToEmpty(t *testing.T) {
	parsed, err := Normalize(wrapCandidates(t, `{"improvements":[{"area":"Form"}],"suggestions":[{"description":"Easy jog"}]}`))
	require.NoError(t, err)

	require.Equal(t, []Improvement{{Area: "Form", Recommendation: ""}}, parsed.Improvements)
	require.Equal(t, []Suggestion{{Workout: "", Description: "Easy jog"}}, parsed.Suggestions)
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "  {\"a\":1}  ", want: `{"a":1}`},
		{in: "{\"a\":1}", want: `{"a":1}`},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, stripCodeFences(tc.in))
	}
}
