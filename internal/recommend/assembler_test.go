package recommend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitcoach/internal/ai"
	"example.com/fitcoach/internal/domain"
)

func ptr(s string) *string { return &s }

func mustQuote(t *testing.T, s string) string {
	t.Helper()
	quoted, err := json.Marshal(s)
	require.NoError(t, err)
	return string(quoted)
}

var testActivity = domain.Activity{
	ID:     "act-1",
	UserID: "user-1",
	Type:   domain.ActivityRunning,
}

func TestAssembleSectionOrder(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	rec := Assemble(testActivity, &ai.ParsedAnalysis{
		Overall:        ptr("A"),
		Pace:           ptr("B"),
		HeartRate:      ptr("C"),
		CaloriesBurned: ptr("D"),
	}, now)

	require.Equal(t, "Overall:A\n\nPace:B\n\nHeart Rate:C\n\nCalories Burned:D", rec.Analysis)
	require.Equal(t, "act-1", rec.ActivityID)
	require.Equal(t, "user-1", rec.UserID)
	require.Equal(t, "RUNNING", rec.ActivityType)
	require.Equal(t, now, rec.CreatedAt)
	require.NotEmpty(t, rec.ID)
}

func TestAssembleSkipsAbsentSections(t *testing.T) {
	rec := Assemble(testActivity, &ai.ParsedAnalysis{
		Pace:           ptr("Steady"),
		CaloriesBurned: ptr("High"),
	}, time.Now().UTC())

	require.Equal(t, "Pace:Steady\n\nCalories Burned:High", rec.Analysis)
}

func TestAssemblePlaceholdersForEmptyLists(t *testing.T) {
	rec := Assemble(testActivity, &ai.ParsedAnalysis{}, time.Now().UTC())

	require.Equal(t, []string{"No specific improvements provided"}, rec.Improvements)
	require.Equal(t, []string{"No specific Suggestion provided"}, rec.Suggestions)
	require.Equal(t, []string{"Follow general safety guidelines."}, rec.Safety)
}

func TestAssembleRendersPairs(t *testing.T) {
	rec := Assemble(testActivity, &ai.ParsedAnalysis{
		Improvements: []ai.Improvement{{Area: "Form", Recommendation: "Keep back straight"}},
		Suggestions:  []ai.Suggestion{{Workout: "Intervals", Description: "4x800m"}},
		Safety:       []string{"Stay hydrated"},
	}, time.Now().UTC())

	require.Equal(t, []string{"Form: Keep back straight"}, rec.Improvements)
	require.Equal(t, []string{"Intervals: 4x800m"}, rec.Suggestions)
	require.Equal(t, []string{"Stay hydrated"}, rec.Safety)
}

// End-to-end check of the worked normalization example.
func TestNormalizeAndAssembleExample(t *testing.T) {
	inner := `{"analysis":{"overall":"Good pace"},"improvements":[{"area":"Form","recommendation":"Keep back straight"}],"suggestions":[],"safety":["Stay hydrated"]}`
	raw := `{"candidates":[{"content":{"parts":[{"text":` + mustQuote(t, inner) + `}]}}]}`

	parsed, err := ai.Normalize(raw)
	require.NoError(t, err)

	rec := Assemble(testActivity, parsed, time.Now().UTC())
	require.Equal(t, "Overall:Good pace", rec.Analysis)
	require.Equal(t, []string{"Form: Keep back straight"}, rec.Improvements)
	require.Equal(t, []string{"No specific Suggestion provided"}, rec.Suggestions)
	require.Equal(t, []string{"Stay hydrated"}, rec.Safety)
}

func TestDefaultRecommendation(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	rec := Default(testActivity, now)

	require.Equal(t, "Server is busy, try after some time.", rec.Analysis)
	require.Equal(t, []string{"Continue with your current routine."}, rec.Improvements)
	require.Equal(t, []string{"Try consulting with a fitness coach."}, rec.Suggestions)
	require.Equal(t, []string{
		"Try consulting with a fitness coach.",
		"Do not do any reckless activity.",
	}, rec.Safety)
	require.Equal(t, now, rec.CreatedAt)
	require.Equal(t, "act-1", rec.ActivityID)
}
