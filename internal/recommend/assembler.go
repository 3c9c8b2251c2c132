// Package recommend turns consumed activity events into persisted
// recommendations.
package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/fitcoach/internal/ai"
	"example.com/fitcoach/internal/domain"
)

// Placeholder strings used when an extracted list would otherwise be empty.
// Every stored recommendation has non-empty list fields.
const (
	placeholderImprovements = "No specific improvements provided"
	placeholderSuggestions  = "No specific Suggestion provided"
	placeholderSafety       = "Follow general safety guidelines."
)

// Fixed fallback content used when the model call or normalization fails.
const (
	fallbackAnalysis    = "Server is busy, try after some time."
	fallbackImprovement = "Continue with your current routine."
	fallbackSuggestion  = "Try consulting with a fitness coach."
)

var fallbackSafety = []string{
	"Try consulting with a fitness coach.",
	"Do not do any reckless activity.",
}

type analysisSection struct {
	label string
	value *string
}

// Assemble combines the source activity with a normalized analysis into the
// final recommendation. Analysis sections appear in fixed order; absent
// sections are skipped. Empty lists collapse to their placeholder.
func Assemble(activity domain.Activity, parsed *ai.ParsedAnalysis, now time.Time) domain.Recommendation {
	var analysis strings.Builder
	sections := []analysisSection{
		{label: "Overall:", value: parsed.Overall},
		{label: "Pace:", value: parsed.Pace},
		{label: "Heart Rate:", value: parsed.HeartRate},
		{label: "Calories Burned:", value: parsed.CaloriesBurned},
	}
	for _, section := range sections {
		if section.value == nil {
			continue
		}
		analysis.WriteString(section.label)
		analysis.WriteString(*section.value)
		analysis.WriteString("\n\n")
	}

	improvements := make([]string, 0, len(parsed.Improvements))
	for _, improvement := range parsed.Improvements {
		improvements = append(improvements, fmt.Sprintf("%s: %s", improvement.Area, improvement.Recommendation))
	}
	if len(improvements) == 0 {
		improvements = []string{placeholderImprovements}
	}

	suggestions := make([]string, 0, len(parsed.Suggestions))
	for _, suggestion := range parsed.Suggestions {
		suggestions = append(suggestions, fmt.Sprintf("%s: %s", suggestion.Workout, suggestion.Description))
	}
	if len(suggestions) == 0 {
		suggestions = []string{placeholderSuggestions}
	}

	safety := parsed.Safety
	if len(safety) == 0 {
		safety = []string{placeholderSafety}
	}

	return domain.Recommendation{
		ID:           uuid.NewString(),
		ActivityID:   activity.ID,
		UserID:       activity.UserID,
		ActivityType: string(activity.Type),
		Analysis:     strings.TrimSpace(analysis.String()),
		Improvements: improvements,
		Suggestions:  suggestions,
		Safety:       safety,
		CreatedAt:    now,
	}
}

// Default builds the fixed fallback recommendation. Model failure is treated
// as recoverable: every consumed event still yields one persisted record.
func Default(activity domain.Activity, now time.Time) domain.Recommendation {
	return domain.Recommendation{
		ID:           uuid.NewString(),
		ActivityID:   activity.ID,
		UserID:       activity.UserID,
		ActivityType: string(activity.Type),
		Analysis:     fallbackAnalysis,
		Improvements: []string{fallbackImprovement},
		Suggestions:  []string{fallbackSuggestion},
		Safety:       append([]string(nil), fallbackSafety...),
		CreatedAt:    now,
	}
}
