package ai

import (
	"fmt"
	"sort"
	"strings"

	"example.com/fitcoach/internal/domain"
)

const promptTemplate = `Analyze this fitness activity and provide detailed recommendations in the following EXACT JSON format:
{
  "analysis": {
    "overall": "Overall analysis here",
    "pace": "Pace analysis here",
    "heartRate": "Heart rate analysis here",
    "caloriesBurned": "Calories analysis here"
  },
  "improvements": [
    {
      "area": "Area name",
      "recommendation": "Detailed recommendation"
    }
  ],
  "suggestions": [
    {
      "workout": "Workout name",
      "description": "Detailed workout description"
    }
  ],
  "safety": [
    "Safety point 1",
    "Safety point 2"
  ]
}
Analyze this activity:
ActivityType: %s
Duration: %d minutes
Calories Burned: %d
Additional Metrics: %s

Provide detailed analysis focusing on performance, improvements, next workout suggestions, and safety guidelines.
Ensure the response follows the EXACT JSON format shown above.`

// BuildPrompt renders the fixed instructional template for an activity. The
// response normalizer is written against the JSON schema demanded here.
func BuildPrompt(activity domain.Activity) string {
	return fmt.Sprintf(promptTemplate,
		activity.Type,
		activity.DurationMin,
		activity.CaloriesBurned,
		renderMetrics(activity.Metrics),
	)
}

// renderMetrics formats the open metrics map deterministically, sorted by key.
func renderMetrics(metrics map[string]interface{}) string {
	if len(metrics) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(metrics))
	for key := range metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, metrics[key]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
