package domain

import (
	"fmt"
	"time"
)

// ActivityType is the closed set of workout categories accepted by the API.
type ActivityType string

const (
	ActivityRunning        ActivityType = "RUNNING"
	ActivityWalking        ActivityType = "WALKING"
	ActivityCycling        ActivityType = "CYCLING"
	ActivityWeightTraining ActivityType = "WEIGHT_TRAINING"
	ActivityYoga           ActivityType = "YOGA"
	ActivityHIIT           ActivityType = "HIIT"
	ActivityCardio         ActivityType = "CARDIO"
	ActivityStretching     ActivityType = "STRETCHING"
	ActivityOther          ActivityType = "OTHER"
)

var activityTypes = map[ActivityType]struct{}{
	ActivityRunning:        {},
	ActivityWalking:        {},
	ActivityCycling:        {},
	ActivityWeightTraining: {},
	ActivityYoga:           {},
	ActivityHIIT:           {},
	ActivityCardio:         {},
	ActivityStretching:     {},
	ActivityOther:          {},
}

// ParseActivityType validates a raw activity type string.
func ParseActivityType(raw string) (ActivityType, error) {
	t := ActivityType(raw)
	if _, ok := activityTypes[t]; !ok {
		return "", fmt.Errorf("unknown activity type: %q", raw)
	}
	return t, nil
}

// Activity is the canonical workout record stored in Postgres.
// ID and UserID are immutable once assigned.
type Activity struct {
	ID             string
	UserID         string
	Type           ActivityType
	CaloriesBurned int
	DurationMin    int
	StartedAt      time.Time
	Metrics        map[string]interface{}
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
