// Package events defines the wire payloads exchanged over Kafka.
package events

import (
	"time"

	"example.com/fitcoach/internal/domain"
)

// EventTypeActivityCreated is the header value attached to activity snapshots.
const EventTypeActivityCreated = "activity.created"

// ActivityCreated is the message emitted when a new activity is accepted.
// It is a snapshot of the activity at publish time, not a reference: the
// worker must not assume it can re-fetch a mutated record.
type ActivityCreated struct {
	ActivityID     string                 `json:"activity_id"`
	UserID         string                 `json:"user_id"`
	ActivityType   string                 `json:"activity_type"`
	DurationMin    int                    `json:"duration_min"`
	CaloriesBurned int                    `json:"calories_burned"`
	StartedAt      time.Time              `json:"started_at"`
	Metrics        map[string]interface{} `json:"metrics,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// NewActivityCreated snapshots an activity into its wire form.
func NewActivityCreated(activity domain.Activity) ActivityCreated {
	return ActivityCreated{
		ActivityID:     activity.ID,
		UserID:         activity.UserID,
		ActivityType:   string(activity.Type),
		DurationMin:    activity.DurationMin,
		CaloriesBurned: activity.CaloriesBurned,
		StartedAt:      activity.StartedAt,
		Metrics:        activity.Metrics,
		CreatedAt:      activity.CreatedAt,
		UpdatedAt:      activity.UpdatedAt,
	}
}

// Activity reconstructs the snapshot as a domain activity for the worker.
func (e ActivityCreated) Activity() domain.Activity {
	return domain.Activity{
		ID:             e.ActivityID,
		UserID:         e.UserID,
		Type:           domain.ActivityType(e.ActivityType),
		DurationMin:    e.DurationMin,
		CaloriesBurned: e.CaloriesBurned,
		StartedAt:      e.StartedAt,
		Metrics:        e.Metrics,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
