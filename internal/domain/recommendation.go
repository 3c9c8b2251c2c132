package domain

import "time"

// Recommendation is the coaching output produced for a single consumed
// activity event. Records are immutable after creation; redelivered events
// may produce duplicates, which downstream readers must tolerate.
type Recommendation struct {
	ID           string
	ActivityID   string
	UserID       string
	ActivityType string
	Analysis     string
	Improvements []string
	Suggestions  []string
	Safety       []string
	CreatedAt    time.Time
}
