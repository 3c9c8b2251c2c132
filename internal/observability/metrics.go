package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activityPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitcoach",
		Subsystem: "persistence",
		Name:      "last_activity_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity persisted to Postgres.",
	})
	recommendationPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitcoach",
		Subsystem: "persistence",
		Name:      "last_recommendation_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent recommendation persisted to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(activityPersistGauge, recommendationPersistGauge)
}

// RecordActivityPersisted updates the activity persistence watermark gauge.
func RecordActivityPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	activityPersistGauge.Set(float64(ts.Unix()))
}

// RecordRecommendationPersisted updates the recommendation watermark gauge.
func RecordRecommendationPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	recommendationPersistGauge.Set(float64(ts.Unix()))
}
