package recommend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	recommendationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Subsystem: "recommend",
		Name:      "recommendations_total",
		Help:      "Recommendations persisted, split by model-derived vs fallback.",
	}, []string{"result"})

	fallbackCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Subsystem: "recommend",
		Name:      "fallbacks_total",
		Help:      "Default recommendations produced, grouped by failure reason.",
	}, []string{"reason"})

	modelLatencyHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fitcoach",
		Subsystem: "recommend",
		Name:      "model_request_duration_seconds",
		Help:      "Wall-clock duration of model endpoint calls.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(recommendationsCounter, fallbackCounter, modelLatencyHistogram)
}

func recordRecommendation(fallback bool) {
	result := "model"
	if fallback {
		result = "fallback"
	}
	recommendationsCounter.WithLabelValues(result).Inc()
}

func recordFallback(reason string) {
	fallbackCounter.WithLabelValues(reason).Inc()
}

func recordModelLatency(d time.Duration) {
	modelLatencyHistogram.Observe(d.Seconds())
}
