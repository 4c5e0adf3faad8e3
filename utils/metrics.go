package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for eventsTotal.
const (
	OutcomeAccepted  = "accepted"  // event inserted, counter incremented
	OutcomeDuplicate = "duplicate" // unique index rejected the insert
	OutcomeSkipped   = "skipped"   // precondition not met or guard suppressed
)

var eventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "blogpulse_events_total",
		Help: "Engagement events by kind and ingestion outcome.",
	},
	[]string{"kind", "outcome"},
)

// CountEvent records the outcome of one event submission.
func CountEvent(kind, outcome string) {
	eventsTotal.WithLabelValues(kind, outcome).Inc()
}

// MetricsHandler exposes the Prometheus registry as a gin handler.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
