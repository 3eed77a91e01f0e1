package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Total number of notifications persisted, by type.",
	}, []string{"type"})

	duplicatesSuppressedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_duplicates_suppressed_total",
		Help: "Total number of creations suppressed by the dedupe key, by type.",
	}, []string{"type"})
)
