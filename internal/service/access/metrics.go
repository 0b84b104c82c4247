package access

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_access_decisions_total",
		Help: "Access decisions committed by gates, by resulting state.",
	}, []string{"state"})

	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_profile_resolutions_total",
		Help: "Profile lookups by outcome (found, not_found, store_error).",
	}, []string{"outcome"})

	staleResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "erp_access_stale_results_total",
		Help: "Resolution results discarded because a newer session change superseded them.",
	})

	resolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "erp_profile_resolve_duration_seconds",
		Help:    "Profile lookup latency.",
		Buckets: prometheus.DefBuckets,
	})
)
