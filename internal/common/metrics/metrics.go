// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmatch_rank_requests_total",
			Help: "Total number of ranking requests by scoring source",
		},
		[]string{"source"},
	)

	RankFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmatch_rank_fallbacks_total",
			Help: "Total number of remote ranking attempts degraded to local scoring",
		},
		[]string{"reason"},
	)

	RankDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "smartmatch_rank_duration_seconds",
			Help: "Duration of ranking computation in seconds",
		},
		[]string{"source"},
	)

	CandidatesRanked = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "smartmatch_candidates_ranked",
			Help:    "Number of candidates entering the scorer per request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)
