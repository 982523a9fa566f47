// Package metrics provides Prometheus metrics for the guild daemon —
// counters, gauges, and histograms for recommendations, repositories,
// incentives, and payouts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Recommendations ────────────────────────────────────────────────────────

// GenerationLatency tracks generation call duration in seconds.
var GenerationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "guild",
	Name:      "generation_latency_seconds",
	Help:      "Generation request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// RecommendationsKept tracks persisted recommendations.
var RecommendationsKept = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "guild",
	Name:      "recommendations_kept_total",
	Help:      "Recommendations at or above the confidence threshold.",
})

// RecommendationsBelowThreshold tracks candidates scored but discarded.
var RecommendationsBelowThreshold = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "guild",
	Name:      "recommendations_below_threshold_total",
	Help:      "Candidates scored below the confidence threshold.",
})

// RecommendationsSkipped tracks candidates skipped due to generation failures.
var RecommendationsSkipped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "guild",
	Name:      "recommendations_skipped_total",
	Help:      "Candidates skipped because the generation call failed.",
})

// ParseFallbacks tracks replies that fell back to the default confidence.
var ParseFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "guild",
	Name:      "recommendation_parse_fallbacks_total",
	Help:      "Generation replies that could not be parsed as JSON.",
})

// ─── Marketplace ────────────────────────────────────────────────────────────

// IncentivesAwarded tracks total incentive currency frozen into jobs.
var IncentivesAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "guild",
	Name:      "incentives_awarded_total",
	Help:      "Total AI incentive amount frozen into created jobs.",
})

// PayoutsTotal tracks total currency paid out to workers.
var PayoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "guild",
	Name:      "payouts_total",
	Help:      "Total simulated JPYC paid out on job completion.",
})

// JobsCompleted tracks completed engagements.
var JobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "guild",
	Name:      "jobs_completed_total",
	Help:      "Total engagements reaching the completed state.",
})

// TrustScoreGauge tracks the last recomputed trust score per worker.
var TrustScoreGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "guild",
	Name:      "trust_score",
	Help:      "Last recomputed trust score by worker.",
}, []string{"worker"})
