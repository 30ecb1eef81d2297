package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal counts resolutions by outcome
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psl_resolutions_total",
			Help: "Total number of registrable-domain resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// ResolveDuration tracks resolution latency by outcome
	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "psl_resolve_duration_seconds",
			Help:    "Registrable-domain resolution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// RulesLoaded reports the rule counts of the active snapshot
	RulesLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "psl_rules_loaded",
			Help: "Rules in the active list snapshot by kind",
		},
		[]string{"kind"},
	)

	// ListRefreshTimestamp reports when the active snapshot was loaded
	ListRefreshTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "psl_list_refresh_timestamp_seconds",
			Help: "Unix timestamp of the last successful rule list refresh",
		},
	)

	// ErrorsTotal counts rule list maintenance errors by type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psl_errors_total",
			Help: "Total number of rule list errors by type",
		},
		[]string{"type", "stage"},
	)
)

// Outcome label values for ResolutionsTotal and ResolveDuration
const (
	OutcomeResolved       = "resolved"
	OutcomeEmptyLabel     = "empty_label"
	OutcomeIsPublicSuffix = "is_public_suffix"
	OutcomeNoMatch        = "no_match"
)

// Error type constants
const (
	ErrorTypeFetch      = "fetch"
	ErrorTypeCacheWrite = "cache_write"
	ErrorTypeEmptyList  = "empty_list"
)

// Rule kind label values for RulesLoaded
const (
	KindPositive = "positive"
	KindNegative = "negative"
)
