package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	UnitsAnalyzedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astral_units_analyzed_total",
		Help: "Total number of syntax trees evaluated, by outcome.",
	}, []string{"outcome"})

	RuleEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astral_rule_evaluations_total",
		Help: "Total number of nodes handed to a rule.",
	}, []string{"rule"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astral_diagnostics_total",
		Help: "Total number of diagnostics reported, by rule.",
	}, []string{"rule"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "astral_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	TreeNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "astral_tree_nodes",
		Help:    "Number of nodes per evaluated syntax tree.",
		Buckets: prometheus.ExponentialBuckets(16, 4, 8),
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "astral_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
