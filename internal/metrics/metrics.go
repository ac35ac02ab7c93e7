package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GamesImportedTotal counts games processed by the importer, labeled by
	// outcome ("inserted", "duplicate", "bad_result").
	GamesImportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chessperf_games_imported_total",
			Help: "Total number of PGN games processed by the importer",
		},
		[]string{"outcome"},
	)

	ImportSegmentCommits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chessperf_import_segment_commits_total",
			Help: "Total number of segment-boundary commits performed during import",
		},
	)

	ImportFilesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chessperf_import_files_skipped_total",
			Help: "Total number of PGN files skipped due to read or decode errors",
		},
		[]string{"reason"},
	)

	// SelectorDuration measures wall-clock time to evaluate a rule into
	// selected games and players.
	SelectorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chessperf_selector_duration_seconds",
			Help:    "Duration of selector rule evaluation",
			Buckets: prometheus.DefBuckets,
		},
	)

	SelectorGamesSelected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chessperf_selector_games_selected",
			Help:    "Number of games selected per rule evaluation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	// PopulationsFound and PopulationsNonConvergent track the component split
	// produced by the population builder.
	PopulationsFound = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chessperf_populations_found",
			Help:    "Number of connected components found per calculation",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	PopulationsNonConvergent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chessperf_populations_non_convergent_total",
			Help: "Total number of components flagged non-convergent (no 3-cycle in the opponent graph)",
		},
	)

	// CalculatorIterations counts iterations taken to reach stability for a
	// convergent population.
	CalculatorIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chessperf_calculator_iterations",
			Help:    "Number of iterations taken for a population's performance numbers to stabilize",
			Buckets: prometheus.LinearBuckets(1, 2, 20),
		},
	)

	CalculatorNonConvergedRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chessperf_calculator_iteration_cap_hit_total",
			Help: "Total number of populations that hit the iteration cap without reaching stability",
		},
	)

	// StoreTransactions tracks commit/backout outcomes on the Store.
	StoreTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chessperf_store_transactions_total",
			Help: "Total number of Store transactions, labeled by outcome",
		},
		[]string{"outcome"},
	)
)
