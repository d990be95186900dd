package scheduler

import "go.uber.org/zap"

// SearchStrategy selects the top-level search algorithm. Only backtracking
// is implemented; the others are recognized values reserved for future
// engines (spec.md's "parallel branches" note concerns SolveParallel, a
// fan-out over independent backtracking runs, not an alternate strategy).
type SearchStrategy int

const (
	StrategyBacktracking SearchStrategy = iota
	StrategyLocalSearch
	StrategyHybrid
)

// LogLevel controls the verbosity of the structured logging SolveWithOptions
// emits through SolverOptions.Logger: LogNone emits nothing, LogBasic emits
// one event at solve start and one at solve finish (with final stats),
// LogDetailed additionally emits one event per relaxation-level attempt and
// per timeout.
type LogLevel int

const (
	LogNone LogLevel = iota
	LogBasic
	LogDetailed
)

// SolverOptions tunes one call to SolveWithOptions. DefaultSolverOptions
// supplies the adaptive defaults. A zero SlotGranularityMinutes falls back
// to 15 minutes; a zero MaxTimeMs or MaxBacktracks leaves that budget
// unlimited.
type SolverOptions struct {
	MaxTimeMs                int64
	MaxBacktracks            int
	UseConstraintPropagation bool
	UseHeuristics            bool
	SearchStrategy           SearchStrategy
	OptimizeForQuality       bool
	EnabledConstraints       map[string]bool
	Weights                  Weights
	SlotGranularityMinutes   int
	// Logger and LogLevel control the structured events SolveWithOptions
	// emits; a nil Logger disables logging regardless of LogLevel.
	Logger   *zap.Logger
	LogLevel LogLevel
	// SearchSeed perturbs value-ordering tie breaks so that independent
	// parallel branches (see parallel.go) explore different regions of the
	// search tree instead of converging on the same path.
	SearchSeed int64

	// EnableResultCache memoizes constraint evaluations within a solve (see
	// cache.go). ResultCache overrides the default in-memory LRU with a
	// shared backend (e.g. Redis) when set.
	EnableResultCache bool
	ResultCacheSize   int
	ResultCache       ConstraintCache
}

// DefaultSolverOptions scales the time and backtrack budgets to the class
// size, per spec.md's adaptive-budget design: small studios get a short
// deadline, large ones a longer one, while the backtrack cap always scales
// linearly with the variable count.
func DefaultSolverOptions(studentCount int) SolverOptions {
	opts := SolverOptions{
		UseConstraintPropagation: true,
		UseHeuristics:            true,
		SearchStrategy:           StrategyBacktracking,
		OptimizeForQuality:       true,
		SlotGranularityMinutes:   15,
		LogLevel:                 LogBasic,
	}

	switch {
	case studentCount <= 20:
		opts.MaxTimeMs = 8000
	case studentCount <= 50:
		opts.MaxTimeMs = 15000
	default:
		opts.MaxTimeMs = 45000
	}

	opts.MaxBacktracks = 100 * studentCount
	if opts.MaxBacktracks < 100 {
		opts.MaxBacktracks = 100
	}
	return opts
}
