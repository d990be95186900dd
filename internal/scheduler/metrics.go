package scheduler

import "github.com/prometheus/client_golang/prometheus"

// MetricsRecorder receives observability events from a solve. The default
// (NopMetricsRecorder) discards everything; PrometheusMetricsRecorder wires
// the histogram/counter/gauge trio spec.md's observability hooks name.
type MetricsRecorder interface {
	ObserveSolveDuration(seconds float64, relaxationLevel int)
	AddBacktracks(n int)
	AddConstraintChecks(n int)
	ObserveQuality(quality int)
}

// NopMetricsRecorder discards every observation; it is the default when a
// caller does not wire Prometheus.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) ObserveSolveDuration(float64, int) {}
func (NopMetricsRecorder) AddBacktracks(int)                 {}
func (NopMetricsRecorder) AddConstraintChecks(int)           {}
func (NopMetricsRecorder) ObserveQuality(int)                {}

// PrometheusMetricsRecorder records solve statistics as Prometheus
// collectors, registered against the caller-supplied registerer.
type PrometheusMetricsRecorder struct {
	solveDuration    *prometheus.HistogramVec
	backtracks       prometheus.Counter
	constraintChecks prometheus.Counter
	quality          prometheus.Gauge
}

// NewPrometheusMetricsRecorder builds and registers the solver's
// collectors. Safe to call once per process per registerer.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	m := &PrometheusMetricsRecorder{
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lesson_solver",
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of a solve, labeled by the relaxation level the best solution came from.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"relaxation_level"}),
		backtracks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lesson_solver",
			Name:      "search_backtracks_total",
			Help:      "Cumulative backtracking steps across all solves.",
		}),
		constraintChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lesson_solver",
			Name:      "constraint_checks_total",
			Help:      "Cumulative constraint evaluations across all solves.",
		}),
		quality: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lesson_solver",
			Name:      "last_solution_quality",
			Help:      "Quality score (0-100) of the most recently completed solve.",
		}),
	}
	reg.MustRegister(m.solveDuration, m.backtracks, m.constraintChecks, m.quality)
	return m
}

func (m *PrometheusMetricsRecorder) ObserveSolveDuration(seconds float64, relaxationLevel int) {
	m.solveDuration.WithLabelValues(relaxationLevelLabel(relaxationLevel)).Observe(seconds)
}

func (m *PrometheusMetricsRecorder) AddBacktracks(n int) { m.backtracks.Add(float64(n)) }

func (m *PrometheusMetricsRecorder) AddConstraintChecks(n int) { m.constraintChecks.Add(float64(n)) }

func (m *PrometheusMetricsRecorder) ObserveQuality(quality int) { m.quality.Set(float64(quality)) }

func relaxationLevelLabel(level int) string {
	switch RelaxationLevel(level) {
	case L0:
		return "L0"
	case L1:
		return "L1"
	case L2:
		return "L2"
	case L3:
		return "L3"
	default:
		return "unknown"
	}
}

// RecordSolution feeds a completed ScheduleSolution's metadata into a
// MetricsRecorder in one call, so callers don't have to unpack Metadata at
// every call site.
func RecordSolution(recorder MetricsRecorder, solution ScheduleSolution) {
	recorder.ObserveSolveDuration(float64(solution.Metadata.ComputeTimeMs)/1000.0, solution.Metadata.RelaxationLevel)
	recorder.AddBacktracks(solution.Metadata.Backtracks)
	recorder.AddConstraintChecks(solution.Metadata.ConstraintChecks)
	recorder.ObserveQuality(solution.Metadata.Quality)
}
