package scheduler

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/lesson-solver/pkg/errors"
)

// Solve runs a solve with adaptive default options sized to the class.
func Solve(teacher TeacherConfig, students []StudentConfig) (ScheduleSolution, error) {
	return SolveWithOptions(teacher, students, DefaultSolverOptions(len(students)))
}

// SolveWithOptions runs the full pipeline: validation, variable/domain
// construction, the staged relaxation cascade (L0 -> L1 -> L2 -> L3, each
// optionally propagated), and scoring. Structural validation issues never
// abort the solve — they ride along on the returned ScheduleSolution's
// ValidationIssues, and the solver still does its best with whatever usable
// input remains. The returned error is reserved for an internal invariant
// violation, recovered here from a panic inside the search engine rather
// than left to crash the caller. Each student receives at most one
// assignment per solve; StudentConfig.MaxLessonsPerWeek is not read.
func SolveWithOptions(teacher TeacherConfig, students []StudentConfig, opts SolverOptions) (solution ScheduleSolution, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", appErrors.ErrInternalInvariantViolation, r)
		}
	}()

	log := opts.Logger
	logAt := func(level LogLevel, msg string, fields ...zap.Field) {
		if log == nil || opts.LogLevel < level {
			return
		}
		log.Info(msg, fields...)
	}

	// Structural issues are informational (§4.7): they never abort the
	// solve. Surfaced below on the returned ScheduleSolution alongside
	// whatever schedule the solver still produces from the usable subset.
	issues := ValidateInputs(teacher, students)

	logAt(LogBasic, "solve started",
		zap.String("teacher_id", teacher.Person.ID),
		zap.Int("student_count", len(students)),
		zap.Int("validation_issues", len(issues)),
	)

	granularity := opts.SlotGranularityMinutes
	if granularity <= 0 {
		granularity = 15
	}

	variables, domains := BuildVariables(teacher, students, granularity)
	variableIndex := make(map[string]Variable, len(variables))
	ids := make([]string, 0, len(variables))
	for _, v := range variables {
		variableIndex[v.Student.Person.ID] = v
		ids = append(ids, v.Student.Person.ID)
	}
	sort.Strings(ids)

	totalVars := len(variables)
	targetHalf := (totalVars + 1) / 2

	var deadline time.Time
	if opts.MaxTimeMs > 0 {
		deadline = start.Add(time.Duration(opts.MaxTimeMs) * time.Millisecond)
	}

	var (
		best            []LessonAssignment
		bestStats       Stats
		bestLevel       RelaxationLevel
		removalsTotal   int
		deadlinePassed  = func() bool { return !deadline.IsZero() && time.Now().After(deadline) }
	)

	runAt := func(level RelaxationLevel) ([]LessonAssignment, Stats) {
		manager := BuildManager(level, opts.Weights, opts.EnabledConstraints)
		var mgr checker = manager
		if opts.EnableResultCache {
			cache := opts.ResultCache
			if cache == nil {
				cache = NewLRUCache(opts.ResultCacheSize)
			}
			mgr = NewCachedManager(manager, cache)
		}

		levelDomains := cloneDomains(domains)
		if opts.UseConstraintPropagation {
			removalsTotal += Propagate(mgr, teacher, variables, levelDomains)
		}
		st := &searchState{
			manager:       mgr,
			teacher:       teacher,
			variables:     variableIndex,
			domains:       levelDomains,
			deadline:      deadline,
			maxBacktracks: opts.MaxBacktracks,
		}
		if opts.SearchSeed != 0 {
			st.rng = rand.New(rand.NewSource(opts.SearchSeed))
		}
		st.run(ids, totalVars)
		logAt(LogDetailed, "relaxation level attempted",
			zap.Int("level", int(level)),
			zap.Int("scheduled", len(st.best)),
			zap.Int("backtracks", st.stats.Backtracks),
		)
		return st.best, st.stats
	}

	consider := func(assignments []LessonAssignment, stats Stats, level RelaxationLevel) {
		if len(assignments) > len(best) {
			best, bestStats, bestLevel = assignments, stats, level
		}
	}

	checkDeadline := func() bool {
		if !deadlinePassed() {
			return false
		}
		logAt(LogDetailed, "solve timed out before completing the relaxation cascade",
			zap.Int64("max_time_ms", opts.MaxTimeMs),
		)
		return true
	}

	l0, l0Stats := runAt(L0)
	consider(l0, l0Stats, L0)

	if len(best) < totalVars && !checkDeadline() {
		l1, l1Stats := runAt(L1)
		consider(l1, l1Stats, L1)

		if len(l1) < targetHalf && !checkDeadline() {
			l2, l2Stats := runAt(L2)
			consider(l2, l2Stats, L2)

			if !checkDeadline() {
				l3, l3Stats := runAt(L3)
				consider(l3, l3Stats, L3)
			}
		}
	}

	bestStats.PropagationRemovals = removalsTotal
	computeTimeMs := time.Since(start).Milliseconds()
	solveID := uuid.NewString()

	solution := buildSolution(teacher, variables, best, bestStats, bestLevel, solveID, computeTimeMs)
	solution.ValidationIssues = issues

	logAt(LogBasic, "solve finished",
		zap.String("solve_id", solveID),
		zap.Int("scheduled", solution.Metadata.ScheduledStudents),
		zap.Int("total", solution.Metadata.TotalStudents),
		zap.Int("quality", solution.Metadata.Quality),
		zap.Int64("compute_time_ms", computeTimeMs),
	)

	return solution, nil
}

// ValidateInputs performs structural validation ahead of a solve, returning
// human-readable issue strings rather than errors: callers (e.g. the HTTP
// layer) surface the full list at once instead of stopping at the first
// problem.
func ValidateInputs(teacher TeacherConfig, students []StudentConfig) []string {
	var issues []string

	if teacher.Person.ID == "" {
		issues = append(issues, "teacher.Person.ID is required")
	}
	if err := teacher.Availability.Validate(); err != nil {
		issues = append(issues, err.Error())
	}
	if teacherAvailableMinutes(teacher) == 0 {
		issues = append(issues, "teacher has no available minutes")
	}

	seen := make(map[string]bool, len(students))
	for i, s := range students {
		if s.Person.ID == "" {
			issues = append(issues, fmt.Sprintf("students[%d].Person.ID is required", i))
			continue
		}
		if seen[s.Person.ID] {
			issues = append(issues, fmt.Sprintf("duplicate student id %q", s.Person.ID))
		}
		seen[s.Person.ID] = true
		if err := s.Availability.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("student %q: %v", s.Person.ID, err))
		}
		if s.PreferredDuration < 0 {
			issues = append(issues, fmt.Sprintf("student %q: negative preferred duration", s.Person.ID))
		}
	}

	return issues
}

func cloneDomains(domains map[string]*Domain) map[string]*Domain {
	cloned := make(map[string]*Domain, len(domains))
	for id, d := range domains {
		slots := make([]TimeSlot, len(d.Slots))
		copy(slots, d.Slots)
		cloned[id] = &Domain{Slots: slots, IsReduced: d.IsReduced}
	}
	return cloned
}
