package scheduler

import (
	"fmt"
	"sort"
)

// baseConstraint factors the id/type/priority bookkeeping shared by every
// built-in constraint, mirroring the embedding pattern used across the
// broader scheduling-constraint corpus this package draws on.
type baseConstraint struct {
	id       string
	ctype    ConstraintType
	priority int
}

func (b *baseConstraint) ID() string           { return b.id }
func (b *baseConstraint) Type() ConstraintType { return b.ctype }
func (b *baseConstraint) Priority() int        { return b.priority }

// --- Hard constraints ---

// AvailabilityConstraint requires the assigned interval to fit wholly within
// both the teacher's and the student's availability for that day.
type AvailabilityConstraint struct{ baseConstraint }

func NewAvailabilityConstraint() *AvailabilityConstraint {
	return &AvailabilityConstraint{baseConstraint{id: "availability", ctype: Hard, priority: 0}}
}

func (c *AvailabilityConstraint) Evaluate(a LessonAssignment, ctx Context) []Violation {
	if a.DayOfWeek < 0 || a.DayOfWeek >= DaysPerWeek {
		return []Violation{{ConstraintID: c.id, Type: Hard, Severity: "error", Cost: infCost, Message: "day out of range"}}
	}
	teacherDay := ctx.Teacher.Availability.Days[a.DayOfWeek]
	studentDay := ctx.Student.Availability.Days[a.DayOfWeek]
	if !IsTimeAvailable(teacherDay, a.Start, a.Duration) {
		return []Violation{{ConstraintID: c.id, Type: Hard, Severity: "error", Cost: infCost, Message: "outside teacher availability"}}
	}
	if !IsTimeAvailable(studentDay, a.Start, a.Duration) {
		return []Violation{{ConstraintID: c.id, Type: Hard, Severity: "error", Cost: infCost, Message: "outside student availability"}}
	}
	return nil
}

// NonOverlappingConstraint forbids two assignments sharing minutes on the
// same day.
type NonOverlappingConstraint struct{ baseConstraint }

func NewNonOverlappingConstraint() *NonOverlappingConstraint {
	return &NonOverlappingConstraint{baseConstraint{id: "non_overlapping", ctype: Hard, priority: 1}}
}

func (c *NonOverlappingConstraint) Evaluate(a LessonAssignment, ctx Context) []Violation {
	selfBlock := TimeBlock{Start: a.Start, Duration: a.Duration}
	for _, existing := range ctx.ExistingAssignments {
		if existing.StudentID == a.StudentID || existing.DayOfWeek != a.DayOfWeek {
			continue
		}
		other := TimeBlock{Start: existing.Start, Duration: existing.Duration}
		if Overlaps(selfBlock, other) {
			return []Violation{{ConstraintID: c.id, Type: Hard, Severity: "error", Cost: infCost,
				Message: fmt.Sprintf("overlaps existing assignment for %s", existing.StudentID)}}
		}
	}
	return nil
}

// DurationConstraint requires the assigned duration to be one of the
// teacher's allowed durations (or within [min,max] when none are set), and
// equal to the student's resolved preferred duration. When relaxed (see
// relaxation.go), only the bounds check applies.
type DurationConstraint struct {
	baseConstraint
	boundsOnly bool
}

func NewDurationConstraint() *DurationConstraint {
	return &DurationConstraint{baseConstraint: baseConstraint{id: "duration", ctype: Hard, priority: 2}}
}

func (c *DurationConstraint) Evaluate(a LessonAssignment, ctx Context) []Violation {
	tc := ctx.Teacher.Constraints
	if len(tc.AllowedDurations) > 0 {
		if !containsInt(tc.AllowedDurations, a.Duration) {
			return []Violation{{ConstraintID: c.id, Type: Hard, Severity: "error", Cost: infCost, Message: "duration not in allowed set"}}
		}
	} else {
		min, max := effectiveBounds(tc)
		if a.Duration < min || a.Duration > max {
			return []Violation{{ConstraintID: c.id, Type: Hard, Severity: "error", Cost: infCost, Message: "duration out of bounds"}}
		}
	}
	if !c.boundsOnly && ctx.Student.Person.ID == a.StudentID {
		resolved := resolveDuration(ctx.Teacher, ctx.Student)
		if a.Duration != resolved {
			return []Violation{{ConstraintID: c.id, Type: Hard, Severity: "error", Cost: infCost, Message: "duration does not match student's resolved preference"}}
		}
	}
	return nil
}

func effectiveBounds(tc SchedulingConstraints) (int, int) {
	min, max := tc.MinLessonDuration, tc.MaxLessonDuration
	if min <= 0 {
		min = 30
	}
	if max <= 0 {
		max = 120
	}
	return min, max
}

func containsInt(set []int, v int) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

// --- Soft constraints ---

// PreferredTimeConstraint favors mid-day (10:00-16:00) and weekday slots.
type PreferredTimeConstraint struct {
	baseConstraint
	weight float64
}

func NewPreferredTimeConstraint(weight float64) *PreferredTimeConstraint {
	return &PreferredTimeConstraint{baseConstraint{id: "preferred_time", ctype: Soft, priority: 10}, weight}
}

func (c *PreferredTimeConstraint) Evaluate(a LessonAssignment, ctx Context) []Violation {
	cost := 0.0
	if a.Start < 10*60 || a.Start+a.Duration > 16*60 {
		cost += c.weight
	}
	if a.DayOfWeek == 0 || a.DayOfWeek == 6 {
		cost += c.weight
	}
	if cost == 0 {
		return nil
	}
	return []Violation{{ConstraintID: c.id, Type: Soft, Severity: "info", Cost: cost, Message: "outside preferred mid-day weekday window"}}
}

// ConsecutiveLimitConstraint penalizes days whose consecutive run (lessons
// separated by gaps < BreakDurationMinutes) exceeds MaxConsecutiveMinutes.
type ConsecutiveLimitConstraint struct {
	baseConstraint
	weight float64
}

func NewConsecutiveLimitConstraint(weight float64) *ConsecutiveLimitConstraint {
	return &ConsecutiveLimitConstraint{baseConstraint{id: "consecutive_limit", ctype: Soft, priority: 11}, weight}
}

func (c *ConsecutiveLimitConstraint) Evaluate(a LessonAssignment, ctx Context) []Violation {
	tc := ctx.Teacher.Constraints
	if tc.MaxConsecutiveMinutes <= 0 {
		return nil
	}
	day := dayBlocksWith(ctx.ExistingAssignments, a)
	runs := consecutiveRuns(day, tc.BreakDurationMinutes)
	for _, run := range runs {
		if run.total > tc.MaxConsecutiveMinutes && withinRun(run, a) {
			excess := run.total - tc.MaxConsecutiveMinutes
			return []Violation{{ConstraintID: c.id, Type: Soft, Severity: "warning", Cost: c.weight * float64(excess),
				Message: "exceeds max consecutive minutes"}}
		}
	}
	return nil
}

// BreakRequirementConstraint penalizes gaps shorter than
// BreakDurationMinutes between non-contiguous runs, proportional to the
// deficit.
type BreakRequirementConstraint struct {
	baseConstraint
	weight float64
}

func NewBreakRequirementConstraint(weight float64) *BreakRequirementConstraint {
	return &BreakRequirementConstraint{baseConstraint{id: "break_requirement", ctype: Soft, priority: 12}, weight}
}

func (c *BreakRequirementConstraint) Evaluate(a LessonAssignment, ctx Context) []Violation {
	tc := ctx.Teacher.Constraints
	if tc.BreakDurationMinutes <= 0 {
		return nil
	}
	day := dayBlocksWith(ctx.ExistingAssignments, a)
	sort.Slice(day, func(i, j int) bool { return day[i].Start < day[j].Start })
	for i := 1; i < len(day); i++ {
		gap := day[i].Start - day[i-1].End()
		if gap > 0 && gap < tc.BreakDurationMinutes {
			if day[i] == a || day[i-1] == a {
				deficit := tc.BreakDurationMinutes - gap
				return []Violation{{ConstraintID: c.id, Type: Soft, Severity: "warning", Cost: c.weight * float64(deficit),
					Message: "gap shorter than required break"}}
			}
		}
	}
	return nil
}

// WorkloadBalanceConstraint penalizes days overloaded relative to the mean
// and rewards distributing lessons across days.
type WorkloadBalanceConstraint struct {
	baseConstraint
	weight float64
}

func NewWorkloadBalanceConstraint(weight float64) *WorkloadBalanceConstraint {
	return &WorkloadBalanceConstraint{baseConstraint{id: "workload_balance", ctype: Soft, priority: 13}, weight}
}

func (c *WorkloadBalanceConstraint) Evaluate(a LessonAssignment, ctx Context) []Violation {
	counts := make(map[int]int)
	for _, existing := range ctx.ExistingAssignments {
		counts[existing.DayOfWeek]++
	}
	counts[a.DayOfWeek]++

	total, days := 0, 0
	for _, n := range counts {
		total += n
		days++
	}
	if days == 0 {
		return nil
	}
	mean := float64(total) / float64(days)
	thisDay := float64(counts[a.DayOfWeek])
	if thisDay > mean+1 {
		over := thisDay - mean
		return []Violation{{ConstraintID: c.id, Type: Soft, Severity: "info", Cost: c.weight * over, Message: "day overloaded relative to mean"}}
	}
	return nil
}

// BackToBackConstraint rewards or penalizes adjacency per the teacher's
// BackToBackPreference; agnostic contributes zero.
type BackToBackConstraint struct {
	baseConstraint
	weight float64
}

func NewBackToBackConstraint(weight float64) *BackToBackConstraint {
	return &BackToBackConstraint{baseConstraint{id: "back_to_back", ctype: Soft, priority: 14}, weight}
}

func (c *BackToBackConstraint) Evaluate(a LessonAssignment, ctx Context) []Violation {
	pref := ctx.Teacher.Constraints.BackToBackPreference
	if pref == "" || pref == BackToBackAgnostic {
		return nil
	}
	adjacent := false
	for _, existing := range ctx.ExistingAssignments {
		if existing.DayOfWeek != a.DayOfWeek {
			continue
		}
		if existing.End() == a.Start || a.End() == existing.Start {
			adjacent = true
			break
		}
	}
	switch {
	case pref == BackToBackMaximize && !adjacent:
		return []Violation{{ConstraintID: c.id, Type: Soft, Severity: "info", Cost: c.weight, Message: "not back-to-back though teacher prefers maximize"}}
	case pref == BackToBackMinimize && adjacent:
		return []Violation{{ConstraintID: c.id, Type: Soft, Severity: "info", Cost: c.weight, Message: "back-to-back though teacher prefers minimize"}}
	default:
		return nil
	}
}

// --- shared helpers ---

// infCost stands in for the "infinite effective cost" spec.md assigns hard
// violations; hard violations always short-circuit candidacy in Manager.Check
// regardless of the numeric value, so this is never summed into a score.
const infCost = 1e12

func dayBlocksWith(existing []LessonAssignment, a LessonAssignment) []LessonAssignment {
	day := make([]LessonAssignment, 0, len(existing)+1)
	for _, e := range existing {
		if e.DayOfWeek == a.DayOfWeek {
			day = append(day, e)
		}
	}
	day = append(day, a)
	return day
}

type run struct {
	start, end, total int
}

func withinRun(r run, a LessonAssignment) bool {
	return a.Start >= r.start && a.End() <= r.end
}

// consecutiveRuns groups a day's assignments into maximal runs whose
// successive gaps are each < breakMinutes.
func consecutiveRuns(day []LessonAssignment, breakMinutes int) []run {
	if len(day) == 0 {
		return nil
	}
	sorted := make([]LessonAssignment, len(day))
	copy(sorted, day)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var runs []run
	cur := run{start: sorted[0].Start, end: sorted[0].End(), total: sorted[0].Duration}
	for _, a := range sorted[1:] {
		gap := a.Start - cur.end
		if gap < breakMinutes {
			cur.total += a.Duration
			if a.End() > cur.end {
				cur.end = a.End()
			}
			continue
		}
		runs = append(runs, cur)
		cur = run{start: a.Start, end: a.End(), total: a.Duration}
	}
	runs = append(runs, cur)
	return runs
}
