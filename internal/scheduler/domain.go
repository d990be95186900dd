// Package scheduler implements the lesson-scheduling constraint satisfaction
// core: time-block algebra, variable/domain construction, a pluggable
// hard/soft constraint framework, propagation, heuristic backtracking search
// with staged constraint relaxation, and solution scoring.
package scheduler

import (
	"fmt"

	appErrors "github.com/noah-isme/lesson-solver/pkg/errors"
)

// MinutesPerDay is the exclusive upper bound for a minute-of-day offset.
const MinutesPerDay = 1440

// DaysPerWeek is the number of DaySchedule entries a WeekSchedule carries.
const DaysPerWeek = 7

// TimeBlock is a contiguous span of availability within one day, expressed
// in minutes since midnight. The invariant start+duration<=1440 (never
// crossing midnight) is enforced by NewTimeBlock.
type TimeBlock struct {
	Start    int
	Duration int
}

// End returns the exclusive end minute of the block.
func (b TimeBlock) End() int {
	return b.Start + b.Duration
}

// NewTimeBlock validates and constructs a TimeBlock.
func NewTimeBlock(start, duration int) (TimeBlock, error) {
	if start < 0 || start >= MinutesPerDay {
		return TimeBlock{}, fmt.Errorf("%w: start %d out of range [0,%d)", appErrors.ErrInvalidTimeBlock, start, MinutesPerDay)
	}
	if duration <= 0 {
		return TimeBlock{}, fmt.Errorf("%w: duration %d must be positive", appErrors.ErrInvalidTimeBlock, duration)
	}
	if start+duration > MinutesPerDay {
		return TimeBlock{}, fmt.Errorf("%w: block [%d,%d) crosses midnight", appErrors.ErrInvalidTimeBlock, start, start+duration)
	}
	return TimeBlock{Start: start, Duration: duration}, nil
}

// DaySchedule holds the (canonically merged, by convention) TimeBlocks for a
// single day of the week.
type DaySchedule struct {
	DayOfWeek int
	Blocks    []TimeBlock
}

// WeekSchedule holds availability for all seven days plus an opaque,
// core-ignored timezone tag.
type WeekSchedule struct {
	Days     [DaysPerWeek]DaySchedule
	Timezone string
}

// NewWeekSchedule builds an empty week schedule with DayOfWeek indices
// pre-assigned 0..6 (0 = Sunday), per spec.
func NewWeekSchedule(timezone string) WeekSchedule {
	var w WeekSchedule
	w.Timezone = timezone
	for i := 0; i < DaysPerWeek; i++ {
		w.Days[i] = DaySchedule{DayOfWeek: i}
	}
	return w
}

// Validate checks the structural invariants of a WeekSchedule: each day's
// DayOfWeek matches its index and no two blocks within a day overlap.
func (w WeekSchedule) Validate() error {
	for i, d := range w.Days {
		if d.DayOfWeek != i {
			return fmt.Errorf("%w: day index %d holds DayOfWeek %d", appErrors.ErrInvalidSchedule, i, d.DayOfWeek)
		}
		if len(DetectOverlaps(d.Blocks)) > 0 {
			return fmt.Errorf("%w: day %d has overlapping blocks", appErrors.ErrInvalidSchedule, i)
		}
	}
	return nil
}

// Person is an opaque identity. Only ID is semantically significant to the
// core; it must be stable and unique within one solve.
type Person struct {
	ID          string
	DisplayName string
	Email       string
}

// BackToBackPreference is the teacher's soft preference for adjacent lessons.
type BackToBackPreference string

const (
	BackToBackMaximize BackToBackPreference = "maximize"
	BackToBackMinimize BackToBackPreference = "minimize"
	BackToBackAgnostic BackToBackPreference = "agnostic"
)

// SchedulingConstraints carries the teacher's tunable hard/soft constraint
// parameters.
type SchedulingConstraints struct {
	MaxConsecutiveMinutes int
	BreakDurationMinutes  int
	MinLessonDuration     int
	MaxLessonDuration     int
	AllowedDurations      []int
	BackToBackPreference  BackToBackPreference
}

// StudentConfig is one student's scheduling request.
type StudentConfig struct {
	Person            Person
	PreferredDuration int
	MinDuration       int // 0 means unset
	MaxDuration       int // 0 means unset
	MaxLessonsPerWeek int
	Availability      WeekSchedule
}

// TeacherConfig is the teacher side of a solve.
type TeacherConfig struct {
	Person       Person
	StudioID     string
	Availability WeekSchedule
	Constraints  SchedulingConstraints
}

// TimeSlot is a CSP candidate value: a concrete placement plus an ephemeral
// heuristic Score used only during value ordering.
type TimeSlot struct {
	DayOfWeek int
	Start     int
	Duration  int
	Score     float64
}

// End returns the exclusive end minute.
func (s TimeSlot) End() int {
	return s.Start + s.Duration
}

// Variable is one per student: the CSP variable whose domain is a set of
// TimeSlots and whose applicable constraint ids are recorded for the
// constraint manager.
type Variable struct {
	Student       StudentConfig
	ConstraintIDs []string
}

// Domain is the variable-indexed candidate value set.
type Domain struct {
	Slots     []TimeSlot
	IsReduced bool
}

// LessonAssignment is a committed placement for one student.
type LessonAssignment struct {
	StudentID string
	DayOfWeek int
	Start     int
	Duration  int
}

// End returns the exclusive end minute.
func (a LessonAssignment) End() int {
	return a.Start + a.Duration
}

// SolutionMetadata carries the summary counters spec.md names on
// ScheduleSolution plus the observability statistics from §4A.
type SolutionMetadata struct {
	TotalStudents       int
	ScheduledStudents   int
	AverageUtilization  float64
	ComputeTimeMs       int64
	Quality             int
	Backtracks          int
	ConstraintChecks    int
	PropagationRemovals int
	RelaxationLevel     int
	SolveID             string
}

// ScheduleSolution is the final packaged result of a solve. ValidationIssues
// carries the descriptive strings ValidateInputs produced for this request,
// if any — these are informational (§4.7: they do not abort the solve) and
// are surfaced alongside whatever schedule the solver still managed to
// produce from the usable subset of the input.
type ScheduleSolution struct {
	Assignments      []LessonAssignment
	Unscheduled      []string
	ValidationIssues []string
	Metadata         SolutionMetadata
}
