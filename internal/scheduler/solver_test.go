package scheduler

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func buildFixture(n int) (TeacherConfig, []StudentConfig) {
	teacher := teacherWith("t1", weekMulti(1, TimeBlock{Start: 540, Duration: 480}), SchedulingConstraints{
		AllowedDurations:      []int{30, 60},
		MaxConsecutiveMinutes: 180,
		BreakDurationMinutes:  15,
	})
	ids := []string{"s1", "s2", "s3", "s4", "s5", "s6"}
	var students []StudentConfig
	for i := 0; i < n && i < len(ids); i++ {
		start := 540 + i*45
		students = append(students, studentWith(ids[i], week(1, start, 60), 60))
	}
	return teacher, students
}

func TestPartitionInvariant(t *testing.T) {
	teacher, students := buildFixture(5)
	solution, err := Solve(teacher, students)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for _, a := range solution.Assignments {
		if seen[a.StudentID] {
			t.Errorf("student %s assigned twice", a.StudentID)
		}
		seen[a.StudentID] = true
	}
	for _, id := range solution.Unscheduled {
		if seen[id] {
			t.Errorf("student %s is both scheduled and unscheduled", id)
		}
		seen[id] = true
	}
	for _, s := range students {
		if !seen[s.Person.ID] {
			t.Errorf("student %s missing from both assignments and unscheduled", s.Person.ID)
		}
	}
	if len(seen) != len(students) {
		t.Errorf("expected %d distinct students accounted for, got %d", len(students), len(seen))
	}
}

func TestAvailabilityAndNonOverlapInvariants(t *testing.T) {
	teacher, students := buildFixture(6)
	solution, err := Solve(teacher, students)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	studentByID := make(map[string]StudentConfig, len(students))
	for _, s := range students {
		studentByID[s.Person.ID] = s
	}

	for _, a := range solution.Assignments {
		teacherDay := teacher.Availability.Days[a.DayOfWeek]
		studentDay := studentByID[a.StudentID].Availability.Days[a.DayOfWeek]
		if !IsTimeAvailable(teacherDay, a.Start, a.Duration) {
			t.Errorf("assignment %+v not within teacher availability", a)
		}
		if !IsTimeAvailable(studentDay, a.Start, a.Duration) {
			t.Errorf("assignment %+v not within student availability", a)
		}
	}

	for i := 0; i < len(solution.Assignments); i++ {
		for j := i + 1; j < len(solution.Assignments); j++ {
			a, b := solution.Assignments[i], solution.Assignments[j]
			if a.DayOfWeek != b.DayOfWeek {
				continue
			}
			if Overlaps(TimeBlock{Start: a.Start, Duration: a.Duration}, TimeBlock{Start: b.Start, Duration: b.Duration}) {
				t.Errorf("overlap between %+v and %+v", a, b)
			}
		}
	}
}

func TestDurationPolicyInvariant(t *testing.T) {
	teacher, students := buildFixture(4)
	solution, err := Solve(teacher, students)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range solution.Assignments {
		if !containsInt(teacher.Constraints.AllowedDurations, a.Duration) {
			t.Errorf("assignment %+v uses a duration outside the allowed set", a)
		}
	}
}

func TestDeterminism(t *testing.T) {
	teacher, students := buildFixture(6)
	opts := DefaultSolverOptions(len(students))
	opts.MaxTimeMs = 0 // no wall-clock budget

	first, err := SolveWithOptions(teacher, students, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := SolveWithOptions(teacher, students, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Assignments, second.Assignments) {
		t.Errorf("non-deterministic assignments:\n%+v\n%+v", first.Assignments, second.Assignments)
	}
	if !reflect.DeepEqual(first.Unscheduled, second.Unscheduled) {
		t.Errorf("non-deterministic unscheduled set:\n%+v\n%+v", first.Unscheduled, second.Unscheduled)
	}
}

func TestValidateInputsCatchesStructuralIssues(t *testing.T) {
	teacher := TeacherConfig{Availability: NewWeekSchedule("UTC")}
	students := []StudentConfig{
		{Person: Person{ID: "s1"}, Availability: NewWeekSchedule("UTC")},
		{Person: Person{ID: "s1"}, Availability: NewWeekSchedule("UTC")},
	}

	issues := ValidateInputs(teacher, students)
	if len(issues) == 0 {
		t.Fatal("expected validation issues for missing teacher id, zero availability, and duplicate student id")
	}
}

func TestSolveWithOptionsDoesNotAbortOnValidationIssues(t *testing.T) {
	teacher := TeacherConfig{Availability: NewWeekSchedule("UTC")}
	students := []StudentConfig{
		{Person: Person{ID: "s1"}, Availability: NewWeekSchedule("UTC")},
	}

	solution, err := Solve(teacher, students)
	if err != nil {
		t.Fatalf("structural validation issues must not abort the solve, got error: %v", err)
	}
	if len(solution.ValidationIssues) == 0 {
		t.Error("expected the informational validation issues to ride along on the solution")
	}
	if len(solution.Assignments)+len(solution.Unscheduled) != len(students) {
		t.Errorf("partition invariant violated: %d assignments + %d unscheduled != %d students",
			len(solution.Assignments), len(solution.Unscheduled), len(students))
	}
}

func TestSolveWithOptionsLogsAtBasicLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	teacher, students := buildFixture(3)
	opts := DefaultSolverOptions(len(students))
	opts.Logger = zap.New(core)
	opts.LogLevel = LogBasic

	if _, err := SolveWithOptions(teacher, students, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages := make([]string, 0, logs.Len())
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	if !containsString(messages, "solve started") || !containsString(messages, "solve finished") {
		t.Errorf("expected start and finish events at LogBasic, got %v", messages)
	}
}

func TestSolveWithOptionsLogNoneEmitsNothing(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	teacher, students := buildFixture(3)
	opts := DefaultSolverOptions(len(students))
	opts.Logger = zap.New(core)
	opts.LogLevel = LogNone

	if _, err := SolveWithOptions(teacher, students, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no log events at LogNone, got %d", logs.Len())
	}
}

func TestSolveWithOptionsLogsRelaxationLevelsAtDetailed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	teacher, students := buildFixture(3)
	opts := DefaultSolverOptions(len(students))
	opts.Logger = zap.New(core)
	opts.LogLevel = LogDetailed

	if _, err := SolveWithOptions(teacher, students, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	for _, entry := range logs.All() {
		if entry.Message == "relaxation level attempted" {
			count++
		}
	}
	if count == 0 {
		t.Error("expected at least one relaxation-level-attempted event at LogDetailed")
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func TestSolveParallelReturnsAtLeastAsGoodAsSerial(t *testing.T) {
	teacher, students := buildFixture(6)
	serial, err := Solve(teacher, students)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parallel, err := SolveParallel(context.Background(), teacher, students, DefaultSolverOptions(len(students)), []int64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parallel.Assignments) < len(serial.Assignments) {
		t.Errorf("parallel search returned fewer assignments (%d) than serial (%d)", len(parallel.Assignments), len(serial.Assignments))
	}
}
