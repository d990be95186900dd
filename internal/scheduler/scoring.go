package scheduler

import "math"

// teacherAvailableMinutes sums the teacher's weekly availability.
func teacherAvailableMinutes(teacher TeacherConfig) int {
	total := 0
	for _, day := range teacher.Availability.Days {
		for _, b := range day.Blocks {
			total += b.Duration
		}
	}
	return total
}

// buildSolution packages a raw assignment set into a ScheduleSolution,
// computing coverage, utilization (average lesson length over 60 minutes,
// clamped to [0,1]) and the blended quality score
// (round(100 * (0.8*coverage + 0.2*utilization))).
func buildSolution(teacher TeacherConfig, variables []Variable, assignments []LessonAssignment, stats Stats, level RelaxationLevel, solveID string, computeTimeMs int64) ScheduleSolution {
	scheduled := make(map[string]bool, len(assignments))
	assignedMinutes := 0
	for _, a := range assignments {
		scheduled[a.StudentID] = true
		assignedMinutes += a.Duration
	}

	var unscheduled []string
	for _, v := range variables {
		if !scheduled[v.Student.Person.ID] {
			unscheduled = append(unscheduled, v.Student.Person.ID)
		}
	}

	totalStudents := len(variables)
	scheduledCount := len(scheduled)

	coverage := 0.0
	if totalStudents > 0 {
		coverage = float64(scheduledCount) / float64(totalStudents)
	}

	utilization := 0.0
	if scheduledCount > 0 {
		averageLessonMinutes := float64(assignedMinutes) / float64(scheduledCount)
		utilization = averageLessonMinutes / 60
		if utilization > 1 {
			utilization = 1
		}
		if utilization < 0 {
			utilization = 0
		}
	}

	quality := int(math.Round(100 * (0.8*coverage + 0.2*utilization)))

	return ScheduleSolution{
		Assignments: assignments,
		Unscheduled: unscheduled,
		Metadata: SolutionMetadata{
			TotalStudents:       totalStudents,
			ScheduledStudents:   scheduledCount,
			AverageUtilization:  utilization,
			ComputeTimeMs:       computeTimeMs,
			Quality:             quality,
			Backtracks:          stats.Backtracks,
			ConstraintChecks:    stats.ConstraintChecks,
			PropagationRemovals: stats.PropagationRemovals,
			RelaxationLevel:     int(level),
			SolveID:             solveID,
		},
	}
}
