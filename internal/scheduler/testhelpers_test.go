package scheduler

// week builds a WeekSchedule with a single block on one day, all others empty.
func week(day, start, duration int) WeekSchedule {
	w := NewWeekSchedule("UTC")
	w.Days[day].Blocks = []TimeBlock{{Start: start, Duration: duration}}
	return w
}

// weekMulti builds a WeekSchedule with several blocks on one day.
func weekMulti(day int, blocks ...TimeBlock) WeekSchedule {
	w := NewWeekSchedule("UTC")
	w.Days[day].Blocks = blocks
	return w
}

func teacherWith(id string, avail WeekSchedule, constraints SchedulingConstraints) TeacherConfig {
	return TeacherConfig{
		Person:       Person{ID: id},
		Availability: avail,
		Constraints:  constraints,
	}
}

func studentWith(id string, avail WeekSchedule, preferredDuration int) StudentConfig {
	return StudentConfig{
		Person:            Person{ID: id},
		PreferredDuration: preferredDuration,
		Availability:      avail,
	}
}

func findAssignment(solution ScheduleSolution, studentID string) (LessonAssignment, bool) {
	for _, a := range solution.Assignments {
		if a.StudentID == studentID {
			return a, true
		}
	}
	return LessonAssignment{}, false
}
