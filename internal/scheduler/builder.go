package scheduler

import "sort"

// resolveDuration implements spec.md §4.2 step 1: exactly one candidate
// duration per student.
func resolveDuration(teacher TeacherConfig, student StudentConfig) int {
	tc := teacher.Constraints
	preferred := student.PreferredDuration
	if preferred <= 0 {
		preferred = 60
	}

	if len(tc.AllowedDurations) > 0 {
		if containsInt(tc.AllowedDurations, preferred) {
			return preferred
		}
		if containsInt(tc.AllowedDurations, 60) {
			return 60
		}
		return medianOf(tc.AllowedDurations)
	}

	min, max := effectiveBounds(tc)
	return clamp(preferred, min, max)
}

func medianOf(values []int) int {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	return sorted[len(sorted)/2]
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// BuildVariables constructs one Variable and one Domain per student, per
// spec.md §4.2: the teacher's per-day slots of the student's resolved
// duration, filtered to those the student is also available for. Students
// whose resulting domain is empty remain in the problem; the search engine
// will simply be unable to assign them.
func BuildVariables(teacher TeacherConfig, students []StudentConfig, granularity int) ([]Variable, map[string]*Domain) {
	variables := make([]Variable, 0, len(students))
	domains := make(map[string]*Domain, len(students))

	for _, student := range students {
		duration := resolveDuration(teacher, student)
		var slots []TimeSlot
		for day := 0; day < DaysPerWeek; day++ {
			if day >= len(teacher.Availability.Days) || day >= len(student.Availability.Days) {
				continue
			}
			teacherDay := teacher.Availability.Days[day]
			studentDay := student.Availability.Days[day]
			for _, slot := range FindAvailableSlots(teacherDay, duration, granularity) {
				if IsTimeAvailable(studentDay, slot.Start, duration) {
					slots = append(slots, slot)
				}
			}
		}
		variables = append(variables, Variable{
			Student:       student,
			ConstraintIDs: []string{"availability", "non_overlapping", "duration"},
		})
		domains[student.Person.ID] = &Domain{Slots: slots, IsReduced: false}
	}
	return variables, domains
}
