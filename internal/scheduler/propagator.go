package scheduler

// Propagate runs the fixed-point, arc-consistency-style reduction of
// spec.md §4.4: for each domain value, ask whether it is valid against an
// empty context (no other assignments); remove values that fail any hard
// constraint. Domains only shrink, so the process terminates. Returns the
// total number of values removed, for observability.
func Propagate(manager checker, teacher TeacherConfig, variables []Variable, domains map[string]*Domain) int {
	removed := 0
	changed := true
	for changed {
		changed = false
		for _, v := range variables {
			studentID := v.Student.Person.ID
			domain := domains[studentID]
			if domain == nil {
				continue
			}
			kept := domain.Slots[:0:0]
			for _, slot := range domain.Slots {
				tentative := LessonAssignment{
					StudentID: studentID,
					DayOfWeek: slot.DayOfWeek,
					Start:     slot.Start,
					Duration:  slot.Duration,
				}
				ctx := Context{
					ExistingAssignments: nil,
					Teacher:             teacher,
					Student:             v.Student,
				}
				if manager.IsValid(tentative, ctx) {
					kept = append(kept, slot)
				}
			}
			if len(kept) != len(domain.Slots) {
				removed += len(domain.Slots) - len(kept)
				domain.Slots = kept
				domain.IsReduced = true
				changed = true
			}
		}
	}
	return removed
}
