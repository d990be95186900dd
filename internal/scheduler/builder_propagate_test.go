package scheduler

import "testing"

func TestBuildVariablesIntersectsTeacherAndStudentAvailability(t *testing.T) {
	teacher := teacherWith("t1", week(1, 540, 120), SchedulingConstraints{AllowedDurations: []int{60}})
	students := []StudentConfig{studentWith("s1", week(1, 600, 60), 60)}

	variables, domains := BuildVariables(teacher, students, 15)
	if len(variables) != 1 {
		t.Fatalf("expected 1 variable, got %d", len(variables))
	}
	domain := domains["s1"]
	if domain == nil {
		t.Fatal("expected a domain for s1")
	}
	for _, slot := range domain.Slots {
		if slot.Start != 600 {
			t.Errorf("expected only the overlapping slot at 600, got %+v", slot)
		}
	}
	if len(domain.Slots) == 0 {
		t.Error("expected at least one candidate slot at the student's available start")
	}
}

func TestBuildVariablesEmptyDomainForDisjointAvailability(t *testing.T) {
	teacher := teacherWith("t1", week(1, 540, 60), SchedulingConstraints{AllowedDurations: []int{60}})
	students := []StudentConfig{studentWith("s1", week(2, 540, 60), 60)}

	_, domains := BuildVariables(teacher, students, 15)
	if len(domains["s1"].Slots) != 0 {
		t.Errorf("expected empty domain for a student with no overlapping day, got %+v", domains["s1"].Slots)
	}
}

func TestPropagateKeepsValuesValidInIsolation(t *testing.T) {
	teacher := teacherWith("t1", week(1, 540, 120), SchedulingConstraints{AllowedDurations: []int{60}})
	student := studentWith("s1", week(1, 540, 120), 60)
	variables, domains := BuildVariables(teacher, []StudentConfig{student}, 30)

	manager := BuildManager(L0, Weights{}, nil)
	removed := Propagate(manager, teacher, variables, domains)

	// Every candidate slot already satisfies availability/duration in
	// isolation (no competing assignments yet), so nothing should be removed.
	if removed != 0 {
		t.Errorf("expected no removals against an empty context, got %d", removed)
	}
}

func TestPropagateTerminatesAndOnlyShrinksDomains(t *testing.T) {
	teacher := teacherWith("t1", week(1, 540, 120), SchedulingConstraints{AllowedDurations: []int{45}})
	student := studentWith("s1", week(1, 540, 120), 60)
	variables, domains := BuildVariables(teacher, []StudentConfig{student}, 15)
	before := len(domains["s1"].Slots)

	manager := BuildManager(L0, Weights{}, nil)
	Propagate(manager, teacher, variables, domains)

	after := len(domains["s1"].Slots)
	if after > before {
		t.Errorf("propagation grew a domain: before=%d after=%d", before, after)
	}
	// s1's resolved duration will be 45 (from AllowedDurations), and every
	// candidate slot generated by BuildVariables is already 45 minutes long,
	// so the duration constraint cannot remove anything here either; this
	// assertion only pins down monotonic shrink, not an exact count.
}
