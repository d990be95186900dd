package scheduler

import "testing"

func TestLRUCacheGetSetAndEviction(t *testing.T) {
	c := NewLRUCache(2)
	v1 := []Violation{{ConstraintID: "a"}}
	v2 := []Violation{{ConstraintID: "b"}}
	v3 := []Violation{{ConstraintID: "c"}}

	c.Set("k1", v1)
	c.Set("k2", v2)
	if _, ok := c.Get("k1"); !ok {
		t.Fatal("expected k1 present before eviction")
	}

	// k1 is now most-recently-used; adding k3 should evict k2.
	c.Set("k3", v3)
	if _, ok := c.Get("k2"); ok {
		t.Error("expected k2 to be evicted")
	}
	if _, ok := c.Get("k1"); !ok {
		t.Error("expected k1 to survive eviction as the most recently used entry")
	}
	if _, ok := c.Get("k3"); !ok {
		t.Error("expected k3 present")
	}
}

func TestCachedManagerReturnsSameResultAsInnerAndPopulatesCache(t *testing.T) {
	manager := BuildManager(L0, Weights{}, nil)
	cache := NewLRUCache(16)
	cached := NewCachedManager(manager, cache)

	teacher := teacherWith("t1", week(1, 540, 120), SchedulingConstraints{AllowedDurations: []int{60}})
	student := studentWith("s1", week(1, 540, 60), 60)
	ctx := baseCtx(teacher, student)
	assignment := LessonAssignment{StudentID: "s1", DayOfWeek: 1, Start: 540, Duration: 60}

	direct := manager.Check(assignment, ctx)
	viaCache := cached.Check(assignment, ctx)
	if len(direct) != len(viaCache) {
		t.Fatalf("cached result differs from direct: %+v vs %+v", direct, viaCache)
	}

	key := fingerprint(assignment, ctx)
	if _, ok := cache.Get(key); !ok {
		t.Error("expected Check to populate the cache under the assignment's fingerprint")
	}
}

func TestFingerprintIsOrderIndependentOverExistingAssignments(t *testing.T) {
	a := LessonAssignment{StudentID: "s1", DayOfWeek: 1, Start: 540, Duration: 60}
	ctx := Context{Student: StudentConfig{Person: Person{ID: "s1"}}}

	e1 := LessonAssignment{StudentID: "x", DayOfWeek: 1, Start: 600, Duration: 30}
	e2 := LessonAssignment{StudentID: "y", DayOfWeek: 1, Start: 700, Duration: 30}

	ctxA := ctx
	ctxA.ExistingAssignments = []LessonAssignment{e1, e2}
	ctxB := ctx
	ctxB.ExistingAssignments = []LessonAssignment{e2, e1}

	if fingerprint(a, ctxA) != fingerprint(a, ctxB) {
		t.Error("expected fingerprint to be independent of existing-assignment ordering")
	}
}

func TestFingerprintDistinguishesDifferentContexts(t *testing.T) {
	a := LessonAssignment{StudentID: "s1", DayOfWeek: 1, Start: 540, Duration: 60}
	ctx1 := Context{Student: StudentConfig{Person: Person{ID: "s1"}}}
	ctx2 := Context{Student: StudentConfig{Person: Person{ID: "s1"}}, ExistingAssignments: []LessonAssignment{
		{StudentID: "x", DayOfWeek: 1, Start: 600, Duration: 30},
	}}

	if fingerprint(a, ctx1) == fingerprint(a, ctx2) {
		t.Error("expected different existing-assignment contexts to fingerprint differently")
	}
}
