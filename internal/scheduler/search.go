package scheduler

import (
	"math/rand"
	"sort"
	"time"
)

// Stats carries the deterministic, engine-observable search statistics
// spec.md's "Observability hooks" component names.
type Stats struct {
	Backtracks          int
	ConstraintChecks    int
	Depth               int
	PropagationRemovals int
}

var standardDurations = map[int]bool{30: true, 45: true, 60: true, 90: true}

// searchState carries the mutable state a single backtracking run threads
// across recursive frames: the current partial-assignment stack, the best
// partial solution observed so far, and deterministic budgets/stats. It is
// owned by exactly one solve (or one parallel branch) for its lifetime —
// never shared across goroutines.
type searchState struct {
	manager     checker
	teacher     TeacherConfig
	variables   map[string]Variable
	domains     map[string]*Domain
	fixed       []LessonAssignment // externally supplied, never mutated
	assignments []LessonAssignment // current path stack

	best []LessonAssignment

	stats Stats

	deadline      time.Time
	maxBacktracks int

	// rng perturbs value-ordering scores so that parallel branches seeded
	// differently (see parallel.go) explore distinct regions of the search
	// tree instead of converging on the same path. Nil means no jitter.
	rng *rand.Rand
}

// run performs the backtracking search of spec.md §4.5 over the given
// ordered total variable count (for the "full coverage, stop" check) and
// the set of student ids still undecided in this branch.
func (s *searchState) run(remaining []string, totalVars int) {
	if s.budgetExceeded() {
		return
	}
	if len(remaining) == 0 {
		s.recordIfBetter()
		return
	}

	v := s.pickVariable(remaining)
	rest := removeID(remaining, v)

	domain := s.domains[v]
	ordered := s.orderByLCV(domain.Slots, v)

	for _, slot := range ordered {
		if s.budgetExceeded() {
			return
		}
		tentative := LessonAssignment{StudentID: v, DayOfWeek: slot.DayOfWeek, Start: slot.Start, Duration: slot.Duration}
		ctx := Context{
			ExistingAssignments: s.currentContext(),
			Teacher:             s.teacher,
			Student:             s.variables[v].Student,
		}
		violations := s.manager.Check(tentative, ctx)
		s.stats.ConstraintChecks++
		if hasHard(violations) {
			continue
		}

		s.assignments = append(s.assignments, tentative)
		s.recordIfBetter()
		if len(s.best) == totalVars {
			s.assignments = s.assignments[:len(s.assignments)-1]
			return
		}

		s.stats.Depth++
		s.run(rest, totalVars)
		s.stats.Depth--
		s.assignments = s.assignments[:len(s.assignments)-1]
		s.stats.Backtracks++

		if len(s.best) == totalVars || s.budgetExceeded() {
			return
		}
	}

	// Domain exhausted (or empty): leave v unscheduled in this branch and
	// continue, so the rest of the class can still be solved for.
	s.run(rest, totalVars)
}

// currentContext builds the assignment set a tentative assignment is
// checked against: the externally fixed set plus the current path — never
// historical siblings from earlier, already-backtracked branches.
func (s *searchState) currentContext() []LessonAssignment {
	if len(s.fixed) == 0 {
		return s.assignments
	}
	merged := make([]LessonAssignment, 0, len(s.fixed)+len(s.assignments))
	merged = append(merged, s.fixed...)
	merged = append(merged, s.assignments...)
	return merged
}

func (s *searchState) recordIfBetter() {
	if len(s.assignments) > len(s.best) {
		s.best = append([]LessonAssignment(nil), s.assignments...)
	}
}

func (s *searchState) budgetExceeded() bool {
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return true
	}
	if s.maxBacktracks > 0 && s.stats.Backtracks >= s.maxBacktracks {
		return true
	}
	return false
}

// pickVariable applies MRV (smallest current domain) with a degree tie
// break (most contention with other unassigned variables' domains),
// finally broken deterministically by student id.
func (s *searchState) pickVariable(remaining []string) string {
	best := remaining[0]
	bestSize := len(s.domains[best].Slots)
	for _, id := range remaining[1:] {
		size := len(s.domains[id].Slots)
		if size < bestSize {
			best, bestSize = id, size
		}
	}

	var tied []string
	for _, id := range remaining {
		if len(s.domains[id].Slots) == bestSize {
			tied = append(tied, id)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}

	sort.Slice(tied, func(i, j int) bool {
		di, dj := s.degree(tied[i], remaining), s.degree(tied[j], remaining)
		if di != dj {
			return di > dj
		}
		return tied[i] < tied[j]
	})
	return tied[0]
}

// degree counts the other unassigned variables whose domain contains a slot
// overlapping at least one slot in v's domain.
func (s *searchState) degree(v string, remaining []string) int {
	vSlots := s.domains[v].Slots
	count := 0
	for _, other := range remaining {
		if other == v {
			continue
		}
		if slotsContend(vSlots, s.domains[other].Slots) {
			count++
		}
	}
	return count
}

func slotsContend(a, b []TimeSlot) bool {
	for _, x := range a {
		for _, y := range b {
			if x.DayOfWeek != y.DayOfWeek {
				continue
			}
			if Overlaps(TimeBlock{Start: x.Start, Duration: x.Duration}, TimeBlock{Start: y.Start, Duration: y.Duration}) {
				return true
			}
		}
	}
	return false
}

// orderByLCV scores each candidate slot per spec.md §4.5 and orders by
// descending score (a least-constraining-value heuristic grounded on
// additive, domain-specific bonuses rather than a literal future-domain
// count, as spec.md's "LCV-ish score" names it).
func (s *searchState) orderByLCV(slots []TimeSlot, studentID string) []TimeSlot {
	scored := make([]TimeSlot, len(slots))
	copy(scored, slots)
	for i := range scored {
		scored[i].Score = s.scoreSlot(scored[i])
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

func (s *searchState) scoreSlot(slot TimeSlot) float64 {
	score := 0.0
	if slot.Start >= 10*60 && slot.Start+slot.Duration <= 16*60 {
		score += 10
	}
	if slot.DayOfWeek >= 1 && slot.DayOfWeek <= 5 {
		score += 5
	}
	if standardDurations[slot.Duration] {
		score += 5
	}

	existing := s.currentContext()
	dayCount := 0
	hasNeighborClose := false
	adjacent := false
	for _, a := range existing {
		if a.DayOfWeek != slot.DayOfWeek {
			continue
		}
		dayCount++
		gap := slot.Start - a.End()
		if gap < 0 {
			gap = a.Start - slot.End()
		}
		if gap >= 0 && gap < 180 {
			hasNeighborClose = true
		}
		if a.End() == slot.Start || slot.End() == a.Start {
			adjacent = true
		}
	}
	score -= float64(dayCount) * 2 // day-utilization penalty
	if dayCount == 0 {
		score += 8 // new-day bonus
	}
	if hasNeighborClose {
		score -= 10
	}

	pref := s.teacher.Constraints.BackToBackPreference
	switch pref {
	case BackToBackMaximize:
		if adjacent {
			score += 25
		} else {
			score -= 15
		}
	case BackToBackMinimize:
		if adjacent {
			score -= 25
		} else {
			score += 15
		}
	}
	if s.rng != nil {
		score += (s.rng.Float64()*2 - 1) * 3
	}
	return score
}

func hasHard(violations []Violation) bool {
	for _, v := range violations {
		if v.Type == Hard {
			return true
		}
	}
	return false
}

func removeID(ids []string, target string) []string {
	result := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != target {
			result = append(result, id)
		}
	}
	return result
}
