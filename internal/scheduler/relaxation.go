package scheduler

// RelaxationLevel indexes the staged constraint-relaxation cascade of
// spec.md §4.3/§4.5. L0 is the full constraint set; higher levels drop
// progressively more soft constraints, and from L2 on the Duration
// constraint is relaxed to a bounds-only check.
type RelaxationLevel int

const (
	L0 RelaxationLevel = iota
	L1
	L2
	L3
)

// Weights tunes the soft constraints' cost contribution; every field
// defaults sensibly to 1.0 when zero.
type Weights struct {
	PreferredTime    float64
	ConsecutiveLimit float64
	BreakRequirement float64
	WorkloadBalance  float64
	BackToBack       float64
}

func (w Weights) withDefaults() Weights {
	def := func(v float64) float64 {
		if v == 0 {
			return 1.0
		}
		return v
	}
	w.PreferredTime = def(w.PreferredTime)
	w.ConsecutiveLimit = def(w.ConsecutiveLimit)
	w.BreakRequirement = def(w.BreakRequirement)
	w.WorkloadBalance = def(w.WorkloadBalance)
	w.BackToBack = def(w.BackToBack)
	return w
}

// BuildManager assembles the constraint registry active at a given
// relaxation level, per spec.md §4.3:
//
//	L0: all hard + all soft.
//	L1: disable BreakRequirement and ConsecutiveLimit.
//	L2: keep only Availability, NonOverlapping, a relaxed (bounds-only)
//	    Duration, and WorkloadBalance.
//	L3: keep only Availability, NonOverlapping (which stays hard — see
//	    DESIGN.md's resolution of Open Question 2) and the bounds-only
//	    Duration; the builder still gives each student a single duration.
func BuildManager(level RelaxationLevel, weights Weights, enabled map[string]bool) *Manager {
	w := weights.withDefaults()
	m := NewManager()

	add := func(c Constraint) {
		if enabled != nil {
			if on, known := enabled[c.ID()]; known && !on {
				return
			}
		}
		m.AddConstraint(c)
	}

	add(NewAvailabilityConstraint())

	switch level {
	case L0:
		add(NewNonOverlappingConstraint())
		add(NewDurationConstraint())
		add(NewPreferredTimeConstraint(w.PreferredTime))
		add(NewConsecutiveLimitConstraint(w.ConsecutiveLimit))
		add(NewBreakRequirementConstraint(w.BreakRequirement))
		add(NewWorkloadBalanceConstraint(w.WorkloadBalance))
		add(NewBackToBackConstraint(w.BackToBack))
	case L1:
		add(NewNonOverlappingConstraint())
		add(NewDurationConstraint())
		add(NewPreferredTimeConstraint(w.PreferredTime))
		add(NewWorkloadBalanceConstraint(w.WorkloadBalance))
		add(NewBackToBackConstraint(w.BackToBack))
	case L2:
		add(NewNonOverlappingConstraint())
		relaxedDuration := NewDurationConstraint()
		relaxedDuration.boundsOnly = true
		add(relaxedDuration)
		add(NewWorkloadBalanceConstraint(w.WorkloadBalance))
	case L3:
		add(NewNonOverlappingConstraint())
		relaxedDuration := NewDurationConstraint()
		relaxedDuration.boundsOnly = true
		add(relaxedDuration)
	}
	return m
}
