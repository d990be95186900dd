package scheduler

import "sort"

// ConstraintType distinguishes mandatory constraints from scored preferences.
type ConstraintType string

const (
	Hard ConstraintType = "hard"
	Soft ConstraintType = "soft"
)

// Violation is produced by a constraint's Evaluate when an assignment fails
// or merely scores poorly against it.
type Violation struct {
	ConstraintID string
	Type         ConstraintType
	Severity     string
	Cost         float64
	Message      string
}

// Context is the set of existing assignments a tentative assignment is
// evaluated against, plus the teacher whose constraints apply.
type Context struct {
	ExistingAssignments []LessonAssignment
	Teacher             TeacherConfig
	Student             StudentConfig
}

// Constraint is a single named rule with a stable id, a hard/soft type, a
// priority used to order violation reporting deterministically, and an
// Evaluate function returning zero or more Violations for one tentative
// assignment against a Context.
type Constraint interface {
	ID() string
	Type() ConstraintType
	Priority() int
	Evaluate(assignment LessonAssignment, ctx Context) []Violation
}

// Manager is a typed, id-keyed registry of constraints that aggregates
// per-assignment validity and violation cost.
type Manager struct {
	constraints map[string]Constraint
	order       []string
}

// NewManager returns an empty constraint manager.
func NewManager() *Manager {
	return &Manager{constraints: make(map[string]Constraint)}
}

// AddConstraint registers a constraint, replacing any existing one sharing
// its id.
func (m *Manager) AddConstraint(c Constraint) {
	if _, exists := m.constraints[c.ID()]; !exists {
		m.order = append(m.order, c.ID())
	}
	m.constraints[c.ID()] = c
}

// RemoveConstraint unregisters a constraint by id, if present.
func (m *Manager) RemoveConstraint(id string) {
	if _, ok := m.constraints[id]; !ok {
		return
	}
	delete(m.constraints, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// GetAll returns registered constraints in deterministic (priority, then id)
// order.
func (m *Manager) GetAll() []Constraint {
	result := make([]Constraint, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.constraints[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Priority() != result[j].Priority() {
			return result[i].Priority() < result[j].Priority()
		}
		return result[i].ID() < result[j].ID()
	})
	return result
}

// GetAllIds returns the ids of every registered constraint in the same
// deterministic order as GetAll.
func (m *Manager) GetAllIds() []string {
	all := m.GetAll()
	ids := make([]string, len(all))
	for i, c := range all {
		ids[i] = c.ID()
	}
	return ids
}

// CheckSingle evaluates one named constraint.
func (m *Manager) CheckSingle(id string, assignment LessonAssignment, ctx Context) []Violation {
	c, ok := m.constraints[id]
	if !ok {
		return nil
	}
	return c.Evaluate(assignment, ctx)
}

// Check collects violations from every registered constraint, short
// circuiting as soon as a hard violation is seen (permitted by spec for
// performance; soft constraints registered after the failing hard
// constraint, by priority order, are skipped).
func (m *Manager) Check(assignment LessonAssignment, ctx Context) []Violation {
	var all []Violation
	for _, c := range m.GetAll() {
		vs := c.Evaluate(assignment, ctx)
		all = append(all, vs...)
		for _, v := range vs {
			if v.Type == Hard {
				return all
			}
		}
	}
	return all
}

// IsValid reports whether assignment has no hard violation.
func (m *Manager) IsValid(assignment LessonAssignment, ctx Context) bool {
	for _, v := range m.Check(assignment, ctx) {
		if v.Type == Hard {
			return false
		}
	}
	return true
}

// ViolationCost sums the soft-violation costs, ignoring hard violations
// (which would already have aborted candidacy).
func ViolationCost(violations []Violation) float64 {
	var total float64
	for _, v := range violations {
		if v.Type == Soft {
			total += v.Cost
		}
	}
	return total
}
