// Package persistence is a reference sqlx+lib/pq adapter for loading the
// inputs to a solve and saving its result. The scheduling core in
// internal/scheduler never imports this package; it is a thin external
// collaborator in the shape spec.md's "Persistence layer" describes.
package persistence

import "time"

// teacherRow is the teachers table shape.
type teacherRow struct {
	ID                    string    `db:"id"`
	StudioID              string    `db:"studio_id"`
	DisplayName           string    `db:"display_name"`
	Email                 string    `db:"email"`
	Timezone              string    `db:"timezone"`
	MaxConsecutiveMinutes int       `db:"max_consecutive_minutes"`
	BreakDurationMinutes  int       `db:"break_duration_minutes"`
	MinLessonDuration     int       `db:"min_lesson_duration"`
	MaxLessonDuration     int       `db:"max_lesson_duration"`
	BackToBackPreference  string    `db:"back_to_back_preference"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

// teacherAvailabilityBlockRow is the teacher_availability_blocks table shape.
type teacherAvailabilityBlockRow struct {
	TeacherID string `db:"teacher_id"`
	DayOfWeek int    `db:"day_of_week"`
	Start     int    `db:"start_minute"`
	Duration  int    `db:"duration_minutes"`
}

// teacherConstraintRow is the teacher_constraints table shape: one row per
// allowed duration value (a teacher with no rows has no duration
// restriction beyond min/max).
type teacherConstraintRow struct {
	TeacherID       string `db:"teacher_id"`
	AllowedDuration int    `db:"allowed_duration_minutes"`
}

// studentRow is the students table shape.
type studentRow struct {
	ID                string    `db:"id"`
	TeacherID         string    `db:"teacher_id"`
	DisplayName       string    `db:"display_name"`
	Email             string    `db:"email"`
	Timezone          string    `db:"timezone"`
	PreferredDuration int       `db:"preferred_duration"`
	MinDuration       int       `db:"min_duration"`
	MaxDuration       int       `db:"max_duration"`
	MaxLessonsPerWeek int       `db:"max_lessons_per_week"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// studentAvailabilityBlockRow is the student_availability_blocks table shape.
type studentAvailabilityBlockRow struct {
	StudentID string `db:"student_id"`
	DayOfWeek int    `db:"day_of_week"`
	Start     int    `db:"start_minute"`
	Duration  int    `db:"duration_minutes"`
}

// scheduleSolutionRow is the schedule_solutions table shape.
type scheduleSolutionRow struct {
	ID                  string    `db:"id"`
	TeacherID           string    `db:"teacher_id"`
	TotalStudents       int       `db:"total_students"`
	ScheduledStudents    int      `db:"scheduled_students"`
	AverageUtilization  float64   `db:"average_utilization"`
	ComputeTimeMs       int64     `db:"compute_time_ms"`
	Quality             int       `db:"quality"`
	Backtracks          int       `db:"backtracks"`
	ConstraintChecks    int       `db:"constraint_checks"`
	PropagationRemovals int       `db:"propagation_removals"`
	RelaxationLevel     int       `db:"relaxation_level"`
	CreatedAt           time.Time `db:"created_at"`
}

// lessonAssignmentRow is the lesson_assignments table shape.
type lessonAssignmentRow struct {
	SolutionID string `db:"solution_id"`
	StudentID  string `db:"student_id"`
	DayOfWeek  int    `db:"day_of_week"`
	Start      int    `db:"start_minute"`
	Duration   int    `db:"duration_minutes"`
}
