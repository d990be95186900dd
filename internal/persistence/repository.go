package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/lesson-solver/internal/scheduler"
)

// Repository loads solve inputs and saves solve outputs against Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository constructs a Repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Load fetches a teacher and the roster of students attached to it, ready
// to pass straight to scheduler.Solve.
func (r *Repository) Load(ctx context.Context, teacherID string) (scheduler.TeacherConfig, []scheduler.StudentConfig, error) {
	var tRow teacherRow
	const teacherQuery = `SELECT id, studio_id, display_name, email, timezone, max_consecutive_minutes,
		break_duration_minutes, min_lesson_duration, max_lesson_duration, back_to_back_preference, created_at, updated_at
		FROM teachers WHERE id = $1`
	if err := r.db.GetContext(ctx, &tRow, teacherQuery, teacherID); err != nil {
		return scheduler.TeacherConfig{}, nil, fmt.Errorf("load teacher %s: %w", teacherID, err)
	}

	var durationRows []teacherConstraintRow
	const durationsQuery = `SELECT teacher_id, allowed_duration_minutes FROM teacher_constraints WHERE teacher_id = $1`
	if err := r.db.SelectContext(ctx, &durationRows, durationsQuery, teacherID); err != nil {
		return scheduler.TeacherConfig{}, nil, fmt.Errorf("load teacher constraints %s: %w", teacherID, err)
	}

	teacherAvailability, err := r.loadAvailability(ctx, "teacher_availability_blocks", "teacher_id", teacherID, tRow.Timezone)
	if err != nil {
		return scheduler.TeacherConfig{}, nil, err
	}

	teacher := scheduler.TeacherConfig{
		Person:       scheduler.Person{ID: tRow.ID, DisplayName: tRow.DisplayName, Email: tRow.Email},
		StudioID:     tRow.StudioID,
		Availability: teacherAvailability,
		Constraints: scheduler.SchedulingConstraints{
			MaxConsecutiveMinutes: tRow.MaxConsecutiveMinutes,
			BreakDurationMinutes:  tRow.BreakDurationMinutes,
			MinLessonDuration:     tRow.MinLessonDuration,
			MaxLessonDuration:     tRow.MaxLessonDuration,
			BackToBackPreference:  scheduler.BackToBackPreference(tRow.BackToBackPreference),
		},
	}
	for _, d := range durationRows {
		teacher.Constraints.AllowedDurations = append(teacher.Constraints.AllowedDurations, d.AllowedDuration)
	}

	var studentRows []studentRow
	const studentsQuery = `SELECT id, teacher_id, display_name, email, timezone, preferred_duration, min_duration,
		max_duration, max_lessons_per_week, created_at, updated_at FROM students WHERE teacher_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &studentRows, studentsQuery, teacherID); err != nil {
		return scheduler.TeacherConfig{}, nil, fmt.Errorf("load students for teacher %s: %w", teacherID, err)
	}

	students := make([]scheduler.StudentConfig, 0, len(studentRows))
	for _, sRow := range studentRows {
		availability, err := r.loadAvailability(ctx, "student_availability_blocks", "student_id", sRow.ID, sRow.Timezone)
		if err != nil {
			return scheduler.TeacherConfig{}, nil, err
		}
		students = append(students, scheduler.StudentConfig{
			Person:            scheduler.Person{ID: sRow.ID, DisplayName: sRow.DisplayName, Email: sRow.Email},
			PreferredDuration: sRow.PreferredDuration,
			MinDuration:       sRow.MinDuration,
			MaxDuration:       sRow.MaxDuration,
			MaxLessonsPerWeek: sRow.MaxLessonsPerWeek,
			Availability:      availability,
		})
	}

	return teacher, students, nil
}

func (r *Repository) loadAvailability(ctx context.Context, table, fkColumn, ownerID, timezone string) (scheduler.WeekSchedule, error) {
	week := scheduler.NewWeekSchedule(timezone)

	query := fmt.Sprintf(`SELECT day_of_week, start_minute, duration_minutes FROM %s WHERE %s = $1 ORDER BY day_of_week, start_minute`, table, fkColumn)
	var blocks []struct {
		DayOfWeek int `db:"day_of_week"`
		Start     int `db:"start_minute"`
		Duration  int `db:"duration_minutes"`
	}
	if err := r.db.SelectContext(ctx, &blocks, query, ownerID); err != nil {
		return scheduler.WeekSchedule{}, fmt.Errorf("load availability from %s for %s: %w", table, ownerID, err)
	}

	byDay := make(map[int][]scheduler.TimeBlock)
	for _, b := range blocks {
		byDay[b.DayOfWeek] = append(byDay[b.DayOfWeek], scheduler.TimeBlock{Start: b.Start, Duration: b.Duration})
	}
	for day := 0; day < scheduler.DaysPerWeek; day++ {
		week.Days[day].Blocks = scheduler.MergeBlocks(byDay[day])
	}
	return week, nil
}

// Save persists a completed solve: one schedule_solutions row plus one
// lesson_assignments row per assignment, inside a single transaction.
func (r *Repository) Save(ctx context.Context, teacherID string, solution scheduler.ScheduleSolution) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	solutionID := solution.Metadata.SolveID
	if solutionID == "" {
		solutionID = uuid.NewString()
	}

	row := scheduleSolutionRow{
		ID:                  solutionID,
		TeacherID:           teacherID,
		TotalStudents:       solution.Metadata.TotalStudents,
		ScheduledStudents:   solution.Metadata.ScheduledStudents,
		AverageUtilization:  solution.Metadata.AverageUtilization,
		ComputeTimeMs:       solution.Metadata.ComputeTimeMs,
		Quality:             solution.Metadata.Quality,
		Backtracks:          solution.Metadata.Backtracks,
		ConstraintChecks:    solution.Metadata.ConstraintChecks,
		PropagationRemovals: solution.Metadata.PropagationRemovals,
		RelaxationLevel:     solution.Metadata.RelaxationLevel,
		CreatedAt:           time.Now().UTC(),
	}

	const insertSolution = `INSERT INTO schedule_solutions (id, teacher_id, total_students, scheduled_students,
		average_utilization, compute_time_ms, quality, backtracks, constraint_checks, propagation_removals,
		relaxation_level, created_at)
		VALUES (:id, :teacher_id, :total_students, :scheduled_students, :average_utilization, :compute_time_ms,
		:quality, :backtracks, :constraint_checks, :propagation_removals, :relaxation_level, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertSolution, row); err != nil {
		return fmt.Errorf("insert schedule_solutions: %w", err)
	}

	const insertAssignment = `INSERT INTO lesson_assignments (solution_id, student_id, day_of_week, start_minute, duration_minutes)
		VALUES (:solution_id, :student_id, :day_of_week, :start_minute, :duration_minutes)`
	for _, a := range solution.Assignments {
		assignmentRow := lessonAssignmentRow{
			SolutionID: solutionID,
			StudentID:  a.StudentID,
			DayOfWeek:  a.DayOfWeek,
			Start:      a.Start,
			Duration:   a.Duration,
		}
		if _, err := tx.NamedExecContext(ctx, insertAssignment, assignmentRow); err != nil {
			return fmt.Errorf("insert lesson_assignments for %s: %w", a.StudentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}
