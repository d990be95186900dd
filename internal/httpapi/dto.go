// Package httpapi is a thin gin adapter over internal/scheduler: a
// request/response DTO layer plus two operations (solve, validate) and the
// usual health/metrics endpoints. It holds no scheduling logic of its own.
package httpapi

import "github.com/noah-isme/lesson-solver/internal/scheduler"

// TimeBlockDTO is one contiguous availability span within a day.
type TimeBlockDTO struct {
	Start    int `json:"start" validate:"min=0,max=1439"`
	Duration int `json:"duration" validate:"required,min=1"`
}

// DayScheduleDTO is one day's availability blocks.
type DayScheduleDTO struct {
	DayOfWeek int            `json:"dayOfWeek" validate:"min=0,max=6"`
	Blocks    []TimeBlockDTO `json:"blocks" validate:"dive"`
}

// WeekScheduleDTO is a full week of availability.
type WeekScheduleDTO struct {
	Days     []DayScheduleDTO `json:"days" validate:"required,len=7,dive"`
	Timezone string           `json:"timezone"`
}

// PersonDTO identifies a teacher or student.
type PersonDTO struct {
	ID          string `json:"id" validate:"required"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// SchedulingConstraintsDTO carries the teacher's tunable constraint
// parameters.
type SchedulingConstraintsDTO struct {
	MaxConsecutiveMinutes int    `json:"maxConsecutiveMinutes"`
	BreakDurationMinutes  int    `json:"breakDurationMinutes"`
	MinLessonDuration     int    `json:"minLessonDuration"`
	MaxLessonDuration     int    `json:"maxLessonDuration"`
	AllowedDurations      []int  `json:"allowedDurations"`
	BackToBackPreference  string `json:"backToBackPreference" validate:"omitempty,oneof=maximize minimize agnostic"`
}

// TeacherConfigDTO is the teacher side of a solve request.
type TeacherConfigDTO struct {
	Person       PersonDTO                `json:"person" validate:"required"`
	StudioID     string                   `json:"studioId"`
	Availability WeekScheduleDTO          `json:"availability" validate:"required"`
	Constraints  SchedulingConstraintsDTO `json:"constraints"`
}

// StudentConfigDTO is one student's scheduling request.
type StudentConfigDTO struct {
	Person            PersonDTO       `json:"person" validate:"required"`
	PreferredDuration int             `json:"preferredDuration" validate:"min=0"`
	MinDuration       int             `json:"minDuration" validate:"min=0"`
	MaxDuration       int             `json:"maxDuration" validate:"min=0"`
	MaxLessonsPerWeek int             `json:"maxLessonsPerWeek" validate:"min=0"`
	Availability      WeekScheduleDTO `json:"availability" validate:"required"`
}

// SolveOptionsDTO exposes the subset of scheduler.SolverOptions worth
// tuning over the wire; zero values fall back to adaptive defaults.
type SolveOptionsDTO struct {
	MaxTimeMs              int64 `json:"maxTimeMs" validate:"min=0"`
	MaxBacktracks          int   `json:"maxBacktracks" validate:"min=0"`
	SlotGranularityMinutes int   `json:"slotGranularityMinutes" validate:"min=0"`
}

// SolveRequest is the POST /solve and POST /validate request body.
type SolveRequest struct {
	Teacher  TeacherConfigDTO   `json:"teacher" validate:"required"`
	Students []StudentConfigDTO `json:"students" validate:"required,dive"`
	Options  *SolveOptionsDTO   `json:"options,omitempty"`
}

// ValidateResponse is the POST /validate response body.
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

// LessonAssignmentDTO is a committed placement in the response.
type LessonAssignmentDTO struct {
	StudentID string `json:"studentId"`
	DayOfWeek int    `json:"dayOfWeek"`
	Start     int    `json:"start"`
	Duration  int    `json:"duration"`
}

// SolutionMetadataDTO mirrors scheduler.SolutionMetadata.
type SolutionMetadataDTO struct {
	TotalStudents       int     `json:"totalStudents"`
	ScheduledStudents   int     `json:"scheduledStudents"`
	AverageUtilization  float64 `json:"averageUtilization"`
	ComputeTimeMs       int64   `json:"computeTimeMs"`
	Quality             int     `json:"quality"`
	Backtracks          int     `json:"backtracks"`
	ConstraintChecks    int     `json:"constraintChecks"`
	PropagationRemovals int     `json:"propagationRemovals"`
	RelaxationLevel     int     `json:"relaxationLevel"`
	SolveID             string  `json:"solveId"`
}

// SolveResponse is the POST /solve response body. ValidationIssues carries
// any descriptive structural-validation strings for the request; their
// presence does not mean the solve failed — see Metadata/Assignments for
// whatever schedule was still produced.
type SolveResponse struct {
	Assignments      []LessonAssignmentDTO `json:"assignments"`
	Unscheduled      []string              `json:"unscheduled"`
	ValidationIssues []string              `json:"validationIssues,omitempty"`
	Metadata         SolutionMetadataDTO   `json:"metadata"`
}

func toWeekSchedule(dto WeekScheduleDTO) scheduler.WeekSchedule {
	week := scheduler.NewWeekSchedule(dto.Timezone)
	for _, d := range dto.Days {
		if d.DayOfWeek < 0 || d.DayOfWeek >= scheduler.DaysPerWeek {
			continue
		}
		blocks := make([]scheduler.TimeBlock, 0, len(d.Blocks))
		for _, b := range d.Blocks {
			blocks = append(blocks, scheduler.TimeBlock{Start: b.Start, Duration: b.Duration})
		}
		week.Days[d.DayOfWeek].Blocks = scheduler.MergeBlocks(blocks)
	}
	return week
}

func toTeacherConfig(dto TeacherConfigDTO) scheduler.TeacherConfig {
	return scheduler.TeacherConfig{
		Person:       scheduler.Person{ID: dto.Person.ID, DisplayName: dto.Person.DisplayName, Email: dto.Person.Email},
		StudioID:     dto.StudioID,
		Availability: toWeekSchedule(dto.Availability),
		Constraints: scheduler.SchedulingConstraints{
			MaxConsecutiveMinutes: dto.Constraints.MaxConsecutiveMinutes,
			BreakDurationMinutes:  dto.Constraints.BreakDurationMinutes,
			MinLessonDuration:     dto.Constraints.MinLessonDuration,
			MaxLessonDuration:     dto.Constraints.MaxLessonDuration,
			AllowedDurations:      dto.Constraints.AllowedDurations,
			BackToBackPreference:  scheduler.BackToBackPreference(dto.Constraints.BackToBackPreference),
		},
	}
}

func toStudentConfigs(dtos []StudentConfigDTO) []scheduler.StudentConfig {
	students := make([]scheduler.StudentConfig, 0, len(dtos))
	for _, s := range dtos {
		students = append(students, scheduler.StudentConfig{
			Person:            scheduler.Person{ID: s.Person.ID, DisplayName: s.Person.DisplayName, Email: s.Person.Email},
			PreferredDuration: s.PreferredDuration,
			MinDuration:       s.MinDuration,
			MaxDuration:       s.MaxDuration,
			MaxLessonsPerWeek: s.MaxLessonsPerWeek,
			Availability:      toWeekSchedule(s.Availability),
		})
	}
	return students
}

func toSolverOptions(studentCount int, dto *SolveOptionsDTO) scheduler.SolverOptions {
	opts := scheduler.DefaultSolverOptions(studentCount)
	if dto == nil {
		return opts
	}
	if dto.MaxTimeMs > 0 {
		opts.MaxTimeMs = dto.MaxTimeMs
	}
	if dto.MaxBacktracks > 0 {
		opts.MaxBacktracks = dto.MaxBacktracks
	}
	if dto.SlotGranularityMinutes > 0 {
		opts.SlotGranularityMinutes = dto.SlotGranularityMinutes
	}
	return opts
}

func toSolveResponse(solution scheduler.ScheduleSolution) SolveResponse {
	assignments := make([]LessonAssignmentDTO, 0, len(solution.Assignments))
	for _, a := range solution.Assignments {
		assignments = append(assignments, LessonAssignmentDTO{
			StudentID: a.StudentID, DayOfWeek: a.DayOfWeek, Start: a.Start, Duration: a.Duration,
		})
	}
	return SolveResponse{
		Assignments:      assignments,
		Unscheduled:      solution.Unscheduled,
		ValidationIssues: solution.ValidationIssues,
		Metadata: SolutionMetadataDTO{
			TotalStudents:       solution.Metadata.TotalStudents,
			ScheduledStudents:   solution.Metadata.ScheduledStudents,
			AverageUtilization:  solution.Metadata.AverageUtilization,
			ComputeTimeMs:       solution.Metadata.ComputeTimeMs,
			Quality:             solution.Metadata.Quality,
			Backtracks:          solution.Metadata.Backtracks,
			ConstraintChecks:    solution.Metadata.ConstraintChecks,
			PropagationRemovals: solution.Metadata.PropagationRemovals,
			RelaxationLevel:     solution.Metadata.RelaxationLevel,
			SolveID:             solution.Metadata.SolveID,
		},
	}
}
