package persistence

import (
	"context"
	"fmt"

	"github.com/noah-isme/lesson-solver/internal/scheduler"
	"github.com/noah-isme/lesson-solver/pkg/jobs"
)

// SolutionPersistJob is the payload enqueued to save a solve's result
// without making the caller wait on a database round trip.
type SolutionPersistJob struct {
	TeacherID string
	Solution  scheduler.ScheduleSolution
}

// NewPersistJobHandler adapts Repository.Save into a pkg/jobs.Handler. A
// transient database failure gets pkg/jobs' retry/backoff for free, which a
// direct synchronous Save call in the request path would not have.
func NewPersistJobHandler(repo *Repository) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(SolutionPersistJob)
		if !ok {
			return fmt.Errorf("persistence: unexpected job payload type %T", job.Payload)
		}
		return repo.Save(ctx, payload.TeacherID, payload.Solution)
	}
}
