package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-solver/internal/persistence"
	"github.com/noah-isme/lesson-solver/internal/scheduler"
	appErrors "github.com/noah-isme/lesson-solver/pkg/errors"
	"github.com/noah-isme/lesson-solver/pkg/jobs"
	"github.com/noah-isme/lesson-solver/pkg/response"
)

// Handler exposes the scheduling core over HTTP.
type Handler struct {
	validate     *validator.Validate
	logger       *zap.Logger
	metrics      scheduler.MetricsRecorder
	persistQueue *jobs.Queue
}

// NewHandler builds a Handler. A nil metrics recorder falls back to a
// no-op one.
func NewHandler(logger *zap.Logger, metrics scheduler.MetricsRecorder) *Handler {
	if metrics == nil {
		metrics = scheduler.NopMetricsRecorder{}
	}
	return &Handler{validate: validator.New(), logger: logger, metrics: metrics}
}

// EnableAsyncPersistence wires a started jobs.Queue that Solve enqueues
// solutions onto after a successful solve, instead of saving synchronously
// on the request path. Call after the queue's Start.
func (h *Handler) EnableAsyncPersistence(queue *jobs.Queue) {
	h.persistQueue = queue
}

func (h *Handler) bindSolveRequest(c *gin.Context) (SolveRequest, bool) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request body"))
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "request validation failed"))
		return req, false
	}
	return req, true
}

// Solve handles POST /solve.
func (h *Handler) Solve(c *gin.Context) {
	req, ok := h.bindSolveRequest(c)
	if !ok {
		return
	}

	teacher := toTeacherConfig(req.Teacher)
	students := toStudentConfigs(req.Students)
	opts := toSolverOptions(len(students), req.Options)
	opts.Logger = h.logger
	opts.LogLevel = scheduler.LogBasic

	solution, err := scheduler.SolveWithOptions(teacher, students, opts)
	if err != nil {
		h.logger.Error("solve failed", zap.Error(err), zap.String("teacher_id", teacher.Person.ID))
		response.Error(c, appErrors.FromError(err))
		return
	}

	scheduler.RecordSolution(h.metrics, solution)
	h.enqueuePersist(teacher.Person.ID, solution)
	response.JSON(c, http.StatusOK, toSolveResponse(solution))
}

func (h *Handler) enqueuePersist(teacherID string, solution scheduler.ScheduleSolution) {
	if h.persistQueue == nil {
		return
	}
	job := jobs.Job{
		ID:   solution.Metadata.SolveID,
		Type: "persist_solution",
		Payload: persistence.SolutionPersistJob{
			TeacherID: teacherID,
			Solution:  solution,
		},
	}
	if err := h.persistQueue.Enqueue(job); err != nil {
		h.logger.Warn("failed to enqueue solution for persistence", zap.Error(err), zap.String("teacher_id", teacherID))
	}
}

// Validate handles POST /validate: structural validation only, without
// running the search.
func (h *Handler) Validate(c *gin.Context) {
	req, ok := h.bindSolveRequest(c)
	if !ok {
		return
	}

	teacher := toTeacherConfig(req.Teacher)
	students := toStudentConfigs(req.Students)
	issues := scheduler.ValidateInputs(teacher, students)

	response.JSON(c, http.StatusOK, ValidateResponse{Valid: len(issues) == 0, Issues: issues})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
