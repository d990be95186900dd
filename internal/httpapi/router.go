package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-solver/internal/scheduler"
	"github.com/noah-isme/lesson-solver/pkg/config"
	"github.com/noah-isme/lesson-solver/pkg/logger"
	"github.com/noah-isme/lesson-solver/pkg/middleware/cors"
	"github.com/noah-isme/lesson-solver/pkg/middleware/requestid"
)

// NewRouter wires the solve/validate/health/metrics surface over a Handler.
// Pass nil to have it build a default Handler from log/metrics; pass an
// already-configured Handler (e.g. with EnableAsyncPersistence called) to
// reuse it.
func NewRouter(cfg *config.Config, log *zap.Logger, metrics scheduler.MetricsRecorder, h *Handler) *gin.Engine {
	if cfg.Env != config.EnvProduction {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(cors.New(cfg.CORS.AllowedOrigins))
	r.Use(logger.GinMiddleware(log))

	if h == nil {
		h = NewHandler(log, metrics)
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.APIPrefix)
	api.POST("/solve", h.Solve)
	api.POST("/validate", h.Validate)

	return r
}
