package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/dashboard"
	"classaction-admin/internal/search"
)

// SubmissionSearcher is the full-text search backend.
type SubmissionSearcher interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	Service *dashboard.Service
	// Search may be nil, in which case /api/search answers SEARCH_DISABLED.
	Search       SubmissionSearcher
	Logger       logger.Logger
	AllowOrigins []string
	Checks       map[string]ReadinessCheck
}

type Handler struct {
	service *dashboard.Service
	search  SubmissionSearcher
	checks  map[string]ReadinessCheck
	logger  logger.Logger
}

// NewRouter wires the dashboard API plus the health, readiness and metrics
// endpoints onto a fresh gin engine.
func NewRouter(opts Options) *gin.Engine {
	h := &Handler{
		service: opts.Service,
		search:  opts.Search,
		checks:  opts.Checks,
		logger:  opts.Logger.WithFields(map[string]interface{}{"component": "api"}),
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(h.logger), CORSMiddleware(opts.AllowOrigins))

	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a := r.Group("/api", NoStore())
	{
		a.GET("/members", h.ListMembers)
		a.GET("/members/detail", h.MemberDetail)
		a.GET("/members/export", h.ExportMembers)

		a.GET("/submissions", h.ListSubmissions)
		a.GET("/submissions/export", h.ExportSubmissions)
		a.GET("/submissions/:id", h.SubmissionDetail)
		a.PUT("/submissions/:id", h.EditSubmission)

		a.GET("/stats/daily", h.DailyCounts)
		a.GET("/stats/summary", h.Summary)

		a.POST("/cache/refresh", h.RefreshCache)

		a.GET("/search", h.Search)
	}

	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Ready runs every readiness check and answers 503 if any fails.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	failures := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not ready",
			"failures": failures,
			"time":     time.Now().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}
