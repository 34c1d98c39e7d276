package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mikeboe/pharma-news/pkg/database"
	"github.com/mikeboe/pharma-news/pkg/research"
)

type Handler struct {
	Service        *Service
	RequestTimeout time.Duration

	mcp http.Handler
}

func NewHandler(s *Service, requestTimeout time.Duration) *Handler {
	return &Handler{
		Service:        s,
		RequestTimeout: requestTimeout,
		mcp:            NewMCPHandler(NewMCPServer(s.Analyzer, requestTimeout)),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.POST("/analyze", h.analyze)
	r.Any("/mcp", gin.WrapH(h.mcp))

	api := r.Group("/api")
	{
		api.POST("/analyze", h.analyze)
		api.POST("/digest", h.digest)

		api.POST("/jobs", h.createJob)
		api.GET("/jobs", h.listJobs)
		api.GET("/jobs/:id", h.getJob)
		api.GET("/jobs/:id/logs", h.getJobLogs)
	}
}

type AnalyzeRequest struct {
	Drugs          []string `json:"drugs"`
	IncludeSources bool     `json:"include_sources"`
}

type DigestRequest struct {
	Topic string `json:"topic"`
	Limit int    `json:"limit"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// validateDrugs rejects an empty list and blank names before any work starts.
func validateDrugs(drugs []string) error {
	if len(drugs) == 0 {
		return research.ErrNoCompounds
	}
	for i, d := range drugs {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("drug %d: %w", i+1, research.ErrEmptyCompound)
		}
	}
	return nil
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.RequestTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.RequestTimeout)
	}
	return context.WithCancel(c.Request.Context())
}

// pipelineStatus maps a pipeline error to an HTTP status code.
func pipelineStatus(err error) int {
	switch {
	case errors.Is(err, research.ErrNoCompounds),
		errors.Is(err, research.ErrEmptyCompound),
		errors.Is(err, research.ErrEmptyTopic):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateDrugs(req.Drugs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	reports, err := h.Service.Analyzer.Run(ctx, research.RunOptions{
		Compounds:      req.Drugs,
		IncludeSources: req.IncludeSources,
	})
	if err != nil {
		c.JSON(pipelineStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

func (h *Handler) digest(c *gin.Context) {
	var req DigestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	items, err := h.Service.Analyzer.Digest(ctx, req.Topic, req.Limit)
	if err != nil {
		c.JSON(pipelineStatus(err), gin.H{"error": err.Error()})
		return
	}
	if items == nil {
		items = []research.DigestItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) createJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateDrugs(req.Drugs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.Service.CreateJob(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, job)
}

func (h *Handler) listJobs(c *gin.Context) {
	jobs, err := h.Service.ListJobs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Return empty list instead of null
	if jobs == nil {
		jobs = []database.Job{}
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) getJob(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid"})
		return
	}

	job, err := h.Service.GetJob(c.Request.Context(), id)
	if errors.Is(err, database.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) getJobLogs(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid"})
		return
	}

	if _, err := h.Service.GetJob(c.Request.Context(), id); errors.Is(err, database.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	logs, err := h.Service.GetJobLogs(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if logs == nil {
		logs = []database.LogEntry{}
	}
	c.JSON(http.StatusOK, logs)
}
