// Package handler contains HTTP handlers for the API.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Adityan-78/Careerboost-AI/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzeHandler handles resume analysis requests.
type AnalyzeHandler struct {
	analyzer *service.Analyzer
	logger   *zap.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(analyzer *service.Analyzer, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		logger:   logger.Named("analyze_handler"),
	}
}

// Handle processes POST /analyze requests. The body is a multipart form:
// resume_file or resume_text, job_description_file or job_description_text,
// and an optional rewrite_all_bullets flag.
func (h *AnalyzeHandler) Handle(c *gin.Context) {
	startTime := time.Now()
	logger := h.logger.With(zap.String("request_id", c.GetString("request_id")))
	logger.Debug("received analysis request")

	resume, err := documentInput(c, "resume_file", "resume_text")
	if err != nil {
		logger.Warn("invalid resume upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid resume upload: " + err.Error()})
		return
	}

	jobDescription, err := documentInput(c, "job_description_file", "job_description_text")
	if err != nil {
		logger.Warn("invalid job description upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid job description upload: " + err.Error()})
		return
	}

	rewriteAll, _ := strconv.ParseBool(c.PostForm("rewrite_all_bullets"))

	report, err := h.analyzer.Analyze(c.Request.Context(), service.AnalyzeRequest{
		Resume:            resume,
		JobDescription:    jobDescription,
		RewriteAllBullets: rewriteAll,
	})
	if err != nil {
		logger.Error("analysis failed", zap.Error(err))
		abortWithError(c, err)
		return
	}

	logger.Info("analysis completed",
		zap.Duration("duration", time.Since(startTime)),
	)

	c.JSON(http.StatusOK, report)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	apiKeyConfigured bool
	maxTextSize      int
	interviewer      *service.Interviewer
	logger           *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(apiKeyConfigured bool, maxTextSize int, interviewer *service.Interviewer, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		apiKeyConfigured: apiKeyConfigured,
		maxTextSize:      maxTextSize,
		interviewer:      interviewer,
		logger:           logger.Named("health_handler"),
	}
}

// Handle processes GET /health requests.
func (h *HealthHandler) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"service":            "CareerBoost AI",
		"api_key_configured": h.apiKeyConfigured,
		"max_text_size":      h.maxTextSize,
		"active_sessions":    h.interviewer.ActiveSessions(),
		"time":               time.Now().UTC().Format(time.RFC3339),
	})
}
