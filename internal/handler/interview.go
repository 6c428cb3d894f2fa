// Package handler contains HTTP handlers for the API.
package handler

import (
	"net/http"
	"time"

	"github.com/Adityan-78/Careerboost-AI/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InterviewHandler handles mock interview session requests.
type InterviewHandler struct {
	interviewer *service.Interviewer
	logger      *zap.Logger
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviewer *service.Interviewer, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviewer: interviewer,
		logger:      logger.Named("interview_handler"),
	}
}

// Start processes POST /interview/start requests. The body is a multipart
// form: resume and job description (file or text), optional
// custom_instructions, and an optional client session_id.
func (h *InterviewHandler) Start(c *gin.Context) {
	startTime := time.Now()
	logger := h.logger.With(zap.String("request_id", c.GetString("request_id")))
	logger.Debug("received interview start request")

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

	result, err := h.interviewer.Start(c.Request.Context(), service.StartInterviewRequest{
		Resume:             resume,
		JobDescription:     jobDescription,
		CustomInstructions: c.PostForm("custom_instructions"),
		SessionID:          c.PostForm("session_id"),
	})
	if err != nil {
		logger.Error("interview start failed", zap.Error(err))
		abortWithError(c, err)
		return
	}

	logger.Info("interview started",
		zap.String("session_id", result.SessionID),
		zap.Duration("duration", time.Since(startTime)),
	)

	c.JSON(http.StatusOK, result)
}

// submitAnswerRequest is the JSON body of an interview chat turn.
type submitAnswerRequest struct {
	SessionID          string `json:"session_id" binding:"required"`
	Answer             string `json:"answer" binding:"required"`
	CustomInstructions string `json:"custom_instructions"`
}

// Chat processes POST /interview/chat requests: one graded turn.
func (h *InterviewHandler) Chat(c *gin.Context) {
	startTime := time.Now()
	logger := h.logger.With(zap.String("request_id", c.GetString("request_id")))

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.interviewer.SubmitAnswer(c.Request.Context(), req.SessionID, req.Answer, req.CustomInstructions)
	if err != nil {
		logger.Error("interview turn failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		abortWithError(c, err)
		return
	}

	logger.Info("interview turn completed",
		zap.String("session_id", req.SessionID),
		zap.Bool("done", result.Done),
		zap.Duration("duration", time.Since(startTime)),
	)

	c.JSON(http.StatusOK, result)
}

// History processes GET /interview/history/:session_id requests.
func (h *InterviewHandler) History(c *gin.Context) {
	sessionID := c.Param("session_id")

	turns, err := h.interviewer.History(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"history":    turns,
	})
}

// Reset processes DELETE /interview/session/:session_id requests.
// Resetting a missing session succeeds.
func (h *InterviewHandler) Reset(c *gin.Context) {
	sessionID := c.Param("session_id")
	h.interviewer.Reset(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Session cleared successfully",
	})
}
