// CareerBoost AI - Server Entry Point
//
// This is the main entry point for the resume analysis and mock interview
// service. It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adityan-78/Careerboost-AI/internal/ai"
	"github.com/Adityan-78/Careerboost-AI/internal/config"
	"github.com/Adityan-78/Careerboost-AI/internal/handler"
	"github.com/Adityan-78/Careerboost-AI/internal/ingest"
	"github.com/Adityan-78/Careerboost-AI/internal/logger"
	"github.com/Adityan-78/Careerboost-AI/internal/service"
	"github.com/Adityan-78/Careerboost-AI/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	// Determine if we're in development mode
	isDev := os.Getenv("GIN_MODE") != "release"

	// Initialize logger
	zapLogger, err := logger.New(isDev)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting CareerBoost AI",
		zap.Bool("development", isDev),
	)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	zapLogger.Info("configuration loaded",
		zap.String("port", cfg.Server.Port),
		zap.String("ai_provider", string(cfg.AI.Provider)),
		zap.String("ai_model", cfg.AI.Model),
		zap.Bool("mock_mode", cfg.AI.MockMode),
		zap.Int("max_text_size", cfg.Ingest.MaxTextSize),
		zap.Duration("session_ttl", cfg.Session.TTL),
	)

	// Initialize the provider gateway
	var aiClient ai.Client
	switch {
	case cfg.AI.MockMode:
		zapLogger.Warn("running in mock mode - AI responses are simulated")
		aiClient = ai.NewMockClient(zapLogger)
	case cfg.AI.Provider == config.AIProviderGemini:
		aiClient = ai.NewGeminiClient(&cfg.AI, zapLogger)
	default:
		aiClient = ai.NewOpenRouterClient(&cfg.AI, zapLogger)
	}

	// Initialize prompt builder and validator
	prompts, err := ai.NewBuilder(cfg.Session.HistoryWindow)
	if err != nil {
		zapLogger.Fatal("failed to create prompt builder", zap.Error(err))
	}
	validator := ai.NewValidator()

	// Initialize document ingestor
	ingestor := ingest.New(cfg.Ingest.MaxTextSize, zapLogger)

	// Initialize session store and eviction sweeper
	store := session.NewStore(cfg.Session.TTL, zapLogger)
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	store.StartSweeper(sweeperCtx, cfg.Session.SweepInterval)

	// Initialize orchestrators
	analyzerSvc := service.NewAnalyzer(aiClient, prompts, validator, ingestor, cfg.AI.AnalysisTimeout, zapLogger)
	interviewerSvc := service.NewInterviewer(aiClient, prompts, validator, ingestor, store, cfg.AI.InterviewTimeout, zapLogger)

	// Initialize handlers
	analyzeHandler := handler.NewAnalyzeHandler(analyzerSvc, zapLogger)
	interviewHandler := handler.NewInterviewHandler(interviewerSvc, zapLogger)
	healthHandler := handler.NewHealthHandler(cfg.AI.APIKey != "", cfg.Ingest.MaxTextSize, interviewerSvc, zapLogger)

	// Setup Gin router
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Apply middleware
	router.Use(handler.RecoveryMiddleware(zapLogger))
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.LoggingMiddleware(zapLogger))
	router.Use(handler.CORSMiddleware())

	// Register routes
	router.GET("/", healthHandler.Handle)
	router.GET("/health", healthHandler.Handle)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", analyzeHandler.Handle)
		v1.POST("/interview/start", interviewHandler.Start)
		v1.POST("/interview/chat", interviewHandler.Chat)
		v1.GET("/interview/history/:session_id", interviewHandler.History)
		v1.DELETE("/interview/session/:session_id", interviewHandler.Reset)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		zapLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server...")
	stopSweeper()

	// Give the server 10 seconds to finish processing
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server stopped")
}
