// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Adityan-78/Careerboost-AI/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig

	// AI provider configuration
	AI AIConfig

	// Document ingestion configuration
	Ingest IngestConfig

	// Interview session configuration
	Session SessionConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP port to listen on.
	Port string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
}

// AIProvider represents the model provider to use.
type AIProvider string

const (
	// AIProviderOpenRouter uses the OpenRouter chat-completions API.
	AIProviderOpenRouter AIProvider = "openrouter"

	// AIProviderGemini uses the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// AIConfig contains model provider settings.
type AIConfig struct {
	// Provider specifies which provider to use (openrouter, gemini).
	Provider AIProvider

	// APIKey is the authentication key for the provider.
	APIKey string

	// BaseURL is the base URL for the provider API.
	BaseURL string

	// Model is the model identifier to use.
	Model string

	// AnalysisTimeout caps one full resume analysis call.
	AnalysisTimeout time.Duration

	// InterviewTimeout caps one interview turn call.
	InterviewTimeout time.Duration

	// MaxRetries is the number of retries on transient failures.
	MaxRetries int

	// MockMode enables canned responses for running without API access.
	MockMode bool
}

// IngestConfig contains document ingestion settings.
type IngestConfig struct {
	// MaxTextSize is the maximum document size in characters.
	MaxTextSize int
}

// SessionConfig contains interview session lifecycle settings.
type SessionConfig struct {
	// TTL is how long an idle session survives before eviction.
	TTL time.Duration

	// SweepInterval is how often the eviction sweep runs.
	SweepInterval time.Duration

	// HistoryWindow is the number of recent turns embedded into the
	// feedback prompt.
	HistoryWindow int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	provider := AIProvider(getEnvOrDefault("AI_PROVIDER", "openrouter"))

	// Provider-specific defaults
	var defaultBaseURL, defaultModel string
	switch provider {
	case AIProviderGemini:
		defaultBaseURL = "https://generativelanguage.googleapis.com"
		defaultModel = "gemini-2.0-flash"
	default:
		provider = AIProviderOpenRouter
		defaultBaseURL = "https://openrouter.ai/api/v1"
		defaultModel = "meta-llama/llama-3.3-70b-instruct:free"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 150*time.Second),
		},
		AI: AIConfig{
			Provider:         provider,
			APIKey:           os.Getenv("AI_API_KEY"),
			BaseURL:          getEnvOrDefault("AI_BASE_URL", defaultBaseURL),
			Model:            getEnvOrDefault("AI_MODEL", defaultModel),
			AnalysisTimeout:  getDurationOrDefault("AI_ANALYSIS_TIMEOUT", 120*time.Second),
			InterviewTimeout: getDurationOrDefault("AI_INTERVIEW_TIMEOUT", 60*time.Second),
			MaxRetries:       getIntOrDefault("AI_MAX_RETRIES", 3),
			MockMode:         getBoolOrDefault("AI_MOCK_MODE", false),
		},
		Ingest: IngestConfig{
			MaxTextSize: getIntOrDefault("MAX_TEXT_SIZE", 50000),
		},
		Session: SessionConfig{
			TTL:           getDurationOrDefault("SESSION_TTL", 30*time.Minute),
			SweepInterval: getDurationOrDefault("SESSION_SWEEP_INTERVAL", 5*time.Minute),
			HistoryWindow: getIntOrDefault("SESSION_HISTORY_WINDOW", 6),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	// API key is required unless in mock mode
	if !c.AI.MockMode && c.AI.APIKey == "" {
		return fmt.Errorf("%w: AI_API_KEY is required when not in mock mode", domain.ErrInvalidConfig)
	}

	if c.AI.AnalysisTimeout < time.Second || c.AI.InterviewTimeout < time.Second {
		return fmt.Errorf("%w: AI timeouts must be at least 1 second", domain.ErrInvalidConfig)
	}

	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("%w: AI_MAX_RETRIES must not be negative", domain.ErrInvalidConfig)
	}

	if c.Ingest.MaxTextSize < 1000 {
		return fmt.Errorf("%w: MAX_TEXT_SIZE must be at least 1000 characters", domain.ErrInvalidConfig)
	}

	if c.Session.TTL < time.Minute {
		return fmt.Errorf("%w: SESSION_TTL must be at least 1 minute", domain.ErrInvalidConfig)
	}

	if c.Session.SweepInterval < time.Second {
		return fmt.Errorf("%w: SESSION_SWEEP_INTERVAL must be at least 1 second", domain.ErrInvalidConfig)
	}

	if c.Session.HistoryWindow < 1 {
		return fmt.Errorf("%w: SESSION_HISTORY_WINDOW must be at least 1", domain.ErrInvalidConfig)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		// Try parsing as seconds first (e.g., "15")
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
		// Try parsing as duration string (e.g., "15s", "1m")
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
