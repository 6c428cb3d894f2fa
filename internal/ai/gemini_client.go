// Package ai provides the model provider gateway, prompt construction, and
// structured response validation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Adityan-78/Careerboost-AI/internal/config"
	"github.com/Adityan-78/Careerboost-AI/internal/domain"
	"go.uber.org/zap"
)

// GeminiClient implements the Client interface using Google's Gemini API.
type GeminiClient struct {
	config     *config.AIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// Gemini API request/response structures

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
	Error          *geminiError          `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGeminiClient creates a new Gemini gateway client.
func NewGeminiClient(cfg *config.AIConfig, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		config:     cfg,
		httpClient: &http.Client{},
		logger:     logger.Named("gemini_client"),
	}
}

// Complete sends the prompt to Gemini and returns the raw model text.
// System and user prompts are combined into a single user message for
// compatibility across model versions.
func (c *GeminiClient) Complete(ctx context.Context, spec PromptSpec) (string, error) {
	startTime := time.Now()
	c.logger.Debug("starting provider call",
		zap.String("kind", string(spec.Kind)),
		zap.Int("prompt_length", len(spec.User)),
	)

	combinedPrompt := fmt.Sprintf("%s\n\n---\n\n%s", spec.System, spec.User)

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: combinedPrompt}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     spec.Temperature,
			MaxOutputTokens: spec.MaxTokens,
			TopP:            0.95,
			TopK:            40,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.WrapError("marshal_request", err, false)
	}

	var content string
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * time.Second
			c.logger.Debug("retrying Gemini request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", classifyContextErr(ctx)
			case <-time.After(backoff):
			}
		}

		content, lastErr = c.executeRequest(ctx, jsonBody)
		if lastErr == nil {
			break
		}

		if !domain.IsRetryable(lastErr) {
			break
		}
	}

	if lastErr != nil {
		if domain.IsRetryable(lastErr) {
			return "", domain.WrapError("retries_exhausted",
				fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, lastErr), false)
		}
		return "", lastErr
	}

	c.logger.Debug("provider call completed",
		zap.String("kind", string(spec.Kind)),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("response_length", len(content)),
	)

	return content, nil
}

// executeRequest performs a single HTTP request to Gemini.
func (c *GeminiClient) executeRequest(ctx context.Context, jsonBody []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(), bytes.NewReader(jsonBody))
	if err != nil {
		return "", domain.WrapError("create_request", err, false)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", classifyContextErr(ctx)
		}
		return "", domain.WrapError("http_request", err, true)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.WrapError("read_response", err, true)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", domain.WrapError("rate_limit", domain.ErrRateLimited, true)
		}
		if resp.StatusCode >= 500 {
			return "", domain.WrapError("provider_unavailable", domain.ErrProviderUnavailable, true)
		}
		return "", domain.WrapError("provider_error",
			fmt.Errorf("Gemini returned status %d: %s", resp.StatusCode, preview(string(body), 200)), false)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", domain.WrapError("parse_response", err, false)
	}

	if geminiResp.Error != nil {
		return "", domain.WrapError("provider_api_error",
			fmt.Errorf("%s: %s", geminiResp.Error.Status, geminiResp.Error.Message), false)
	}

	if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
		return "", domain.WrapError("prompt_blocked",
			fmt.Errorf("prompt blocked: %s", geminiResp.PromptFeedback.BlockReason), false)
	}

	if len(geminiResp.Candidates) == 0 {
		return "", domain.WrapError("empty_response", domain.ErrInvalidModelResponse, false)
	}

	candidate := geminiResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return "", domain.WrapError("safety_blocked",
			fmt.Errorf("response blocked by safety filter"), false)
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	if len(parts) == 0 {
		return "", domain.WrapError("empty_response", domain.ErrInvalidModelResponse, false)
	}

	return strings.Join(parts, ""), nil
}

// HealthCheck verifies the Gemini API is reachable.
func (c *GeminiClient) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1beta/models?key=%s", c.config.BaseURL, c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError("health_check", domain.ErrProviderUnavailable, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.WrapError("health_check", domain.ErrProviderUnavailable, true)
	}

	return nil
}

func (c *GeminiClient) buildURL() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.config.BaseURL, c.config.Model, c.config.APIKey)
}
