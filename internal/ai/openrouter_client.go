// Package ai provides the model provider gateway, prompt construction, and
// structured response validation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Adityan-78/Careerboost-AI/internal/config"
	"github.com/Adityan-78/Careerboost-AI/internal/domain"
	"go.uber.org/zap"
)

// OpenRouterClient implements the Client interface using the OpenRouter
// chat-completions API (OpenAI compatible).
type OpenRouterClient struct {
	config     *config.AIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// OpenRouter API request/response structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenRouterClient creates a new OpenRouter gateway client.
// Per-call deadlines come from the caller's context, not a fixed client
// timeout, since analysis and interview turns carry different budgets.
func NewOpenRouterClient(cfg *config.AIConfig, logger *zap.Logger) *OpenRouterClient {
	return &OpenRouterClient{
		config:     cfg,
		httpClient: &http.Client{},
		logger:     logger.Named("openrouter_client"),
	}
}

// Complete sends the prompt to OpenRouter and returns the raw model text.
// Transient failures (timeout, 5xx, rate limit) are retried with exponential
// backoff up to the configured ceiling.
func (c *OpenRouterClient) Complete(ctx context.Context, spec PromptSpec) (string, error) {
	startTime := time.Now()
	c.logger.Debug("starting provider call",
		zap.String("kind", string(spec.Kind)),
		zap.Int("prompt_length", len(spec.User)),
	)

	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: spec.System},
			{Role: "user", Content: spec.User},
		},
		MaxTokens:   spec.MaxTokens,
		Temperature: spec.Temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.WrapError("marshal_request", err, false)
	}

	// Execute request with retry logic
	var content string
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := time.Duration(attempt*attempt) * time.Second
			c.logger.Debug("retrying provider request",
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

		// Check if error is retryable
		if !domain.IsRetryable(lastErr) {
			break
		}
	}

	if lastErr != nil {
		if domain.IsRetryable(lastErr) {
			// Retries exhausted on a transient failure
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

// executeRequest performs a single HTTP request to OpenRouter.
func (c *OpenRouterClient) executeRequest(ctx context.Context, jsonBody []byte) (string, error) {
	url := fmt.Sprintf("%s/chat/completions", c.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", domain.WrapError("create_request", err, false)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	req.Header.Set("HTTP-Referer", "https://careerboost-ai.com")

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

	// Handle HTTP errors
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", domain.WrapError("rate_limit", domain.ErrRateLimited, true)
		}
		if resp.StatusCode >= 500 {
			return "", domain.WrapError("provider_unavailable", domain.ErrProviderUnavailable, true)
		}
		return "", domain.WrapError("provider_error",
			fmt.Errorf("provider returned status %d: %s", resp.StatusCode, preview(string(body), 200)), false)
	}

	// Parse the response envelope
	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", domain.WrapError("parse_response", err, false)
	}

	if chatResp.Error != nil {
		return "", domain.WrapError("provider_api_error",
			fmt.Errorf("%s: %s", chatResp.Error.Type, chatResp.Error.Message), false)
	}

	if len(chatResp.Choices) == 0 {
		return "", domain.WrapError("empty_response", domain.ErrInvalidModelResponse, false)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// HealthCheck verifies the provider is reachable.
func (c *OpenRouterClient) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/models", c.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

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

// classifyContextErr distinguishes the caller's deadline expiring from the
// caller walking away.
func classifyContextErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.WrapError("provider_timeout", domain.ErrProviderTimeout, false)
	}
	return domain.WrapError("context_cancelled", ctx.Err(), false)
}

func preview(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
