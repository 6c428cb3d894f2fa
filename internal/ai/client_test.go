package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Adityan-78/Careerboost-AI/internal/config"
	"github.com/Adityan-78/Careerboost-AI/internal/domain"
)

func newTestOpenRouterClient(baseURL string, maxRetries int) *OpenRouterClient {
	cfg := &config.AIConfig{
		Provider:   config.AIProviderOpenRouter,
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "test-model",
		MaxRetries: maxRetries,
	}
	return NewOpenRouterClient(cfg, zap.NewNop())
}

func chatReply(content string) string {
	resp := map[string]any{
		"id": "gen-1",
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}, "finish_reason": "stop"},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestOpenRouterClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("HTTP-Referer") == "" {
			t.Error("missing HTTP-Referer header")
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}

		w.Write([]byte(chatReply(`{"question": "Why Go?"}`)))
	}))
	defer server.Close()

	client := newTestOpenRouterClient(server.URL, 0)
	content, err := client.Complete(context.Background(), PromptSpec{
		Kind:   KindQuestion,
		System: "system prompt",
		User:   "user prompt",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if content != `{"question": "Why Go?"}` {
		t.Errorf("content = %q", content)
	}
}

func TestOpenRouterClient_Complete_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(chatReply("recovered")))
	}))
	defer server.Close()

	client := newTestOpenRouterClient(server.URL, 2)
	content, err := client.Complete(context.Background(), PromptSpec{Kind: KindQuestion, User: "u"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if content != "recovered" {
		t.Errorf("content = %q", content)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("request count = %d, want 2", got)
	}
}

func TestOpenRouterClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    "slow down",
			wantErr: domain.ErrRateLimited,
		},
		{
			name:    "server error exhausts retries",
			status:  http.StatusInternalServerError,
			body:    "boom",
			wantErr: domain.ErrProviderUnavailable,
		},
		{
			name:    "empty choices",
			status:  http.StatusOK,
			body:    `{"id": "gen-1", "choices": []}`,
			wantErr: domain.ErrInvalidModelResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestOpenRouterClient(server.URL, 0)
			_, err := client.Complete(context.Background(), PromptSpec{Kind: KindQuestion, User: "u"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Complete() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenRouterClient_Complete_NonRetryableStopsEarly(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad request"}}`))
	}))
	defer server.Close()

	client := newTestOpenRouterClient(server.URL, 3)
	_, err := client.Complete(context.Background(), PromptSpec{Kind: KindQuestion, User: "u"})
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.IsRetryable(err) {
		t.Error("4xx error should not be retryable")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("request count = %d, want 1", got)
	}
}

func TestOpenRouterClient_Complete_DeadlineExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(chatReply("too late")))
	}))
	defer server.Close()

	client := newTestOpenRouterClient(server.URL, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, PromptSpec{Kind: KindQuestion, User: "u"})
	if !errors.Is(err, domain.ErrProviderTimeout) {
		t.Errorf("Complete() error = %v, want ErrProviderTimeout", err)
	}
}

func TestOpenRouterClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := newTestOpenRouterClient(server.URL, 0)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	client = newTestOpenRouterClient("http://127.0.0.1:1", 0)
	if err := client.HealthCheck(context.Background()); !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("HealthCheck() error = %v, want ErrProviderUnavailable", err)
	}
}
