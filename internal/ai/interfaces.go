// Package ai provides the model provider gateway, prompt construction, and
// structured response validation.
package ai

import "context"

// Client defines the interface for model provider interactions.
// This interface allows for easy mocking and swapping of providers.
type Client interface {
	// Complete sends a prompt to the provider and returns the raw model
	// text. It retries transient transport failures internally but never
	// retries malformed content; judging the content is the validator's
	// job. The context carries the overall deadline and cancellation.
	Complete(ctx context.Context, spec PromptSpec) (string, error)

	// HealthCheck verifies the provider is reachable.
	HealthCheck(ctx context.Context) error
}
