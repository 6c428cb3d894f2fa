// Package ai provides the model provider gateway, prompt construction, and
// structured response validation.
package ai

import (
	"context"

	"go.uber.org/zap"
)

// MockClient implements the Client interface for running without API access.
type MockClient struct {
	logger *zap.Logger
}

// NewMockClient creates a mock gateway client.
func NewMockClient(logger *zap.Logger) *MockClient {
	return &MockClient{
		logger: logger.Named("mock_ai_client"),
	}
}

const mockAnalysisJSON = `{
  "skill_match_percentage": 72.5,
  "matched_skills": ["Python", "FastAPI", "PostgreSQL"],
  "missing_skills": ["AWS", "Kubernetes"],
  "optimized_resume_bullets": [
    "Built REST APIs with Python and FastAPI serving thousands of daily requests",
    "Designed PostgreSQL schemas and tuned queries, cutting response times by 40%"
  ],
  "cover_letter": "Dear Hiring Manager,\n\nThis is a mock cover letter. Set AI_MOCK_MODE=false and configure AI_API_KEY to enable real analysis.\n\nSincerely,\nThe Candidate",
  "interview_prep": [
    {
      "question": "Can you walk through a REST API you designed with FastAPI?",
      "category": "Technical",
      "suggested_answer_approach": "Use the STAR method: situation, task, action, result."
    }
  ]
}`

const mockQuestionJSON = `{"question": "Tell me about a challenging project from your resume and how you approached it."}`

const mockFeedbackJSON = `{
  "score": 7,
  "strengths": ["Clear structure", "Concrete example"],
  "improvements": ["Quantify the impact", "Tie the outcome back to the role"],
  "suggested_answer": "A stronger answer would open with the business problem, then walk through your specific contribution and the measurable result.",
  "next_question": "How do you approach debugging a production incident under time pressure?"
}`

// Complete returns a canned response matching the requested shape.
func (c *MockClient) Complete(ctx context.Context, spec PromptSpec) (string, error) {
	c.logger.Debug("mock provider call", zap.String("kind", string(spec.Kind)))

	switch spec.Kind {
	case KindQuestion:
		return mockQuestionJSON, nil
	case KindTurnFeedback:
		return mockFeedbackJSON, nil
	default:
		return mockAnalysisJSON, nil
	}
}

// HealthCheck always succeeds for the mock client.
func (c *MockClient) HealthCheck(ctx context.Context) error {
	return nil
}
