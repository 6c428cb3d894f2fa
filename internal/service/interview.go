// Package service contains the business logic layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adityan-78/Careerboost-AI/internal/ai"
	"github.com/Adityan-78/Careerboost-AI/internal/domain"
	"github.com/Adityan-78/Careerboost-AI/internal/ingest"
	"github.com/Adityan-78/Careerboost-AI/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StartInterviewRequest carries the inputs for opening an interview session.
type StartInterviewRequest struct {
	Resume             ingest.Input
	JobDescription     ingest.Input
	CustomInstructions string

	// SessionID is optional; when empty the server issues one.
	SessionID string
}

// Interviewer is the interview session state machine: start, grade-and-advance,
// history, reset. All session access goes through the store, which serializes
// turns per session.
type Interviewer struct {
	aiClient  ai.Client
	prompts   *ai.Builder
	validator *ai.Validator
	ingestor  *ingest.Ingestor
	store     *session.Store
	timeout   time.Duration
	logger    *zap.Logger
}

// NewInterviewer creates an Interviewer with all dependencies.
func NewInterviewer(
	aiClient ai.Client,
	prompts *ai.Builder,
	validator *ai.Validator,
	ingestor *ingest.Ingestor,
	store *session.Store,
	timeout time.Duration,
	logger *zap.Logger,
) *Interviewer {
	return &Interviewer{
		aiClient:  aiClient,
		prompts:   prompts,
		validator: validator,
		ingestor:  ingestor,
		store:     store,
		timeout:   timeout,
		logger:    logger.Named("interviewer"),
	}
}

const welcomeMessage = "Welcome to your mock interview! Answer each question and I'll score it and give you feedback. Here is your first question."

// Start ingests the documents, generates the opening question, and registers
// the session. The session is only created after the first question succeeds,
// so a failed start leaves no state behind.
func (iv *Interviewer) Start(ctx context.Context, req StartInterviewRequest) (*domain.StartInterviewResult, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if _, err := iv.store.Snapshot(sessionID); err == nil {
		// Cheap pre-check so a duplicate id fails before the provider call.
		return nil, domain.WrapError("start_interview", domain.ErrDuplicateSession, false)
	}

	var resume, jobDescription domain.NormalizedDocument
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resume, err = iv.ingestor.Ingest(req.Resume)
		return err
	})
	g.Go(func() error {
		var err error
		jobDescription, err = iv.ingestor.Ingest(req.JobDescription)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	spec, err := iv.prompts.BuildFirstQuestionPrompt(resume, jobDescription, req.CustomInstructions)
	if err != nil {
		return nil, domain.WrapError("build_prompt", err, false)
	}

	callCtx, cancel := context.WithTimeout(ctx, iv.timeout)
	defer cancel()

	question, err := iv.generateQuestion(callCtx, spec)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &domain.InterviewSession{
		ID:                 sessionID,
		Resume:             resume,
		JobDescription:     jobDescription,
		CustomInstructions: req.CustomInstructions,
		Turns:              []domain.Turn{{Role: domain.RoleInterviewer, Content: question}},
		CurrentQuestion:    question,
		Status:             domain.SessionActive,
		CreatedAt:          now,
		LastActive:         now,
	}

	if err := iv.store.Create(sess); err != nil {
		return nil, err
	}

	iv.logger.Info("interview started", zap.String("session_id", sessionID))

	return &domain.StartInterviewResult{
		SessionID: sessionID,
		Message:   welcomeMessage,
		Question:  question,
	}, nil
}

// SubmitAnswer grades the candidate's answer and advances the interview.
// The session's per-entry lock is held for the whole turn, so concurrent
// submissions against one session are processed in strict arrival order.
// History is only mutated after the model reply validates; a failed turn
// leaves the session exactly as it was.
func (iv *Interviewer) SubmitAnswer(ctx context.Context, sessionID, answer, customInstructions string) (*domain.SubmitAnswerResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, domain.WrapError("submit_answer", domain.ErrEmptyInput, false)
	}

	sess, release, err := iv.store.Acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	if sess.Status != domain.SessionActive {
		return nil, domain.WrapError("submit_answer", domain.ErrSessionNotActive, false)
	}

	if customInstructions != "" {
		sess.CustomInstructions = customInstructions
	}

	spec, err := iv.prompts.BuildAnswerFeedbackPrompt(sess, answer)
	if err != nil {
		return nil, domain.WrapError("build_prompt", err, false)
	}

	callCtx, cancel := context.WithTimeout(ctx, iv.timeout)
	defer cancel()

	feedback, nextQuestion, err := iv.gradeAnswer(callCtx, spec)
	if err != nil {
		return nil, err
	}

	// Commit the turn
	sess.Turns = append(sess.Turns, domain.Turn{
		Role:     domain.RoleCandidate,
		Content:  answer,
		Feedback: feedback,
	})

	done := nextQuestion == ""
	if done {
		sess.Status = domain.SessionEnded
		sess.CurrentQuestion = ""
	} else {
		sess.Turns = append(sess.Turns, domain.Turn{
			Role:    domain.RoleInterviewer,
			Content: nextQuestion,
		})
		sess.CurrentQuestion = nextQuestion
	}
	sess.LastActive = time.Now()

	iv.logger.Info("interview turn completed",
		zap.String("session_id", sessionID),
		zap.Int("score", feedback.Score),
		zap.Bool("done", done),
	)

	return &domain.SubmitAnswerResult{
		Message:      formatFeedbackMessage(feedback, done),
		Feedback:     feedback,
		NextQuestion: nextQuestion,
		Done:         done,
	}, nil
}

// History returns a copy of the session's turns.
func (iv *Interviewer) History(sessionID string) ([]domain.Turn, error) {
	sess, err := iv.store.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Turns, nil
}

// Reset removes the session regardless of state. Idempotent: resetting a
// missing session succeeds.
func (iv *Interviewer) Reset(sessionID string) {
	iv.store.Remove(sessionID)
}

// ActiveSessions returns the number of live sessions.
func (iv *Interviewer) ActiveSessions() int {
	return iv.store.Len()
}

// generateQuestion invokes the gateway for an interview question, with one
// repair retry on a validation failure.
func (iv *Interviewer) generateQuestion(ctx context.Context, spec ai.PromptSpec) (string, error) {
	raw, err := iv.aiClient.Complete(ctx, spec)
	if err != nil {
		return "", err
	}

	question, parseErr := iv.validator.ParseQuestion(raw)
	if parseErr == nil {
		return question, nil
	}
	if !errors.Is(parseErr, domain.ErrInvalidModelResponse) {
		return "", parseErr
	}

	iv.logger.Warn("question response failed validation, retrying with repair instruction",
		zap.Error(parseErr),
	)

	raw, err = iv.aiClient.Complete(ctx, spec.WithRepair(parseErr.Error()))
	if err != nil {
		return "", err
	}

	question, parseErr = iv.validator.ParseQuestion(raw)
	if parseErr != nil {
		return "", domain.WrapError("question_unrecoverable", domain.ErrInvalidModelResponse, false)
	}
	return question, nil
}

// gradeAnswer invokes the gateway for turn feedback, with one repair retry
// on a validation failure. The validator already degrades tolerable gaps
// (absent strengths/improvements, float scores); only a reply that is still
// unusable after the repair attempt fails the turn.
func (iv *Interviewer) gradeAnswer(ctx context.Context, spec ai.PromptSpec) (*domain.Feedback, string, error) {
	raw, err := iv.aiClient.Complete(ctx, spec)
	if err != nil {
		return nil, "", err
	}

	feedback, nextQuestion, parseErr := iv.validator.ParseTurnFeedback(raw)
	if parseErr == nil {
		return feedback, nextQuestion, nil
	}
	if !errors.Is(parseErr, domain.ErrInvalidModelResponse) {
		return nil, "", parseErr
	}

	iv.logger.Warn("feedback response failed validation, retrying with repair instruction",
		zap.Error(parseErr),
	)

	raw, err = iv.aiClient.Complete(ctx, spec.WithRepair(parseErr.Error()))
	if err != nil {
		return nil, "", err
	}

	feedback, nextQuestion, parseErr = iv.validator.ParseTurnFeedback(raw)
	if parseErr != nil {
		return nil, "", domain.WrapError("feedback_unrecoverable", domain.ErrInvalidModelResponse, false)
	}
	return feedback, nextQuestion, nil
}

// formatFeedbackMessage renders the structured feedback as the conversational
// message shown in the chat transcript.
func formatFeedbackMessage(feedback *domain.Feedback, done bool) string {
	var b strings.Builder

	b.WriteString("Let me provide feedback on your answer.\n\n")
	fmt.Fprintf(&b, "**Score: %d/10**\n", feedback.Score)

	if len(feedback.Strengths) > 0 {
		b.WriteString("\n**Strengths:**\n")
		for _, s := range feedback.Strengths {
			fmt.Fprintf(&b, "* %s\n", s)
		}
	}

	if len(feedback.Improvements) > 0 {
		b.WriteString("\n**Areas to Improve:**\n")
		for _, i := range feedback.Improvements {
			fmt.Fprintf(&b, "* %s\n", i)
		}
	}

	fmt.Fprintf(&b, "\n**Suggested Answer:**\n%s\n", feedback.SuggestedAnswer)

	if done {
		b.WriteString("\nThat concludes our interview practice. Well done!")
	} else {
		b.WriteString("\nReady for the next question?")
	}

	return b.String()
}
