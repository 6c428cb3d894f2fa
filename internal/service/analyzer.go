// Package service contains the business logic layer.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/Adityan-78/Careerboost-AI/internal/ai"
	"github.com/Adityan-78/Careerboost-AI/internal/domain"
	"github.com/Adityan-78/Careerboost-AI/internal/ingest"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AnalyzeRequest carries the inputs for one resume analysis.
type AnalyzeRequest struct {
	Resume            ingest.Input
	JobDescription    ingest.Input
	RewriteAllBullets bool
}

// Analyzer orchestrates the one-shot resume analysis pipeline:
// ingest both documents, build the prompt, invoke the gateway, validate,
// and assemble the final report. Stateless across calls.
type Analyzer struct {
	aiClient  ai.Client
	prompts   *ai.Builder
	validator *ai.Validator
	ingestor  *ingest.Ingestor
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAnalyzer creates an Analyzer with all dependencies.
func NewAnalyzer(
	aiClient ai.Client,
	prompts *ai.Builder,
	validator *ai.Validator,
	ingestor *ingest.Ingestor,
	timeout time.Duration,
	logger *zap.Logger,
) *Analyzer {
	return &Analyzer{
		aiClient:  aiClient,
		prompts:   prompts,
		validator: validator,
		ingestor:  ingestor,
		timeout:   timeout,
		logger:    logger.Named("analyzer"),
	}
}

// Analyze runs the full analysis pipeline. Input errors surface before any
// provider call is made. On a validation failure the model is re-invoked
// once with a corrective instruction; if that also fails the whole request
// fails; a partial report is never returned.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*domain.AnalysisReport, error) {
	startTime := time.Now()

	var resume, jobDescription domain.NormalizedDocument
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resume, err = a.ingestor.Ingest(req.Resume)
		return err
	})
	g.Go(func() error {
		var err error
		jobDescription, err = a.ingestor.Ingest(req.JobDescription)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debug("documents ingested",
		zap.Int("resume_length", len(resume.Text)),
		zap.Int("job_description_length", len(jobDescription.Text)),
	)

	spec, err := a.prompts.BuildAnalysisPrompt(resume, jobDescription, req.RewriteAllBullets)
	if err != nil {
		return nil, domain.WrapError("build_prompt", err, false)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	report, err := a.invokeAndValidate(callCtx, spec)
	if err != nil {
		a.logger.Error("analysis failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)),
		)
		return nil, err
	}

	a.logger.Info("analysis completed",
		zap.Float64("skill_match_percentage", report.SkillMatchPercentage),
		zap.Int("matched_skills", len(report.MatchedSkills)),
		zap.Int("missing_skills", len(report.MissingSkills)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return report, nil
}

// invokeAndValidate calls the gateway and parses the reply, applying the
// single repair retry on a validation failure. Provider errors are never
// repaired; the gateway already owns transport retries.
func (a *Analyzer) invokeAndValidate(ctx context.Context, spec ai.PromptSpec) (*domain.AnalysisReport, error) {
	raw, err := a.aiClient.Complete(ctx, spec)
	if err != nil {
		return nil, err
	}

	report, parseErr := a.validator.ParseAnalysisReport(raw)
	if parseErr == nil {
		return report, nil
	}
	if !errors.Is(parseErr, domain.ErrInvalidModelResponse) {
		return nil, parseErr
	}

	a.logger.Warn("analysis response failed validation, retrying with repair instruction",
		zap.Error(parseErr),
	)

	raw, err = a.aiClient.Complete(ctx, spec.WithRepair(parseErr.Error()))
	if err != nil {
		return nil, err
	}

	report, parseErr = a.validator.ParseAnalysisReport(raw)
	if parseErr != nil {
		return nil, domain.WrapError("analysis_unrecoverable",
			domain.ErrInvalidModelResponse, false)
	}

	return report, nil
}
