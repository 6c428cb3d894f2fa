// Package ai provides the model provider gateway, prompt construction, and
// structured response validation.
package ai

import (
	"bytes"
	"fmt"
	"text/template"
	"unicode/utf8"

	"github.com/Adityan-78/Careerboost-AI/internal/domain"
)

// ResponseKind identifies the schema a model reply must satisfy.
type ResponseKind string

const (
	// KindAnalysisReport expects a full resume analysis JSON object.
	KindAnalysisReport ResponseKind = "analysis_report"

	// KindQuestion expects a single interview question.
	KindQuestion ResponseKind = "question"

	// KindTurnFeedback expects graded feedback plus an optional next question.
	KindTurnFeedback ResponseKind = "turn_feedback"
)

// PromptSpec is a complete, provider-agnostic prompt: the instruction text
// plus the expected output shape and generation parameters.
type PromptSpec struct {
	Kind        ResponseKind
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// WithRepair derives a spec that tells the model its previous reply did not
// parse, used for the single corrective retry after a validation failure.
func (s PromptSpec) WithRepair(reason string) PromptSpec {
	repaired := s
	repaired.User = fmt.Sprintf(
		"%s\n\nIMPORTANT: Your previous response was not valid JSON matching the %s schema (%s). Respond again with ONLY the JSON object, no markdown, no commentary.",
		s.User, s.Kind, reason,
	)
	return repaired
}

// Input excerpt ceilings keep prompts bounded regardless of document size.
const (
	analysisResumeExcerpt = 4000
	analysisJobExcerpt    = 2500
	contextExcerpt        = 2000
	feedbackExcerpt       = 1000
)

const analysisSystemPrompt = `You are an expert resume optimizer and career coach.
Be concise and accurate. Use natural human language, not robotic.
CRITICAL: You MUST respond with ONLY valid JSON matching the exact schema provided. No markdown, no explanations, just the JSON object.`

const analysisUserTemplate = `Analyze the resume against the job description. Return ONLY JSON (no markdown, no code blocks):

RESUME:
{{.Resume}}

JOB DESCRIPTION:
{{.JobDescription}}

{{.BulletInstruction}}

Return this EXACT JSON structure:
{
  "skill_match_percentage": <number 0-100>,
  "matched_skills": ["skill1", "skill2", ...],
  "missing_skills": ["skill3", "skill4", ...],
  "optimized_resume_bullets": ["bullet1 in natural language", "bullet2", ...],
  "cover_letter": "2-3 paragraph professional cover letter",
  "interview_prep": [
    {
      "question": "Interview question text?",
      "category": "Technical",
      "suggested_answer_approach": "Use STAR method: describe situation, task, action, result..."
    }
  ]
}

Generate 6 interview questions (mix of Technical, Behavioral, Experience-Based).
Each question MUST have: question, category, and suggested_answer_approach.
Make bullets sound human, not robotic.`

const questionSystemPrompt = `You are an expert technical interviewer conducting a job interview.
Generate realistic, relevant interview questions based on the job description and candidate's background.
Ask one question at a time. Make questions specific, thoughtful, and appropriate for the role level.`

const questionUserTemplate = `Based on this context, generate the NEXT interview question.

JOB DESCRIPTION:
{{.JobDescription}}

CANDIDATE RESUME:
{{.Resume}}

PREVIOUS QUESTIONS ASKED:
{{if .History}}{{.History}}{{else}}None - this is the first question{{end}}

CUSTOM INSTRUCTIONS FROM USER:
{{if .CustomInstructions}}{{.CustomInstructions}}{{else}}No specific instructions{{end}}

Generate ONE interview question that:
1. Is relevant to the job requirements
2. Hasn't been asked before
3. Matches the custom instructions if provided
4. Is appropriate for the candidate's experience level

Return ONLY JSON in this form: {"question": "the interview question text"}`

const feedbackSystemPrompt = `You are an expert interview coach providing constructive feedback.
Evaluate answers based on relevance, clarity, structure, and how well they demonstrate skills.
Be encouraging but honest. Provide actionable improvement suggestions.
CRITICAL: Respond with ONLY valid JSON matching the schema provided. No markdown.`

const feedbackUserTemplate = `Evaluate this interview answer, then propose the next question.

QUESTION:
{{.Question}}

CANDIDATE'S ANSWER:
{{.Answer}}

JOB CONTEXT:
{{.JobDescription}}

CANDIDATE BACKGROUND:
{{.Resume}}

RECENT INTERVIEW HISTORY:
{{if .History}}{{.History}}{{else}}This was the first question.{{end}}

CUSTOM INSTRUCTIONS FROM USER:
{{if .CustomInstructions}}{{.CustomInstructions}}{{else}}No specific instructions{{end}}

Provide feedback in this EXACT JSON format (no markdown):
{
  "score": <1-10 integer>,
  "strengths": ["strength 1", "strength 2"],
  "improvements": ["improvement 1", "improvement 2"],
  "suggested_answer": "A better way to answer this question would be...",
  "next_question": "The next interview question to ask"
}

Scoring guide:
1-3: Poor answer, lacks relevance or clarity
4-6: Acceptable but needs improvement
7-8: Good answer with minor improvements needed
9-10: Excellent, well-structured answer

If the interview has covered enough ground and should conclude, omit the "next_question" field entirely.
Be specific and constructive in your feedback.`

// Builder constructs the prompt specs for every orchestration intent.
// It holds no state beyond parsed templates and is safe for concurrent use.
type Builder struct {
	analysisTmpl *template.Template
	questionTmpl *template.Template
	feedbackTmpl *template.Template

	// historyWindow bounds how many recent turns are embedded into the
	// feedback prompt so context does not grow without limit.
	historyWindow int
}

// NewBuilder creates a prompt builder. historyWindow is the number of recent
// turns carried into interview prompts.
func NewBuilder(historyWindow int) (*Builder, error) {
	analysisTmpl, err := template.New("analysis_prompt").Parse(analysisUserTemplate)
	if err != nil {
		return nil, err
	}
	questionTmpl, err := template.New("question_prompt").Parse(questionUserTemplate)
	if err != nil {
		return nil, err
	}
	feedbackTmpl, err := template.New("feedback_prompt").Parse(feedbackUserTemplate)
	if err != nil {
		return nil, err
	}

	return &Builder{
		analysisTmpl:  analysisTmpl,
		questionTmpl:  questionTmpl,
		feedbackTmpl:  feedbackTmpl,
		historyWindow: historyWindow,
	}, nil
}

// BuildAnalysisPrompt constructs the one-shot resume analysis prompt.
func (b *Builder) BuildAnalysisPrompt(resume, jobDescription domain.NormalizedDocument, rewriteAllBullets bool) (PromptSpec, error) {
	bulletInstruction := "Rewrite ONLY the resume bullets relevant to this job in natural language."
	if rewriteAllBullets {
		bulletInstruction = "Rewrite ALL resume bullets in natural, human-like language."
	}

	var buf bytes.Buffer
	err := b.analysisTmpl.Execute(&buf, struct {
		Resume            string
		JobDescription    string
		BulletInstruction string
	}{
		Resume:            truncate(resume.Text, analysisResumeExcerpt),
		JobDescription:    truncate(jobDescription.Text, analysisJobExcerpt),
		BulletInstruction: bulletInstruction,
	})
	if err != nil {
		return PromptSpec{}, fmt.Errorf("render analysis prompt: %w", err)
	}

	return PromptSpec{
		Kind:        KindAnalysisReport,
		System:      analysisSystemPrompt,
		User:        buf.String(),
		MaxTokens:   2000,
		Temperature: 0.7,
	}, nil
}

// BuildFirstQuestionPrompt constructs the opening interview question prompt.
func (b *Builder) BuildFirstQuestionPrompt(resume, jobDescription domain.NormalizedDocument, customInstructions string) (PromptSpec, error) {
	var buf bytes.Buffer
	err := b.questionTmpl.Execute(&buf, struct {
		Resume             string
		JobDescription     string
		History            string
		CustomInstructions string
	}{
		Resume:             truncate(resume.Text, contextExcerpt),
		JobDescription:     truncate(jobDescription.Text, contextExcerpt),
		History:            "",
		CustomInstructions: customInstructions,
	})
	if err != nil {
		return PromptSpec{}, fmt.Errorf("render question prompt: %w", err)
	}

	return PromptSpec{
		Kind:        KindQuestion,
		System:      questionSystemPrompt,
		User:        buf.String(),
		MaxTokens:   300,
		Temperature: 0.8,
	}, nil
}

// BuildAnswerFeedbackPrompt constructs the grade-and-advance prompt for one
// interview turn. Only the most recent turns within the history window are
// embedded.
func (b *Builder) BuildAnswerFeedbackPrompt(session *domain.InterviewSession, answer string) (PromptSpec, error) {
	var buf bytes.Buffer
	err := b.feedbackTmpl.Execute(&buf, struct {
		Question           string
		Answer             string
		Resume             string
		JobDescription     string
		History            string
		CustomInstructions string
	}{
		Question:           session.CurrentQuestion,
		Answer:             answer,
		Resume:             truncate(session.Resume.Text, feedbackExcerpt),
		JobDescription:     truncate(session.JobDescription.Text, feedbackExcerpt),
		History:            renderHistory(session.RecentTurns(b.historyWindow)),
		CustomInstructions: session.CustomInstructions,
	})
	if err != nil {
		return PromptSpec{}, fmt.Errorf("render feedback prompt: %w", err)
	}

	return PromptSpec{
		Kind:        KindTurnFeedback,
		System:      feedbackSystemPrompt,
		User:        buf.String(),
		MaxTokens:   1000,
		Temperature: 0.7,
	}, nil
}

// renderHistory formats turns as alternating Q/A lines for the model.
func renderHistory(turns []domain.Turn) string {
	var buf bytes.Buffer
	for _, turn := range turns {
		switch turn.Role {
		case domain.RoleInterviewer:
			fmt.Fprintf(&buf, "Q: %s\n", turn.Content)
		case domain.RoleCandidate:
			fmt.Fprintf(&buf, "A: %s\n", turn.Content)
		}
	}
	return buf.String()
}

// truncate cuts s to at most maxLen bytes without splitting a multibyte rune,
// so excerpts stay valid UTF-8.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
