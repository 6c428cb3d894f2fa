// Package domain contains the core domain models and types.
// These models represent the business logic contracts and are independent
// of any infrastructure concerns.
package domain

import "time"

// DocumentSource indicates where a normalized document came from.
type DocumentSource string

const (
	SourceFileUpload DocumentSource = "file_upload"
	SourcePastedText DocumentSource = "pasted_text"
)

// NormalizedDocument is a resume or job description reduced to plain text.
// Text is non-empty and within the configured size ceiling.
type NormalizedDocument struct {
	Text   string
	Source DocumentSource
}

// QuestionPrep is one interview preparation item in an analysis report.
type QuestionPrep struct {
	// Question is the interview question text.
	Question string `json:"question"`

	// Category classifies the question (Technical, Behavioral, Experience-Based).
	Category string `json:"category"`

	// SuggestedAnswerApproach gives tips for answering this question.
	SuggestedAnswerApproach string `json:"suggested_answer_approach"`
}

// AnalysisReport is the structured output of a resume analysis.
// This schema is enforced for all model responses.
type AnalysisReport struct {
	// SkillMatchPercentage is the share of required skills the resume covers, 0-100.
	SkillMatchPercentage float64 `json:"skill_match_percentage"`

	// MatchedSkills lists skills present in both resume and job description.
	MatchedSkills []string `json:"matched_skills"`

	// MissingSkills lists required skills absent from the resume.
	// Disjoint from MatchedSkills.
	MissingSkills []string `json:"missing_skills"`

	// OptimizedBullets are rewritten resume bullets targeting the job.
	OptimizedBullets []string `json:"optimized_resume_bullets"`

	// CoverLetter is a personalized cover letter for the application.
	CoverLetter string `json:"cover_letter"`

	// InterviewPrep contains preparation questions for the role.
	InterviewPrep []QuestionPrep `json:"interview_prep"`
}

// TurnRole identifies who produced a turn in an interview session.
type TurnRole string

const (
	RoleInterviewer TurnRole = "interviewer"
	RoleCandidate   TurnRole = "candidate"
)

// Feedback is the structured evaluation of one candidate answer.
type Feedback struct {
	// Score rates the answer from 1 to 10.
	Score int `json:"score"`

	// Strengths lists what was good about the answer.
	Strengths []string `json:"strengths"`

	// Improvements lists areas to improve.
	Improvements []string `json:"improvements"`

	// SuggestedAnswer demonstrates a better way to answer.
	SuggestedAnswer string `json:"suggested_answer"`
}

// Turn is one exchange unit in an interview session.
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`

	// Feedback is attached to candidate turns once the answer is graded.
	Feedback *Feedback `json:"feedback,omitempty"`
}

// SessionStatus is the lifecycle state of an interview session.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// InterviewSession tracks one ongoing interview conversation.
// The session store is the exclusive owner of these objects; all mutation
// happens through it.
type InterviewSession struct {
	ID                 string
	Resume             NormalizedDocument
	JobDescription     NormalizedDocument
	CustomInstructions string

	// Turns alternates interviewer and candidate roles, starting with
	// the interviewer.
	Turns []Turn

	// CurrentQuestion is the question awaiting an answer. Empty once the
	// interview has concluded.
	CurrentQuestion string

	Status     SessionStatus
	CreatedAt  time.Time
	LastActive time.Time
}

// TurnCount returns the number of completed exchanges.
func (s *InterviewSession) TurnCount() int {
	return len(s.Turns)
}

// RecentTurns returns the last n turns of the conversation.
func (s *InterviewSession) RecentTurns(n int) []Turn {
	if n >= len(s.Turns) {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// StartInterviewResult is returned when an interview session is opened.
type StartInterviewResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Question  string `json:"question"`
}

// SubmitAnswerResult is returned for each graded interview turn.
// An empty NextQuestion signals the interview has concluded.
type SubmitAnswerResult struct {
	Message      string    `json:"message"`
	Feedback     *Feedback `json:"feedback,omitempty"`
	NextQuestion string    `json:"next_question,omitempty"`
	Done         bool      `json:"done"`
}
