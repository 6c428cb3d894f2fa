// Package ai provides unit tests for response validation.
package ai

import (
	"errors"
	"strings"
	"testing"

	"github.com/Adityan-78/Careerboost-AI/internal/domain"
)

const validAnalysisJSON = `{
  "skill_match_percentage": 75.0,
  "matched_skills": ["Python", "FastAPI", "PostgreSQL"],
  "missing_skills": ["AWS", "Docker"],
  "optimized_resume_bullets": ["Built scalable REST APIs with FastAPI"],
  "cover_letter": "Dear Hiring Manager, I am excited to apply for this position.",
  "interview_prep": [
    {
      "question": "Describe a REST API you built.",
      "category": "Technical",
      "suggested_answer_approach": "Use the STAR method."
    }
  ]
}`

func TestValidator_ParseAnalysisReport(t *testing.T) {
	v := NewValidator()

	t.Run("valid report", func(t *testing.T) {
		report, err := v.ParseAnalysisReport(validAnalysisJSON)
		if err != nil {
			t.Fatalf("ParseAnalysisReport() error = %v", err)
		}
		if report.SkillMatchPercentage != 75.0 {
			t.Errorf("SkillMatchPercentage = %v, want 75.0", report.SkillMatchPercentage)
		}
		if len(report.MatchedSkills) != 3 {
			t.Errorf("MatchedSkills = %v", report.MatchedSkills)
		}
	})

	t.Run("report wrapped in markdown fences", func(t *testing.T) {
		raw := "Here is the analysis:\n```json\n" + validAnalysisJSON + "\n```"
		if _, err := v.ParseAnalysisReport(raw); err != nil {
			t.Fatalf("ParseAnalysisReport() error = %v", err)
		}
	})

	t.Run("percentage clamped into range", func(t *testing.T) {
		raw := strings.Replace(validAnalysisJSON, `"skill_match_percentage": 75.0`, `"skill_match_percentage": 140`, 1)
		report, err := v.ParseAnalysisReport(raw)
		if err != nil {
			t.Fatalf("ParseAnalysisReport() error = %v", err)
		}
		if report.SkillMatchPercentage != 100 {
			t.Errorf("SkillMatchPercentage = %v, want 100", report.SkillMatchPercentage)
		}
	})

	t.Run("negative percentage clamped to zero", func(t *testing.T) {
		raw := strings.Replace(validAnalysisJSON, `"skill_match_percentage": 75.0`, `"skill_match_percentage": -5`, 1)
		report, err := v.ParseAnalysisReport(raw)
		if err != nil {
			t.Fatalf("ParseAnalysisReport() error = %v", err)
		}
		if report.SkillMatchPercentage != 0 {
			t.Errorf("SkillMatchPercentage = %v, want 0", report.SkillMatchPercentage)
		}
	})

	t.Run("skills deduplicated case-insensitively", func(t *testing.T) {
		raw := strings.Replace(validAnalysisJSON,
			`"matched_skills": ["Python", "FastAPI", "PostgreSQL"]`,
			`"matched_skills": ["Python", "python", "FastAPI", " PYTHON "]`, 1)
		report, err := v.ParseAnalysisReport(raw)
		if err != nil {
			t.Fatalf("ParseAnalysisReport() error = %v", err)
		}
		if len(report.MatchedSkills) != 2 {
			t.Errorf("MatchedSkills = %v, want 2 unique entries", report.MatchedSkills)
		}
		if report.MatchedSkills[0] != "Python" {
			t.Errorf("first occurrence order not preserved: %v", report.MatchedSkills)
		}
	})

	t.Run("missing skills disjoint from matched", func(t *testing.T) {
		raw := strings.Replace(validAnalysisJSON,
			`"missing_skills": ["AWS", "Docker"]`,
			`"missing_skills": ["AWS", "python", "Docker"]`, 1)
		report, err := v.ParseAnalysisReport(raw)
		if err != nil {
			t.Fatalf("ParseAnalysisReport() error = %v", err)
		}
		for _, m := range report.MissingSkills {
			if strings.EqualFold(m, "Python") {
				t.Errorf("missing skills contain a matched skill: %v", report.MissingSkills)
			}
		}
	})

	t.Run("empty bullets is a hard failure", func(t *testing.T) {
		raw := strings.Replace(validAnalysisJSON,
			`"optimized_resume_bullets": ["Built scalable REST APIs with FastAPI"]`,
			`"optimized_resume_bullets": ["", "  "]`, 1)
		if _, err := v.ParseAnalysisReport(raw); !errors.Is(err, domain.ErrInvalidModelResponse) {
			t.Errorf("expected ErrInvalidModelResponse, got %v", err)
		}
	})

	t.Run("empty interview prep is a hard failure", func(t *testing.T) {
		raw := strings.Replace(validAnalysisJSON,
			`"question": "Describe a REST API you built.",`, `"question": "",`, 1)
		if _, err := v.ParseAnalysisReport(raw); !errors.Is(err, domain.ErrInvalidModelResponse) {
			t.Errorf("expected ErrInvalidModelResponse, got %v", err)
		}
	})

	t.Run("missing answer approach gets a default", func(t *testing.T) {
		raw := strings.Replace(validAnalysisJSON,
			`"suggested_answer_approach": "Use the STAR method."`,
			`"suggested_answer_approach": ""`, 1)
		report, err := v.ParseAnalysisReport(raw)
		if err != nil {
			t.Fatalf("ParseAnalysisReport() error = %v", err)
		}
		if report.InterviewPrep[0].SuggestedAnswerApproach == "" {
			t.Error("expected default suggested_answer_approach")
		}
	})

	t.Run("no JSON at all", func(t *testing.T) {
		if _, err := v.ParseAnalysisReport("I could not produce the analysis."); !errors.Is(err, domain.ErrInvalidModelResponse) {
			t.Errorf("expected ErrInvalidModelResponse, got %v", err)
		}
	})
}

func TestValidator_ParseTurnFeedback(t *testing.T) {
	v := NewValidator()

	t.Run("valid feedback with next question", func(t *testing.T) {
		feedback, next, err := v.ParseTurnFeedback(`{
			"score": 7,
			"strengths": ["Clear"],
			"improvements": ["Quantify"],
			"suggested_answer": "Lead with the business problem.",
			"next_question": "What about caching?"
		}`)
		if err != nil {
			t.Fatalf("ParseTurnFeedback() error = %v", err)
		}
		if feedback.Score != 7 {
			t.Errorf("Score = %d, want 7", feedback.Score)
		}
		if next != "What about caching?" {
			t.Errorf("next question = %q", next)
		}
	})

	t.Run("float score rounded and clamped", func(t *testing.T) {
		feedback, _, err := v.ParseTurnFeedback(`{"score": 8.5, "suggested_answer": "Better answer."}`)
		if err != nil {
			t.Fatalf("ParseTurnFeedback() error = %v", err)
		}
		if feedback.Score != 9 {
			t.Errorf("Score = %d, want 9", feedback.Score)
		}

		feedback, _, err = v.ParseTurnFeedback(`{"score": 42, "suggested_answer": "Better answer."}`)
		if err != nil {
			t.Fatalf("ParseTurnFeedback() error = %v", err)
		}
		if feedback.Score != 10 {
			t.Errorf("Score = %d, want 10", feedback.Score)
		}
	})

	t.Run("absent score degrades to the midpoint", func(t *testing.T) {
		feedback, _, err := v.ParseTurnFeedback(`{"strengths": ["ok"], "suggested_answer": "Better answer."}`)
		if err != nil {
			t.Fatalf("ParseTurnFeedback() error = %v", err)
		}
		if feedback.Score != 5 {
			t.Errorf("Score = %d, want 5", feedback.Score)
		}
	})

	t.Run("absent strengths and improvements degrade to empty lists", func(t *testing.T) {
		feedback, _, err := v.ParseTurnFeedback(`{"score": 5, "suggested_answer": "Better answer."}`)
		if err != nil {
			t.Fatalf("ParseTurnFeedback() error = %v", err)
		}
		if feedback.Strengths == nil || feedback.Improvements == nil {
			t.Error("expected empty lists, got nil")
		}
	})

	t.Run("missing suggested_answer is a hard failure", func(t *testing.T) {
		_, _, err := v.ParseTurnFeedback(`{"score": 5, "strengths": ["ok"]}`)
		if !errors.Is(err, domain.ErrInvalidModelResponse) {
			t.Errorf("expected ErrInvalidModelResponse, got %v", err)
		}
	})

	t.Run("absent next_question signals completion", func(t *testing.T) {
		_, next, err := v.ParseTurnFeedback(`{"score": 9, "suggested_answer": "Great."}`)
		if err != nil {
			t.Fatalf("ParseTurnFeedback() error = %v", err)
		}
		if next != "" {
			t.Errorf("next question = %q, want empty", next)
		}
	})

	t.Run("prose without JSON is a hard failure", func(t *testing.T) {
		_, _, err := v.ParseTurnFeedback("Nice answer! Keep it up.")
		if !errors.Is(err, domain.ErrInvalidModelResponse) {
			t.Errorf("expected ErrInvalidModelResponse, got %v", err)
		}
	})
}

func TestValidator_ParseQuestion(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "JSON form",
			raw:  `{"question": "Tell me about your last project."}`,
			want: "Tell me about your last project.",
		},
		{
			name: "JSON in fences",
			raw:  "```json\n{\"question\": \"Why this company?\"}\n```",
			want: "Why this company?",
		},
		{
			name: "plain text fallback",
			raw:  "How do you handle production incidents?",
			want: "How do you handle production incidents?",
		},
		{
			name:    "empty reply",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "JSON without question field",
			raw:     `{"answer": "nope"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ParseQuestion(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseQuestion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseQuestion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantJSON bool
	}{
		{
			name:     "pure JSON",
			content:  `{"score": 7}`,
			wantJSON: true,
		},
		{
			name:     "JSON in markdown",
			content:  "```json\n{\"score\": 7}\n```",
			wantJSON: true,
		},
		{
			name:     "JSON with prefix text",
			content:  "Here is the feedback:\n{\"score\": 7}",
			wantJSON: true,
		},
		{
			name:     "braces inside strings",
			content:  `{"suggested_answer": "use {curly} braces"}`,
			wantJSON: true,
		},
		{
			name:     "no JSON",
			content:  "This is just plain text",
			wantJSON: false,
		},
		{
			name:     "invalid JSON",
			content:  "{score: seven}",
			wantJSON: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractJSON(tt.content)
			gotJSON := result != ""
			if gotJSON != tt.wantJSON {
				t.Errorf("ExtractJSON() got JSON = %v, want %v", gotJSON, tt.wantJSON)
			}
		})
	}
}
