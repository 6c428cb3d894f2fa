// Package ai provides the model provider gateway, prompt construction, and
// structured response validation.
package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Adityan-78/Careerboost-AI/internal/domain"
)

// defaultAnswerApproach fills interview-prep items when the model omits the
// approach field.
const defaultAnswerApproach = "Use specific examples from your experience. Be clear, concise, and demonstrate your skills with measurable results."

// defaultScore stands in when the model omits or mangles the score field.
const defaultScore = 5

// Validator parses raw model text against the expected response schema,
// applying the tolerance rules for each shape. It is stateless and safe for
// concurrent use.
type Validator struct{}

// NewValidator creates a response validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Wire shapes mirror the JSON the model is instructed to emit. Numbers come
// in as json.Number because models frequently return floats where integers
// are expected.

type questionPrepWire struct {
	Question                string `json:"question"`
	Category                string `json:"category"`
	SuggestedAnswerApproach string `json:"suggested_answer_approach"`
}

type analysisWire struct {
	SkillMatchPercentage json.Number        `json:"skill_match_percentage"`
	MatchedSkills        []string           `json:"matched_skills"`
	MissingSkills        []string           `json:"missing_skills"`
	OptimizedBullets     []string           `json:"optimized_resume_bullets"`
	CoverLetter          string             `json:"cover_letter"`
	InterviewPrep        []questionPrepWire `json:"interview_prep"`
}

type feedbackWire struct {
	Score           json.Number `json:"score"`
	Strengths       []string    `json:"strengths"`
	Improvements    []string    `json:"improvements"`
	SuggestedAnswer string      `json:"suggested_answer"`
	NextQuestion    string      `json:"next_question"`
}

type questionWire struct {
	Question string `json:"question"`
}

// ParseAnalysisReport validates raw model text as an AnalysisReport.
// The skill match percentage is clamped into [0,100]; matched and missing
// skills are deduplicated case-insensitively and forced disjoint (matched
// wins); empty bullets, interview prep, or cover letter are hard failures.
func (v *Validator) ParseAnalysisReport(raw string) (*domain.AnalysisReport, error) {
	content := ExtractJSON(raw)
	if content == "" {
		return nil, domain.WrapError("extract_json", domain.ErrInvalidModelResponse, false)
	}

	var wire analysisWire
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, domain.WrapError("unmarshal_analysis",
			fmt.Errorf("%w: %v", domain.ErrInvalidModelResponse, err), false)
	}

	pct, _ := wire.SkillMatchPercentage.Float64()
	pct = clampFloat(pct, 0, 100)

	matched := dedupeFold(wire.MatchedSkills, nil)
	missing := dedupeFold(wire.MissingSkills, matched)

	bullets := trimNonEmpty(wire.OptimizedBullets)
	if len(bullets) == 0 {
		return nil, domain.WrapError("validate_bullets",
			fmt.Errorf("%w: optimized_resume_bullets is empty", domain.ErrInvalidModelResponse), false)
	}

	coverLetter := strings.TrimSpace(wire.CoverLetter)
	if coverLetter == "" {
		return nil, domain.WrapError("validate_cover_letter",
			fmt.Errorf("%w: cover_letter is required", domain.ErrInvalidModelResponse), false)
	}

	var prep []domain.QuestionPrep
	for _, q := range wire.InterviewPrep {
		question := strings.TrimSpace(q.Question)
		if question == "" {
			continue
		}
		category := strings.TrimSpace(q.Category)
		if category == "" {
			category = "General"
		}
		approach := strings.TrimSpace(q.SuggestedAnswerApproach)
		if approach == "" {
			approach = defaultAnswerApproach
		}
		prep = append(prep, domain.QuestionPrep{
			Question:                question,
			Category:                category,
			SuggestedAnswerApproach: approach,
		})
	}
	if len(prep) == 0 {
		return nil, domain.WrapError("validate_interview_prep",
			fmt.Errorf("%w: interview_prep is empty", domain.ErrInvalidModelResponse), false)
	}

	return &domain.AnalysisReport{
		SkillMatchPercentage: math.Round(pct*10) / 10,
		MatchedSkills:        matched,
		MissingSkills:        missing,
		OptimizedBullets:     bullets,
		CoverLetter:          coverLetter,
		InterviewPrep:        prep,
	}, nil
}

// ParseTurnFeedback validates raw model text as turn feedback plus an
// optional next question. The score is rounded and clamped into [1,10], with
// an absent score degrading to the scale midpoint;
// absent strengths or improvements degrade to empty lists; a missing
// suggested_answer is a hard failure since it carries the value of the turn.
// An absent next_question is the completion signal, not an error.
func (v *Validator) ParseTurnFeedback(raw string) (*domain.Feedback, string, error) {
	content := ExtractJSON(raw)
	if content == "" {
		return nil, "", domain.WrapError("extract_json", domain.ErrInvalidModelResponse, false)
	}

	var wire feedbackWire
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, "", domain.WrapError("unmarshal_feedback",
			fmt.Errorf("%w: %v", domain.ErrInvalidModelResponse, err), false)
	}

	suggested := strings.TrimSpace(wire.SuggestedAnswer)
	if suggested == "" {
		return nil, "", domain.WrapError("validate_suggested_answer",
			fmt.Errorf("%w: suggested_answer is required", domain.ErrInvalidModelResponse), false)
	}

	// A missing or non-numeric score is a tolerated gap, not a failure.
	score := defaultScore
	if scoreFloat, err := wire.Score.Float64(); err == nil {
		score = int(math.Round(clampFloat(scoreFloat, 1, 10)))
	}

	feedback := &domain.Feedback{
		Score:           score,
		Strengths:       trimNonEmpty(wire.Strengths),
		Improvements:    trimNonEmpty(wire.Improvements),
		SuggestedAnswer: suggested,
	}
	if feedback.Strengths == nil {
		feedback.Strengths = []string{}
	}
	if feedback.Improvements == nil {
		feedback.Improvements = []string{}
	}

	return feedback, strings.TrimSpace(wire.NextQuestion), nil
}

// ParseQuestion validates raw model text as a single interview question.
// The preferred form is {"question": "..."}; a non-empty plain-text reply is
// accepted as a fallback since it is still a usable question.
func (v *Validator) ParseQuestion(raw string) (string, error) {
	if content := ExtractJSON(raw); content != "" {
		var wire questionWire
		if err := json.Unmarshal([]byte(content), &wire); err == nil {
			if q := strings.TrimSpace(wire.Question); q != "" {
				return q, nil
			}
		}
	}

	plain := strings.TrimSpace(stripCodeFences(raw))
	if plain != "" && !strings.ContainsAny(plain, "{}") {
		return plain, nil
	}

	return "", domain.WrapError("validate_question", domain.ErrInvalidModelResponse, false)
}

// ExtractJSON attempts to extract a JSON object from content that might
// include markdown fences or surrounding prose.
func ExtractJSON(content string) string {
	// Try to parse the entire content as JSON first
	if isValidJSON(content) {
		return content
	}

	// Find opening brace
	start := strings.IndexByte(content, '{')
	if start == -1 {
		return ""
	}

	// Find matching closing brace
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					extracted := content[start : i+1]
					if isValidJSON(extracted) {
						return extracted
					}
					return ""
				}
			}
		}
	}

	return ""
}

func isValidJSON(s string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return s
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dedupeFold removes duplicates case-insensitively while preserving first
// occurrence order. Entries whose folded form appears in exclude are dropped.
func dedupeFold(items []string, exclude []string) []string {
	seen := make(map[string]struct{}, len(items)+len(exclude))
	for _, e := range exclude {
		seen[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}

	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func trimNonEmpty(items []string) []string {
	var out []string
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
