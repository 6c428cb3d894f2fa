// Package textnorm provides plain-text cleanup for extracted documents.
package textnorm

import (
	"regexp"
	"strings"
)

// Normalizer cleans extracted resume and job description text.
type Normalizer struct {
	maxSize int
}

var (
	// Control characters except newline and tab.
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	// Runs of spaces within a line.
	spaceRuns = regexp.MustCompile(` +`)

	// Three or more consecutive line breaks (possibly with whitespace between).
	blankRuns = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// Unicode bullet glyphs normalized to a plain marker.
var bulletGlyphs = strings.NewReplacer(
	"•", "* ",
	"·", "* ",
	"◦", "* ",
	"▪", "* ",
	"‣", "* ",
	"⚫", "* ",
)

// New creates a Normalizer with the given size ceiling in characters.
func New(maxSize int) *Normalizer {
	return &Normalizer{maxSize: maxSize}
}

// Normalize cleans the text: strips control characters, converts unicode
// bullets to "* ", collapses space runs and excessive blank lines, and trims
// each line. The result may still exceed the ceiling; callers decide whether
// to reject oversized text.
func (n *Normalizer) Normalize(text string) string {
	text = controlChars.ReplaceAllString(text, "")
	text = bulletGlyphs.Replace(text)
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankRuns.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// IsEmpty checks if the text is empty or whitespace only.
func (n *Normalizer) IsEmpty(text string) bool {
	return strings.TrimSpace(text) == ""
}

// IsTooLarge checks if the text exceeds the maximum size.
func (n *Normalizer) IsTooLarge(text string) bool {
	return len([]rune(text)) > n.maxSize
}

// Stats describes what normalization did to the text.
type Stats struct {
	OriginalSize   int
	NormalizedSize int
	Oversized      bool
}

// NormalizeWithStats performs normalization and returns statistics.
func (n *Normalizer) NormalizeWithStats(text string) (string, Stats) {
	normalized := n.Normalize(text)

	return normalized, Stats{
		OriginalSize:   len([]rune(text)),
		NormalizedSize: len([]rune(normalized)),
		Oversized:      n.IsTooLarge(normalized),
	}
}
