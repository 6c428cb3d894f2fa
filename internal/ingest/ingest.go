// Package ingest normalizes resume and job description input into plain text.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Adityan-78/Careerboost-AI/internal/domain"
	"github.com/Adityan-78/Careerboost-AI/pkg/textnorm"
	"go.uber.org/zap"
)

// Input carries one document submission: either pasted text or an uploaded
// file. When both are present the file wins, matching the upload-first
// behavior of the web layer.
type Input struct {
	// Text is pasted plain text.
	Text string

	// FileBytes is the raw uploaded file content.
	FileBytes []byte

	// Filename is the uploaded file name, used to detect the format.
	Filename string

	// MimeType is the declared content type of the upload.
	MimeType string
}

// HasFile reports whether the input carries an uploaded file.
func (in Input) HasFile() bool {
	return len(in.FileBytes) > 0
}

// Ingestor turns document input into normalized plain text.
type Ingestor struct {
	normalizer *textnorm.Normalizer
	maxSize    int
	logger     *zap.Logger
}

// New creates an Ingestor with the given character ceiling.
func New(maxSize int, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		normalizer: textnorm.New(maxSize),
		maxSize:    maxSize,
		logger:     logger.Named("ingestor"),
	}
}

// Ingest extracts, cleans, and bounds the document text.
// Fails with domain.ErrEmptyInput when neither file nor text is present or
// extraction yields nothing, domain.ErrUnsupportedFormat for unknown file
// types, and domain.ErrInputTooLarge when the cleaned text exceeds the
// ceiling. Oversized input is rejected, never silently truncated.
func (g *Ingestor) Ingest(in Input) (domain.NormalizedDocument, error) {
	var (
		raw    string
		source domain.DocumentSource
	)

	switch {
	case in.HasFile():
		text, err := g.extractFile(in)
		if err != nil {
			return domain.NormalizedDocument{}, err
		}
		raw = text
		source = domain.SourceFileUpload
	case strings.TrimSpace(in.Text) != "":
		raw = in.Text
		source = domain.SourcePastedText
	default:
		return domain.NormalizedDocument{}, domain.WrapError("ingest", domain.ErrEmptyInput, false)
	}

	text, stats := g.normalizer.NormalizeWithStats(raw)
	g.logger.Debug("document normalized",
		zap.String("source", string(source)),
		zap.Int("original_size", stats.OriginalSize),
		zap.Int("normalized_size", stats.NormalizedSize),
	)

	if text == "" {
		return domain.NormalizedDocument{}, domain.WrapError("ingest", domain.ErrEmptyInput, false)
	}

	if stats.Oversized {
		return domain.NormalizedDocument{}, domain.WrapError("ingest",
			fmt.Errorf("%w: %d characters, limit %d", domain.ErrInputTooLarge, stats.NormalizedSize, g.maxSize), false)
	}

	return domain.NormalizedDocument{Text: text, Source: source}, nil
}

// extractFile picks the extraction path from the file extension, falling back
// to the declared mime type when the name has no usable extension.
func (g *Ingestor) extractFile(in Input) (string, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if ext == "" {
		ext = extFromMime(in.MimeType)
	}

	switch ext {
	case ".pdf":
		return extractPDF(in.FileBytes)
	case ".docx", ".doc":
		return extractDOCX(in.FileBytes)
	case ".txt":
		return string(in.FileBytes), nil
	default:
		return "", domain.WrapError("extract_file",
			fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, in.Filename), false)
	}
}

func extFromMime(mimeType string) string {
	// Strip parameters like "; charset=utf-8"
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = mimeType[:idx]
	}

	switch strings.TrimSpace(strings.ToLower(mimeType)) {
	case "application/pdf":
		return ".pdf"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx"
	case "application/msword":
		return ".doc"
	case "text/plain":
		return ".txt"
	default:
		return ""
	}
}
