package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Adityan-78/Careerboost-AI/internal/domain"
	"github.com/ledongthuc/pdf"
)

// extractPDF pulls plain text out of a PDF, page by page.
func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.WrapError("parse_pdf",
			fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err), false)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError("parse_pdf",
			fmt.Errorf("%w: no text content found in PDF, it may be image-based or encrypted", domain.ErrEmptyInput), false)
	}

	return text, nil
}
