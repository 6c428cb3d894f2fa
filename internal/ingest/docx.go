package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/Adityan-78/Careerboost-AI/internal/domain"
)

// extractDOCX pulls plain text out of a .docx file. A docx is a zip archive
// whose word/document.xml holds the text as <w:t> runs, with <w:p> marking
// paragraph boundaries.
func extractDOCX(content []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.WrapError("parse_docx",
			fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err), false)
	}

	var docFile *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", domain.WrapError("parse_docx",
			fmt.Errorf("%w: missing word/document.xml", domain.ErrUnsupportedFormat), false)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", domain.WrapError("parse_docx", err, false)
	}
	defer rc.Close()

	text, err := decodeDocumentXML(rc)
	if err != nil {
		return "", domain.WrapError("parse_docx",
			fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err), false)
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError("parse_docx",
			fmt.Errorf("%w: no text content found in DOCX", domain.ErrEmptyInput), false)
	}

	return text, nil
}

// decodeDocumentXML streams the WordprocessingML body, collecting text runs
// and inserting line breaks at paragraph ends.
func decodeDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		builder strings.Builder
		inText  bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				builder.WriteString("\n")
			case "tc":
				// Table cell boundary
				builder.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				builder.Write(t)
			}
		}
	}

	return builder.String(), nil
}
