// Package handler contains HTTP handlers for the API.
package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Adityan-78/Careerboost-AI/internal/domain"
	"github.com/Adityan-78/Careerboost-AI/internal/ingest"
	"github.com/gin-gonic/gin"
)

// errorResponse is the error envelope returned by every endpoint.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// statusForError maps the domain error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case domain.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSession),
		errors.Is(err, domain.ErrSessionNotActive):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProviderTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidModelResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageForError returns the user-facing message for an error, hiding
// internals behind a generic message for unexpected failures.
func messageForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrProviderTimeout),
		errors.Is(err, domain.ErrRateLimited):
		return "The AI service is temporarily unavailable. Please try again later."
	case errors.Is(err, domain.ErrInvalidModelResponse):
		return "Could not produce a valid result from the AI service. Please try again."
	case domain.IsInputError(err),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionNotActive),
		errors.Is(err, domain.ErrDuplicateSession):
		return err.Error()
	default:
		return "Internal error"
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), errorResponse{
		Success: false,
		Error:   messageForError(err),
	})
}

// documentInput assembles an ingest.Input from a multipart form, preferring
// an uploaded file over pasted text.
func documentInput(c *gin.Context, fileField, textField string) (ingest.Input, error) {
	fileHeader, err := c.FormFile(fileField)
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return ingest.Input{}, err
	}

	in := ingest.Input{Text: c.PostForm(textField)}
	if fileHeader != nil {
		content, err := readUpload(fileHeader)
		if err != nil {
			return ingest.Input{}, err
		}
		in.FileBytes = content
		in.Filename = fileHeader.Filename
		in.MimeType = fileHeader.Header.Get("Content-Type")
	}

	return in, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
