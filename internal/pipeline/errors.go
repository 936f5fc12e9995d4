package pipeline

import (
	"errors"
	"net/http"
)

var (
	ErrMissingFile    = errors.New("missing file upload")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrInvalidFormat  = errors.New("invalid format override")
	ErrShuttingDown   = errors.New("pipeline is shutting down")
	ErrAnalysisFailed = errors.New("analysis failed")
)

// MapHTTPStatus maps pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingFile), errors.Is(err, ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrShuttingDown):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// analysisError carries an analysis output whose status is error.
type analysisError struct {
	output map[string]any
	msg    string
}

func (e *analysisError) Error() string {
	return ErrAnalysisFailed.Error() + ": " + e.msg
}

func (e *analysisError) Unwrap() error {
	return ErrAnalysisFailed
}
