package workflow

import (
	"errors"
	"net/http"

	"github.com/inkwell-ai/inkwell/internal/books"
	"github.com/inkwell-ai/inkwell/workflow"
)

// Driver-level errors.
var (
	ErrRunActive   = errors.New("auto-run already active for this book")
	ErrRunNotFound = errors.New("no active auto-run for this book")
	ErrNoArtifact  = errors.New("no rendered artifact for this book")
)

// MapHTTPStatus maps workflow and driver errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, books.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRunNotFound), errors.Is(err, ErrNoArtifact):
		return http.StatusNotFound
	case errors.Is(err, ErrRunActive):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrPrecondition):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrInvalidStep):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrCancelled):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
