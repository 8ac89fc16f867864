package books

import (
	"errors"
	"net/http"
)

// Domain errors for book operations.
var (
	ErrNotFound     = errors.New("book not found")
	ErrDuplicate    = errors.New("book already exists")
	ErrInvalidInput = errors.New("invalid book input")
)

// MapHTTPStatus maps book domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
