package plato

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for client operations. Match them with errors.Is.
var (
	// ErrUnavailable is returned when the service could not be reached
	// after the retry budget was exhausted.
	ErrUnavailable = errors.New("templating service unavailable")
	// ErrNotFound is returned when the referenced template does not exist.
	ErrNotFound = errors.New("template not found")
	// ErrValidation is returned when the service rejected the request as
	// semantically invalid (malformed schema or archive).
	ErrValidation = errors.New("request rejected by templating service")
)

// APIError is returned when the service responds with an unexpected
// status code. It carries the status and the raw response body for
// diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("plato: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("plato: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Is maps well-known status codes onto the package sentinels so callers
// can use errors.Is without inspecting status codes themselves.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest ||
			e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// UnavailableError is returned once the retry budget is exhausted. Err
// holds the last transport error, Attempts the total number of requests
// issued.
type UnavailableError struct {
	Attempts int
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("plato: service unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }
