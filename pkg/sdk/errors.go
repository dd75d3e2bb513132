package semsearch

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by *APIError via errors.Is.
var (
	ErrUnauthorized         = errors.New("semsearch: unauthorized")
	ErrIndexUnauthorized    = errors.New("semsearch: vector index unauthorized")
	ErrIndexNotFound        = errors.New("semsearch: vector index not found")
	ErrUnavailable          = errors.New("semsearch: search unavailable")
	ErrConfigurationMissing = errors.New("semsearch: configuration missing")
	ErrInvalidRequest       = errors.New("semsearch: invalid request")
)

var codeSentinels = map[string]error{
	"unauthorized":          ErrUnauthorized,
	"index_unauthorized":    ErrIndexUnauthorized,
	"index_not_found":       ErrIndexNotFound,
	"index_unavailable":     ErrUnavailable,
	"embedding_unavailable": ErrUnavailable,
	"configuration_missing": ErrConfigurationMissing,
	"bad_request":           ErrInvalidRequest,
	"validation_failed":     ErrInvalidRequest,
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("semsearch: http %d", e.StatusCode)
	}
	return fmt.Sprintf("semsearch: http %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is matches the sentinel for the error code.
func (e *APIError) Is(target error) bool {
	s, ok := codeSentinels[e.Code]
	return ok && s == target
}
