package domain

import "errors"

var (
	// ErrEmbeddingUnavailable signals an embedding provider failure (non-2xx, network, timeout).
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	// ErrIndexUnavailable signals a vector index failure (5xx, network, timeout).
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrIndexNotFound signals that the configured index name does not exist.
	ErrIndexNotFound = errors.New("vector index not found")
	// ErrIndexUnauthorized signals a rejected index credential.
	ErrIndexUnauthorized = errors.New("vector index unauthorized")
	// ErrConfigurationMissing signals an absent credential or index name.
	ErrConfigurationMissing = errors.New("configuration missing")
	// ErrInvalidResponseShape signals an upstream payload without the expected fields.
	ErrInvalidResponseShape = errors.New("invalid upstream response shape")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)

// IsHardFailure reports whether err must be surfaced to the caller instead of degraded.
func IsHardFailure(err error) bool {
	return errors.Is(err, ErrIndexUnauthorized) || errors.Is(err, ErrIndexNotFound)
}
