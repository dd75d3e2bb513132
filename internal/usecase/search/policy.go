package search

import (
	"context"
	"errors"

	"github.com/kailas-cloud/semsearch/internal/domain"
)

// Outcome is the terminal state of a single search.
type Outcome string

// Search outcomes.
const (
	// OutcomeNoSearch means the query was blank and no upstream was called.
	OutcomeNoSearch Outcome = "no_search"
	// OutcomeOK means the index returned at least one match.
	OutcomeOK Outcome = "ok"
	// OutcomeEmpty means the index answered with zero matches.
	OutcomeEmpty Outcome = "empty"
	// OutcomeDegraded means a recoverable failure was replaced by the fallback set.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeFailed means a hard error was returned to the caller.
	OutcomeFailed Outcome = "failed"
	// OutcomeCanceled means the caller abandoned the request.
	OutcomeCanceled Outcome = "canceled"
)

// classify maps a pipeline error onto the outcome the caller observes.
// fallback reports whether recoverable failures may degrade.
func classify(ctx context.Context, err error, fallback bool) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case ctx.Err() != nil:
		return OutcomeCanceled
	case domain.IsHardFailure(err):
		return OutcomeFailed
	case !fallback:
		return OutcomeFailed
	default:
		return OutcomeDegraded
	}
}

// errorClass names the taxonomy bucket of err for logs. Never includes upstream text.
func errorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, domain.ErrConfigurationMissing):
		return "configuration_missing"
	case errors.Is(err, domain.ErrIndexUnauthorized):
		return "index_unauthorized"
	case errors.Is(err, domain.ErrIndexNotFound):
		return "index_not_found"
	case errors.Is(err, domain.ErrVectorDimMismatch):
		return "vector_dim_mismatch"
	case errors.Is(err, domain.ErrInvalidResponseShape):
		return "invalid_response_shape"
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return "embedding_unavailable"
	case errors.Is(err, domain.ErrIndexUnavailable):
		return "index_unavailable"
	default:
		return "unknown"
	}
}

// retryable reports whether another attempt could change the result.
func retryable(err error) bool {
	switch {
	case domain.IsHardFailure(err),
		errors.Is(err, domain.ErrConfigurationMissing),
		errors.Is(err, domain.ErrVectorDimMismatch),
		errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}
