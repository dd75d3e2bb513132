package domain

import (
	"context"
	"fmt"
)

// Vector is an embedding produced by a single model.
type Vector []float32

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies upstream availability without a full query.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    Vector
	PromptTokens int
	TotalTokens  int
}

// CheckDimensions rejects empty vectors and, when want > 0, vectors of the wrong length.
func CheckDimensions(v Vector, want int) error {
	if len(v) == 0 {
		return fmt.Errorf("empty vector: %w", ErrInvalidResponseShape)
	}
	if want > 0 && len(v) != want {
		return fmt.Errorf("got %d dimensions, want %d: %w", len(v), want, ErrVectorDimMismatch)
	}
	return nil
}
