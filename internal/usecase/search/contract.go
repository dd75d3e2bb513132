package search

import (
	"context"

	"github.com/kailas-cloud/semsearch/internal/domain"
	"github.com/kailas-cloud/semsearch/internal/domain/search/match"
)

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Index runs a nearest-neighbour query inside one namespace.
// An empty namespace addresses the root partition.
type Index interface {
	Query(ctx context.Context, vector domain.Vector, namespace string, topK int) ([]match.Match, error)
}
