package domain

import "context"

type usageKey struct{}

// Usage collects upstream accounting for a single search request.
// The handler stores a pointer in the context, the pipeline fills it,
// and the handler turns it into response headers.
type Usage struct {
	EmbeddingTokens int
	EmbeddingCalls  int
	IndexCalls      int
}

// NewContextWithUsage returns a context carrying a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext returns the collector or nil. All methods are nil-safe.
func UsageFromContext(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddEmbedding records one embedding call and its token cost.
func (u *Usage) AddEmbedding(tokens int) {
	if u != nil {
		u.EmbeddingCalls++
		u.EmbeddingTokens += tokens
	}
}

// AddIndexQuery records one index call.
func (u *Usage) AddIndexQuery() {
	if u != nil {
		u.IndexCalls++
	}
}
