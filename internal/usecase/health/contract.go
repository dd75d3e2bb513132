package health

import "context"

// Checker verifies one upstream without running a full query.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks the optional embedding cache store.
type CachePinger interface {
	Ping(ctx context.Context) error
}
