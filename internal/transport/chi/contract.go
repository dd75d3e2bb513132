package chi

import (
	"context"

	"github.com/kailas-cloud/semsearch/internal/domain/search/query"
	healthuc "github.com/kailas-cloud/semsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/semsearch/internal/usecase/search"
)

// Searcher runs the retrieval pipeline.
type Searcher interface {
	SearchTopK(ctx context.Context, q query.Query, topK int) (searchuc.Response, error)
}

// HealthChecker produces the liveness report.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
