package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/semsearch/internal/domain"
	"github.com/kailas-cloud/semsearch/internal/domain/search/match"
	"github.com/kailas-cloud/semsearch/internal/domain/search/query"
	"github.com/kailas-cloud/semsearch/internal/domain/search/result"
	"github.com/kailas-cloud/semsearch/internal/logger"
	"github.com/kailas-cloud/semsearch/internal/metrics"
)

// Config is the explicit configuration of the retrieval pipeline.
type Config struct {
	Credentials domain.Credentials
	// TopK is the default number of neighbours requested from the index.
	TopK int
	// Dimensions is the expected embedding length; 0 disables the check.
	Dimensions int
	Retry      RetryPolicy
	// DisableFallback turns recoverable failures into errors instead of degraded results.
	DisableFallback bool
}

// Response is the result of one search.
type Response struct {
	Results  []result.Result
	Degraded bool
	Outcome  Outcome
}

// Service orchestrates embed, index query, normalization and degradation.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	embed  Embedder
	index  Index
	cfg    Config
	logger *zap.Logger
}

// New creates a search service. logger may be nil.
func New(embed Embedder, index Index, cfg Config, logger *zap.Logger) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{embed: embed, index: index, cfg: cfg, logger: logger}
}

// Search runs the pipeline for q using the configured topK.
func (s *Service) Search(ctx context.Context, q query.Query) (Response, error) {
	return s.SearchTopK(ctx, q, 0)
}

// SearchTopK runs the pipeline for q. topK <= 0 uses the configured default.
//
// A blank query returns an empty response without upstream calls.
// Index authorization and not-found failures are returned as errors.
// Every other failure yields the fallback set with Degraded set.
func (s *Service) SearchTopK(ctx context.Context, q query.Query, topK int) (Response, error) {
	if q.Blank() {
		return s.finish(ctx, q, Response{Results: []result.Result{}, Outcome: OutcomeNoSearch}, nil)
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	if missing := s.cfg.Credentials.Missing(); len(missing) > 0 {
		return s.fail(ctx, q, fmt.Errorf("%w: %s", domain.ErrConfigurationMissing, strings.Join(missing, ", ")))
	}

	vec, err := s.embedQuery(ctx, q.Text())
	if err != nil {
		return s.fail(ctx, q, err)
	}

	matches, err := s.queryIndex(ctx, vec, q.Namespace(), topK)
	if err != nil {
		return s.fail(ctx, q, err)
	}

	results := result.Normalize(matches, result.OrderScoreDesc)
	outcome := OutcomeOK
	if len(results) == 0 {
		outcome = OutcomeEmpty
	}
	return s.finish(ctx, q, Response{Results: results, Outcome: outcome}, nil)
}

func (s *Service) embedQuery(ctx context.Context, text string) (domain.Vector, error) {
	res, err := do(ctx, s.cfg.Retry, func(ctx context.Context) (domain.EmbeddingResult, error) {
		return s.embed.Embed(ctx, text)
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if err := domain.CheckDimensions(res.Embedding, s.cfg.Dimensions); err != nil {
		return nil, fmt.Errorf("embed query: %w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return res.Embedding, nil
}

func (s *Service) queryIndex(
	ctx context.Context, vec domain.Vector, namespace string, topK int,
) ([]match.Match, error) {
	matches, err := do(ctx, s.cfg.Retry, func(ctx context.Context) ([]match.Match, error) {
		domain.UsageFromContext(ctx).AddIndexQuery()
		return s.index.Query(ctx, vec, namespace, topK)
	})
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	return matches, nil
}

// fail applies the degradation policy to a pipeline error.
func (s *Service) fail(ctx context.Context, q query.Query, err error) (Response, error) {
	outcome := classify(ctx, err, !s.cfg.DisableFallback)
	if outcome != OutcomeDegraded {
		if outcome == OutcomeCanceled {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		return s.finish(ctx, q, Response{Outcome: outcome}, err)
	}
	return s.finish(ctx, q, Response{
		Results:  Fallback(q.Text()),
		Degraded: true,
		Outcome:  OutcomeDegraded,
	}, err)
}

// finish records the outcome and logs transitions. Degraded responses swallow cause.
func (s *Service) finish(ctx context.Context, q query.Query, resp Response, cause error) (Response, error) {
	metrics.SearchOutcomesTotal.WithLabelValues(string(resp.Outcome)).Inc()

	log := s.requestLogger(ctx).With(
		zap.String("outcome", string(resp.Outcome)),
		zap.String("tenant", q.TenantID()),
	)

	switch resp.Outcome {
	case OutcomeDegraded:
		log.Warn("search degraded to fallback",
			zap.String("error_class", errorClass(cause)),
			zap.Error(cause),
		)
		return resp, nil
	case OutcomeFailed:
		log.Error("search failed",
			zap.String("error_class", errorClass(cause)),
			zap.Error(cause),
		)
		return resp, cause
	case OutcomeCanceled:
		log.Debug("search canceled by caller")
		return resp, cause
	default:
		log.Debug("search completed", zap.Int("results", len(resp.Results)))
		return resp, nil
	}
}

func (s *Service) requestLogger(ctx context.Context) *zap.Logger {
	if l := logger.FromContext(ctx); l.Core().Enabled(zap.FatalLevel) {
		return l
	}
	return s.logger
}
