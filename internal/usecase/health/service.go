package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/semsearch/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates credentials are present and both upstreams answer.
	Healthy Status = "ok"
	// Unhealthy indicates a missing credential or an unreachable upstream.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckSkipped indicates the check was not attempted.
	CheckSkipped CheckResult = "skipped"
)

// Check names.
const (
	CheckConfiguration = "configuration"
	CheckEmbedding     = "embedding"
	CheckIndex         = "index"
	CheckCache         = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	creds     domain.Credentials
	embedding Checker
	index     Checker
	cache     CachePinger
	logger    *zap.Logger
}

// New creates a Service. cache and logger can be nil.
func New(
	creds domain.Credentials, embedding, index Checker,
	cache CachePinger, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		creds:     creds,
		embedding: embedding,
		index:     index,
		cache:     cache,
		logger:    logger,
	}
}

// Check runs health checks against all components.
// Upstreams are skipped when credentials are missing.
// The cache is informational and does not affect Status.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if missing := s.creds.Missing(); len(missing) > 0 {
		s.logger.Warn("health: configuration missing",
			zap.Strings("fields", missing),
			zap.Error(domain.ErrConfigurationMissing),
		)
		checks[CheckConfiguration] = CheckError
		checks[CheckEmbedding] = CheckSkipped
		checks[CheckIndex] = CheckSkipped
		status = Unhealthy
	} else {
		checks[CheckConfiguration] = CheckOK
		checks[CheckEmbedding] = s.probe(ctx, CheckEmbedding, s.embedding)
		checks[CheckIndex] = s.probe(ctx, CheckIndex, s.index)
		if checks[CheckEmbedding] != CheckOK || checks[CheckIndex] != CheckOK {
			status = Unhealthy
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			s.logger.Warn("health: cache unreachable", zap.Error(err))
			checks[CheckCache] = CheckError
		} else {
			checks[CheckCache] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) probe(ctx context.Context, name string, c Checker) CheckResult {
	if c == nil {
		return CheckError
	}
	if err := c.HealthCheck(ctx); err != nil {
		s.logger.Warn("health: upstream check failed", zap.String("check", name), zap.Error(err))
		return CheckError
	}
	return CheckOK
}
