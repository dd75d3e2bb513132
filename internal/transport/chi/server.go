package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/semsearch/internal/domain"
	"github.com/kailas-cloud/semsearch/internal/domain/search/query"
	"github.com/kailas-cloud/semsearch/internal/domain/search/result"
	"github.com/kailas-cloud/semsearch/internal/logger"
	"github.com/kailas-cloud/semsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/semsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/semsearch/internal/usecase/search"
)

// Route paths.
const (
	PathSearch         = "/search/semantic"
	PathSearchEnvelope = "/search/semantic/envelope"
	PathHealth         = "/search/health"
	PathMetrics        = "/metrics"
)

// Response headers.
const (
	HeaderEmbeddingTokens = "X-Embedding-Tokens"
	HeaderSearchOutcome   = "X-Search-Outcome"
)

// statusClientClosedRequest is the de-facto status for requests abandoned by the client.
const statusClientClosedRequest = 499

// maxRequestBody bounds the search request body.
const maxRequestBody = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Options configures request validation.
type Options struct {
	MaxTopK int
}

// Server serves the semantic search HTTP API.
type Server struct {
	search        Searcher
	health        HealthChecker
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	if opts.MaxTopK <= 0 {
		opts.MaxTopK = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		opts:   opts,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		canceledHandler,
		sentinelHandler(domain.ErrIndexUnauthorized, http.StatusBadGateway,
			ErrorCodeIndexUnauthorized, "vector index rejected the configured credential"),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusBadGateway,
			ErrorCodeIndexNotFound, "configured vector index does not exist"),
		sentinelHandler(domain.ErrConfigurationMissing, http.StatusServiceUnavailable,
			ErrorCodeConfigurationMissing, "search is not configured"),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusServiceUnavailable,
			ErrorCodeEmbeddingUnavailable, "embedding provider unavailable"),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable,
			ErrorCodeIndexUnavailable, "vector index unavailable"),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post(PathSearch, s.SearchSemantic)
	r.Post(PathSearchEnvelope, s.SearchSemanticEnvelope)
	r.Get(PathHealth, s.HealthCheck)
	r.Get(PathMetrics, s.Metrics)
}

// SearchSemantic handles POST /search/semantic and returns a bare result list.
func (s *Server) SearchSemantic(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.runSearch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resultsToItems(resp.Results))
}

// SearchSemanticEnvelope handles POST /search/semantic/envelope.
func (s *Server) SearchSemanticEnvelope(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.runSearch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SearchEnvelope{
		Results:  resultsToItems(resp.Results),
		Degraded: resp.Degraded,
	})
}

// runSearch decodes the request and runs the pipeline. On false the response is already written.
func (s *Server) runSearch(w http.ResponseWriter, r *http.Request) (searchuc.Response, bool) {
	var req SearchRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request body")
		return searchuc.Response{}, false
	}

	topK := 0
	if req.TopK != nil {
		topK = *req.TopK
		if topK < 1 || topK > s.opts.MaxTopK {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("topK must be between 1 and %d", s.opts.MaxTopK))
			return searchuc.Response{}, false
		}
	}

	q, err := query.New(req.Query, req.TenantID)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return searchuc.Response{}, false
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.SearchTopK(ctx, q, topK)
	setUsageHeaders(w, usage)
	if resp.Outcome != "" {
		w.Header().Set(HeaderSearchOutcome, string(resp.Outcome))
	}
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return searchuc.Response{}, false
	}

	w.Header().Set(metrics.DegradedHeader, strconv.FormatBool(resp.Degraded))
	return resp, true
}

// HealthCheck handles GET /search/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.Usage) {
	if usage != nil && usage.EmbeddingCalls > 0 {
		w.Header().Set(HeaderEmbeddingTokens, strconv.Itoa(usage.EmbeddingTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:  code,
		Error: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func canceledHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, context.Canceled) {
		return false
	}
	writeError(w, statusClientClosedRequest, ErrorCodeCanceled, "request canceled")
	return true
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx)
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func resultsToItems(rs []result.Result) []SearchResultItem {
	items := make([]SearchResultItem, len(rs))
	for i := range rs {
		items[i] = resultToItem(&rs[i])
	}
	return items
}

func resultToItem(r *result.Result) SearchResultItem {
	return SearchResultItem{
		Platform:  string(r.Platform()),
		Title:     r.Title(),
		Preview:   r.Preview(),
		Timestamp: r.Timestamp(),
		Link:      r.Link(),
		Score:     r.Score(),
		Content:   r.Content(),
	}
}
