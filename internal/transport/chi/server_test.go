package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/semsearch/internal/domain"
	"github.com/kailas-cloud/semsearch/internal/domain/search/match"
	"github.com/kailas-cloud/semsearch/internal/domain/search/query"
	"github.com/kailas-cloud/semsearch/internal/domain/search/result"
	"github.com/kailas-cloud/semsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/semsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/semsearch/internal/usecase/search"
)

// --- Mocks ---

type mockSearcher struct {
	resp    searchuc.Response
	err     error
	gotQ    query.Query
	gotTopK int
	calls   int
}

func (m *mockSearcher) SearchTopK(ctx context.Context, q query.Query, topK int) (searchuc.Response, error) {
	m.calls++
	m.gotQ = q
	m.gotTopK = topK
	domain.UsageFromContext(ctx).AddEmbedding(7)
	return m.resp, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

type fakeEmbedder struct{ calls int }

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	f.calls++
	return domain.EmbeddingResult{Embedding: domain.Vector{0.1, 0.2}, TotalTokens: 3}, nil
}

type fakeIndex struct {
	matches []match.Match
	err     error
}

func (f *fakeIndex) Query(_ context.Context, _ domain.Vector, _ string, _ int) ([]match.Match, error) {
	return f.matches, f.err
}

// --- Helpers ---

func newRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	s.Register(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&e); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return e
}

func sampleResults() []result.Result {
	return []result.Result{
		result.New(result.PlatformJira, "PROJ-1", "preview", "today", "https://jira/1", 0.91, "full"),
		result.New(result.PlatformSlack, "thread", "hi", "yesterday", "#", 0.72, ""),
	}
}

// --- Tests ---

func TestSearchSemantic_ReturnsList(t *testing.T) {
	ms := &mockSearcher{resp: searchuc.Response{Results: sampleResults(), Outcome: searchuc.OutcomeOK}}
	h := newRouter(NewServer(ms, &mockHealth{}, Options{}, nil))

	rr := doJSON(t, h, http.MethodPost, PathSearch, `{"query":"Q1 planning","tenantId":"tenantA","topK":5}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	if rr.Header().Get(metrics.DegradedHeader) != "false" {
		t.Errorf("degraded header: got %q", rr.Header().Get(metrics.DegradedHeader))
	}
	if rr.Header().Get(HeaderEmbeddingTokens) != "7" {
		t.Errorf("tokens header: got %q", rr.Header().Get(HeaderEmbeddingTokens))
	}
	if rr.Header().Get(HeaderSearchOutcome) != "ok" {
		t.Errorf("outcome header: got %q", rr.Header().Get(HeaderSearchOutcome))
	}

	var items []SearchResultItem
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[0].Platform != "jira" || items[0].Score != 0.91 {
		t.Errorf("unexpected items: %+v", items)
	}
	if ms.gotQ.TenantID() != "tenantA" || ms.gotQ.Text() != "Q1 planning" || ms.gotTopK != 5 {
		t.Errorf("unexpected call: tenant=%q text=%q topK=%d", ms.gotQ.TenantID(), ms.gotQ.Text(), ms.gotTopK)
	}
}

func TestSearchSemantic_EmptyEncodesArray(t *testing.T) {
	ms := &mockSearcher{resp: searchuc.Response{Results: []result.Result{}, Outcome: searchuc.OutcomeNoSearch}}
	h := newRouter(NewServer(ms, &mockHealth{}, Options{}, nil))

	rr := doJSON(t, h, http.MethodPost, PathSearch, `{"query":"","tenantId":"default"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("body: got %q, want []", got)
	}
}

func TestSearchSemantic_DegradedHeader(t *testing.T) {
	ms := &mockSearcher{resp: searchuc.Response{
		Results:  searchuc.Fallback("q1"),
		Degraded: true,
		Outcome:  searchuc.OutcomeDegraded,
	}}
	h := newRouter(NewServer(ms, &mockHealth{}, Options{}, nil))

	rr := doJSON(t, h, http.MethodPost, PathSearch, `{"query":"q1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("degraded responses must be 200, got %d", rr.Code)
	}
	if rr.Header().Get(metrics.DegradedHeader) != "true" {
		t.Errorf("degraded header: got %q", rr.Header().Get(metrics.DegradedHeader))
	}
}

func TestSearchSemanticEnvelope(t *testing.T) {
	ms := &mockSearcher{resp: searchuc.Response{
		Results:  searchuc.Fallback("nothing"),
		Degraded: true,
		Outcome:  searchuc.OutcomeDegraded,
	}}
	h := newRouter(NewServer(ms, &mockHealth{}, Options{}, nil))

	rr := doJSON(t, h, http.MethodPost, PathSearchEnvelope, `{"query":"nothing"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var env SearchEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Degraded || len(env.Results) != 4 {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestSearchSemantic_InvalidJSON(t *testing.T) {
	ms := &mockSearcher{}
	h := newRouter(NewServer(ms, &mockHealth{}, Options{}, nil))

	rr := doJSON(t, h, http.MethodPost, PathSearch, `{"query":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != ErrorCodeBadRequest {
		t.Errorf("code: got %q", e.Code)
	}
	if ms.calls != 0 {
		t.Error("searcher must not be called on bad input")
	}
}

func TestSearchSemantic_TopKValidation(t *testing.T) {
	ms := &mockSearcher{}
	h := newRouter(NewServer(ms, &mockHealth{}, Options{MaxTopK: 50}, nil))

	for _, body := range []string{`{"query":"x","topK":0}`, `{"query":"x","topK":51}`, `{"query":"x","topK":-1}`} {
		rr := doJSON(t, h, http.MethodPost, PathSearch, body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", body, rr.Code)
		}
	}
	if ms.calls != 0 {
		t.Error("searcher must not be called on invalid topK")
	}
}

func TestSearchSemantic_QueryTooLong(t *testing.T) {
	h := newRouter(NewServer(&mockSearcher{}, &mockHealth{}, Options{}, nil))
	body := fmt.Sprintf(`{"query":%q}`, strings.Repeat("a", query.MaxQueryLength+1))

	rr := doJSON(t, h, http.MethodPost, PathSearch, body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != ErrorCodeValidationFailed {
		t.Errorf("code: got %q", e.Code)
	}
}

func TestSearchSemantic_HardErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   ErrorCode
	}{
		{fmt.Errorf("query index: %w", domain.ErrIndexUnauthorized), http.StatusBadGateway, ErrorCodeIndexUnauthorized},
		{fmt.Errorf("query index: %w", domain.ErrIndexNotFound), http.StatusBadGateway, ErrorCodeIndexNotFound},
		{domain.ErrIndexUnavailable, http.StatusServiceUnavailable, ErrorCodeIndexUnavailable},
		{domain.ErrEmbeddingUnavailable, http.StatusServiceUnavailable, ErrorCodeEmbeddingUnavailable},
		{domain.ErrConfigurationMissing, http.StatusServiceUnavailable, ErrorCodeConfigurationMissing},
		{fmt.Errorf("%w: aborted", context.Canceled), statusClientClosedRequest, ErrorCodeCanceled},
		{fmt.Errorf("something odd"), http.StatusInternalServerError, ErrorCodeInternalError},
	}

	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			ms := &mockSearcher{
				resp: searchuc.Response{Outcome: searchuc.OutcomeFailed},
				err:  tc.err,
			}
			h := newRouter(NewServer(ms, &mockHealth{}, Options{}, nil))

			rr := doJSON(t, h, http.MethodPost, PathSearch, `{"query":"x"}`)
			if rr.Code != tc.status {
				t.Fatalf("status: got %d, want %d", rr.Code, tc.status)
			}
			e := decodeError(t, rr)
			if e.Code != tc.code {
				t.Errorf("code: got %q, want %q", e.Code, tc.code)
			}
			if e.Error == "" || strings.Contains(e.Error, "query index") {
				t.Errorf("message must be fixed and non-empty, got %q", e.Error)
			}
		})
	}
}

func TestSearchSemantic_EndToEnd(t *testing.T) {
	emb := &fakeEmbedder{}
	idx := &fakeIndex{matches: []match.Match{
		match.New("a", 0.72, match.MetadataFromMap(map[string]any{"platform": "slack", "title": "A"})),
		match.New("b", 0.91, match.MetadataFromMap(map[string]any{"source": "jira", "title": "B"})),
	}}
	svc := searchuc.New(emb, idx, searchuc.Config{Credentials: domain.Credentials{
		EmbeddingAPIKey: "sk", IndexAPIKey: "pc", IndexName: "kb",
	}}, nil)
	h := newRouter(NewServer(svc, &mockHealth{}, Options{}, nil))

	rr := doJSON(t, h, http.MethodPost, PathSearch, `{"query":"Q1 planning","tenantId":"default"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var items []SearchResultItem
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[0].Score != 0.91 || items[1].Score != 0.72 {
		t.Fatalf("expected [0.91 0.72], got %+v", items)
	}
	if items[0].Link != "#" || items[0].Preview != result.DefaultPreview {
		t.Errorf("defaults not applied: %+v", items[0])
	}
}

func TestSearchSemantic_EndToEndNetworkError(t *testing.T) {
	idx := &fakeIndex{err: fmt.Errorf("dial: %w", domain.ErrIndexUnavailable)}
	svc := searchuc.New(&fakeEmbedder{}, idx, searchuc.Config{Credentials: domain.Credentials{
		EmbeddingAPIKey: "sk", IndexAPIKey: "pc", IndexName: "kb",
	}}, nil)
	h := newRouter(NewServer(svc, &mockHealth{}, Options{}, nil))

	rr := doJSON(t, h, http.MethodPost, PathSearch, `{"query":"Q1 planning"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("network errors must degrade with 200, got %d", rr.Code)
	}
	if rr.Header().Get(metrics.DegradedHeader) != "true" {
		t.Error("expected degraded header")
	}
}

func TestSearchSemantic_EndToEndBlank(t *testing.T) {
	emb := &fakeEmbedder{}
	svc := searchuc.New(emb, &fakeIndex{}, searchuc.Config{}, nil)
	h := newRouter(NewServer(svc, &mockHealth{}, Options{}, nil))

	rr := doJSON(t, h, http.MethodPost, PathSearch, `{"query":"","tenantId":"default"}`)
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected 200 [], got %d %q", rr.Code, rr.Body.String())
	}
	if emb.calls != 0 {
		t.Error("blank query must not reach the embedder")
	}
	if rr.Header().Get(HeaderEmbeddingTokens) != "" {
		t.Error("no token header expected without embedding calls")
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		report healthuc.Report
		status int
	}{
		{"ok", healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"embedding": healthuc.CheckOK, "index": healthuc.CheckOK},
		}, http.StatusOK},
		{"error", healthuc.Report{
			Status: healthuc.Unhealthy,
			Checks: map[string]healthuc.CheckResult{"configuration": healthuc.CheckError},
		}, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newRouter(NewServer(&mockSearcher{}, &mockHealth{report: tc.report}, Options{}, nil))

			rr := doJSON(t, h, http.MethodGet, PathHealth, "")
			if rr.Code != tc.status {
				t.Fatalf("status: got %d, want %d", rr.Code, tc.status)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != string(tc.report.Status) {
				t.Errorf("status field: got %q, want %q", resp.Status, tc.report.Status)
			}
			if len(resp.Checks) != len(tc.report.Checks) {
				t.Errorf("checks: got %v", resp.Checks)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newRouter(NewServer(&mockSearcher{}, &mockHealth{}, Options{}, nil))

	rr := doJSON(t, h, http.MethodGet, PathMetrics, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
}
