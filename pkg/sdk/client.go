package semsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10

	pathSearchEnvelope = "/search/semantic/envelope"
	pathHealth         = "/search/health"
)

// Client is the semsearch SDK entry point. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	tenant     string
	obs        *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("semsearch: invalid base url %q", baseURL)
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		apiKey:     cfg.apiKey,
		tenant:     cfg.tenant,
		obs:        obs,
	}, nil
}

// Search runs a semantic search. A blank query returns an empty response.
// Degraded responses are not errors: check SearchResponse.Degraded.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (resp *SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	p := searchParams{tenant: c.tenant}
	for _, o := range opts {
		o(&p)
	}

	req := searchRequest{Query: query, TenantID: p.tenant}
	if p.topK != 0 {
		k := p.topK
		req.TopK = &k
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("semsearch: encode request: %w", err)
	}

	var out SearchResponse
	header, err := c.do(ctx, http.MethodPost, pathSearchEnvelope, body, &out)
	if err != nil {
		return nil, err
	}

	if out.Results == nil {
		out.Results = []Result{}
	}
	out.Outcome = header.Get("X-Search-Outcome")
	if v := header.Get("X-Embedding-Tokens"); v != "" {
		out.EmbeddingTokens, _ = strconv.Atoi(v)
	}
	if out.Degraded {
		c.obs.degraded()
	}
	return &out, nil
}

// Health fetches the liveness report. A 503 "error" report is returned without error.
func (c *Client) Health(ctx context.Context) (status HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathHealth, http.NoBody)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("semsearch: build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("semsearch: health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return HealthStatus{}, decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return HealthStatus{}, fmt.Errorf("semsearch: decode health: %w", err)
	}
	return status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("semsearch: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("semsearch: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("semsearch: decode response: %w", err)
	}
	return resp.Header, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Error
	}
	return apiErr
}

// IsHardFailure reports whether err indicates operator misconfiguration of the index.
func IsHardFailure(err error) bool {
	return errors.Is(err, ErrIndexUnauthorized) || errors.Is(err, ErrIndexNotFound)
}
