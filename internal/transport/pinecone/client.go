package pinecone

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

	"go.uber.org/zap"

	"github.com/kailas-cloud/semsearch/internal/domain"
	"github.com/kailas-cloud/semsearch/internal/domain/search/match"
	"github.com/kailas-cloud/semsearch/internal/metrics"
)

const (
	defaultTimeout = 5 * time.Second
	// maxErrorBody bounds how much of an error response is kept for logs.
	maxErrorBody = 512
	apiKeyHeader = "Api-Key"
)

// Client queries a Pinecone-compatible vector index over HTTP.
// It makes exactly one outbound call per Query.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	indexName string
	timeout   time.Duration
	logger    *zap.Logger
}

// Config holds the vector index settings.
type Config struct {
	APIKey     string
	BaseURL    string
	IndexName  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a vector index client.
func NewClient(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = domain.DefaultIndexURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    cfg.APIKey,
		indexName: cfg.IndexName,
		timeout:   timeout,
		logger:    logger,
	}
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace,omitempty"`
}

type queryResponse struct {
	Matches *[]wireMatch `json:"matches"`
}

type wireMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// Query returns up to topK nearest neighbours of vector.
// An empty namespace queries the root space; any other value restricts
// results to that partition. topK <= 0 falls back to domain.DefaultTopK.
func (c *Client) Query(
	ctx context.Context, vector domain.Vector, namespace string, topK int,
) ([]match.Match, error) {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	body, err := json.Marshal(queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	var resp queryResponse
	if err := c.do(ctx, "query", http.MethodPost, c.indexPath("query"), body, &resp); err != nil {
		return nil, err
	}
	if resp.Matches == nil {
		metrics.IndexRequestsTotal.WithLabelValues(c.indexName, "query", "invalid_shape").Inc()
		return nil, fmt.Errorf("response has no matches field: %w: %w",
			domain.ErrInvalidResponseShape, domain.ErrIndexUnavailable)
	}

	out := make([]match.Match, 0, len(*resp.Matches))
	for _, m := range *resp.Matches {
		out = append(out, match.New(m.ID, m.Score, match.MetadataFromMap(m.Metadata)))
	}
	metrics.IndexMatchesReturned.WithLabelValues(c.indexName).Observe(float64(len(out)))
	return out, nil
}

// HealthCheck describes the index, confirming the credential and index name without querying.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.do(ctx, "describe", http.MethodGet, c.indexPath(""), nil, nil); err != nil {
		return fmt.Errorf("describe index: %w", err)
	}
	return nil
}

// IndexName returns the configured index.
func (c *Client) IndexName() string { return c.indexName }

func (c *Client) indexPath(suffix string) string {
	p := c.baseURL + "/indexes/" + url.PathEscape(c.indexName)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.IndexRequestDuration.WithLabelValues(c.indexName, op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues(c.indexName, op, "error").Inc()
		return transportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IndexRequestsTotal.WithLabelValues(c.indexName, op, strconv.Itoa(resp.StatusCode)).Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("Index returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail),
		)
		return statusError(op, resp.StatusCode)
	}
	metrics.IndexRequestsTotal.WithLabelValues(c.indexName, op, "success").Inc()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", op, domain.ErrInvalidResponseShape, domain.ErrIndexUnavailable)
	}
	return nil
}

// statusError maps an HTTP status onto the index error taxonomy.
// 404 and 401/403 are configuration problems; everything else is transient.
func statusError(op string, status int) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("index %s: status %d: %w", op, status, domain.ErrIndexNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("index %s: status %d: %w", op, status, domain.ErrIndexUnauthorized)
	default:
		return fmt.Errorf("index %s: status %d: %w", op, status, domain.ErrIndexUnavailable)
	}
}

func transportError(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("index %s timed out: %w", op, domain.ErrIndexUnavailable)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("index %s canceled: %w: %w", op, domain.ErrIndexUnavailable, context.Canceled)
	default:
		return fmt.Errorf("index %s request failed: %w", op, domain.ErrIndexUnavailable)
	}
}
