package semsearch

// Platform values returned by the server.
const (
	PlatformSlack      = "slack"
	PlatformJira       = "jira"
	PlatformConfluence = "confluence"
	PlatformDrive      = "drive"
	PlatformUnknown    = "unknown"
)

// Result is one search hit.
type Result struct {
	Platform  string  `json:"platform"`
	Title     string  `json:"title"`
	Preview   string  `json:"preview"`
	Timestamp string  `json:"timestamp"`
	Link      string  `json:"link"`
	Score     float64 `json:"score"`
	Content   string  `json:"content,omitempty"`
}

// SearchResponse is the outcome of a search.
type SearchResponse struct {
	Results  []Result `json:"results"`
	Degraded bool     `json:"degraded"`
	// Outcome is the server's terminal state: no_search, ok, empty, degraded.
	Outcome string `json:"-"`
	// EmbeddingTokens is the token cost reported by the server, 0 when not reported.
	EmbeddingTokens int `json:"-"`
}

// HealthStatus represents the server liveness report.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"/"skipped"
}

// Healthy reports whether the server can serve real results.
func (h HealthStatus) Healthy() bool { return h.Status == "ok" }

type searchRequest struct {
	Query    string `json:"query"`
	TenantID string `json:"tenantId,omitempty"`
	TopK     *int   `json:"topK,omitempty"`
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
