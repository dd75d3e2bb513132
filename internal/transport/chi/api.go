package chi

// ErrorCode is a machine-readable error classifier returned to API clients.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest           ErrorCode = "bad_request"
	ErrorCodeValidationFailed     ErrorCode = "validation_failed"
	ErrorCodeUnauthorized         ErrorCode = "unauthorized"
	ErrorCodeIndexUnauthorized    ErrorCode = "index_unauthorized"
	ErrorCodeIndexNotFound        ErrorCode = "index_not_found"
	ErrorCodeIndexUnavailable     ErrorCode = "index_unavailable"
	ErrorCodeEmbeddingUnavailable ErrorCode = "embedding_unavailable"
	ErrorCodeConfigurationMissing ErrorCode = "configuration_missing"
	ErrorCodeCanceled             ErrorCode = "canceled"
	ErrorCodeInternalError        ErrorCode = "internal_error"
)

// SearchRequest is the body of POST /search/semantic.
type SearchRequest struct {
	Query    string `json:"query"`
	TenantID string `json:"tenantId"`
	TopK     *int   `json:"topK,omitempty"`
}

// SearchResultItem is one canonical result on the wire.
type SearchResultItem struct {
	Platform  string  `json:"platform"`
	Title     string  `json:"title"`
	Preview   string  `json:"preview"`
	Timestamp string  `json:"timestamp"`
	Link      string  `json:"link"`
	Score     float64 `json:"score"`
	Content   string  `json:"content,omitempty"`
}

// SearchEnvelope is the body of POST /search/semantic/envelope.
type SearchEnvelope struct {
	Results  []SearchResultItem `json:"results"`
	Degraded bool               `json:"degraded"`
}

// HealthResponse is the body of GET /search/health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse carries a fixed human-readable message. Upstream payloads never appear here.
type ErrorResponse struct {
	Code  ErrorCode `json:"code"`
	Error string    `json:"error"`
}
