package query

import (
	"fmt"
	"strings"
)

// Query limits.
const (
	// DefaultTenant selects the index root namespace.
	DefaultTenant = "default"
	// MaxQueryLength is the maximum allowed search query length in bytes.
	MaxQueryLength = 4096
	// MaxTenantLength bounds tenant identifiers.
	MaxTenantLength = 256
)

// Query is a validated free-text search request scoped to one tenant.
type Query struct {
	text     string
	tenantID string
}

// New validates a query. Empty text is valid and means "no search".
// An empty tenant resolves to DefaultTenant.
func New(text, tenantID string) (Query, error) {
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		tenantID = DefaultTenant
	}
	if len(tenantID) > MaxTenantLength {
		return Query{}, fmt.Errorf("tenant id too long (max %d chars)", MaxTenantLength)
	}
	return Query{text: text, tenantID: tenantID}, nil
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// TenantID returns the tenant the query is issued under.
func (q Query) TenantID() string { return q.tenantID }

// Blank reports whether the text is empty after trimming whitespace.
func (q Query) Blank() bool { return strings.TrimSpace(q.text) == "" }

// Namespace returns the index partition for the tenant.
// The default tenant maps to "" which means the root namespace.
func (q Query) Namespace() string {
	if q.tenantID == "" || q.tenantID == DefaultTenant {
		return ""
	}
	return q.tenantID
}
