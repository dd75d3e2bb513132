// Package semsearch provides a Go client for the semsearch HTTP API.
//
// The client wraps the semantic search endpoint and the liveness probe:
//
//	client, _ := semsearch.New("http://localhost:8080",
//	    semsearch.WithAPIKey(os.Getenv("SEMSEARCH_API_KEY")),
//	)
//	res, _ := client.Search(ctx, "Q1 planning", semsearch.Tenant("acme"), semsearch.TopK(5))
//	if res.Degraded {
//	    // upstreams failed; res.Results holds the labelled fallback set
//	}
//
// Hard failures (index credential rejected, index missing) are returned as
// *APIError and match ErrIndexUnauthorized / ErrIndexNotFound via errors.Is.
package semsearch
