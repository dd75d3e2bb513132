package domain

// Upstream defaults taken over from the original deployment.
const (
	DefaultEmbeddingModel = "text-embedding-ada-002"
	DefaultEmbeddingURL   = "https://api.openai.com/v1"
	DefaultIndexURL       = "https://api.pinecone.io/v1"
	DefaultDimensions     = 1536
	DefaultTopK           = 10
)

// Credentials are the opaque values the pipeline needs to reach its upstreams.
// They are held in memory only.
type Credentials struct {
	EmbeddingAPIKey string
	IndexAPIKey     string
	IndexName       string
}

// Missing lists the absent credential fields by config name.
func (c Credentials) Missing() []string {
	var out []string
	if c.EmbeddingAPIKey == "" {
		out = append(out, "embedding_api_key")
	}
	if c.IndexAPIKey == "" {
		out = append(out, "index_api_key")
	}
	if c.IndexName == "" {
		out = append(out, "index_name")
	}
	return out
}

// Complete reports whether every credential field is set.
func (c Credentials) Complete() bool { return len(c.Missing()) == 0 }

// String never prints secrets.
func (c Credentials) String() string {
	return "Credentials{index=" + c.IndexName + "}"
}
