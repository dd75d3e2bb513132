package match

import (
	"fmt"
	"strconv"
)

// metadataAliases lists the accepted upstream keys per field, in priority order.
var metadataAliases = map[string][]string{
	"platform":  {"platform", "source"},
	"title":     {"title", "file_name"},
	"content":   {"content", "text"},
	"timestamp": {"timestamp", "date"},
	"link":      {"link", "url"},
}

// Metadata is the typed view of an upstream metadata payload.
// A nil field means the upstream did not provide it.
type Metadata struct {
	Platform  *string
	Title     *string
	Content   *string
	Timestamp *string
	Link      *string
	// Extra keeps keys that map to no typed field.
	Extra map[string]any
}

// MetadataFromMap converts an arbitrary key-value payload into Metadata.
// Scalars are stringified; empty strings, nested objects and arrays count as absent.
func MetadataFromMap(raw map[string]any) Metadata {
	md := Metadata{}
	used := make(map[string]struct{})

	pick := func(field string) *string {
		for _, key := range metadataAliases[field] {
			v, ok := raw[key]
			if !ok {
				continue
			}
			used[key] = struct{}{}
			if s, ok := scalarString(v); ok && s != "" {
				return &s
			}
		}
		return nil
	}

	md.Platform = pick("platform")
	md.Title = pick("title")
	md.Content = pick("content")
	md.Timestamp = pick("timestamp")
	md.Link = pick("link")

	for k, v := range raw {
		if _, ok := used[k]; ok {
			continue
		}
		if md.Extra == nil {
			md.Extra = make(map[string]any)
		}
		md.Extra[k] = v
	}
	return md
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case int, int64, int32:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

// Match is a single nearest-neighbour hit as returned by the index.
// Score is provider-defined; higher means more similar.
type Match struct {
	id       string
	score    float64
	metadata Metadata
}

// New creates a match.
func New(id string, score float64, md Metadata) Match {
	return Match{id: id, score: score, metadata: md}
}

// ID returns the vector identifier.
func (m *Match) ID() string { return m.id }

// Score returns the similarity score.
func (m *Match) Score() float64 { return m.score }

// Metadata returns the typed metadata.
func (m *Match) Metadata() Metadata { return m.metadata }
