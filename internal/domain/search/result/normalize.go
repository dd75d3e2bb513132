package result

import (
	"sort"
	"unicode/utf8"

	"github.com/kailas-cloud/semsearch/internal/domain/search/match"
)

// Defaults for absent metadata fields.
const (
	DefaultTitle     = "Untitled"
	DefaultPreview   = "No preview available"
	DefaultTimestamp = "Unknown time"
	DefaultLink      = "#"
)

// PreviewLimit is the number of characters kept before the ellipsis.
const PreviewLimit = 150

// Ellipsis marks a truncated preview.
const Ellipsis = "..."

// Order selects how Normalize arranges its output.
type Order int

const (
	// OrderUpstream keeps the order the index returned.
	OrderUpstream Order = iota
	// OrderScoreDesc sorts by score, highest first; ties keep upstream order.
	OrderScoreDesc
)

// Normalize maps raw matches onto results. It never fails.
func Normalize(matches []match.Match, order Order) []Result {
	out := make([]Result, 0, len(matches))
	for i := range matches {
		out = append(out, fromMatch(&matches[i]))
	}
	if order == OrderScoreDesc {
		SortByScore(out)
	}
	return out
}

// SortByScore sorts results by descending score, stable on ties.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
}

// Preview truncates content to PreviewLimit characters plus Ellipsis.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:PreviewLimit]) + Ellipsis
}

func fromMatch(m *match.Match) Result {
	md := m.Metadata()

	platform := PlatformUnknown
	if md.Platform != nil {
		platform = ParsePlatform(*md.Platform)
	}

	content := deref(md.Content, "")
	preview := DefaultPreview
	if content != "" {
		preview = Preview(content)
	}

	return New(
		platform,
		deref(md.Title, DefaultTitle),
		preview,
		deref(md.Timestamp, DefaultTimestamp),
		deref(md.Link, DefaultLink),
		m.Score(),
		content,
	)
}

func deref(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}
