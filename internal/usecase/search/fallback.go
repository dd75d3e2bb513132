package search

import (
	"strings"

	"github.com/kailas-cloud/semsearch/internal/domain/search/result"
)

// FallbackTitlePrefix marks every synthetic result.
const FallbackTitlePrefix = "[Fallback] "

type fallbackItem struct {
	platform  result.Platform
	title     string
	preview   string
	timestamp string
}

var fallbackCorpus = []fallbackItem{
	{
		platform:  result.PlatformSlack,
		title:     "Team Discussion: Q1 Planning",
		preview:   "Let's align on our key objectives for Q1. I think we should focus on...",
		timestamp: "2 hours ago",
	},
	{
		platform:  result.PlatformJira,
		title:     "PROJ-123: Implement Search Functionality",
		preview:   "Add unified search capability across all connected platforms...",
		timestamp: "1 day ago",
	},
	{
		platform:  result.PlatformConfluence,
		title:     "Project Documentation: Search Engine",
		preview:   "Technical documentation for the unified search engine implementation...",
		timestamp: "3 days ago",
	},
	{
		platform:  result.PlatformDrive,
		title:     "Q1 2025 Strategy Deck.pdf",
		preview:   "Quarterly strategy presentation including market analysis...",
		timestamp: "1 week ago",
	},
}

// Fallback returns the labelled synthetic results for text.
// Items whose title or preview contain text (case-insensitive) are returned;
// when none do, the whole corpus is returned so the set is never empty.
func Fallback(text string) []result.Result {
	needle := strings.ToLower(strings.TrimSpace(text))

	var picked []fallbackItem
	if needle != "" {
		for _, it := range fallbackCorpus {
			if strings.Contains(strings.ToLower(it.title), needle) ||
				strings.Contains(strings.ToLower(it.preview), needle) {
				picked = append(picked, it)
			}
		}
	}
	if len(picked) == 0 {
		picked = fallbackCorpus
	}

	out := make([]result.Result, 0, len(picked))
	for _, it := range picked {
		out = append(out, result.New(
			it.platform, FallbackTitlePrefix+it.title, it.preview,
			it.timestamp, result.DefaultLink, 0, it.preview,
		))
	}
	return out
}
