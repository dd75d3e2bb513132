package result

import "strings"

// Platform identifies the knowledge source a result came from.
type Platform string

// Known platforms.
const (
	PlatformSlack      Platform = "slack"
	PlatformJira       Platform = "jira"
	PlatformConfluence Platform = "confluence"
	PlatformDrive      Platform = "drive"
	PlatformUnknown    Platform = "unknown"
)

// ParsePlatform maps an upstream label onto a known platform (case-insensitive).
func ParsePlatform(s string) Platform {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformSlack, PlatformJira, PlatformConfluence, PlatformDrive:
		return p
	default:
		return PlatformUnknown
	}
}

// Result is a single consumer-facing search hit.
type Result struct {
	platform  Platform
	title     string
	preview   string
	timestamp string
	link      string
	score     float64
	content   string
}

// New creates a search result.
func New(
	platform Platform, title, preview, timestamp, link string,
	score float64, content string,
) Result {
	return Result{
		platform: platform, title: title, preview: preview,
		timestamp: timestamp, link: link, score: score, content: content,
	}
}

// Platform returns the source platform.
func (r *Result) Platform() Platform { return r.platform }

// Title returns the display title.
func (r *Result) Title() string { return r.title }

// Preview returns the truncated content.
func (r *Result) Preview() string { return r.preview }

// Timestamp returns the upstream timestamp as given.
func (r *Result) Timestamp() string { return r.timestamp }

// Link returns the deep link, "#" when unknown.
func (r *Result) Link() string { return r.link }

// Score returns the provider-defined similarity score.
func (r *Result) Score() float64 { return r.score }

// Content returns the full text, empty when the upstream had none.
func (r *Result) Content() string { return r.content }
