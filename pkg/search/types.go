package search

import (
	"strings"
	"unicode/utf8"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
)

// Request is a single normalized provider attempt: one query variant, a
// clamped result limit and a depth hint.
type Request struct {
	Query string
	Limit int
	Depth queryclass.Depth
}

// Result is a normalized search result. URL is always non-empty and unique
// within a result set; Title falls back to the URL when the provider gave
// none.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Outcome is the resolved result of one search invocation.
type Outcome struct {
	// Query is the effective query string: the variant that produced the
	// results, or the raw query when nothing won.
	Query    string           `json:"query"`
	Provider string           `json:"provider"`
	Depth    queryclass.Depth `json:"depth"`
	Cached   bool             `json:"cached"`
	Results  []Result         `json:"results"`
}

// Attempt records one (provider, variant) try for diagnostics.
type Attempt struct {
	Provider string `json:"provider"`
	Query    string `json:"query"`
	Results  int    `json:"results"`
	Err      string `json:"error,omitempty"`
}

// clampLimit bounds a requested result count to 1..MaxLimit, defaulting to
// DefaultLimit when unset.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// normalizeResults enforces the per-result invariants on a provider's raw
// output: entries without a URL are dropped, duplicate URLs are dropped,
// empty titles fall back to the URL, and snippets are cut at the fixed cap.
func normalizeResults(results []Result, limit int) []Result {
	limit = clampLimit(limit)
	seen := make(map[string]bool, len(results))
	out := make([]Result, 0, limit)
	for _, r := range results {
		u := strings.TrimSpace(r.URL)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = u
		}
		out = append(out, Result{
			Title:   title,
			URL:     u,
			Snippet: truncate(r.Snippet, SnippetMaxChars),
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// truncate caps a string at max runes, not bytes, so Chinese text gets the
// same effective cap as English.
func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 0 || utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return strings.TrimRight(string(runes[:max]), " ") + "..."
}
