package queryclass

import (
	"fmt"
	"strings"
	"time"
)

// Rewrite derives the ordered query variants to try against search
// providers. The raw trimmed text is always the final element so providers
// get at least one untouched attempt; earlier variants are tuned to defeat
// stale, undated answers for time-sensitive questions.
//
// The reference clock is an argument so callers can inject a fixed time in
// tests; the function itself never reads the wall clock.
func Rewrite(text string, now time.Time) []string {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil
	}

	c := Classify(raw)
	var variants []string
	switch {
	case c.IsDatetimeQuery:
		// Bare "what day is it" queries tend to surface calendar pages
		// instead of the actual date; spelling out the intent works
		// better, with a locale anchor as the second try.
		variants = append(variants,
			raw+" real-time date time weekday",
			raw+" China Beijing time today",
		)
	case c.IsTodayRelative:
		// Providers often return old "today" articles; pinning the
		// actual date in two textual forms pulls in dated coverage.
		variants = append(variants,
			raw+" "+now.Format("2006-01-02"),
			raw+" "+now.Format("January 2, 2006 Monday"),
			raw+" China today news",
		)
	case c.IsTimeSensitive:
		variants = append(variants,
			fmt.Sprintf("%s %d", raw, now.Year()),
			raw+" latest update",
		)
	}
	variants = append(variants, raw)
	return dedupeFold(variants)
}

// dedupeFold removes case-insensitive duplicates while preserving order.
func dedupeFold(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
