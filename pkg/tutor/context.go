package tutor

import (
	"fmt"
	"strings"

	"github.com/studyloop/tutorbridge/pkg/search"
)

const (
	contextStartMarker = "[WEB SEARCH RESULTS START]"
	contextEndMarker   = "[WEB SEARCH RESULTS END]"
)

// BuildContext renders a ranked result list as the numbered citation block
// inserted beneath the user message. Entries without a URL are skipped; an
// empty block is signalled by an empty string, which callers must treat as
// "no context available", not as an error.
func BuildContext(results []search.Result) string {
	var lines []string
	index := 0
	for _, r := range results {
		u := strings.TrimSpace(r.URL)
		if u == "" {
			continue
		}
		index++
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = u
		}
		snippet := strings.TrimSpace(r.Snippet)
		if snippet == "" {
			snippet = "N/A"
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%s): %s", index, title, u, snippet))
	}
	if len(lines) == 0 {
		return ""
	}
	return contextStartMarker + "\n" + strings.Join(lines, "\n") + "\n" + contextEndMarker
}
