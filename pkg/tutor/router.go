package tutor

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
)

const routerSystemPrompt = `You decide whether answering a student's question correctly requires current, real-world information from a web search.

Rules:
- Current date/time, news, weather, prices, exchange rates, sports scores, and anything phrased with "today", "now", "latest" or "recent" (in any language) need web search.
- Timeless, conceptual or educational questions (definitions, math, programming, established historical facts) do not.

Respond with ONLY a JSON object, no prose: {"need_web_search": true|false, "reason": "<short reason>"}`

const (
	heuristicTimeSensitiveReason = "heuristic: time-sensitive"
	heuristicGeneralReason       = "heuristic: general knowledge"
)

type routerVerdict struct {
	NeedWebSearch bool   `json:"need_web_search"`
	Reason        string `json:"reason"`
}

// Router decides per turn whether web search should run: a constrained
// model call with a deterministic local heuristic as backstop.
type Router struct {
	model *ModelClient
	log   zerolog.Logger
}

// NewRouter creates a Router. A nil model client is allowed and routes
// every decision through the heuristic.
func NewRouter(model *ModelClient, log zerolog.Logger) *Router {
	return &Router{model: model, log: log.With().Str("component", "decision_router").Logger()}
}

// ShouldSearch reports whether the message needs web search and why. It
// never fails: any model or parse problem degrades to the local heuristic.
func (r *Router) ShouldSearch(ctx context.Context, message string) (bool, string) {
	if r.model != nil {
		content, err := r.model.Complete(ctx, []Turn{
			{Role: RoleSystem, Content: routerSystemPrompt},
			{Role: RoleUser, Content: message},
		})
		if err != nil {
			r.log.Warn().Err(err).Msg("router model call failed, falling back to heuristic")
		} else if verdict, ok := decodeVerdict(content); ok {
			return verdict.NeedWebSearch, verdict.Reason
		} else {
			r.log.Warn().Str("content", truncateRunes(content, 120)).Msg("router output undecodable, falling back to heuristic")
		}
	}
	return heuristicShouldSearch(message)
}

// heuristicShouldSearch is the deterministic backstop: bilingual
// time-sensitivity patterns against the raw message.
func heuristicShouldSearch(message string) (bool, string) {
	if queryclass.Classify(message).TimeAware() {
		return true, heuristicTimeSensitiveReason
	}
	return false, heuristicGeneralReason
}

// decodeVerdict parses model output permissively: a strict decode of the
// whole text first, then the first balanced brace-delimited substring.
func decodeVerdict(content string) (routerVerdict, bool) {
	var verdict routerVerdict
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return verdict, false
	}
	if err := json.Unmarshal([]byte(trimmed), &verdict); err == nil {
		return verdict, true
	}
	if obj := firstJSONObject(trimmed); obj != "" {
		if err := json.Unmarshal([]byte(obj), &verdict); err == nil {
			return verdict, true
		}
	}
	return routerVerdict{}, false
}

// firstJSONObject returns the first balanced brace-delimited substring, or
// "" when none exists. Braces inside JSON strings are ignored.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
