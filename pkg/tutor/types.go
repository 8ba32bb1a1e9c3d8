// Package tutor implements the chat side of the pipeline: deciding whether
// a turn needs web search, assembling grounded context and prompts, and
// invoking the chat-completion endpoint.
package tutor

import (
	"github.com/studyloop/tutorbridge/pkg/queryclass"
	"github.com/studyloop/tutorbridge/pkg/search"
)

// Role identifies the author of a chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries one user turn plus its prior history and search
// switches.
type ChatRequest struct {
	Username string
	Message  string
	History  []Turn
	// UseWebSearch enables the search pipeline for this turn.
	UseWebSearch bool
	// AutoWebSearch lets the decision router choose; when false and
	// UseWebSearch is set, search is forced on without consulting it.
	AutoWebSearch bool
	SearchLimit   int
}

// MaxProvenanceResults caps the raw result list echoed back to callers.
const MaxProvenanceResults = 8

// ChatResponse is the answer plus full provenance for one turn.
type ChatResponse struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`

	UsedWebSearch  bool             `json:"used_web_search"`
	SearchReason   string           `json:"search_reason,omitempty"`
	Provider       string           `json:"provider,omitempty"`
	EffectiveQuery string           `json:"effective_query,omitempty"`
	Depth          queryclass.Depth `json:"depth,omitempty"`
	Cached         bool             `json:"cached,omitempty"`
	Results        []search.Result  `json:"results,omitempty"`
	// SearchError is advisory: the turn completed without grounding.
	SearchError string `json:"search_error,omitempty"`
}
