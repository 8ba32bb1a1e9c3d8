package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
	"github.com/studyloop/tutorbridge/pkg/search"
)

// ErrEmptyMessage is returned for blank chat messages.
var ErrEmptyMessage = errors.New("chat message is empty")

// Searcher runs one web search; *search.Service satisfies it.
type Searcher interface {
	Run(ctx context.Context, rawQuery string, limit int) (*search.Outcome, error)
}

// Service is the chat orchestrator. One Chat call is one sequential
// pipeline: classification, optional routing, optional search, prompt
// composition, model call. Failures in the augmentation path degrade; only
// model-endpoint failures abort the turn.
type Service struct {
	model             *ModelClient
	router            *Router
	searcher          Searcher
	persona           string
	maxHistoryTurns   int
	historyCharBudget int
	log               zerolog.Logger
	now               func() time.Time
}

// NewService wires the chat orchestrator.
func NewService(model *ModelClient, router *Router, searcher Searcher, persona string, log zerolog.Logger) *Service {
	return &Service{
		model:             model,
		router:            router,
		searcher:          searcher,
		persona:           persona,
		maxHistoryTurns:   DefaultMaxHistoryTurns,
		historyCharBudget: DefaultHistoryCharBudget,
		log:               log.With().Str("component", "chat").Logger(),
		now:               time.Now,
	}
}

// Chat executes one chat turn and returns the answer with full provenance.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if s.model == nil {
		return nil, ErrMissingCredentials
	}

	classification := queryclass.Classify(message)

	// Without a searcher there is nothing to run, so the provenance must
	// not claim search happened.
	runSearch := false
	reason := ""
	if req.UseWebSearch && s.searcher != nil {
		if req.AutoWebSearch {
			runSearch, reason = s.router.ShouldSearch(ctx, message)
		} else {
			runSearch, reason = true, "web search forced on"
		}
	}

	resp := &ChatResponse{
		ID:            uuid.NewString(),
		UsedWebSearch: runSearch,
		SearchReason:  reason,
	}

	var outcome *search.Outcome
	if runSearch {
		result, err := s.searcher.Run(ctx, message, req.SearchLimit)
		if err != nil {
			// Search failures degrade: the turn continues on the
			// model alone, with the error noted for the caller.
			resp.SearchError = err.Error()
			s.log.Warn().Err(err).Str("user", req.Username).Msg("web search failed, answering without context")
		} else {
			outcome = result
		}
	}

	contextBlock := ""
	if outcome != nil {
		contextBlock = BuildContext(outcome.Results)
		resp.Provider = outcome.Provider
		resp.EffectiveQuery = outcome.Query
		resp.Depth = outcome.Depth
		resp.Cached = outcome.Cached
		resp.Results = outcome.Results
		if len(resp.Results) > MaxProvenanceResults {
			resp.Results = resp.Results[:MaxProvenanceResults]
		}
	}

	systemPrompt := buildSystemPrompt(s.persona, classification, contextBlock != "", s.now())

	// Stale dated history poisons "today" questions; drop it entirely.
	var history []Turn
	if !classification.IsTodayRelative {
		history = selectHistory(req.History, s.maxHistoryTurns, s.historyCharBudget)
	}

	userContent := message
	if contextBlock != "" {
		userContent = message + "\n\n" + contextBlock
	}

	turns := make([]Turn, 0, len(history)+2)
	turns = append(turns, Turn{Role: RoleSystem, Content: systemPrompt})
	turns = append(turns, history...)
	turns = append(turns, Turn{Role: RoleUser, Content: userContent})

	answer, err := s.model.Complete(ctx, turns)
	if err != nil {
		return nil, fmt.Errorf("model endpoint: %w", err)
	}
	resp.Answer = answer

	s.log.Info().
		Str("user", req.Username).
		Bool("used_web_search", resp.UsedWebSearch).
		Str("provider", resp.Provider).
		Bool("cached", resp.Cached).
		Msg("chat turn answered")
	return resp, nil
}
