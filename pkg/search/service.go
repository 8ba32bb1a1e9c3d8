package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
)

// Service is the search orchestrator: classify, consult the cache, drive
// the provider chain, write the winner back through the cache.
type Service struct {
	cache *Cache
	chain *Chain
	log   zerolog.Logger
	now   func() time.Time
}

// NewService builds a Service with its own cache and provider chain from cfg.
func NewService(cfg *Config, log zerolog.Logger) *Service {
	cfg = cfg.WithDefaults()
	return &Service{
		cache: NewCache(time.Duration(cfg.Cache.TTLSecs)*time.Second, cfg.Cache.Capacity),
		chain: NewChain(cfg, log),
		log:   log.With().Str("component", "search").Logger(),
		now:   time.Now,
	}
}

// ErrEmptyQuery is returned for blank queries; it is the only validation
// failure Run produces.
var ErrEmptyQuery = errors.New("search query is empty")

// Run executes one search. The cache is keyed on the original query text,
// not the rewritten variants, so repeated user phrasing maps to one cache
// line regardless of which internal rewrite won.
func (s *Service) Run(ctx context.Context, rawQuery string, limit int) (*Outcome, error) {
	outcome, _, err := s.RunWithAttempts(ctx, rawQuery, limit)
	return outcome, err
}

// RunWithAttempts is Run plus the per-attempt diagnostics from the chain.
// Attempts are nil when the result came from the cache.
func (s *Service) RunWithAttempts(ctx context.Context, rawQuery string, limit int) (*Outcome, []Attempt, error) {
	trimmed := strings.TrimSpace(rawQuery)
	if trimmed == "" {
		return nil, nil, ErrEmptyQuery
	}
	limit = clampLimit(limit)
	depth := queryclass.DepthFor(trimmed)

	if cached := s.cache.Get(trimmed, limit, depth); cached != nil {
		cached.Cached = true
		s.log.Debug().Str("query", trimmed).Msg("serving cached search outcome")
		return cached, nil, nil
	}

	variants := queryclass.Rewrite(trimmed, s.now())
	outcome, attempts, err := s.chain.Run(ctx, variants, limit, depth)
	if err != nil {
		return nil, attempts, err
	}
	if len(outcome.Results) > 0 {
		s.cache.Put(trimmed, limit, depth, outcome)
	}
	s.log.Info().
		Str("query", trimmed).
		Str("provider", outcome.Provider).
		Str("depth", string(depth)).
		Int("results", len(outcome.Results)).
		Msg("search completed")
	return outcome, attempts, nil
}
