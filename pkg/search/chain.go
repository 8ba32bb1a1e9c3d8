package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
)

// Chain tries providers strictly sequentially in priority order. Within one
// provider every query variant is tried before the chain moves on; the first
// (provider, variant) pair that yields at least one result wins outright.
type Chain struct {
	providers []Provider
	log       zerolog.Logger
}

// NewChain builds the fallback chain from the enabled providers in cfg.
func NewChain(cfg *Config, log zerolog.Logger) *Chain {
	return &Chain{
		providers: buildProviders(cfg),
		log:       log.With().Str("component", "search_chain").Logger(),
	}
}

// Run executes the chain. The returned attempts cover every (provider,
// variant) pair that was tried, for diagnostics.
//
// An error is returned only when every single attempt failed at the
// transport level; variants that merely produced zero results leave the
// chain without a winner but without an error either.
func (c *Chain) Run(ctx context.Context, variants []string, limit int, depth queryclass.Depth) (*Outcome, []Attempt, error) {
	if len(variants) == 0 {
		return nil, nil, fmt.Errorf("no query variants")
	}
	if len(c.providers) == 0 {
		return nil, nil, fmt.Errorf("no search providers enabled")
	}
	limit = clampLimit(limit)

	var attempts []Attempt
	anySucceeded := false
	lastErrByProvider := make(map[string]string, len(c.providers))

	for _, provider := range c.providers {
		for _, variant := range variants {
			if err := ctx.Err(); err != nil {
				return nil, attempts, err
			}
			results, err := provider.Search(ctx, Request{Query: variant, Limit: limit, Depth: depth})
			attempt := Attempt{Provider: provider.Name(), Query: variant, Results: len(results)}
			if err != nil {
				attempt.Err = err.Error()
				lastErrByProvider[provider.Name()] = err.Error()
				c.log.Debug().
					Err(err).
					Str("provider", provider.Name()).
					Str("variant", variant).
					Msg("search attempt failed")
			} else {
				anySucceeded = true
			}
			attempts = append(attempts, attempt)
			if err == nil && len(results) > 0 {
				c.log.Debug().
					Str("provider", provider.Name()).
					Str("variant", variant).
					Int("results", len(results)).
					Msg("search attempt won")
				return &Outcome{
					Query:    variant,
					Provider: provider.Name(),
					Depth:    depth,
					Results:  results,
				}, attempts, nil
			}
		}
	}

	if !anySucceeded && len(attempts) > 0 {
		return nil, attempts, fmt.Errorf("all search providers failed: %s", aggregateErrors(c.providers, lastErrByProvider))
	}

	// At least one provider answered without results; that is "nothing
	// found", not a failure.
	return &Outcome{Query: variants[len(variants)-1], Depth: depth}, attempts, nil
}

func aggregateErrors(providers []Provider, errs map[string]string) string {
	parts := make([]string, 0, len(errs))
	for _, provider := range providers {
		if msg, ok := errs[provider.Name()]; ok {
			parts = append(parts, provider.Name()+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}
