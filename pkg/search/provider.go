package search

import "context"

// Provider is one external search backend. Implementations make exactly one
// network attempt per Search call, apply their own bounded timeout, and
// return normalized results; retries happen only through variant exhaustion
// in the chain.
type Provider interface {
	Name() string
	Search(ctx context.Context, req Request) ([]Result, error)
}

// buildProviders returns the enabled providers in fixed priority order. The
// paid aggregation API leads, the keyless scraping and instant-answer
// backends follow as free fallbacks.
func buildProviders(cfg *Config) []Provider {
	cfg = cfg.WithDefaults()
	var providers []Provider
	if p := newTavilyProvider(cfg); p != nil {
		providers = append(providers, p)
	}
	if p := newDDGHTMLProvider(cfg); p != nil {
		providers = append(providers, p)
	}
	if p := newBingHTMLProvider(cfg); p != nil {
		providers = append(providers, p)
	}
	if p := newBingRSSProvider(cfg); p != nil {
		providers = append(providers, p)
	}
	if p := newDDGAPIProvider(cfg); p != nil {
		providers = append(providers, p)
	}
	return providers
}
