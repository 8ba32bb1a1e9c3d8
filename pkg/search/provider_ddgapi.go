package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ddgAPIProvider queries the DuckDuckGo instant answer API. It rarely has
// answers for conversational questions, which is why it sits last in the
// chain, but it is structured JSON and never rate-limits.
type ddgAPIProvider struct {
	cfg       ScrapeConfig
	userAgent string
}

func newDDGAPIProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.DDGAPI.Enabled, true) {
		return nil
	}
	return &ddgAPIProvider{cfg: cfg.DDGAPI, userAgent: cfg.UserAgent}
}

func (p *ddgAPIProvider) Name() string {
	return ProviderDDGAPI
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

func (p *ddgAPIProvider) Search(ctx context.Context, req Request) ([]Result, error) {
	endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1",
		strings.TrimRight(p.cfg.BaseURL, "/"), url.QueryEscape(req.Query))

	body, _, err := getRaw(ctx, endpoint, map[string]string{"User-Agent": p.userAgent}, p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Heading       string     `json:"Heading"`
		AbstractText  string     `json:"AbstractText"`
		AbstractURL   string     `json:"AbstractURL"`
		RelatedTopics []ddgTopic `json:"RelatedTopics"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	var results []Result
	if resp.AbstractText != "" && resp.AbstractURL != "" {
		results = append(results, Result{
			Title:   resp.Heading,
			URL:     resp.AbstractURL,
			Snippet: resp.AbstractText,
		})
	}

	// Related topics may nest one level as grouped topic sections; walk
	// them depth-first in document order.
	var appendTopic func(topic ddgTopic)
	appendTopic = func(topic ddgTopic) {
		if topic.FirstURL != "" && topic.Text != "" {
			title, snippet := splitTopicText(topic.Text)
			results = append(results, Result{
				Title:   title,
				URL:     topic.FirstURL,
				Snippet: snippet,
			})
		}
		for _, child := range topic.Topics {
			appendTopic(child)
		}
	}
	for _, topic := range resp.RelatedTopics {
		appendTopic(topic)
	}

	// normalizeResults dedupes by URL; the abstract URL frequently repeats
	// as the first related topic.
	return normalizeResults(results, req.Limit), nil
}

func splitTopicText(text string) (title, snippet string) {
	parts := strings.SplitN(text, " - ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(text), ""
}
