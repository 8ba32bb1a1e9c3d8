package search

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
)

type tavilyProvider struct {
	cfg TavilyConfig
}

func newTavilyProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.Tavily.Enabled, true) {
		return nil
	}
	if strings.TrimSpace(cfg.Tavily.APIKey) == "" {
		return nil
	}
	return &tavilyProvider{cfg: cfg.Tavily}
}

func (p *tavilyProvider) Name() string {
	return ProviderTavily
}

func (p *tavilyProvider) Search(ctx context.Context, req Request) ([]Result, error) {
	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/search"

	// Tavily supports the depth hint natively; the result count is capped
	// per depth the same way the API itself prices it.
	depth := queryclass.NormalizeDepth(string(req.Depth))
	maxResults := clampLimit(req.Limit)
	if depth == queryclass.DepthBasic && maxResults > 5 {
		maxResults = 5
	}

	payload := map[string]any{
		"query":        req.Query,
		"search_depth": string(depth),
		"max_results":  maxResults,
	}
	data, _, err := postJSON(ctx, endpoint, map[string]string{
		"Authorization": "Bearer " + p.cfg.APIKey,
	}, payload, p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Results))
	for _, entry := range resp.Results {
		results = append(results, Result{
			Title:   entry.Title,
			URL:     entry.URL,
			Snippet: entry.Content,
		})
	}
	return normalizeResults(results, req.Limit), nil
}
