package search

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ddgHTMLProvider scrapes the DuckDuckGo HTML results page, which is served
// to form-encoded POST requests and is the most stable of the keyless
// backends.
type ddgHTMLProvider struct {
	cfg       ScrapeConfig
	userAgent string
}

func newDDGHTMLProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.DDGHTML.Enabled, true) {
		return nil
	}
	return &ddgHTMLProvider{cfg: cfg.DDGHTML, userAgent: cfg.UserAgent}
}

func (p *ddgHTMLProvider) Name() string {
	return ProviderDDGHTML
}

func (p *ddgHTMLProvider) Search(ctx context.Context, req Request) ([]Result, error) {
	form := url.Values{}
	form.Set("q", req.Query)
	form.Set("kl", "wt-wt")

	body, _, err := postForm(ctx, p.cfg.BaseURL, browserHeaders(p.userAgent), form, p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var results []Result
	doc.Find("div.result").Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("result--ad") {
			return
		}
		anchor := sel.Find("a.result__a").First()
		href, _ := anchor.Attr("href")
		results = append(results, Result{
			Title:   anchor.Text(),
			URL:     decodeDDGRedirect(href),
			Snippet: sel.Find(".result__snippet").Text(),
		})
	})
	return normalizeResults(results, req.Limit), nil
}

// decodeDDGRedirect unwraps DuckDuckGo's /l/?uddg=<escaped-url> redirect
// links; anything else is returned unchanged.
func decodeDDGRedirect(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if !strings.HasPrefix(parsed.Path, "/l/") {
		return raw
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return raw
}
