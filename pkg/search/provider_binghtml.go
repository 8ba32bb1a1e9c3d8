package search

import (
	"bytes"
	"context"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// bingHTMLProvider scrapes the Bing results page fetched with a plain
// query-string GET. Organic results live in li.b_algo list items.
type bingHTMLProvider struct {
	cfg       ScrapeConfig
	userAgent string
}

func newBingHTMLProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.BingHTML.Enabled, true) {
		return nil
	}
	return &bingHTMLProvider{cfg: cfg.BingHTML, userAgent: cfg.UserAgent}
}

func (p *bingHTMLProvider) Name() string {
	return ProviderBingHTML
}

func (p *bingHTMLProvider) Search(ctx context.Context, req Request) ([]Result, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("count", strconv.Itoa(clampLimit(req.Limit)))
	endpoint := p.cfg.BaseURL + "?" + params.Encode()

	body, _, err := getRaw(ctx, endpoint, browserHeaders(p.userAgent), p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var results []Result
	doc.Find("li.b_algo").Each(func(_ int, sel *goquery.Selection) {
		anchor := sel.Find("h2 a").First()
		href, _ := anchor.Attr("href")
		snippet := sel.Find("div.b_caption p").First().Text()
		if snippet == "" {
			snippet = sel.Find("p").First().Text()
		}
		results = append(results, Result{
			Title:   anchor.Text(),
			URL:     href,
			Snippet: snippet,
		})
	})
	return normalizeResults(results, req.Limit), nil
}
