package search

import (
	"context"
	"encoding/xml"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// bingRSSProvider requests the same Bing backend in its syndication output
// format. The feed is far less markup-heavy than the HTML page, so it
// survives page redesigns that break the scraper.
type bingRSSProvider struct {
	cfg       ScrapeConfig
	userAgent string
}

func newBingRSSProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.BingRSS.Enabled, true) {
		return nil
	}
	return &bingRSSProvider{cfg: cfg.BingRSS, userAgent: cfg.UserAgent}
}

func (p *bingRSSProvider) Name() string {
	return ProviderBingRSS
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
		} `xml:"item"`
	} `xml:"channel"`
}

func (p *bingRSSProvider) Search(ctx context.Context, req Request) ([]Result, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("format", "rss")
	params.Set("count", strconv.Itoa(clampLimit(req.Limit)))
	endpoint := p.cfg.BaseURL + "?" + params.Encode()

	body, _, err := getRaw(ctx, endpoint, browserHeaders(p.userAgent), p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		results = append(results, Result{
			Title:   stripMarkup(item.Title),
			URL:     strings.TrimSpace(item.Link),
			Snippet: stripMarkup(item.Description),
		})
	}
	return normalizeResults(results, req.Limit), nil
}

var markupTagPattern = regexp.MustCompile(`<[^>]+>`)

// stripMarkup drops embedded tags and collapses whitespace; feed items keep
// Bing's <b> highlighting inside escaped description text.
func stripMarkup(value string) string {
	value = markupTagPattern.ReplaceAllString(value, "")
	return strings.Join(strings.Fields(value), " ")
}
