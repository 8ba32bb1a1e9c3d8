package search

const (
	ProviderTavily   = "tavily"
	ProviderDDGHTML  = "ddg-html"
	ProviderBingHTML = "bing-html"
	ProviderBingRSS  = "bing-rss"
	ProviderDDGAPI   = "ddg-api"

	DefaultLimit       = 5
	MaxLimit           = 10
	DefaultTimeoutSecs = 10
	SnippetMaxChars    = 280

	DefaultCacheTTLSecs  = 3600
	MinCacheTTLSecs      = 60
	DefaultCacheCapacity = 1000
	MinCacheCapacity     = 50

	// DefaultUserAgent is sent on every scraping request; the HTML
	// backends return a degraded page to non-browser agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ProviderOrder is the fixed priority order of the fallback chain.
var ProviderOrder = []string{
	ProviderTavily,
	ProviderDDGHTML,
	ProviderBingHTML,
	ProviderBingRSS,
	ProviderDDGAPI,
}

// Config controls provider credentials, endpoints and cache behaviour.
type Config struct {
	UserAgent string `yaml:"user_agent"`

	Tavily   TavilyConfig `yaml:"tavily"`
	DDGHTML  ScrapeConfig `yaml:"ddg_html"`
	BingHTML ScrapeConfig `yaml:"bing_html"`
	BingRSS  ScrapeConfig `yaml:"bing_rss"`
	DDGAPI   ScrapeConfig `yaml:"ddg_api"`

	Cache CacheConfig `yaml:"cache"`
}

// TavilyConfig configures the paid aggregation API. The provider is skipped
// entirely when the key is empty.
type TavilyConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

// ScrapeConfig configures one of the keyless backends.
type ScrapeConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

// CacheConfig bounds the shared result cache.
type CacheConfig struct {
	TTLSecs  int `yaml:"ttl_seconds"`
	Capacity int `yaml:"capacity"`
}

func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	c.Tavily = c.Tavily.withDefaults("https://api.tavily.com")
	c.DDGHTML = c.DDGHTML.withDefaults("https://html.duckduckgo.com/html/")
	c.BingHTML = c.BingHTML.withDefaults("https://www.bing.com/search")
	c.BingRSS = c.BingRSS.withDefaults("https://www.bing.com/search")
	c.DDGAPI = c.DDGAPI.withDefaults("https://api.duckduckgo.com/")
	c.Cache = c.Cache.withDefaults()
	return c
}

func (c TavilyConfig) withDefaults(baseURL string) TavilyConfig {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	return c
}

func (c ScrapeConfig) withDefaults(baseURL string) ScrapeConfig {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	return c
}

func (c CacheConfig) withDefaults() CacheConfig {
	if c.TTLSecs <= 0 {
		c.TTLSecs = DefaultCacheTTLSecs
	}
	if c.TTLSecs < MinCacheTTLSecs {
		c.TTLSecs = MinCacheTTLSecs
	}
	if c.Capacity <= 0 {
		c.Capacity = DefaultCacheCapacity
	}
	if c.Capacity < MinCacheCapacity {
		c.Capacity = MinCacheCapacity
	}
	return c
}

func isEnabled(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}
