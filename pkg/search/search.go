// Package search performs governed web search for the market research
// agent: query a search engine's HTML endpoint, filter results through
// domain allow/deny lists, and return a JSON payload the agent can consume.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// DefaultAllow keeps results to neutral, reputable market sources.
var DefaultAllow = []string{
	"reuters.com", "bloomberg.com", "bbc.com",
	"ec.europa.eu", "oecd.org", "iso.org",
	"mckinsey.com", "bain.com", "pwc.com",
	"gartner.com", "forrester.com",
}

// DefaultDeny drops low-signal and social domains.
var DefaultDeny = []string{
	"reddit.com", "quora.com", "pinterest.com", "linkedin.com",
}

type ClientConfig struct {
	Endpoint    string
	Region      string
	SafeSearch  string
	TimeLimit   string // d, w, m or y
	AllowList   []string
	DenyList    []string
	MaxResults  int
	RateLimit   float64 // requests per second
	Timeout     time.Duration
	UserAgent   string
}

type Client struct {
	config     ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	allow      []string
	deny       []string
}

func NewWithConfig(config ClientConfig) *Client {
	if config.Endpoint == "" {
		config.Endpoint = "https://html.duckduckgo.com/html/"
	}
	if config.Region == "" {
		config.Region = "eu-en"
	}
	if config.SafeSearch == "" {
		config.SafeSearch = "moderate"
	}
	if config.TimeLimit == "" {
		config.TimeLimit = "y"
	}
	if config.MaxResults == 0 {
		config.MaxResults = 20
	}
	if config.RateLimit == 0 {
		config.RateLimit = 1
	}
	if config.Timeout == 0 {
		config.Timeout = 20 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "supplysift/1.0"
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		allow:      append(append([]string{}, config.AllowList...), DefaultAllow...),
		deny:       append(append([]string{}, DefaultDeny...), config.DenyList...),
	}
}

// SearchResult is one filtered, deduplicated hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Domain  string `json:"domain"`
}

type payloadMeta struct {
	Query       string `json:"query"`
	GeneratedAt int64  `json:"generated_at"`
	Count       int    `json:"count"`
	TimeLimit   string `json:"timelimit"`
	Region      string `json:"region"`
	SafeSearch  string `json:"safesearch"`
}

type payload struct {
	Results []SearchResult `json:"results"`
	Meta    payloadMeta    `json:"meta"`
	Error   string         `json:"error,omitempty"`
}

// Search runs a query and returns the JSON payload the agent consumes.
// Retrieval failures are embedded in the payload rather than returned, so
// the agent always gets a well-formed answer; only context cancellation is
// surfaced as an error.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (string, error) {
	if maxResults <= 0 || maxResults > c.config.MaxResults {
		maxResults = c.config.MaxResults
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	results, err := c.fetch(ctx, query, maxResults)
	out := payload{
		Results: results,
		Meta: payloadMeta{
			Query:       query,
			GeneratedAt: time.Now().Unix(),
			Count:       len(results),
			TimeLimit:   c.config.TimeLimit,
			Region:      c.config.Region,
			SafeSearch:  c.config.SafeSearch,
		},
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		out.Results = []SearchResult{}
		out.Meta.Count = 0
		out.Error = err.Error()
	}
	if out.Results == nil {
		out.Results = []SearchResult{}
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode search payload: %w", err)
	}
	return string(encoded), nil
}

func (c *Client) fetch(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("kl", c.config.Region)
	params.Set("df", c.config.TimeLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search endpoint returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	seen := make(map[string]bool)

	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a")
		href, ok := link.Attr("href")
		if !ok {
			return true
		}

		resolved := resolveRedirect(href)
		if resolved == "" || seen[resolved] {
			return true
		}

		parsed, err := url.Parse(resolved)
		if err != nil {
			return true
		}
		domain := strings.ToLower(parsed.Host)

		// Deny first, then require an allowlist match.
		if matchesDomain(domain, c.deny) {
			return true
		}
		if len(c.allow) > 0 && !matchesDomain(domain, c.allow) {
			return true
		}

		results = append(results, SearchResult{
			Title:   strings.TrimSpace(link.Text()),
			URL:     resolved,
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").Text()),
			Domain:  domain,
		})
		seen[resolved] = true

		return len(results) < maxResults
	})

	return results, nil
}

// resolveRedirect unwraps the engine's redirect links (uddg parameter) back
// to the target URL.
func resolveRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.IsAbs() {
		return href
	}
	return ""
}

func matchesDomain(domain string, list []string) bool {
	for _, entry := range list {
		if strings.HasSuffix(domain, entry) || strings.Contains(domain, entry) {
			return true
		}
	}
	return false
}
