// Package news fetches live headlines from NewsAPI and formats them for
// the student. Every failure degrades to a human-readable string; the
// chat pipeline never errors out on a news request.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://newsapi.org/v2"
	newsTimeout    = 10 * time.Second
	maxHeadlines   = 5
)

// Fixed degrade strings returned in place of headlines.
const (
	msgNoKey      = "News API key not configured. Cannot fetch news."
	msgNoArticles = "No news headlines found for your request."
)

// Article is one NewsAPI listing.
type Article struct {
	Title  string `json:"title"`
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Client queries the NewsAPI REST endpoints.
type Client struct {
	apiKey     string
	country    string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a news client. country is the default top-headlines
// country code (e.g. "in"); an empty apiKey is allowed and degrades at
// call time.
func NewClient(apiKey, country string) *Client {
	if country == "" {
		country = "in"
	}
	return &Client{
		apiKey:  apiKey,
		country: country,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: newsTimeout,
		},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, country, baseURL string) *Client {
	c := NewClient(apiKey, country)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type headlinesResponse struct {
	Status   string    `json:"status"`
	Articles []Article `json:"articles"`
}

// TopHeadlines fetches headlines for a country/category/language triple.
func (c *Client) TopHeadlines(ctx context.Context, country, category, lang string) ([]Article, error) {
	params := url.Values{}
	params.Set("country", country)
	params.Set("category", category)
	if lang != "" {
		params.Set("language", lang)
	}
	return c.fetch(ctx, "/top-headlines", params)
}

// Everything searches all indexed articles for a query, ranked by relevancy.
func (c *Client) Everything(ctx context.Context, query, lang string) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "relevancy")
	if lang != "" {
		params.Set("language", lang)
	}
	return c.fetch(ctx, "/everything", params)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]Article, error) {
	ctx, cancel := context.WithTimeout(ctx, newsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating news request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news: unexpected status %d", resp.StatusCode)
	}

	var hr headlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return nil, fmt.Errorf("decoding news response: %w", err)
	}
	if hr.Status != "ok" {
		return nil, fmt.Errorf("news: status %q", hr.Status)
	}
	return hr.Articles, nil
}

// Headlines returns a formatted headline list for the requested language
// and category. It implements the degrade-to-string policy: missing key,
// empty results after the English fallback, and provider errors all come
// back as normal reply text.
func (c *Client) Headlines(ctx context.Context, lang, category string) string {
	if c.apiKey == "" {
		return msgNoKey
	}

	articles, err := c.TopHeadlines(ctx, c.country, category, lang)
	if err != nil {
		return fmt.Sprintf("An error occurred while fetching news: %v", err)
	}

	// Fallback to English/US headlines when the requested language has none.
	if len(articles) == 0 {
		articles, err = c.TopHeadlines(ctx, "us", "general", "en")
		if err != nil {
			return fmt.Sprintf("An error occurred while fetching news: %v", err)
		}
	}
	if len(articles) == 0 {
		return msgNoArticles
	}

	return FormatHeadlines(articles)
}

// FormatHeadlines renders up to five articles as a numbered Markdown list.
func FormatHeadlines(articles []Article) string {
	var sb strings.Builder
	sb.WriteString("Top Headlines:")

	n := len(articles)
	if n > maxHeadlines {
		n = maxHeadlines
	}
	for i := 0; i < n; i++ {
		title := articles[i].Title
		if title == "" {
			title = "No Title"
		}
		source := articles[i].Source.Name
		if source == "" {
			source = "Unknown Source"
		}
		fmt.Fprintf(&sb, "\n**%d. %s** (Source: %s)", i+1, title, source)
	}
	return sb.String()
}
