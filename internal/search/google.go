// Package search fetches web-search results from Google Custom Search.
// A missing key or engine id makes the client report ErrNotConfigured;
// callers degrade to an empty result set rather than failing the request.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"
	searchTimeout  = 8 * time.Second
)

// ErrNotConfigured is returned when the search credentials are absent.
var ErrNotConfigured = errors.New("search not configured")

// Result is one ranked search hit, cited back to the student.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Client queries the Google Custom Search JSON API.
type Client struct {
	apiKey     string
	engineID   string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a search client. Empty credentials are allowed; calls
// will return ErrNotConfigured.
func NewClient(apiKey, engineID string) *Client {
	return &Client{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  defaultBaseURL,
		httpClient: &http.Client{
			Timeout: searchTimeout,
		},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, engineID, baseURL string) *Client {
	c := NewClient(apiKey, engineID)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// searchResponse mirrors the items array of the Custom Search response.
type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search returns up to num ranked results for the query, preserving the
// provider's ordering. Snippets are stripped of any markup.
func (c *Client) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if c.apiKey == "" || c.engineID == "" {
		return nil, ErrNotConfigured
	}
	if num <= 0 {
		num = 3
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("num", strconv.Itoa(num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	results := make([]Result, 0, len(sr.Items))
	for _, it := range sr.Items {
		results = append(results, Result{
			Title:   it.Title,
			Link:    it.Link,
			Snippet: stripTags(it.Snippet),
		})
	}
	return results, nil
}
