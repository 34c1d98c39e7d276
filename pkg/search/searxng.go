package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// SearXNGClient queries a self-hosted SearXNG instance through its JSON API.
type SearXNGClient struct {
	baseURL string
	client  *http.Client
}

var _ Searcher = (*SearXNGClient)(nil)

func NewSearXNGClient(baseURL string, timeout time.Duration) *SearXNGClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &SearXNGClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type searxngResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *SearXNGClient) Search(ctx context.Context, req *Request) (*Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search"

	q := u.Query()
	q.Set("q", req.Query)
	q.Set("format", "json")
	if req.Kind == News {
		q.Set("categories", "news")
	} else {
		q.Set("categories", "general")
	}
	if req.Window != AnyTime {
		q.Set("time_range", string(req.Window))
	}
	if req.Language != "" {
		q.Set("language", req.Language)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("searxng api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp searxngResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	results := make([]Result, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		results = append(results, Result{Title: r.Title, Link: r.URL, Snippet: r.Content})
	}
	return &Response{Results: limit(results, req.MaxResults)}, nil
}
