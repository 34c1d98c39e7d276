package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const serpAPIBaseURL = "https://serpapi.com/search.json"

// SerpAPIClient queries Google through SerpAPI.
type SerpAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Searcher = (*SerpAPIClient)(nil)

// NewSerpAPIClient creates a client. A zero timeout means no client-side limit.
func NewSerpAPIClient(apiKey string, timeout time.Duration) *SerpAPIClient {
	return &SerpAPIClient{
		apiKey:  apiKey,
		baseURL: serpAPIBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type serpAPIResponse struct {
	Error          string          `json:"error"`
	OrganicResults []serpAPIResult `json:"organic_results"`
	NewsResults    []serpAPIResult `json:"news_results"`
}

type serpAPIResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

var serpAPIWindows = map[Window]string{
	Day:   "qdr:d",
	Week:  "qdr:w",
	Month: "qdr:m",
	Year:  "qdr:y",
}

func (c *SerpAPIClient) Search(ctx context.Context, req *Request) (*Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("engine", "google")
	q.Set("q", req.Query)
	if req.Domain != "" {
		q.Set("google_domain", req.Domain)
	}
	if req.Country != "" {
		q.Set("gl", req.Country)
	}
	if req.Language != "" {
		q.Set("hl", req.Language)
	}
	if req.MaxResults > 0 {
		q.Set("num", strconv.Itoa(req.MaxResults))
	}
	if req.Kind == News {
		q.Set("tbm", "nws")
	}
	if tbs, ok := serpAPIWindows[req.Window]; ok {
		q.Set("tbs", tbs)
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

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp serpAPIResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	if searchResp.Error != "" && !isEmptyResultsError(searchResp.Error) {
		return nil, errors.New("serpapi error: " + searchResp.Error)
	}

	raw := searchResp.OrganicResults
	if req.Kind == News {
		raw = searchResp.NewsResults
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		results = append(results, Result{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
	}
	return &Response{Results: limit(results, req.MaxResults)}, nil
}

// SerpAPI reports a query without hits through the error field.
func isEmptyResultsError(msg string) bool {
	return msg == "Google hasn't returned any results for this query."
}
