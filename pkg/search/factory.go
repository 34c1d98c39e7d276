package search

import (
	"fmt"

	"github.com/mikeboe/pharma-news/pkg/config"
)

// NewSearcher builds the provider named in cfg.Provider, defaulting to SerpAPI.
func NewSearcher(cfg config.SearchConfig) (Searcher, error) {
	switch cfg.Provider {
	case "", "serpapi":
		if cfg.SerpAPIKey == "" {
			return nil, fmt.Errorf("serpapi api key is missing")
		}
		return NewSerpAPIClient(cfg.SerpAPIKey, cfg.Timeout), nil

	case "tavily":
		if cfg.TavilyAPIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return NewTavilyClient(cfg.TavilyAPIKey, cfg.Timeout), nil

	case "searxng":
		if cfg.SearXNGURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return NewSearXNGClient(cfg.SearXNGURL, cfg.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Provider)
	}
}
