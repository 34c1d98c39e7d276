package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikeboe/pharma-news/pkg/failure"
	"github.com/mikeboe/pharma-news/pkg/search"
)

// Digest summarizes this week's top news for a free-text topic. A limit of
// zero or less uses Config.DigestLimit. Per-item failures are reported in
// DigestItem.Error; only a failed search fails the digest.
func (e *Engine) Digest(ctx context.Context, topic string, limit int) ([]DigestItem, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if limit <= 0 {
		limit = e.Config.DigestLimit
	}

	log := e.Logger.With("topic", topic)
	log.Info("Building news digest", "limit", limit)

	resp, err := e.Searcher.Search(ctx, &search.Request{
		Query:      topic,
		Kind:       search.News,
		Window:     search.Week,
		MaxResults: limit,
		Country:    e.Config.Country,
		Language:   e.Config.Language,
		Domain:     e.Config.Domain,
	})
	if err != nil {
		return nil, failure.Search(err)
	}

	results := resp.Results
	if len(results) > limit {
		results = results[:limit]
	}

	items := make([]DigestItem, 0, len(results))
	for _, r := range results {
		item := DigestItem{Title: r.Title, Link: r.Link, Snippet: r.Snippet, Tags: []string{}}

		text, err := e.Extractor.Extract(ctx, r.Link)
		if err != nil {
			log.Warn("Digest item unavailable", "url", r.Link, "error", err)
			item.Error = err.Error()
			items = append(items, item)
			continue
		}

		summary, err := e.Summarizer.Summarize(ctx, e.articleInput(text), e.Config.Prompts.Digest)
		if err != nil {
			log.Warn("Digest summary failed", "url", r.Link, "error", err)
			item.Error = err.Error()
			items = append(items, item)
			continue
		}
		item.Summary = summary

		if e.Tagger != nil {
			tags, err := e.Tagger.Tags(ctx, summary)
			if err != nil {
				log.Warn("Digest tagging failed", "url", r.Link, "error", err)
				item.Error = err.Error()
			} else {
				item.Tags = tags
			}
		}

		items = append(items, item)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("digest interrupted: %w", err)
	}
	return items, nil
}
