// Package search runs web and news queries against a configurable provider.
package search

import (
	"context"
	"fmt"
	"strings"
)

// Kind selects between organic web results and news results.
type Kind string

const (
	Web  Kind = "web"
	News Kind = "news"
)

// Window restricts results to a recent time range. The zero value means no
// restriction.
type Window string

const (
	AnyTime Window = ""
	Day     Window = "day"
	Week    Window = "week"
	Month   Window = "month"
	Year    Window = "year"
)

// ParseWindow accepts day, week, month, year or an empty string.
func ParseWindow(s string) (Window, error) {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case AnyTime, Day, Week, Month, Year:
		return w, nil
	default:
		return AnyTime, fmt.Errorf("unknown time window %q", s)
	}
}

// Searcher is implemented by every provider client.
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

type Request struct {
	Query      string
	Kind       Kind
	Window     Window
	MaxResults int

	// Locale hints; providers that do not support them ignore them.
	Country  string
	Language string
	Domain   string
}

// Response holds results in provider rank order. An empty Results slice is a
// valid answer, not an error.
type Response struct {
	Results []Result
}

type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

func limit(results []Result, max int) []Result {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}
