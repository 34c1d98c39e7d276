// Package extract fetches article pages and pulls out their readable text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/mikeboe/pharma-news/pkg/failure"
)

// Mode selects how text is pulled out of a fetched page.
type Mode string

const (
	// ModeParagraphs joins the text of every <p> element.
	ModeParagraphs Mode = "paragraphs"
	// ModeReadability keeps the main article body as detected by go-readability.
	ModeReadability Mode = "readability"
)

const (
	DefaultTimeout = 15 * time.Second
	maxBodyBytes   = 5 << 20
)

var paragraphSelector = cascadia.MustCompile("p")

// Extractor fetches a URL and returns its text content.
type Extractor struct {
	client    *http.Client
	userAgent string
	mode      Mode
}

// New creates an Extractor. A zero timeout falls back to DefaultTimeout and an
// unknown mode falls back to ModeParagraphs.
func New(timeout time.Duration, userAgent string, mode Mode) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if mode != ModeReadability {
		mode = ModeParagraphs
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		mode:      mode,
	}
}

// Extract fetches rawURL and returns the page text. Every failure comes back as
// a *failure.Failure of kind FetchFailure or ParseFailure.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", failure.Fetch(fmt.Errorf("invalid url %q: %w", rawURL, err))
	}
	if (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return "", failure.Fetch(fmt.Errorf("invalid url %q", rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", failure.Fetch(fmt.Errorf("failed to create request: %w", err))
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", failure.Fetch(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", failure.Fetch(fmt.Errorf("unexpected status %d from %s", resp.StatusCode, pageURL.Host))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", failure.Fetch(fmt.Errorf("failed to read body: %w", err))
	}

	body, err = decodeUTF8(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", failure.Parse(err)
	}

	var text string
	if e.mode == ModeReadability {
		text, err = articleText(body, pageURL)
	} else {
		text, err = Paragraphs(bytes.NewReader(body))
	}
	if err != nil {
		return "", failure.Parse(err)
	}
	if text == "" {
		return "", failure.Parse(errors.New("no text content found"))
	}
	return text, nil
}

// decodeUTF8 converts body to UTF-8 using the BOM, the Content-Type charset or
// a <meta> charset declaration, in that order.
func decodeUTF8(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	return decoded, nil
}

// Paragraphs parses an HTML document and joins the trimmed text of every
// non-empty <p> element with newlines, in document order.
func Paragraphs(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var paragraphs []string
	for _, p := range paragraphSelector.MatchAll(doc) {
		if text := nodeText(p); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// nodeText concatenates every descendant text fragment, each trimmed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func articleText(body []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability failed: %w", err)
	}
	return strings.TrimSpace(article.TextContent), nil
}
