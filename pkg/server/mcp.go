package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mikeboe/pharma-news/pkg/research"
)

const (
	mcpServerName    = "pharma-news-mcp"
	mcpServerVersion = "1.0.0"
)

type analyzeCompoundsInput struct {
	Drugs          []string `json:"drugs" jsonschema:"drug or compound names, e.g. Jardiance"`
	IncludeSources bool     `json:"include_sources,omitempty" jsonschema:"include per-article status in each report"`
}

type newsDigestInput struct {
	Topic string `json:"topic" jsonschema:"free-text news topic"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of news items (default 3)"`
}

// NewMCPServer exposes the analysis and digest operations as MCP tools.
func NewMCPServer(analyzer Analyzer, requestTimeout time.Duration) *sdkmcp.Server {
	t := &mcpTools{analyzer: analyzer, timeout: requestTimeout}

	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: mcpServerName, Version: mcpServerVersion}, nil)

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "analyze_compounds",
		Description: "Search, summarize and classify recent news for each drug and return one report per drug.",
	}, t.analyzeCompounds)

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "news_digest",
		Description: "Summarize and tag this week's top news for a topic.",
	}, t.newsDigest)

	return srv
}

// NewMCPHandler serves srv over streamable HTTP. Stateless mode keeps no
// per-client sessions on the server.
func NewMCPHandler(srv *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return srv
	}, &sdkmcp.StreamableHTTPOptions{Stateless: true})
}

type mcpTools struct {
	analyzer Analyzer
	timeout  time.Duration
}

func (t *mcpTools) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout > 0 {
		return context.WithTimeout(ctx, t.timeout)
	}
	return context.WithCancel(ctx)
}

func (t *mcpTools) analyzeCompounds(ctx context.Context, _ *sdkmcp.CallToolRequest, input analyzeCompoundsInput) (*sdkmcp.CallToolResult, any, error) {
	if err := validateDrugs(input.Drugs); err != nil {
		return nil, nil, err
	}

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	reports, err := t.analyzer.Run(ctx, research.RunOptions{
		Compounds:      input.Drugs,
		IncludeSources: input.IncludeSources,
	})
	if err != nil {
		return nil, nil, err
	}
	return textResult(reports)
}

func (t *mcpTools) newsDigest(ctx context.Context, _ *sdkmcp.CallToolRequest, input newsDigestInput) (*sdkmcp.CallToolResult, any, error) {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	items, err := t.analyzer.Digest(ctx, input.Topic, input.Limit)
	if err != nil {
		return nil, nil, err
	}
	if items == nil {
		items = []research.DigestItem{}
	}
	return textResult(items)
}

func textResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
