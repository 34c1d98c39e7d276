package research

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mikeboe/pharma-news/pkg/classify"
	"github.com/mikeboe/pharma-news/pkg/config"
	"github.com/mikeboe/pharma-news/pkg/search"
)

var (
	ErrNoCompounds   = errors.New("no compounds given")
	ErrEmptyCompound = errors.New("compound name is empty")
	ErrEmptyTopic    = errors.New("topic is empty")
)

// Config holds runtime configuration for the pipeline.
type Config struct {
	MaxArticles int
	NewsWindow  search.Window
	Parallelism int
	DigestLimit int
	// MaxInputChars caps extracted page text sent to the model. Zero disables it.
	MaxInputChars int

	Country  string
	Language string
	Domain   string

	Placeholders config.PlaceholderConfig
	Prompts      Prompts
}

// Prompts are the model instructions used at each stage.
type Prompts struct {
	LatestSummary string
	Article       string
	Classify      string
	// MechanismOfAction is a format string receiving the compound name.
	MechanismOfAction string
	Digest            string
	Tags              string
}

func DefaultPrompts() Prompts {
	return Prompts{
		LatestSummary:     "Extract the most recent and important information about this drug in 3 bullet points. Focus on updates from the last 12 months.",
		Article:           "Summarize this pharmaceutical news in 3 bullet points focusing on drug development aspects.",
		Classify:          classify.DefaultInstruction,
		MechanismOfAction: "Identify the mechanism of action for %s from these news summaries. Respond concisely in one sentence.",
		Digest: `You are a smart analyst whose job is to summarize the news provided in 3 bullet points for the leadership team.
The input will be from the text scrapped from the website so ignore website related text and focus only on news text.`,
		Tags: classify.DefaultTagInstruction,
	}
}

// DefaultConfig mirrors config.Default.
func DefaultConfig() Config {
	cfg, _ := ConfigFrom(config.Default())
	return cfg
}

// ConfigFrom derives the pipeline configuration from the application config.
func ConfigFrom(cfg *config.Config) (Config, error) {
	window, err := search.ParseWindow(cfg.Pipeline.NewsWindow)
	if err != nil {
		return Config{}, err
	}

	prompts := DefaultPrompts()
	override(&prompts.LatestSummary, cfg.Prompts.LatestSummary)
	override(&prompts.Article, cfg.Prompts.Article)
	override(&prompts.Classify, cfg.Prompts.Classify)
	override(&prompts.MechanismOfAction, cfg.Prompts.MechanismOfAction)
	override(&prompts.Digest, cfg.Prompts.Digest)
	override(&prompts.Tags, cfg.Prompts.Tags)

	if err := checkFormat("prompts.mechanism_of_action", prompts.MechanismOfAction); err != nil {
		return Config{}, err
	}
	if err := checkFormat("placeholders.no_news_format", cfg.Placeholder.NoNewsFormat); err != nil {
		return Config{}, err
	}

	return Config{
		MaxArticles:   cfg.Pipeline.MaxArticles,
		NewsWindow:    window,
		Parallelism:   cfg.Pipeline.Parallelism,
		DigestLimit:   cfg.Pipeline.DigestLimit,
		MaxInputChars: cfg.LLM.MaxInputChars,
		Country:       cfg.Search.Country,
		Language:      cfg.Search.Language,
		Domain:        cfg.Search.Domain,
		Placeholders:  cfg.Placeholder,
		Prompts:       prompts,
	}, nil
}

// checkFormat requires exactly one %s verb and no other verbs ("%%" is a
// literal percent sign).
func checkFormat(name, format string) error {
	rest := strings.ReplaceAll(format, "%%", "")
	if strings.Count(rest, "%s") != 1 || strings.Count(rest, "%") != 1 {
		return fmt.Errorf("%s must contain exactly one %%s verb: %q", name, format)
	}
	return nil
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// ArticleSummary is the model's summary of one fetched article.
type ArticleSummary struct {
	SourceLink string `json:"source_link"`
	Text       string `json:"text"`
}

type SourceStatus string

const (
	SourceIncluded        SourceStatus = "included"
	SourceFetchFailed     SourceStatus = "fetch_failed"
	SourceSummarizeFailed SourceStatus = "summarize_failed"
)

// Source records what happened to one news result.
type Source struct {
	Title    string            `json:"title"`
	Link     string            `json:"link"`
	Category classify.Category `json:"category,omitempty"`
	Status   SourceStatus      `json:"status"`
	Error    string            `json:"error,omitempty"`
}

// CompoundReport is the per-drug output row.
type CompoundReport struct {
	Molecule       string   `json:"molecule"`
	LatestSummary  string   `json:"latest_summary"`
	MoA            string   `json:"moa"`
	RegulatoryNews string   `json:"regulatory_news"`
	ClinicalNews   string   `json:"clinical_news"`
	CommercialNews string   `json:"commercial_news"`
	Sources        []Source `json:"sources,omitempty"`
}

// DigestItem is one summarized news result for a free-text topic.
type DigestItem struct {
	Title   string   `json:"title"`
	Link    string   `json:"link"`
	Snippet string   `json:"snippet"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
	Error   string   `json:"error,omitempty"`
}

type RunOptions struct {
	Compounds      []string
	IncludeSources bool
	// Logger replaces the engine logger for this run when set.
	Logger *slog.Logger
}
