// Package research runs the per-compound news pipeline: search, fetch,
// summarize, classify and aggregate into a CompoundReport.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikeboe/pharma-news/pkg/classify"
	"github.com/mikeboe/pharma-news/pkg/clients"
	"github.com/mikeboe/pharma-news/pkg/config"
	"github.com/mikeboe/pharma-news/pkg/extract"
	"github.com/mikeboe/pharma-news/pkg/failure"
	"github.com/mikeboe/pharma-news/pkg/search"
	"github.com/mikeboe/pharma-news/pkg/splitter"
	"github.com/mikeboe/pharma-news/pkg/summarize"
)

// TextExtractor is satisfied by *extract.Extractor.
type TextExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Tagger is satisfied by *classify.Tagger.
type Tagger interface {
	Tags(ctx context.Context, summary string) ([]string, error)
}

// Dependencies are the three external boundaries plus ambient services.
type Dependencies struct {
	Searcher   search.Searcher
	Extractor  TextExtractor
	Summarizer classify.TextSummarizer
	// Tagger is optional; without it digest items carry no tags.
	Tagger Tagger
	Logger *slog.Logger
	// Now defaults to time.Now and feeds the year into the latest-news query.
	Now func() time.Time
}

type Engine struct {
	Config     Config
	Searcher   search.Searcher
	Extractor  TextExtractor
	Summarizer classify.TextSummarizer
	Tagger     Tagger
	Logger     *slog.Logger
	Now        func() time.Time
}

func New(cfg Config, deps Dependencies) *Engine {
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = 5
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	if cfg.DigestLimit <= 0 {
		cfg.DigestLimit = 3
	}
	if cfg.Prompts == (Prompts{}) {
		cfg.Prompts = DefaultPrompts()
	}
	if cfg.Placeholders == (config.PlaceholderConfig{}) {
		cfg.Placeholders = config.Default().Placeholder
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		Config:     cfg,
		Searcher:   deps.Searcher,
		Extractor:  deps.Extractor,
		Summarizer: deps.Summarizer,
		Tagger:     deps.Tagger,
		Logger:     logger,
		Now:        now,
	}
}

// NewEngine wires the configured search provider, extractor and model.
func NewEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	pipelineCfg, err := ConfigFrom(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	llm, err := clients.NewLLM(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to init LLM: %w", err)
	}

	searcher, err := search.NewSearcher(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to init searcher: %w", err)
	}

	temperature := cfg.LLM.Temperature
	summarizer := summarize.New(llm, summarize.Config{
		Temperature:       &temperature,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})

	return New(pipelineCfg, Dependencies{
		Searcher:   searcher,
		Extractor:  extract.New(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, extract.Mode(cfg.Fetch.Mode)),
		Summarizer: summarizer,
		Tagger:     classify.NewTagger(summarizer, pipelineCfg.Prompts.Tags),
		Logger:     logger,
	}), nil
}

// pipeline binds a logger and a classifier to the engine for one run.
type pipeline struct {
	*Engine
	log        *slog.Logger
	classifier *classify.Classifier
}

func (e *Engine) with(logger *slog.Logger) *pipeline {
	if logger == nil {
		logger = e.Logger
	}
	return &pipeline{
		Engine:     e,
		log:        logger,
		classifier: classify.New(e.Summarizer, e.Config.Prompts.Classify, logger),
	}
}

// Run analyzes every compound and returns the reports in input order. It
// fails only for invalid input or when ctx ends before all reports are built.
func (e *Engine) Run(ctx context.Context, opts RunOptions) ([]CompoundReport, error) {
	compounds, err := normalizeCompounds(opts.Compounds)
	if err != nil {
		return nil, err
	}

	p := e.with(opts.Logger)
	p.log.Info("Starting analysis", "compounds", compounds, "parallelism", e.Config.Parallelism)

	reports := make([]CompoundReport, len(compounds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Config.Parallelism)

	for i, compound := range compounds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = p.analyze(gctx, compound, opts.IncludeSources)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}
	// Per-article failures absorb cancellation, so check once more.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	p.log.Info("Analysis complete", "compounds", len(reports))
	return reports, nil
}

func normalizeCompounds(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, ErrNoCompounds
	}
	out := make([]string, 0, len(in))
	for i, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, fmt.Errorf("compound %d: %w", i+1, ErrEmptyCompound)
		}
		out = append(out, c)
	}
	return out, nil
}

// AnalyzeCompound builds the report for a single compound.
func (e *Engine) AnalyzeCompound(ctx context.Context, compound string, includeSources bool) CompoundReport {
	return e.with(nil).analyze(ctx, compound, includeSources)
}

// LatestSummary summarizes the top web result for the compound, or returns a
// placeholder describing why it could not.
func (e *Engine) LatestSummary(ctx context.Context, compound string) string {
	return e.with(nil).latestSummary(ctx, compound)
}

// MechanismOfAction asks the model for a one-sentence mechanism of action
// based on the given summaries.
func (e *Engine) MechanismOfAction(ctx context.Context, compound string, summaries []string) string {
	return e.with(nil).mechanismOfAction(ctx, compound, summaries)
}

func (p *pipeline) analyze(ctx context.Context, compound string, includeSources bool) CompoundReport {
	log := p.log.With("compound", compound)
	log.Info("Analyzing compound")

	latest := p.latestSummary(ctx, compound)
	results := p.searchNews(ctx, compound)

	buckets := make(map[classify.Category][]string)
	var summaries []ArticleSummary
	sources := make([]Source, 0, len(results))

	for _, item := range results {
		src := Source{Title: item.Title, Link: item.Link}

		text, err := p.Extractor.Extract(ctx, item.Link)
		if err != nil {
			log.Warn("Skipping article", "url", item.Link, "error", err)
			src.Status, src.Error = SourceFetchFailed, err.Error()
			sources = append(sources, src)
			continue
		}

		summary, err := p.Summarizer.Summarize(ctx, p.articleInput(text), p.Config.Prompts.Article)
		if err != nil {
			log.Warn("Skipping article", "url", item.Link, "error", err)
			src.Status, src.Error = SourceSummarizeFailed, err.Error()
			sources = append(sources, src)
			continue
		}

		category := p.classifier.Classify(ctx, summary)
		log.Debug("Classified article", "url", item.Link, "category", category)

		summaries = append(summaries, ArticleSummary{SourceLink: item.Link, Text: summary})
		buckets[category] = append(buckets[category], summary)

		src.Status, src.Category = SourceIncluded, category
		sources = append(sources, src)
	}

	texts := make([]string, len(summaries))
	for i, s := range summaries {
		texts[i] = s.Text
	}

	report := CompoundReport{
		Molecule:       compound,
		LatestSummary:  latest,
		MoA:            p.mechanismOfAction(ctx, compound, texts),
		RegulatoryNews: p.joinBucket(classify.Regulatory, buckets[classify.Regulatory]),
		ClinicalNews:   p.joinBucket(classify.Clinical, buckets[classify.Clinical]),
		CommercialNews: p.joinBucket(classify.Commercial, buckets[classify.Commercial]),
	}
	if includeSources {
		report.Sources = sources
	}

	log.Info("Compound analyzed",
		"articles", len(results),
		"summarized", len(summaries),
		"regulatory", len(buckets[classify.Regulatory]),
		"clinical", len(buckets[classify.Clinical]),
		"commercial", len(buckets[classify.Commercial]),
		"other", len(buckets[classify.Other]),
	)
	return report
}

func latestQuery(compound string, year int) string {
	return fmt.Sprintf("%s latest drug developments %d", compound, year)
}

func newsQuery(compound string) string {
	return compound + " pharmaceutical news"
}

func (p *pipeline) latestSummary(ctx context.Context, compound string) string {
	ph := p.Config.Placeholders

	resp, err := p.Searcher.Search(ctx, &search.Request{
		Query:      latestQuery(compound, p.Now().Year()),
		Kind:       search.Web,
		MaxResults: 1,
		Country:    p.Config.Country,
		Language:   p.Config.Language,
		Domain:     p.Config.Domain,
	})
	if err != nil {
		p.log.Warn("Latest summary search failed", "compound", compound, "error", failure.Search(err))
		return ph.SearchUnavailable
	}
	if len(resp.Results) == 0 {
		return ph.NoRecentInfo
	}

	top := resp.Results[0]
	text, err := p.Extractor.Extract(ctx, top.Link)
	if err != nil {
		p.log.Warn("Latest summary source unavailable", "compound", compound, "url", top.Link, "error", err)
		return ph.SourceUnavailable
	}

	summary, err := p.Summarizer.Summarize(ctx, p.articleInput(text), p.Config.Prompts.LatestSummary)
	if err != nil {
		p.log.Warn("Latest summary failed", "compound", compound, "error", err)
		return ph.SummaryUnavailable
	}
	return summary
}

// searchNews treats a failed search as zero results.
func (p *pipeline) searchNews(ctx context.Context, compound string) []search.Result {
	resp, err := p.Searcher.Search(ctx, &search.Request{
		Query:      newsQuery(compound),
		Kind:       search.News,
		Window:     p.Config.NewsWindow,
		MaxResults: p.Config.MaxArticles,
		Country:    p.Config.Country,
		Language:   p.Config.Language,
		Domain:     p.Config.Domain,
	})
	if err != nil {
		p.log.Warn("News search failed", "compound", compound, "error", failure.Search(err))
		return nil
	}

	results := resp.Results
	if len(results) > p.Config.MaxArticles {
		results = results[:p.Config.MaxArticles]
	}
	return results
}

func (p *pipeline) mechanismOfAction(ctx context.Context, compound string, summaries []string) string {
	if len(summaries) == 0 {
		return p.Config.Placeholders.MoAUnavailable
	}

	instruction := fmt.Sprintf(p.Config.Prompts.MechanismOfAction, compound)
	moa, err := p.Summarizer.Summarize(ctx, strings.Join(summaries, "\n"), instruction)
	if err != nil {
		p.log.Warn("Mechanism of action failed", "compound", compound, "error", err)
		return p.Config.Placeholders.MoAUnavailable
	}
	return moa
}

// articleInput cuts extracted page text to the model input budget. Summaries
// fed to the classifier and the mechanism-of-action call are never cut.
func (e *Engine) articleInput(text string) string {
	return splitter.Truncate(text, e.Config.MaxInputChars)
}

func (p *pipeline) joinBucket(category classify.Category, summaries []string) string {
	if len(summaries) == 0 {
		return fmt.Sprintf(p.Config.Placeholders.NoNewsFormat, category)
	}
	return strings.Join(summaries, "\n\n")
}
