// Package summarize is the single point of LLM invocation. Every
// summarization, classification, mechanism-of-action and tagging call goes
// through Summarizer with its own instruction.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/time/rate"

	"github.com/mikeboe/pharma-news/pkg/failure"
)

// DefaultTemperature keeps repeated calls close to deterministic.
const DefaultTemperature = 0.1

// Generator is the part of llms.Model the summarizer needs.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Config tunes the summarizer. A nil Temperature means DefaultTemperature and
// a zero RequestsPerMinute disables rate limiting.
type Config struct {
	Temperature       *float64
	RequestsPerMinute int
}

type Summarizer struct {
	llm         Generator
	temperature float64
	limiter     *rate.Limiter
}

func New(llm Generator, cfg Config) *Summarizer {
	s := &Summarizer{
		llm:         llm,
		temperature: DefaultTemperature,
	}
	if cfg.Temperature != nil {
		s.temperature = *cfg.Temperature
	}
	if cfg.RequestsPerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return s
}

// Summarize sends instruction as the system message and text as the user
// message, and returns the trimmed reply. Failures are *failure.Failure of
// kind ModelFailure.
func (s *Summarizer) Summarize(ctx context.Context, text, instruction string) (string, error) {
	return s.generate(ctx, text, instruction)
}

// SummarizeJSON runs the same call in JSON mode and decodes the reply into out.
func (s *Summarizer) SummarizeJSON(ctx context.Context, text, instruction string, out any) error {
	content, err := s.generate(ctx, text, instruction, llms.WithJSONMode())
	if err != nil {
		return err
	}

	cleaned := cleanJSONResponse(content)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return failure.Model(fmt.Errorf("failed to parse response: %w, content: %s", err, cleaned))
	}
	return nil
}

func (s *Summarizer) generate(ctx context.Context, text, instruction string, extra ...llms.CallOption) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", failure.Model(fmt.Errorf("rate limiter: %w", err))
		}
	}

	options := append([]llms.CallOption{llms.WithTemperature(s.temperature)}, extra...)
	resp, err := s.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, instruction),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}, options...)
	if err != nil {
		return "", failure.Model(fmt.Errorf("llm generation failed: %w", err))
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", failure.Model(errors.New("llm returned no choices"))
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
