package classify

import (
	"context"
	"log/slog"
)

// DefaultInstruction is the fixed classification prompt.
const DefaultInstruction = "Classify this news into ONLY ONE of these categories: Clinical, Regulatory, Commercial. Respond only with the category name."

// TextSummarizer is satisfied by *summarize.Summarizer.
type TextSummarizer interface {
	Summarize(ctx context.Context, text, instruction string) (string, error)
}

type Classifier struct {
	summarizer  TextSummarizer
	instruction string
	logger      *slog.Logger
}

func New(s TextSummarizer, instruction string, logger *slog.Logger) *Classifier {
	if instruction == "" {
		instruction = DefaultInstruction
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{summarizer: s, instruction: instruction, logger: logger}
}

// Classify is total: a model failure yields Other, never an error.
func (c *Classifier) Classify(ctx context.Context, summary string) Category {
	raw, err := c.summarizer.Summarize(ctx, summary, c.instruction)
	if err != nil {
		c.logger.Warn("Classification failed, using Other", "error", err)
		return Other
	}
	return Parse(raw)
}
