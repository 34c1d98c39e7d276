// Package clients constructs the langchaingo model for the configured provider.
package clients

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/pharma-news/pkg/config"
)

// NewLLM returns the model selected by cfg.Provider: openai (default),
// googleai or anthropic.
func NewLLM(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "", "openai":
		llm, err := OpenAI(cfg.OpenAIApiKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return llm, nil

	case "googleai", "google", "gemini":
		llm, err := GoogleAi(ctx, cfg.GoogleApiKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return llm, nil

	case "anthropic":
		llm, err := AnthropicAI(cfg.AnthropicApiKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return llm, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
