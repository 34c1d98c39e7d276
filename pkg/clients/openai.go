package clients

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

const (
	DefaultOpenAIModel = "gpt-4"
)

// OpenAI also serves OpenAI-compatible endpoints when baseURL is set.
func OpenAI(apiKey, model, baseURL string) (*openai.LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init openai: %w", err)
	}

	return llm, nil
}
