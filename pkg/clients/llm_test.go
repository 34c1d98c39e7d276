package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/pharma-news/pkg/config"
)

func TestNewLLMMissingKeys(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfig
		want string
	}{
		{"openai default", config.LLMConfig{}, "OPENAI_API_KEY"},
		{"googleai", config.LLMConfig{Provider: "googleai"}, "GOOGLE_API_KEY"},
		{"anthropic", config.LLMConfig{Provider: "anthropic"}, "ANTHROPIC_API_KEY"},
		{"unknown", config.LLMConfig{Provider: "cohere"}, "unknown llm provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm, err := NewLLM(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Nil(t, llm)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLLMOpenAI(t *testing.T) {
	llm, err := NewLLM(context.Background(), config.LLMConfig{
		Provider:     "openai",
		OpenAIApiKey: "sk-test",
		BaseURL:      "http://localhost:1234/v1",
	})
	require.NoError(t, err)
	assert.NotNil(t, llm)
}

func TestNewLLMAnthropic(t *testing.T) {
	llm, err := NewLLM(context.Background(), config.LLMConfig{
		Provider:        "anthropic",
		AnthropicApiKey: "sk-ant-test",
	})
	require.NoError(t, err)
	assert.NotNil(t, llm)
}
