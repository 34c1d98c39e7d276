package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MAX_ARTICLES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.1, cfg.LLM.Temperature)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 5, cfg.Pipeline.MaxArticles)
	assert.Equal(t, "month", cfg.Pipeline.NewsWindow)
	assert.Equal(t, "MoA not available", cfg.Placeholder.MoAUnavailable)
	assert.Equal(t, "No %s news", cfg.Placeholder.NoNewsFormat)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llm:
  provider: googleai
  temperature: 0.2
fetch:
  timeout: 12s
pipeline:
  max_articles: 3
  news_window: week
placeholders:
  no_news_format: "Keine %s-Nachrichten"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("MAX_ARTICLES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider, "env overrides file")
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	assert.Equal(t, 12*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 3, cfg.Pipeline.MaxArticles)
	assert.Equal(t, "week", cfg.Pipeline.NewsWindow)
	assert.Equal(t, "Keine %s-Nachrichten", cfg.Placeholder.NoNewsFormat)
	assert.Equal(t, "MoA not available", cfg.Placeholder.MoAUnavailable, "untouched defaults survive")
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvParsers(t *testing.T) {
	t.Setenv("TEST_INT", "7")
	t.Setenv("TEST_BAD_INT", "seven")
	t.Setenv("TEST_FLOAT", "0.5")
	t.Setenv("TEST_DURATION", "3s")

	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("TEST_BAD_INT", 1))
	assert.Equal(t, 0.5, getEnvAsFloat("TEST_FLOAT", 0.1))
	assert.Equal(t, 3*time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Equal(t, "fallback", getEnv("TEST_UNSET_KEY", "fallback"))
}

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger := cfg.NewLoggerTo(&buf)
	logger.Info("hidden")
	logger.Warn("Skipping article", "compound", "Jardiance")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"compound":"Jardiance"`)
}
