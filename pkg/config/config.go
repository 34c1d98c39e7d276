package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Placeholder PlaceholderConfig `yaml:"placeholders"`
	Prompts     PromptConfig      `yaml:"prompts"`

	DatabaseURL    string        `yaml:"database_url"`
	Port           string        `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

type LLMConfig struct {
	Provider          string  `yaml:"provider"`
	Model             string  `yaml:"model"`
	BaseURL           string  `yaml:"base_url"`
	OpenAIApiKey      string  `yaml:"openai_api_key"`
	GoogleApiKey      string  `yaml:"google_api_key"`
	AnthropicApiKey   string  `yaml:"anthropic_api_key"`
	Temperature       float64 `yaml:"temperature"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
	MaxInputChars     int     `yaml:"max_input_chars"`
}

type SearchConfig struct {
	Provider     string        `yaml:"provider"`
	SerpAPIKey   string        `yaml:"serpapi_api_key"`
	TavilyAPIKey string        `yaml:"tavily_api_key"`
	SearXNGURL   string        `yaml:"searxng_url"`
	Timeout      time.Duration `yaml:"timeout"`
	Country      string        `yaml:"country"`
	Language     string        `yaml:"language"`
	Domain       string        `yaml:"domain"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Mode      string        `yaml:"mode"`
}

type PipelineConfig struct {
	MaxArticles int    `yaml:"max_articles"`
	NewsWindow  string `yaml:"news_window"`
	Parallelism int    `yaml:"parallelism"`
	DigestLimit int    `yaml:"digest_limit"`
}

// PlaceholderConfig holds the user-visible texts shown where data is missing.
// NoNewsFormat receives the category name, e.g. "No %s news".
type PlaceholderConfig struct {
	NoRecentInfo       string `yaml:"no_recent_info"`
	SourceUnavailable  string `yaml:"source_unavailable"`
	SearchUnavailable  string `yaml:"search_unavailable"`
	SummaryUnavailable string `yaml:"summary_unavailable"`
	MoAUnavailable     string `yaml:"moa_unavailable"`
	NoNewsFormat       string `yaml:"no_news_format"`
}

// PromptConfig overrides the built-in model instructions. Empty fields keep the
// default. MechanismOfAction receives the compound name through %s.
type PromptConfig struct {
	LatestSummary     string `yaml:"latest_summary"`
	Article           string `yaml:"article"`
	Classify          string `yaml:"classify"`
	MechanismOfAction string `yaml:"mechanism_of_action"`
	Digest            string `yaml:"digest"`
	Tags              string `yaml:"tags"`
}

// Default returns the configuration used when neither a file nor the
// environment override a value.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:      "openai",
			Temperature:   0.1,
			MaxInputChars: 12000,
		},
		Search: SearchConfig{
			Provider: "serpapi",
			Country:  "us",
			Language: "en",
			Domain:   "google.com",
		},
		Fetch: FetchConfig{
			Timeout:   15 * time.Second,
			UserAgent: "Mozilla/5.0 (compatible; pharma-news/1.0)",
			Mode:      "paragraphs",
		},
		Pipeline: PipelineConfig{
			MaxArticles: 5,
			NewsWindow:  "month",
			Parallelism: 1,
			DigestLimit: 3,
		},
		Placeholder: PlaceholderConfig{
			NoRecentInfo:       "No recent information found",
			SourceUnavailable:  "Information unavailable - could not fetch source",
			SearchUnavailable:  "Information unavailable - search failed",
			SummaryUnavailable: "Information unavailable - could not summarize source",
			MoAUnavailable:     "MoA not available",
			NoNewsFormat:       "No %s news",
		},
		Port:           "8000",
		RequestTimeout: 10 * time.Minute,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE, and finally the environment (including a .env file if present).
func Load() (*Config, error) {
	// It's okay if .env doesn't exist, as long as env vars are set
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.OpenAIApiKey = getEnv("OPENAI_API_KEY", c.LLM.OpenAIApiKey)
	c.LLM.GoogleApiKey = getEnv("GOOGLE_API_KEY", c.LLM.GoogleApiKey)
	c.LLM.AnthropicApiKey = getEnv("ANTHROPIC_API_KEY", c.LLM.AnthropicApiKey)
	c.LLM.Temperature = getEnvAsFloat("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.RequestsPerMinute = getEnvAsInt("LLM_RPM", c.LLM.RequestsPerMinute)
	c.LLM.MaxInputChars = getEnvAsInt("MAX_INPUT_CHARS", c.LLM.MaxInputChars)

	c.Search.Provider = getEnv("SEARCH_PROVIDER", c.Search.Provider)
	c.Search.SerpAPIKey = getEnv("SERPAPI_API_KEY", c.Search.SerpAPIKey)
	c.Search.TavilyAPIKey = getEnv("TAVILY_API_KEY", c.Search.TavilyAPIKey)
	c.Search.SearXNGURL = getEnv("SEARXNG_URL", c.Search.SearXNGURL)
	c.Search.Timeout = getEnvAsDuration("SEARCH_TIMEOUT", c.Search.Timeout)
	c.Search.Country = getEnv("SEARCH_COUNTRY", c.Search.Country)
	c.Search.Language = getEnv("SEARCH_LANGUAGE", c.Search.Language)
	c.Search.Domain = getEnv("SEARCH_DOMAIN", c.Search.Domain)

	c.Fetch.Timeout = getEnvAsDuration("FETCH_TIMEOUT", c.Fetch.Timeout)
	c.Fetch.UserAgent = getEnv("FETCH_USER_AGENT", c.Fetch.UserAgent)
	c.Fetch.Mode = getEnv("EXTRACT_MODE", c.Fetch.Mode)

	c.Pipeline.MaxArticles = getEnvAsInt("MAX_ARTICLES", c.Pipeline.MaxArticles)
	c.Pipeline.NewsWindow = getEnv("NEWS_WINDOW", c.Pipeline.NewsWindow)
	c.Pipeline.Parallelism = getEnvAsInt("PARALLELISM", c.Pipeline.Parallelism)
	c.Pipeline.DigestLimit = getEnvAsInt("DIGEST_LIMIT", c.Pipeline.DigestLimit)

	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.Port = getEnv("PORT", c.Port)
	c.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
}

// NewLogger returns a slog logger on stdout honouring LogLevel and LogFormat.
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stdout)
}

// NewLoggerTo is NewLogger writing to w.
func (c *Config) NewLoggerTo(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
