package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for resumetailor.
type Config struct {
	AI        AIConfig
	RateLimit RateLimitConfig
	History   HistoryConfig
	Server    ServerConfig
}

// AIConfig selects and configures the completion backend.
type AIConfig struct {
	Provider       string        // "openai" or "gemini"
	BaseURL        string        // defaults to https://api.openai.com/v1 for openai, genai's own for gemini
	Model          string        // e.g. "gpt-4o"
	APIKey         string        // expanded from env var by Load
	Timeout        time.Duration // hard per-request timeout, zero disables
	MaxRetries     int           // additional attempts after a transient failure
	RetryBaseDelay time.Duration // first backoff delay, doubled per retry
}

// RateLimitConfig controls the gap between outbound completion calls.
type RateLimitConfig struct {
	MinDelay time.Duration // zero disables rate limiting
}

// HistoryConfig controls the optional SQLite history of generated results.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o"
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultHistoryPath   = "history.db"
	defaultServerAddr    = ":8080"
	maxRetriesLimit      = 10
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	AI        rawAIConfig        `yaml:"ai"`
	RateLimit rawRateLimitConfig `yaml:"rate_limit"`
	History   HistoryConfig      `yaml:"history"`
	Server    ServerConfig       `yaml:"server"`
}

type rawAIConfig struct {
	Provider       string `yaml:"provider"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	Timeout        string `yaml:"timeout"`
	MaxRetries     *int   `yaml:"max_retries"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
}

type rawRateLimitConfig struct {
	MinDelay string `yaml:"min_delay"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Parse(nil)
	}
	return cfg, err
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Parse builds a Config from YAML bytes. Empty input yields the defaults.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	provider := raw.AI.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	timeout := 60 * time.Second // default
	if raw.AI.Timeout != "" {
		d, err := time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
		timeout = d
	}

	maxRetries := 0 // one request per call unless asked otherwise
	if raw.AI.MaxRetries != nil {
		maxRetries = *raw.AI.MaxRetries
	}

	retryBaseDelay := 2 * time.Second // default
	if raw.AI.RetryBaseDelay != "" {
		d, err := time.ParseDuration(raw.AI.RetryBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse ai.retry_base_delay %q: %w", raw.AI.RetryBaseDelay, err)
		}
		retryBaseDelay = d
	}

	var minDelay time.Duration
	if raw.RateLimit.MinDelay != "" {
		d, err := time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
		minDelay = d
	}

	baseURL := raw.AI.BaseURL
	model := raw.AI.Model
	apiKey := raw.AI.APIKey
	switch provider {
	case ProviderOpenAI:
		if baseURL == "" {
			baseURL = defaultOpenAIBaseURL
		}
		if model == "" {
			model = defaultOpenAIModel
		}
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
	case ProviderGemini:
		// A leftover OpenAI root is not a genai endpoint.
		if strings.TrimSuffix(baseURL, "/") == defaultOpenAIBaseURL {
			baseURL = ""
		}
		if model == "" {
			model = defaultGeminiModel
		}
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	history := raw.History
	if history.Path == "" {
		history.Path = defaultHistoryPath
	}

	server := raw.Server
	if server.Addr == "" {
		server.Addr = defaultServerAddr
	}

	cfg := &Config{
		AI: AIConfig{
			Provider:       provider,
			BaseURL:        baseURL,
			Model:          model,
			APIKey:         apiKey,
			Timeout:        timeout,
			MaxRetries:     maxRetries,
			RetryBaseDelay: retryBaseDelay,
		},
		RateLimit: RateLimitConfig{MinDelay: minDelay},
		History:   history,
		Server:    server,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.AI.Provider != ProviderOpenAI && cfg.AI.Provider != ProviderGemini {
		return fmt.Errorf("ai.provider must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, cfg.AI.Provider)
	}
	if cfg.AI.Provider == ProviderGemini && cfg.AI.BaseURL != "" {
		u, err := url.Parse(cfg.AI.BaseURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("ai.base_url %q is not an absolute URL", cfg.AI.BaseURL)
		}
		if strings.EqualFold(u.Hostname(), "api.openai.com") {
			return fmt.Errorf("ai.base_url %q is an OpenAI endpoint but ai.provider is %q", cfg.AI.BaseURL, ProviderGemini)
		}
	}
	if cfg.AI.Timeout < 0 {
		return fmt.Errorf("ai.timeout must not be negative, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.MaxRetries < 0 || cfg.AI.MaxRetries > maxRetriesLimit {
		return fmt.Errorf("ai.max_retries must be between 0 and %d, got %d", maxRetriesLimit, cfg.AI.MaxRetries)
	}
	if cfg.AI.MaxRetries > 0 && cfg.AI.RetryBaseDelay <= 0 {
		return fmt.Errorf("ai.retry_base_delay must be positive when retries are enabled, got %v", cfg.AI.RetryBaseDelay)
	}
	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}
	return nil
}

// RequireAPIKey reports a descriptive error when no credential is configured.
// Commands that never call the completion service skip this check.
func (c AIConfig) RequireAPIKey() error {
	if c.APIKey != "" {
		return nil
	}
	env := "OPENAI_API_KEY"
	if c.Provider == ProviderGemini {
		env = "GEMINI_API_KEY"
	}
	return fmt.Errorf("ai.api_key is not set (configure it or export %s)", env)
}
