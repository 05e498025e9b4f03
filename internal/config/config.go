// Package config turns viper settings into a validated, typed configuration.
package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Reasoning provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderNone   = "none"
)

// Config is the resolved application configuration.
type Config struct {
	Metadata  MetadataConfig
	Cache     CacheConfig
	Reasoner  ReasonerConfig
	Affiliate AffiliateConfig

	GoogleBooksAPIKey string
	ISBNdbAPIKey      string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	GeminiAPIKey      string
	OllamaURL         string
}

// MetadataConfig controls metadata resolution.
type MetadataConfig struct {
	MinDelay    time.Duration `validate:"gte=0"`
	Workers     int           `validate:"gte=1,lte=32"`
	HTTPTimeout time.Duration `validate:"gt=0"`
}

// CacheConfig controls the persistent metadata cache. An empty DBFile
// keeps the cache in memory only.
type CacheConfig struct {
	DBFile      string
	TTL         time.Duration `validate:"gte=0"`
	NegativeTTL time.Duration `validate:"gte=0"`
}

// ReasonerConfig selects and tunes the reasoning provider.
type ReasonerConfig struct {
	Provider    string        `validate:"oneof=openai gemini ollama none"`
	Model       string
	Temperature float64       `validate:"gte=0,lte=2"`
	Timeout     time.Duration `validate:"gt=0"`
}

// AffiliateConfig holds the purchase link tag.
type AffiliateConfig struct {
	Tag string
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"googlebooks.api_key": "GOOGLE_BOOKS_API_KEY",
	"isbndb.api_key":      "ISBNDB_API_KEY",
	"openai.api_key":      "OPENAI_API_KEY",
	"openai.base_url":     "OPENAI_BASE_URL",
	"gemini.api_key":      "GEMINI_API_KEY",
	"ollama.url":          "OLLAMA_URL",
	"affiliate.tag":       "AFFILIATE_TAG",
	"reasoner.provider":   "REASONER_PROVIDER",
}

// EnvVars returns the environment variables the configuration reads, sorted.
func EnvVars() []string {
	out := make([]string, 0, len(envBindings))
	for _, env := range envBindings {
		out = append(out, env)
	}
	sort.Strings(out)
	return out
}

// SetDefaults registers default values and environment bindings on viper.
func SetDefaults() {
	viper.SetDefault("metadata.min_delay", "100ms")
	viper.SetDefault("metadata.workers", 4)
	viper.SetDefault("metadata.http_timeout", "10s")

	viper.SetDefault("cache.dbfile", "")
	viper.SetDefault("cache.ttl", "720h")          // 30 days
	viper.SetDefault("cache.negative_ttl", "168h") // 7 days

	viper.SetDefault("reasoner.provider", "")
	viper.SetDefault("reasoner.model", "")
	viper.SetDefault("reasoner.temperature", 0.7)
	viper.SetDefault("reasoner.timeout", "30s")

	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			slog.Error("Failed to bind environment variable", "key", key, "env", env, "error", err)
		}
	}
}

// Load reads the current viper state into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Metadata: MetadataConfig{
			MinDelay:    viper.GetDuration("metadata.min_delay"),
			Workers:     viper.GetInt("metadata.workers"),
			HTTPTimeout: viper.GetDuration("metadata.http_timeout"),
		},
		Cache: CacheConfig{
			DBFile:      viper.GetString("cache.dbfile"),
			TTL:         viper.GetDuration("cache.ttl"),
			NegativeTTL: viper.GetDuration("cache.negative_ttl"),
		},
		Reasoner: ReasonerConfig{
			Provider:    strings.ToLower(strings.TrimSpace(viper.GetString("reasoner.provider"))),
			Model:       viper.GetString("reasoner.model"),
			Temperature: viper.GetFloat64("reasoner.temperature"),
			Timeout:     viper.GetDuration("reasoner.timeout"),
		},
		Affiliate: AffiliateConfig{
			Tag: viper.GetString("affiliate.tag"),
		},
		GoogleBooksAPIKey: viper.GetString("googlebooks.api_key"),
		ISBNdbAPIKey:      viper.GetString("isbndb.api_key"),
		OpenAIAPIKey:      viper.GetString("openai.api_key"),
		OpenAIBaseURL:     viper.GetString("openai.base_url"),
		GeminiAPIKey:      viper.GetString("gemini.api_key"),
		OllamaURL:         viper.GetString("ollama.url"),
	}

	if cfg.Reasoner.Provider == "" {
		cfg.Reasoner.Provider = cfg.detectProvider()
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// detectProvider picks the first provider that has credentials.
func (c *Config) detectProvider() string {
	switch {
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	case c.GeminiAPIKey != "":
		return ProviderGemini
	case c.OllamaURL != "":
		return ProviderOllama
	default:
		return ProviderNone
	}
}
