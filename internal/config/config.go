// Package config loads jobtrack settings from an optional YAML file and the
// environment through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/jobtrack/internal/cache"
	"github.com/jonathan/jobtrack/internal/db"
	"github.com/jonathan/jobtrack/internal/llm"
	"github.com/jonathan/jobtrack/internal/server/ratelimit"
)

// EnvPrefix prefixes every environment override, e.g. JOBTRACK_SERVER_PORT.
const EnvPrefix = "JOBTRACK"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      JWTConfig       `mapstructure:"auth"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate-limit"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// LLMConfig lists the tailoring chain and picks the scoring provider.
type LLMConfig struct {
	Providers []llm.ProviderConfig `mapstructure:"providers"`
	// Scoring is the ID (or model) of the provider used for match scoring.
	// Empty selects the first provider of the chain.
	Scoring string `mapstructure:"scoring"`

	GeminiAPIKey     string `mapstructure:"gemini-api-key"`
	OpenRouterAPIKey string `mapstructure:"openrouter-api-key"`
}

// StorageConfig selects the application store.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

// CacheConfig controls the tailoring result cache.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	RedisURL   string        `mapstructure:"redis-url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max-entries"`
}

// RateLimitConfig controls per-client request throttling.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default-limit"`
	DefaultWindow   time.Duration `mapstructure:"default-window"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// SetDefaults registers every key with its default so environment
// overrides are visible to Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request-timeout", 90*time.Second)
	v.SetDefault("server.shutdown-timeout", 30*time.Second)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.expiration-hours", 24)

	v.SetDefault("llm.scoring", "")
	v.SetDefault("llm.gemini-api-key", "")
	v.SetDefault("llm.openrouter-api-key", "")

	v.SetDefault("storage.driver", db.DriverSQLite)
	v.SetDefault("storage.url", "jobtrack.db")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.redis-url", "")
	v.SetDefault("cache.ttl", 30*time.Minute)
	v.SetDefault("cache.max-entries", 500)

	v.SetDefault("rate-limit.enabled", true)
	v.SetDefault("rate-limit.default-limit", 600)
	v.SetDefault("rate-limit.default-window", time.Minute)
	v.SetDefault("rate-limit.cleanup-interval", 5*time.Minute)
	v.SetDefault("rate-limit.whitelist", []string{})
	v.SetDefault("rate-limit.blacklist", []string{})
}

// BindEnv enables JOBTRACK_* overrides plus the conventional provider key
// variables.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("llm.gemini-api-key", "GEMINI_API_KEY", EnvPrefix+"_LLM_GEMINI_API_KEY"); err != nil {
		return fmt.Errorf("binding GEMINI_API_KEY: %w", err)
	}
	if err := v.BindEnv("llm.openrouter-api-key", "OPENROUTER_API_KEY", EnvPrefix+"_LLM_OPENROUTER_API_KEY"); err != nil {
		return fmt.Errorf("binding OPENROUTER_API_KEY: %w", err)
	}
	if err := v.BindEnv("storage.url", EnvPrefix+"_STORAGE_URL", "DATABASE_URL"); err != nil {
		return fmt.Errorf("binding DATABASE_URL: %w", err)
	}
	if err := v.BindEnv("auth.secret", EnvPrefix+"_AUTH_SECRET", "JWT_SECRET"); err != nil {
		return fmt.Errorf("binding JWT_SECRET: %w", err)
	}
	return nil
}

// Load decodes v into a Config and fills provider credentials from the
// shared key settings. It does not validate; callers validate what they use.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyProviderKeys()
	return &cfg, nil
}

// ReadFile reads path, or jobtrack.yaml from the working directory when
// path is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("jobtrack")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func (c *Config) applyProviderKeys() {
	if len(c.LLM.Providers) == 0 && c.LLM.GeminiAPIKey != "" {
		c.LLM.Providers = llm.DefaultGeminiChain(c.LLM.GeminiAPIKey)
	}

	for i := range c.LLM.Providers {
		p := &c.LLM.Providers[i]
		if p.APIKey != "" {
			continue
		}
		switch llm.Kind(strings.ToLower(strings.TrimSpace(string(p.Kind)))) {
		case llm.KindGemini, llm.KindGenAI, llm.KindGenerativeAI:
			p.APIKey = c.LLM.GeminiAPIKey
		case llm.KindOpenAI:
			p.APIKey = c.LLM.OpenRouterAPIKey
		}
	}
}

// ScoringProvider returns the provider configuration used for match scoring.
func (c *Config) ScoringProvider() (llm.ProviderConfig, error) {
	if len(c.LLM.Providers) == 0 {
		return llm.ProviderConfig{}, fmt.Errorf("no LLM providers configured (set GEMINI_API_KEY or llm.providers)")
	}
	if c.LLM.Scoring == "" {
		return c.LLM.Providers[0], nil
	}
	for _, p := range c.LLM.Providers {
		if p.Name() == c.LLM.Scoring || p.Model == c.LLM.Scoring {
			return p, nil
		}
	}
	return llm.ProviderConfig{}, fmt.Errorf("llm.scoring: unknown provider %q", c.LLM.Scoring)
}

// ValidateLLM checks that a usable chain is configured.
func (c *Config) ValidateLLM() error {
	if len(c.LLM.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured (set GEMINI_API_KEY or llm.providers)")
	}
	for i, p := range c.LLM.Providers {
		if err := p.WithDefaults().Validate(); err != nil {
			return fmt.Errorf("llm.providers[%d]: %w", i, err)
		}
	}
	_, err := c.ScoringProvider()
	return err
}

// Validate checks everything the HTTP server needs.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request-timeout must be positive")
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.ValidateLLM(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("storage.driver: unsupported driver %q", c.Storage.Driver)
	}
	if c.Storage.URL == "" {
		return fmt.Errorf("storage.url is required")
	}
	if c.RateLimit.Enabled && c.RateLimit.DefaultLimit > 0 && c.RateLimit.DefaultWindow <= 0 {
		return fmt.Errorf("rate-limit.default-window must be positive")
	}
	return nil
}

// Limiter converts the settings into a rate limiter configuration with the
// default endpoint tiers.
func (r RateLimitConfig) Limiter() *ratelimit.Config {
	if !r.Enabled {
		return &ratelimit.Config{Enabled: false}
	}
	return &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    r.DefaultLimit,
		DefaultWindow:   r.DefaultWindow,
		CleanupInterval: r.CleanupInterval,
		Whitelist:       ratelimit.ParseIPList(r.Whitelist...),
		Blacklist:       ratelimit.ParseIPList(r.Blacklist...),
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(),
	}
}

// Options converts the settings into cache options. A disabled cache
// yields ok == false.
func (c CacheConfig) Options() (opts cache.Options, ok bool) {
	if !c.Enabled {
		return cache.Options{}, false
	}
	return cache.Options{RedisURL: c.RedisURL, TTL: c.TTL, MaxEntries: c.MaxEntries}, true
}
