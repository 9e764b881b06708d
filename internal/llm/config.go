// Package llm calls text-generation providers and recovers structured JSON from their replies.
// Providers are plain data (ProviderConfig) turned into Provider values, and a Chain
// tries them in order until one returns a usable JSON object.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies how a provider endpoint is reached.
type Kind string

// Supported provider kinds.
const (
	// KindGemini is the Gemini REST generateContent endpoint; the key travels as a query parameter.
	KindGemini Kind = "gemini"
	// KindOpenAI is any OpenAI-compatible chat completions endpoint (OpenRouter, DeepSeek); bearer header.
	KindOpenAI Kind = "openai"
	// KindGenAI is the google.golang.org/genai SDK.
	KindGenAI Kind = "genai"
	// KindGenerativeAI is the github.com/google/generative-ai-go SDK.
	KindGenerativeAI Kind = "generativeai"
)

// Generation defaults. Low temperature keeps structured output stable.
const (
	DefaultTemperature     float32 = 0.2
	DefaultMaxOutputTokens         = 2048
	DefaultTimeout                 = 60 * time.Second

	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultOpenAIEndpoint = "https://openrouter.ai/api/v1"
)

// ProviderConfig describes one entry of a fallback chain.
type ProviderConfig struct {
	ID              string        `mapstructure:"id" json:"id,omitempty"`
	Kind            Kind          `mapstructure:"kind" json:"kind"`
	Model           string        `mapstructure:"model" json:"model"`
	Endpoint        string        `mapstructure:"endpoint" json:"endpoint,omitempty"`
	APIKey          string        `mapstructure:"api-key" json:"-"`
	Temperature     float32       `mapstructure:"temperature" json:"temperature,omitempty"`
	MaxOutputTokens int           `mapstructure:"max-output-tokens" json:"max_output_tokens,omitempty"`
	Timeout         time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
}

// Name returns the identifier used to annotate attempts: ID if set, otherwise the model.
func (c ProviderConfig) Name() string {
	if id := strings.TrimSpace(c.ID); id != "" {
		return id
	}
	return c.Model
}

// WithDefaults fills zero-valued generation settings and REST endpoints.
func (c ProviderConfig) WithDefaults() ProviderConfig {
	c.Kind = Kind(strings.ToLower(strings.TrimSpace(string(c.Kind))))
	c.Model = strings.TrimSpace(c.Model)
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Endpoint == "" {
		switch c.Kind {
		case KindGemini:
			c.Endpoint = DefaultGeminiEndpoint
		case KindOpenAI:
			c.Endpoint = DefaultOpenAIEndpoint
		}
	}
	c.Endpoint = strings.TrimRight(c.Endpoint, "/")
	return c
}

// Validate checks that the provider can be constructed.
func (c ProviderConfig) Validate() error {
	switch c.Kind {
	case KindGemini, KindOpenAI, KindGenAI, KindGenerativeAI:
	default:
		return fmt.Errorf("provider %q: unsupported kind %q", c.Name(), c.Kind)
	}
	if c.Model == "" {
		return fmt.Errorf("provider %q: model is required", c.Name())
	}
	if c.APIKey == "" {
		return fmt.Errorf("provider %q: API key is required", c.Name())
	}
	return nil
}

// DefaultGeminiChain returns the two-step chain used when none is configured:
// a capable model first, then a cheaper fallback.
func DefaultGeminiChain(apiKey string) []ProviderConfig {
	return []ProviderConfig{
		{Kind: KindGemini, Model: "gemini-2.5-flash", APIKey: apiKey},
		{Kind: KindGemini, Model: "gemini-2.0-flash", APIKey: apiKey},
	}
}
