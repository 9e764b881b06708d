package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Provider generates text for a prompt with one model.
// Implementations return a *Failure for non-2xx provider responses so the
// caller can keep the provider's status code.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Closer is implemented by providers holding SDK clients.
type Closer interface {
	Close() error
}

// requestContext bounds one provider request by its configured timeout.
func requestContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// NewProvider builds a provider from configuration. httpClient may be nil.
func NewProvider(ctx context.Context, cfg ProviderConfig, httpClient *http.Client) (Provider, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindGemini:
		return NewGeminiREST(cfg, httpClient), nil
	case KindOpenAI:
		return NewOpenAICompatible(cfg, httpClient), nil
	case KindGenAI:
		return NewGenAI(ctx, cfg, httpClient)
	case KindGenerativeAI:
		return NewGenerativeAI(ctx, cfg, httpClient)
	default:
		return nil, fmt.Errorf("unsupported provider kind %q", cfg.Kind)
	}
}

// NewProviders builds every provider of a chain in order. Providers created
// before a failing entry are closed.
func NewProviders(ctx context.Context, cfgs []ProviderConfig, httpClient *http.Client) ([]Provider, error) {
	providers := make([]Provider, 0, len(cfgs))
	for i, cfg := range cfgs {
		p, err := NewProvider(ctx, cfg, httpClient)
		if err != nil {
			CloseAll(providers)
			return nil, fmt.Errorf("failed to create provider %d: %w", i, err)
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// CloseAll releases SDK-backed providers.
func CloseAll(providers []Provider) {
	for _, p := range providers {
		if c, ok := p.(Closer); ok {
			_ = c.Close()
		}
	}
}
