package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProviderConfig_WithDefaults(t *testing.T) {
	cfg := ProviderConfig{Kind: " Gemini ", Model: "gemini-2.5-flash", APIKey: "k"}.WithDefaults()

	assert.Equal(t, KindGemini, cfg.Kind)
	assert.Equal(t, DefaultTemperature, cfg.Temperature)
	assert.Equal(t, DefaultMaxOutputTokens, cfg.MaxOutputTokens)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultGeminiEndpoint, cfg.Endpoint)

	openai := ProviderConfig{Kind: KindOpenAI, Model: "deepseek/deepseek-chat", Endpoint: "http://x/v1/", Timeout: time.Second}.WithDefaults()
	assert.Equal(t, "http://x/v1", openai.Endpoint)
	assert.Equal(t, time.Second, openai.Timeout)

	sdk := ProviderConfig{Kind: KindGenAI, Model: "m"}.WithDefaults()
	assert.Empty(t, sdk.Endpoint)
}

func TestProviderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProviderConfig
		wantErr string
	}{
		{name: "valid", cfg: ProviderConfig{Kind: KindOpenAI, Model: "m", APIKey: "k"}},
		{name: "unknown kind", cfg: ProviderConfig{Kind: "anthropic", Model: "m", APIKey: "k"}, wantErr: "unsupported kind"},
		{name: "missing model", cfg: ProviderConfig{Kind: KindGemini, APIKey: "k"}, wantErr: "model is required"},
		{name: "missing key", cfg: ProviderConfig{Kind: KindGemini, Model: "m"}, wantErr: "API key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestProviderConfig_Name(t *testing.T) {
	assert.Equal(t, "primary", ProviderConfig{ID: "primary", Model: "m"}.Name())
	assert.Equal(t, "m", ProviderConfig{Model: "m"}.Name())
}

func TestDefaultGeminiChain(t *testing.T) {
	chain := DefaultGeminiChain("key")
	if assert.Len(t, chain, 2) {
		assert.Equal(t, "gemini-2.5-flash", chain[0].Model)
		assert.Equal(t, "gemini-2.0-flash", chain[1].Model)
		for _, c := range chain {
			assert.NoError(t, c.WithDefaults().Validate())
		}
	}
}
