package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GenAI calls Gemini through the google.golang.org/genai SDK.
type GenAI struct {
	cfg    ProviderConfig
	client *genai.Client
}

// NewGenAI creates an SDK-backed provider. A non-empty Endpoint overrides the API base URL.
func NewGenAI(ctx context.Context, cfg ProviderConfig, httpClient *http.Client) (*GenAI, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAI{cfg: cfg, client: client}, nil
}

// Name returns the provider identifier.
func (g *GenAI) Name() string {
	return g.cfg.Name()
}

// Generate issues one GenerateContent call.
func (g *GenAI) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := requestContext(ctx, g.cfg.Timeout)
	defer cancel()

	temperature := g.cfg.Temperature
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(g.cfg.MaxOutputTokens),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			detail := apiErr.Message
			if detail == "" {
				detail = apiErr.Status
			}
			return "", &Failure{Model: g.Name(), Kind: FailureTransport, Status: apiErr.Code, Detail: detail}
		}
		return "", fmt.Errorf("genai request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", malformed(g.Name(), "no text in response")
	}
	return text, nil
}
