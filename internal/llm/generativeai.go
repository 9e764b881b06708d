package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GenerativeAI calls Gemini through the older generative-ai-go SDK.
type GenerativeAI struct {
	cfg    ProviderConfig
	client *genai.Client
}

// NewGenerativeAI creates an SDK-backed provider.
func NewGenerativeAI(ctx context.Context, cfg ProviderConfig, httpClient *http.Client) (*GenerativeAI, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GenerativeAI{cfg: cfg, client: client}, nil
}

// Name returns the provider identifier.
func (g *GenerativeAI) Name() string {
	return g.cfg.Name()
}

// Generate issues one GenerateContent call and joins the text parts of the first candidate.
func (g *GenerativeAI) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := requestContext(ctx, g.cfg.Timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.cfg.Model)
	model.SetTemperature(g.cfg.Temperature)
	model.SetMaxOutputTokens(int32(g.cfg.MaxOutputTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			detail := apiErr.Message
			if detail == "" {
				detail = ErrorDetail(apiErr.Code, []byte(apiErr.Body))
			}
			return "", &Failure{Model: g.Name(), Kind: FailureTransport, Status: apiErr.Code, Detail: detail}
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", malformed(g.Name(), "no candidates in response")
	}
	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", malformed(g.Name(), "no text parts in response")
	}
	return text, nil
}

// Close releases the SDK client.
func (g *GenerativeAI) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
