package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// GeminiREST calls the Gemini generateContent REST endpoint directly.
type GeminiREST struct {
	cfg  ProviderConfig
	http *resty.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

// NewGeminiREST creates a REST provider. cfg is expected to have defaults applied.
func NewGeminiREST(cfg ProviderConfig, httpClient *http.Client) *GeminiREST {
	return &GeminiREST{cfg: cfg, http: newRestClient(cfg, httpClient)}
}

// Name returns the provider identifier.
func (g *GeminiREST) Name() string {
	return g.cfg.Name()
}

// Generate sends one generateContent request and returns the concatenated
// text of the first candidate.
func (g *GeminiREST) Generate(ctx context.Context, prompt string) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     g.cfg.Temperature,
			MaxOutputTokens: g.cfg.MaxOutputTokens,
		},
	}

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("key", g.cfg.APIKey).
		SetBody(body).
		Post(fmt.Sprintf("/models/%s:generateContent", g.cfg.Model))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return "", &Failure{
			Model:  g.Name(),
			Kind:   FailureTransport,
			Status: resp.StatusCode(),
			Detail: ErrorDetail(resp.StatusCode(), resp.Body()),
		}
	}

	raw := resp.Body()
	if !gjson.ValidBytes(raw) {
		return "", malformed(g.Name(), "response body is not valid JSON")
	}
	var sb strings.Builder
	for _, part := range gjson.GetBytes(raw, "candidates.0.content.parts.#.text").Array() {
		sb.WriteString(part.String())
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		reason := gjson.GetBytes(raw, "candidates.0.finishReason").String()
		if reason == "" {
			reason = gjson.GetBytes(raw, "promptFeedback.blockReason").String()
		}
		if reason != "" {
			return "", malformed(g.Name(), "no text in response (finish reason "+reason+")")
		}
		return "", malformed(g.Name(), "no text in response")
	}
	return text, nil
}

func newRestClient(cfg ProviderConfig, httpClient *http.Client) *resty.Client {
	var c *resty.Client
	if httpClient != nil {
		c = resty.NewWithClient(httpClient)
	} else {
		c = resty.New()
	}
	return c.
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

func malformed(model, detail string) *Failure {
	return &Failure{Model: model, Kind: FailureMalformed, Detail: detail}
}
