package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// OpenAICompatible calls a chat completions endpoint such as OpenRouter or DeepSeek.
type OpenAICompatible struct {
	cfg  ProviderConfig
	http *resty.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// NewOpenAICompatible creates a chat completions provider.
func NewOpenAICompatible(cfg ProviderConfig, httpClient *http.Client) *OpenAICompatible {
	return &OpenAICompatible{cfg: cfg, http: newRestClient(cfg, httpClient)}
}

// Name returns the provider identifier.
func (o *OpenAICompatible) Name() string {
	return o.cfg.Name()
}

// Generate sends one chat completion request and returns the first choice's content.
func (o *OpenAICompatible) Generate(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model:       o.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxOutputTokens,
	}

	resp, err := o.http.R().
		SetContext(ctx).
		SetAuthToken(o.cfg.APIKey).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return "", &Failure{
			Model:  o.Name(),
			Kind:   FailureTransport,
			Status: resp.StatusCode(),
			Detail: ErrorDetail(resp.StatusCode(), resp.Body()),
		}
	}

	raw := resp.Body()
	if !gjson.ValidBytes(raw) {
		return "", malformed(o.Name(), "response body is not valid JSON")
	}
	text := strings.TrimSpace(gjson.GetBytes(raw, "choices.0.message.content").String())
	if text == "" {
		return "", malformed(o.Name(), "no content in response")
	}
	return text, nil
}
