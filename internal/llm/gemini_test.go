package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiServer(t *testing.T, status int, body string, inspect func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiREST_Generate(t *testing.T) {
	var captured geminiRequest
	srv := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"{\"headline\":"},{"text":"\"Backend Engineer\"}"}]}}]}`,
		func(r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
			assert.Equal(t, "secret", r.URL.Query().Get("key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		})

	cfg := ProviderConfig{Kind: KindGemini, Model: "gemini-2.5-flash", APIKey: "secret", Endpoint: srv.URL}.WithDefaults()
	p := NewGeminiREST(cfg, srv.Client())

	text, err := p.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"headline":"Backend Engineer"}`, text)

	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "hello", captured.Contents[0].Parts[0].Text)
	assert.Equal(t, DefaultTemperature, captured.GenerationConfig.Temperature)
	assert.Equal(t, DefaultMaxOutputTokens, captured.GenerationConfig.MaxOutputTokens)
}

func TestGeminiREST_ErrorStatus(t *testing.T) {
	srv := newGeminiServer(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"quota exceeded"}}`, nil)

	cfg := ProviderConfig{Kind: KindGemini, Model: "gemini-2.0-flash", APIKey: "k", Endpoint: srv.URL}.WithDefaults()
	_, err := NewGeminiREST(cfg, srv.Client()).Generate(context.Background(), "p")

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, FailureTransport, f.Kind)
	assert.Equal(t, http.StatusTooManyRequests, f.Status)
	assert.Equal(t, "quota exceeded", f.Detail)
	assert.Equal(t, "gemini-2.0-flash", f.Model)
}

func TestGeminiREST_EmptyCandidates(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"finishReason":"SAFETY"}]}`, nil)

	cfg := ProviderConfig{Kind: KindGemini, Model: "m", APIKey: "k", Endpoint: srv.URL}.WithDefaults()
	_, err := NewGeminiREST(cfg, srv.Client()).Generate(context.Background(), "p")

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, FailureMalformed, f.Kind)
	assert.Contains(t, f.Detail, "SAFETY")
	assert.Equal(t, http.StatusBadGateway, f.HTTPStatus())
}

func TestGeminiREST_NonJSONSuccessBody(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, "<html>proxy page</html>", nil)

	cfg := ProviderConfig{Kind: KindGemini, Model: "m", APIKey: "k", Endpoint: srv.URL}.WithDefaults()
	_, err := NewGeminiREST(cfg, srv.Client()).Generate(context.Background(), "p")

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, FailureMalformed, f.Kind)
}

func TestOpenAICompatible_Generate(t *testing.T) {
	var captured chatRequest
	srv := newGeminiServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"  {\"score\": 80}  "}}]}`,
		func(r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		})

	cfg := ProviderConfig{Kind: KindOpenAI, Model: "deepseek/deepseek-chat", APIKey: "or-key", Endpoint: srv.URL}.WithDefaults()
	text, err := NewOpenAICompatible(cfg, srv.Client()).Generate(context.Background(), "score this")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 80}`, text)

	assert.Equal(t, "deepseek/deepseek-chat", captured.Model)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "score this", captured.Messages[0].Content)
	assert.Equal(t, DefaultMaxOutputTokens, captured.MaxTokens)
}

func TestOpenAICompatible_ErrorStatus(t *testing.T) {
	srv := newGeminiServer(t, http.StatusUnauthorized, `{"error":{"message":"No auth credentials found"}}`, nil)

	cfg := ProviderConfig{Kind: KindOpenAI, Model: "m", APIKey: "k", Endpoint: srv.URL}.WithDefaults()
	_, err := NewOpenAICompatible(cfg, srv.Client()).Generate(context.Background(), "p")

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, http.StatusUnauthorized, f.Status)
	assert.Equal(t, "No auth credentials found", f.Detail)
	assert.Equal(t, http.StatusUnauthorized, f.HTTPStatus())
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, ProviderConfig{Kind: KindGemini, Model: "m", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &GeminiREST{}, p)

	p, err = NewProvider(ctx, ProviderConfig{ID: "router", Kind: KindOpenAI, Model: "m", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "router", p.Name())

	_, err = NewProvider(ctx, ProviderConfig{Kind: "bogus", Model: "m", APIKey: "k"}, nil)
	assert.Error(t, err)
}
