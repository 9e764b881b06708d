package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobtrack/internal/config"
	"github.com/jonathan/jobtrack/internal/server"
)

const testSecret = "a-test-secret-that-is-long-enough"

// clearEnv keeps a developer's .env from leaking into command tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "OPENROUTER_API_KEY", "JWT_SECRET", "DATABASE_URL"} {
		t.Setenv(key, "")
	}
}

// geminiServer answers every generateContent call with text and counts calls per model.
func geminiServer(t *testing.T, status int, text string) (*httptest.Server, map[string]int) {
	t.Helper()
	calls := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		model := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/models/"), ":generateContent")
		calls[model]++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"quota exhausted"}}`, status)
			return
		}
		body, _ := json.Marshal(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
			}},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeConfig(t *testing.T, dir, endpoint string) string {
	t.Helper()
	return writeFile(t, dir, "jobtrack.yaml", fmt.Sprintf(`
auth:
  secret: %s
cache:
  enabled: false
llm:
  providers:
    - kind: gemini
      model: primary
      endpoint: %s
      api-key: test-key
    - kind: gemini
      model: backup
      endpoint: %s
      api-key: test-key
`, testSecret, endpoint, endpoint))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, "http://127.0.0.1:1")
	userID := uuid.New()

	out, err := execute(t, "--config", cfgFile, "token", "--user", userID.String())
	require.NoError(t, err)

	svc := server.NewJWTService(config.JWTConfig{Secret: testSecret, ExpirationHours: 24})
	claims, err := svc.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestTokenCommand_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	t.Run("invalid user", func(t *testing.T) {
		cfgFile := writeConfig(t, dir, "http://127.0.0.1:1")
		_, err := execute(t, "--config", cfgFile, "token", "--user", "not-a-uuid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --user")
	})

	t.Run("missing secret", func(t *testing.T) {
		cfgFile := writeFile(t, dir, "nosecret.yaml", "server:\n  port: 8080\n")
		_, err := execute(t, "--config", cfgFile, "token")
		require.Error(t, err)
	})
}

func TestTailorCommand(t *testing.T) {
	clearEnv(t)
	reply := "```json\n" + `{"headline":"Go Engineer","professional_summary":"Builds services.","tailored_skills":["Go"],"tailored_resume_text":"Jane Doe"}` + "\n```"
	gemini, calls := geminiServer(t, http.StatusOK, reply)

	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, gemini.URL)
	jobFile := writeFile(t, dir, "job.html", "<p>Senior <b>Go</b> engineer</p>")
	resumeFile := writeFile(t, dir, "resume.txt", "Jane Doe\nGo developer")
	outFile := filepath.Join(dir, "out.json")

	_, err := execute(t, "--config", cfgFile, "tailor", "--job", jobFile, "--resume", resumeFile, "--out", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var got struct {
		Result struct {
			Headline       string   `json:"headline"`
			TailoredSkills []string `json:"tailored_skills"`
			Keywords       []string `json:"keywords"`
		} `json:"result"`
		Model  string `json:"model"`
		Cached bool   `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Go Engineer", got.Result.Headline)
	assert.Equal(t, []string{"Go"}, got.Result.TailoredSkills)
	assert.NotNil(t, got.Result.Keywords)
	assert.Equal(t, "primary", got.Model)
	assert.False(t, got.Cached)
	assert.Equal(t, 1, calls["primary"])
	assert.Zero(t, calls["backup"])
}

func TestTailorCommand_AllProvidersFail(t *testing.T) {
	clearEnv(t)
	gemini, calls := geminiServer(t, http.StatusTooManyRequests, "")

	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, gemini.URL)
	jobFile := writeFile(t, dir, "job.txt", "Go engineer")

	_, err := execute(t, "--config", cfgFile, "tailor", "--job", jobFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "attempt 2")
	assert.Equal(t, 1, calls["primary"])
	assert.Equal(t, 1, calls["backup"])
}

func TestScoreCommand(t *testing.T) {
	clearEnv(t)
	gemini, calls := geminiServer(t, http.StatusOK, `{"score": 71.5, "reason": "Good overlap", "insights": ["Go"]}`)

	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, gemini.URL)
	jobFile := writeFile(t, dir, "job.txt", "Go engineer")
	profileFile := writeFile(t, dir, "profile.json", `{"name":"Jane Doe","skills":"Go, SQL"}`)

	out, err := execute(t, "--config", cfgFile, "score", "--job", jobFile, "--profile", profileFile)
	require.NoError(t, err)

	var got struct {
		Result struct {
			Score    int      `json:"score"`
			Reason   string   `json:"reason"`
			Insights []string `json:"insights"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 72, got.Result.Score)
	assert.Equal(t, "Good overlap", got.Result.Reason)
	assert.Equal(t, 1, calls["primary"])
}

func TestGenerateCommands_InputErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, "http://127.0.0.1:1")
	blankJob := writeFile(t, dir, "blank.txt", "   \n")
	badProfile := writeFile(t, dir, "bad.json", "{not json")
	jobFile := writeFile(t, dir, "job.txt", "Go engineer")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing job flag", args: []string{"tailor"}, wantErr: "job"},
		{name: "missing job file", args: []string{"score", "--job", filepath.Join(dir, "nope.txt")}, wantErr: "failed to read job description file"},
		{name: "blank job", args: []string{"tailor", "--job", blankJob}, wantErr: "invalid input"},
		{name: "bad profile", args: []string{"score", "--job", jobFile, "--profile", badProfile}, wantErr: "failed to unmarshal profile JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--config", cfgFile}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
