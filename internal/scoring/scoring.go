// Package scoring estimates how well a candidate fits a job with a single provider call.
package scoring

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/jonathan/jobtrack/internal/jobtext"
	"github.com/jonathan/jobtrack/internal/llm"
	"github.com/jonathan/jobtrack/internal/prompts"
	"github.com/jonathan/jobtrack/internal/schemas"
	"github.com/jonathan/jobtrack/internal/types"
	schemafiles "github.com/jonathan/jobtrack/schemas"
)

// Score defaults.
const (
	DefaultScore  = 50
	DefaultReason = "No explanation provided."
)

// Fields is the output schema requested from the provider.
var Fields = []llm.SchemaField{
	{Name: "score", Type: "number", Description: "integer from 0 to 100"},
	{Name: "reason", Type: "string", Description: "one or two sentences"},
	{Name: "insights", Type: "[string]", Description: "short observations about fit and gaps"},
}

// Result is a job match estimate.
type Result struct {
	Score    int      `json:"score"`
	Reason   string   `json:"reason"`
	Insights []string `json:"insights"`
}

// BuildPrompt assembles the scoring instruction deterministically.
func BuildPrompt(jobDescription string, facts types.CandidateFacts) string {
	return prompts.Render(prompts.KeyMatchScore, map[string]string{
		"Schema":         llm.FormatSchema(Fields),
		"JobDescription": jobDescription,
		"Candidate":      facts.Serialize(),
	})
}

// ClampScore maps a provider score into [0, 100], rounding half away from
// zero. NaN (absent or unparseable) becomes DefaultScore.
func ClampScore(v float64) int {
	if math.IsNaN(v) {
		return DefaultScore
	}
	return int(math.Min(100, math.Max(0, math.Round(v))))
}

// Normalize coerces a parsed provider object into a Result. It never fails.
func Normalize(obj map[string]any) Result {
	reason := llm.String(obj, "reason")
	if reason == "" {
		reason = DefaultReason
	}
	return Result{
		Score:    ClampScore(llm.Number(obj, "score")),
		Reason:   reason,
		Insights: llm.StringList(obj, "insights"),
	}
}

// Service scores candidates against jobs with one provider and no fallback.
type Service struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewService creates a scoring service.
func NewService(provider llm.Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger}
}

// Score runs one provider attempt. Failures are returned as *llm.ChainError
// so callers handle scoring and tailoring errors the same way.
func (s *Service) Score(ctx context.Context, jobDescription string, facts types.CandidateFacts) (Result, error) {
	if s.provider == nil {
		f := &llm.Failure{Kind: llm.FailureConfig, Detail: "no scoring provider configured"}
		return Result{}, &llm.ChainError{Last: f, Failures: []*llm.Failure{f}}
	}
	if err := ctx.Err(); err != nil {
		f := &llm.Failure{Model: s.provider.Name(), Kind: llm.FailureCanceled, Detail: err.Error()}
		return Result{}, &llm.ChainError{Last: f, Failures: []*llm.Failure{f}}
	}

	prompt := BuildPrompt(jobtext.Normalize(jobDescription), facts)
	attempt := llm.Call(ctx, s.provider, prompt)
	if !attempt.OK() {
		s.logger.Warn("scoring attempt failed",
			zap.String("model", attempt.Model),
			zap.String("kind", string(attempt.Failure.Kind)),
			zap.Int("status", attempt.Failure.Status))
		return Result{}, &llm.ChainError{Last: attempt.Failure, Failures: []*llm.Failure{attempt.Failure}}
	}

	if violations := schemas.Diagnose(schemafiles.MatchScore, attempt.Object); len(violations) > 0 {
		s.logger.Debug("score output does not match schema", zap.Any("violations", violations))
	}
	return Normalize(attempt.Object), nil
}
