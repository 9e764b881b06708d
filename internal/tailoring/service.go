package tailoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobtrack/internal/cache"
	"github.com/jonathan/jobtrack/internal/jobtext"
	"github.com/jonathan/jobtrack/internal/llm"
	"github.com/jonathan/jobtrack/internal/schemas"
	"github.com/jonathan/jobtrack/internal/types"
	schemafiles "github.com/jonathan/jobtrack/schemas"
)

// Response is a tailoring result plus where it came from.
type Response struct {
	Result Result
	Model  string
	Cached bool
}

// cachedResponse is what the result cache stores for one prompt.
type cachedResponse struct {
	Result Result `json:"result"`
	Model  string `json:"model"`
}

// Service runs the tailoring pipeline: prompt, cache lookup, fallback chain,
// schema diagnostics, normalization.
type Service struct {
	chain  *llm.Chain
	cache  *cache.Cache
	logger *zap.Logger
}

// NewService creates a tailoring service. cache may be nil.
func NewService(chain *llm.Chain, c *cache.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{chain: chain, cache: c, logger: logger}
}

// Tailor rewrites the candidate's resume for the job description. When every
// provider fails the error is a *llm.ChainError carrying the last failure.
func (s *Service) Tailor(ctx context.Context, jobDescription string, facts types.CandidateFacts) (*Response, error) {
	prompt := BuildPrompt(jobtext.Normalize(jobDescription), facts)
	key := cache.Key("tailor-response", prompt)

	var cached cachedResponse
	if s.cache.Get(ctx, key, &cached) {
		s.logger.Debug("tailoring cache hit", zap.String("key", key), zap.String("model", cached.Model))
		return &Response{Result: cached.Result, Model: cached.Model, Cached: true}, nil
	}

	start := time.Now()
	outcome := s.chain.Run(ctx, prompt)
	if err := outcome.Err(); err != nil {
		return nil, err
	}

	if violations := schemas.Diagnose(schemafiles.TailoredResult, outcome.Object); len(violations) > 0 {
		s.logger.Warn("provider output does not match schema",
			zap.String("model", outcome.Model),
			zap.Any("violations", violations))
	}

	result := Normalize(outcome.Object)
	s.cache.Set(ctx, key, cachedResponse{Result: result, Model: outcome.Model})

	s.logger.Info("resume tailored",
		zap.String("model", outcome.Model),
		zap.Int("failed_attempts", len(outcome.Failures)),
		zap.Duration("duration", time.Since(start)))
	return &Response{Result: result, Model: outcome.Model}, nil
}
