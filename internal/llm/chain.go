package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobtrack/internal/logging"
)

// Chain tries providers in order until one yields a JSON object.
// Attempts are strictly sequential and each provider gets exactly one call.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// Outcome is the result of running a chain. Attempt is the first success or,
// when every provider failed, the last failure. Failures lists every failed
// attempt in order.
type Outcome struct {
	Attempt
	Failures []*Failure
}

// NewChain creates a chain over providers. A nil logger disables logging.
func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{providers: providers, logger: logger}
}

// Models returns the provider names in chain order.
func (c *Chain) Models() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Len returns the number of providers.
func (c *Chain) Len() int {
	return len(c.providers)
}

// Run executes the chain. If ctx is done before an attempt starts, the rest
// of the chain is skipped and a canceled failure naming that provider is returned.
func (c *Chain) Run(ctx context.Context, prompt string) Outcome {
	if len(c.providers) == 0 {
		f := &Failure{Kind: FailureConfig, Detail: "no providers configured"}
		return Outcome{Attempt: Attempt{Failure: f}, Failures: []*Failure{f}}
	}

	var out Outcome
	for i, p := range c.providers {
		if err := ctx.Err(); err != nil {
			f := &Failure{Model: p.Name(), Kind: FailureCanceled, Detail: err.Error()}
			c.logger.Warn("aborting fallback chain",
				zap.String("model", p.Name()),
				zap.Int("remaining", len(c.providers)-i),
				zap.Error(err))
			out.Attempt = Attempt{Model: p.Name(), Failure: f}
			out.Failures = append(out.Failures, f)
			return out
		}

		start := time.Now()
		attempt := Call(ctx, p, prompt)
		c.logger.Debug("provider attempt",
			zap.String("model", attempt.Model),
			zap.Int("position", i+1),
			zap.Bool("ok", attempt.OK()),
			zap.Duration("duration", time.Since(start)))

		out.Attempt = attempt
		if attempt.OK() {
			return out
		}

		out.Failures = append(out.Failures, attempt.Failure)
		c.logger.Warn("provider attempt failed",
			zap.String("model", attempt.Model),
			zap.String("kind", string(attempt.Failure.Kind)),
			zap.Int("status", attempt.Failure.Status),
			zap.String("detail", logging.Truncate(attempt.Failure.Detail, logging.DefaultPreviewLength)),
			zap.String("raw", logging.Truncate(attempt.Raw, logging.DefaultPreviewLength)))
	}
	return out
}
