package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/jobtrack/internal/cache"
	"github.com/jonathan/jobtrack/internal/config"
	"github.com/jonathan/jobtrack/internal/llm"
	"github.com/jonathan/jobtrack/internal/scoring"
	"github.com/jonathan/jobtrack/internal/tailoring"
)

// services are the LLM-backed services plus what must be closed after use.
type services struct {
	tailor    *tailoring.Service
	scorer    *scoring.Service
	cache     *cache.Cache
	providers []llm.Provider
}

func (s *services) Close() {
	llm.CloseAll(s.providers)
	_ = s.cache.Close()
}

// buildServices constructs the fallback chain, the scoring provider and the
// optional result cache from configuration.
func buildServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*services, error) {
	if err := cfg.ValidateLLM(); err != nil {
		return nil, err
	}

	providers, err := llm.NewProviders(ctx, cfg.LLM.Providers, nil)
	if err != nil {
		return nil, err
	}

	scoringCfg, err := cfg.ScoringProvider()
	if err != nil {
		llm.CloseAll(providers)
		return nil, err
	}
	scorer, err := llm.NewProvider(ctx, scoringCfg, nil)
	if err != nil {
		llm.CloseAll(providers)
		return nil, fmt.Errorf("failed to create scoring provider: %w", err)
	}
	all := append(append([]llm.Provider{}, providers...), scorer)

	var resultCache *cache.Cache
	if opts, ok := cfg.Cache.Options(); ok {
		resultCache = cache.New(ctx, opts, logger)
	}

	chain := llm.NewChain(logger, providers...)
	logger.Info("llm chain configured",
		zap.Strings("models", chain.Models()),
		zap.String("scoring", scorer.Name()))

	return &services{
		tailor:    tailoring.NewService(chain, resultCache, logger),
		scorer:    scoring.NewService(scorer, logger),
		cache:     resultCache,
		providers: all,
	}, nil
}
