package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobtrack/internal/cache"
	"github.com/jonathan/jobtrack/internal/db"
	"github.com/jonathan/jobtrack/internal/server"
	"github.com/jonathan/jobtrack/internal/server/ratelimit"
)

// cacheStatsInterval is how often serve logs cache hit rates.
const cacheStatsInterval = 10 * time.Minute

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server exposing the dashboard API: resume tailoring, match scoring, keyword matching and application tracking.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd.Context())
		},
	}
	cmd.Flags().Int("port", 8080, "Port to listen on")
	_ = c.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func (c *cli) runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, logger, err := c.load(false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	store, err := db.Open(ctx, cfg.Storage.Driver, cfg.Storage.URL)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	limiter := ratelimit.NewLimiter(cfg.RateLimit.Limiter())
	jwtService := server.NewJWTService(cfg.Auth)

	srv, err := server.New(server.Config{
		Port:            cfg.Server.Port,
		RequestTimeout:  cfg.Server.RequestTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, server.Deps{
		Tailor:  svc.tailor,
		Scorer:  svc.scorer,
		Store:   store,
		Auth:    jwtService.AsTokenValidator(),
		Limiter: limiter,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting jobtrack",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gCtx)
	})
	g.Go(func() error {
		reportCacheStats(gCtx, svc.cache, logger, cacheStatsInterval)
		return nil
	})
	return g.Wait()
}

// reportCacheStats logs cache counters until ctx is done.
func reportCacheStats(ctx context.Context, c *cache.Cache, logger *zap.Logger, every time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hits, misses := c.Stats()
			logger.Info("cache stats", zap.Int64("hits", hits), zap.Int64("misses", misses))
		}
	}
}
