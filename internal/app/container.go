package app

import (
	"context"
	"fmt"

	"github.com/kapu/youtube-summary-agent/internal/adapter"
	"github.com/kapu/youtube-summary-agent/internal/agent"
	"github.com/kapu/youtube-summary-agent/internal/config"
	"github.com/kapu/youtube-summary-agent/internal/server"
	"github.com/kapu/youtube-summary-agent/internal/service/ai"
	"github.com/kapu/youtube-summary-agent/internal/service/cache"
	"github.com/kapu/youtube-summary-agent/internal/service/conversation"
	"github.com/kapu/youtube-summary-agent/internal/service/database"
	"github.com/kapu/youtube-summary-agent/internal/service/transcript"
	"github.com/kapu/youtube-summary-agent/internal/service/youtube"
	"go.uber.org/zap"
)

// Container bundles the assembled service graph. All heavy-weight
// initialization (YouTube client, model client, Redis, Postgres) happens in
// Build so that the pipeline itself stays free of construction concerns.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Server *server.Server

	closers []func()
}

// Close releases held resources in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all services. On partial failure, everything already
// constructed is rolled back before returning.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	resolver, err := youtube.NewResolver(ctx, cfg.YouTube.APIKey, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create video resolver: %w", err)
	}

	transcripts := transcript.NewService(logger)

	var summarizer agent.Summarizer
	switch cfg.Summary.Provider {
	case "gemini":
		summarizer, err = ai.NewGeminiSummarizer(ctx, cfg.Summary.GeminiAPIKey, cfg.Summary.Model, logger)
	default:
		summarizer, err = ai.NewOpenAISummarizer(cfg.Summary.OpenAIAPIKey, cfg.Summary.Model, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer: %w", err)
	}

	var summaryCache agent.SummaryCache
	if cfg.Redis.Host != "" {
		redisCache, cacheErr := cache.NewSummaryCache(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create summary cache: %w", cacheErr)
		}
		closers = append(closers, func() {
			_ = redisCache.Close()
		})
		summaryCache = redisCache
	} else {
		logger.Info("Summary cache disabled (no REDIS_HOST)")
	}

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	store := conversation.NewStore(postgresSvc, logger)
	pipeline := agent.NewPipeline(resolver, transcripts, summarizer, summaryCache, logger)
	formatter := adapter.NewDigestFormatter()

	srv := server.NewServer(cfg.Server.Host, cfg.Server.Port, cfg.Server.BearerToken,
		pipeline, formatter, store, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Server:  srv,
		closers: closers,
	}, nil
}
