package cache

import (
	"context"
	"fmt"
	"time"

	agenterrors "github.com/kapu/youtube-summary-agent/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	summaryKeyPrefix  = "agent:summary:"
	DefaultSummaryTTL = 6 * time.Hour
)

// SummaryCache keeps generated summaries keyed by video ID so that repeat
// queries for an unchanged playlist head skip the model call. Callers must
// treat every failure as a miss; the cache can never abort the pipeline.
type SummaryCache struct {
	client *redis.Client
	logger *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewSummaryCache(cfg Config, logger *zap.Logger) (*SummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, agenterrors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &SummaryCache{
		client: client,
		logger: logger,
	}, nil
}

// GetSummary returns the cached summary for the video, "" on miss. Errors are
// logged and reported as misses.
func (c *SummaryCache) GetSummary(ctx context.Context, videoID string) (string, bool) {
	key := summaryKeyPrefix + videoID
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.Warn("Summary cache get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return value, value != ""
}

// SetSummary stores the summary best-effort.
func (c *SummaryCache) SetSummary(ctx context.Context, videoID, summary string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	key := summaryKeyPrefix + videoID
	if err := c.client.Set(ctx, key, summary, ttl).Err(); err != nil {
		c.logger.Warn("Summary cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *SummaryCache) Close() error {
	return c.client.Close()
}
