package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyLocationIngest = "location:ingest:%s"

// LocationIngestLimiter throttles location updates per caller identity.
// A nil limiter means no redis is configured and every update passes.
type LocationIngestLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewLocationIngestLimiter(cfg config.Config) (*LocationIngestLimiter, error) {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, nil
	}
	if cfg.LocationIngestRate <= 0 || cfg.LocationIngestBurst <= 0 {
		return nil, fmt.Errorf("location ingest rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &LocationIngestLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    cfg.LocationIngestRate,
		burst:   cfg.LocationIngestBurst,
	}, nil
}

func (l *LocationIngestLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *LocationIngestLimiter) Allow(ctx context.Context, uid string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyLocationIngest, strings.TrimSpace(uid)), l.rate, l.burst)
}
