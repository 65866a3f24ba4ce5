// Package cache stores classifier probabilities in Redis keyed by the
// model fingerprint and the canonical feature vector.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

const keyPrefix = "growth:prediction:"

// PredictionCache remembers probabilities for previously seen inputs.
// model is the classifier fingerprint, so entries written by an earlier
// model are never served for a retrained one.
type PredictionCache interface {
	// Get returns the cached probability and whether it was found.
	Get(ctx context.Context, model string, req models.PredictionRequest) (float64, bool, error)
	Set(ctx context.Context, model string, req models.PredictionRequest, probability float64) error
}

type redisPredictionCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitBreaker
	logger  *zap.Logger
}

var _ PredictionCache = (*redisPredictionCache)(nil)

// NewPredictionCache returns a Redis-backed cache, or a no-op cache when
// client is nil (Redis not configured). While Redis keeps failing the
// circuit breaker opens and lookups are skipped as misses.
func NewPredictionCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) PredictionCache {
	return NewPredictionCacheWithBreaker(client, ttl, DefaultBreakerConfig(), logger)
}

// NewPredictionCacheWithBreaker is NewPredictionCache with explicit breaker settings.
func NewPredictionCacheWithBreaker(client *redis.Client, ttl time.Duration, breaker BreakerConfig, logger *zap.Logger) PredictionCache {
	if client == nil {
		return noopCache{}
	}
	return &redisPredictionCache{
		client:  client,
		ttl:     ttl,
		breaker: newCircuitBreaker(breaker),
		logger:  logger.Named("prediction-cache"),
	}
}

func cacheKey(model string, req models.PredictionRequest) string {
	return keyPrefix + model + ":" + req.Key()
}

func (c *redisPredictionCache) Get(ctx context.Context, model string, req models.PredictionRequest) (float64, bool, error) {
	if !c.breaker.allow() {
		return 0, false, nil
	}

	raw, err := c.client.Get(ctx, cacheKey(model, req)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.succeeded()
			return 0, false, nil
		}
		c.failed(err)
		return 0, false, fmt.Errorf("failed to read cached prediction: %w", err)
	}
	c.succeeded()

	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || p < 0 || p > 1 {
		// Corrupt entry: drop it so the next request recomputes.
		c.logger.Warn("Discarding malformed cache entry", zap.String("key", cacheKey(model, req)), zap.String("value", raw))
		_ = c.client.Del(ctx, cacheKey(model, req)).Err()
		return 0, false, nil
	}
	return p, true, nil
}

func (c *redisPredictionCache) Set(ctx context.Context, model string, req models.PredictionRequest, probability float64) error {
	if !c.breaker.allow() {
		return nil
	}

	value := strconv.FormatFloat(probability, 'g', -1, 64)
	if err := c.client.Set(ctx, cacheKey(model, req), value, c.ttl).Err(); err != nil {
		c.failed(err)
		return fmt.Errorf("failed to cache prediction: %w", err)
	}
	c.succeeded()
	return nil
}

func (c *redisPredictionCache) succeeded() {
	if prev := c.breaker.recordSuccess(); prev != CircuitClosed {
		c.logger.Info("Prediction cache recovered, circuit closed")
	}
}

func (c *redisPredictionCache) failed(err error) {
	prev := c.breaker.currentState()
	if state := c.breaker.recordFailure(); state == CircuitOpen && prev != CircuitOpen {
		c.logger.Warn("Prediction cache circuit opened, skipping Redis",
			zap.Duration("retry_after", c.breaker.resetAfter),
			zap.Error(err))
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, models.PredictionRequest) (float64, bool, error) {
	return 0, false, nil
}

func (noopCache) Set(context.Context, string, models.PredictionRequest, float64) error {
	return nil
}
