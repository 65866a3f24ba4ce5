package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

const testModel = "0123456789abcdef"

func newTestCache(t *testing.T, ttl time.Duration) (PredictionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPredictionCache(client, ttl, zap.NewNop()), mr
}

func TestPredictionCache_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()
	req := models.PredictionRequest{MediaCount: 10, Followers: 5, Followees: 20, HasPublicStory: 1}

	_, ok, err := c.Get(ctx, testModel, req)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, testModel, req, 0.7312))

	p, ok, err := c.Get(ctx, testModel, req)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.7312, p)

	assert.True(t, mr.Exists("growth:prediction:0123456789abcdef:0,10,5,20,0,1"))
	assert.Equal(t, time.Hour, mr.TTL("growth:prediction:0123456789abcdef:0,10,5,20,0,1"))
}

func TestPredictionCache_DistinctInputsDoNotCollide(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	a := models.PredictionRequest{Followers: 1}
	b := models.PredictionRequest{Followees: 1}
	require.NoError(t, c.Set(ctx, testModel, a, 0.1))

	_, ok, err := c.Get(ctx, testModel, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPredictionCache_ModelsDoNotShareEntries(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	req := models.DefaultPredictionRequest()

	require.NoError(t, c.Set(ctx, "model-a", req, 0.2))

	_, ok, err := c.Get(ctx, "model-b", req)
	require.NoError(t, err)
	assert.False(t, ok)

	p, ok, err := c.Get(ctx, "model-a", req)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.2, p)
}

func TestPredictionCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	req := models.DefaultPredictionRequest()

	require.NoError(t, c.Set(ctx, testModel, req, 0.5))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, testModel, req)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPredictionCache_MalformedEntryIsDropped(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	req := models.DefaultPredictionRequest()
	key := "growth:prediction:" + testModel + ":" + req.Key()
	require.NoError(t, mr.Set(key, "not-a-number"))

	_, ok, err := c.Get(context.Background(), testModel, req)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(key))
}

func TestPredictionCache_BackendDown(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	mr.Close()

	_, _, err := c.Get(context.Background(), testModel, models.DefaultPredictionRequest())
	assert.Error(t, err)
	assert.Error(t, c.Set(context.Background(), testModel, models.DefaultPredictionRequest(), 0.5))
}

func TestPredictionCache_NilClientIsNoop(t *testing.T) {
	c := NewPredictionCache(nil, time.Hour, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testModel, models.DefaultPredictionRequest(), 0.5))
	_, ok, err := c.Get(ctx, testModel, models.DefaultPredictionRequest())
	require.NoError(t, err)
	assert.False(t, ok)
}
