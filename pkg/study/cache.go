package study

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/synaptica-ai/psmatch/pkg/common/logger"
	"github.com/synaptica-ai/psmatch/pkg/psm"
)

// ResultCache keeps serialized analysis results hot in Redis so the
// platform's report generators can fetch a recent run without touching
// Postgres. Best effort: cache failures are logged, never fatal.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

func cacheKey(runID string) string {
	return fmt.Sprintf("analysis:result:%s", runID)
}

func (c *ResultCache) Put(ctx context.Context, runID string, result *psm.AnalysisResult) {
	data, err := json.Marshal(result)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to serialize analysis result for cache")
		return
	}
	if err := c.client.Set(ctx, cacheKey(runID), data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("run_id", runID).Warn("Failed to cache analysis result")
	}
}

func (c *ResultCache) Get(ctx context.Context, runID string) (*psm.AnalysisResult, bool) {
	data, err := c.client.Get(ctx, cacheKey(runID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).WithField("run_id", runID).Warn("Failed to read cached analysis result")
		}
		return nil, false
	}
	var result psm.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Log.WithError(err).WithField("run_id", runID).Warn("Cached analysis result is corrupt")
		return nil, false
	}
	return &result, true
}
