package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// BatchCacheTTL is the time-to-live for cached batches.
	BatchCacheTTL = 24 * time.Hour

	batchCacheKeyPrefix = "batch"
)

// CachedBatch is the denormalized read model stored in Redis. AvailableQty
// is precomputed at write time so readers never re-derive it from the
// allocation set.
type CachedBatch struct {
	ID           uuid.UUID `json:"id"`
	SKU          string    `json:"sku"`
	Qty          int       `json:"qty"`
	AvailableQty int       `json:"available_qty"`
	ETA          time.Time `json:"eta"`
}

// BatchCache provides structured read/write operations for batch cache
// entries. Key format: "batch:{batchID}"
type BatchCache struct {
	client *RedisClient
}

// NewBatchCache creates a new BatchCache backed by the given RedisClient.
func NewBatchCache(r *RedisClient) *BatchCache {
	return &BatchCache{client: r}
}

// Get retrieves a cached batch by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *BatchCache) Get(ctx context.Context, batchID uuid.UUID) (*CachedBatch, error) {
	key := c.key(batchID)
	vals, err := c.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	qty, err := strconv.Atoi(vals["qty"])
	if err != nil {
		return nil, fmt.Errorf("cache parse qty: %w", err)
	}
	available, err := strconv.Atoi(vals["available_qty"])
	if err != nil {
		return nil, fmt.Errorf("cache parse available_qty: %w", err)
	}
	eta, err := time.Parse(time.RFC3339Nano, vals["eta"])
	if err != nil {
		return nil, fmt.Errorf("cache parse eta: %w", err)
	}

	return &CachedBatch{
		ID:           id,
		SKU:          vals["sku"],
		Qty:          qty,
		AvailableQty: available,
		ETA:          eta,
	}, nil
}

// Set writes a cached batch as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *BatchCache) Set(ctx context.Context, batch *CachedBatch) error {
	key := c.key(batch.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", batch.ID.String(),
		"sku", batch.SKU,
		"qty", strconv.Itoa(batch.Qty),
		"available_qty", strconv.Itoa(batch.AvailableQty),
		"eta", batch.ETA.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, BatchCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached batch. Callers invalidate after any allocation
// change so a stale availability is never served past the next write.
func (c *BatchCache) Delete(ctx context.Context, batchID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(batchID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "batch:{batchID}"
func (c *BatchCache) key(batchID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", batchCacheKeyPrefix, batchID)
}
