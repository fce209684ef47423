package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"thread-backend/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheVersionKey = "products:version"
	defaultCacheTTL = 5 * time.Minute
)

// Every cache key carries the catalog version that was current when the
// backing query started. Invalidate bumps the version, so a fill racing a
// catalog write lands under the old version and is never read again.
func detailCacheKey(version int64, id string) string {
	return fmt.Sprintf("product:v:%d:detail:%s", version, id)
}

func listCacheKey(version int64, key string) string {
	return fmt.Sprintf("products:v:%d:%s", version, key)
}

// ProductCache caches catalog reads in Redis. A nil client turns every
// operation into a no-op.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{redis: client, ttl: defaultCacheTTL}
}

// GetProduct returns a cached product detail. On a miss it also returns the
// catalog version the caller must pass back to SetProduct.
func (c *ProductCache) GetProduct(ctx context.Context, id string) (*models.Product, int64, bool) {
	if c.redis == nil {
		return nil, 0, false
	}
	version, err := c.version(ctx)
	if err != nil {
		return nil, 0, false
	}
	data, err := c.redis.Get(ctx, detailCacheKey(version, id)).Result()
	if err != nil {
		return nil, version, false
	}
	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		zap.L().Warn("Failed to unmarshal cached product", zap.Error(err))
		return nil, version, false
	}
	return &product, version, true
}

// SetProduct caches a product detail asynchronously under the version that
// was current before the backing read.
func (c *ProductCache) SetProduct(version int64, id string, product *models.Product) {
	if c.redis == nil || version <= 0 {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(product)
		if err != nil {
			return
		}
		if err := c.redis.Set(bgCtx, detailCacheKey(version, id), data, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product", zap.Error(err), zap.String("product_id", id))
		}
	}()
}

// GetList returns a cached product list for the given query key, plus the
// version to pass to SetList on a miss.
func (c *ProductCache) GetList(ctx context.Context, key string) ([]models.Product, int64, bool) {
	if c.redis == nil {
		return nil, 0, false
	}
	version, err := c.version(ctx)
	if err != nil {
		return nil, 0, false
	}
	data, err := c.redis.Get(ctx, listCacheKey(version, key)).Result()
	if err != nil {
		return nil, version, false
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, version, false
	}
	return products, version, true
}

// SetList caches a product list asynchronously under the supplied version.
// A write that lost a race with Invalidate lands under the old version key
// and stays invisible.
func (c *ProductCache) SetList(version int64, key string, products []models.Product) {
	if c.redis == nil || version <= 0 {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(products)
		if err != nil {
			return
		}
		if err := c.redis.Set(bgCtx, listCacheKey(version, key), data, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate bumps the catalog version, orphaning every entry cached under
// the previous one.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Incr(ctx, cacheVersionKey).Err(); err != nil {
		zap.L().Warn("Failed to bump product cache version", zap.Error(err))
	}
}

func (c *ProductCache) version(ctx context.Context) (int64, error) {
	version, err := c.redis.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return version, err
}
