package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
	DefaultCacheTTL        = 5 * time.Minute
)

// ProductCache caches public product listings. Invalidate drops every cached
// listing at once.
type ProductCache interface {
	GetList(ctx context.Context, filter models.ProductFilter) ([]models.Product, bool)
	SetList(filter models.ProductFilter, products []models.Product)
	Invalidate(ctx context.Context)
}

type NoopProductCache struct{}

func (NoopProductCache) GetList(context.Context, models.ProductFilter) ([]models.Product, bool) {
	return nil, false
}
func (NoopProductCache) SetList(models.ProductFilter, []models.Product) {}
func (NoopProductCache) Invalidate(context.Context)                     {}

// RedisProductCache versions list keys: invalidation bumps the version so
// stale keys are never read again and simply expire.
type RedisProductCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisProductCache{redis: client, ttl: ttl, logger: logger}
}

func (c *RedisProductCache) GetList(ctx context.Context, filter models.ProductFilter) ([]models.Product, bool) {
	version, err := c.version(ctx)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("products").Inc()
		return nil, false
	}

	cached, err := c.redis.Get(ctx, ListCacheKey(version, filter)).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues("products").Inc()
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(cached, &products); err != nil {
		c.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("products").Inc()
	return products, true
}

// SetList stores the listing in the background.
func (c *RedisProductCache) SetList(filter models.ProductFilter, products []models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := c.version(ctx)
		if err != nil {
			return
		}
		payload, err := json.Marshal(products)
		if err != nil {
			c.logger.Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := c.redis.Set(ctx, ListCacheKey(version, filter), payload, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

func (c *RedisProductCache) Invalidate(ctx context.Context) {
	version, err := c.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		c.logger.Error("Failed to invalidate product cache", zap.Error(err))
		return
	}
	c.logger.Debug("Product cache invalidated", zap.Int64("version", version))
}

func (c *RedisProductCache) version(ctx context.Context) (int64, error) {
	ver, err := c.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil {
		return ver, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, err
	}
	// SetNX so a concurrent Incr is not overwritten.
	if err := c.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	return c.redis.Get(ctx, CacheVersionKey).Int64()
}

// ListCacheKey identifies one product listing at a cache version.
func ListCacheKey(version int64, f models.ProductFilter) string {
	return fmt.Sprintf("%s%d:c:%s:b:%s:q:%s:s:%s:min:%s:max:%s",
		ProductListCachePrefix,
		version,
		strconv.Quote(f.Category),
		strconv.Quote(f.Brand),
		strconv.Quote(f.Search),
		f.Sort,
		formatFloatForCache(f.MinPrice),
		formatFloatForCache(f.MaxPrice),
	)
}

func formatFloatForCache(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
