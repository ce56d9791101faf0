// backend-go/internal/cache/catalog_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blackdogpanama/pedidos/backend-go/internal/catalog"
	"github.com/blackdogpanama/pedidos/backend-go/internal/config"
)

const (
	catalogKey     = "catalog:products"
	catalogMetaKey = "catalog:metadata"
)

// CatalogCache keeps the resolved product catalog between runs so the bulk
// ERP fetch only happens when the snapshot goes stale (15-day window).
type CatalogCache interface {
	Get(ctx context.Context) (map[int64]*catalog.ProductRecord, bool, error)
	Set(ctx context.Context, products map[int64]*catalog.ProductRecord) error
	Invalidate(ctx context.Context) error
}

type catalogMetadata struct {
	LastUpdate    time.Time `json:"last_update"`
	ProductsCount int       `json:"products_count"`
}

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopCatalogCache struct{}

// NewCatalogCache returns a redis-backed cache, or a noop when caching is
// disabled.
func NewCatalogCache(cfg config.CacheConfig) (CatalogCache, error) {
	if !cfg.Enabled {
		return &noopCatalogCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisCatalogCache{client: client, ttl: ttl}, nil
}

// NewNoopCatalogCache returns a cache that never hits.
func NewNoopCatalogCache() CatalogCache {
	return &noopCatalogCache{}
}

func (c *redisCatalogCache) Get(ctx context.Context) (map[int64]*catalog.ProductRecord, bool, error) {
	metaPayload, err := c.client.Get(ctx, catalogMetaKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var meta catalogMetadata
	if err := json.Unmarshal(metaPayload, &meta); err != nil {
		return nil, false, fmt.Errorf("decode catalog metadata: %w", err)
	}
	if time.Since(meta.LastUpdate) >= c.ttl {
		return nil, false, nil
	}

	payload, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var products map[int64]*catalog.ProductRecord
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, false, fmt.Errorf("decode catalog cache: %w", err)
	}
	return products, true, nil
}

func (c *redisCatalogCache) Set(ctx context.Context, products map[int64]*catalog.ProductRecord) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	meta, err := json.Marshal(catalogMetadata{
		LastUpdate:    time.Now(),
		ProductsCount: len(products),
	})
	if err != nil {
		return fmt.Errorf("encode catalog metadata: %w", err)
	}

	if err := c.client.Set(ctx, catalogKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	if err := c.client.Set(ctx, catalogMetaKey, meta, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey, catalogMetaKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *noopCatalogCache) Get(context.Context) (map[int64]*catalog.ProductRecord, bool, error) {
	return nil, false, nil
}

func (c *noopCatalogCache) Set(context.Context, map[int64]*catalog.ProductRecord) error {
	return nil
}

func (c *noopCatalogCache) Invalidate(context.Context) error {
	return nil
}
