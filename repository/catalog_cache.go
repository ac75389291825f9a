package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/redis/go-redis/v9"
)

const (
	menuCacheKey = "catalog:menu"
	menuCacheTTL = 5 * time.Minute
)

// CatalogCache holds a short-lived copy of the public menu so browsing does
// not hit Postgres on every request. A miss returns (nil, nil).
type CatalogCache interface {
	GetMenu(ctx context.Context) ([]models.Product, error)
	SetMenu(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// RedisCatalogCache implements CatalogCache on Redis.
type RedisCatalogCache struct {
	client *redis.Client
}

func NewRedisCatalogCache(client *redis.Client) CatalogCache {
	return &RedisCatalogCache{client: client}
}

func (c *RedisCatalogCache) GetMenu(ctx context.Context) ([]models.Product, error) {
	raw, err := c.client.Get(ctx, menuCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *RedisCatalogCache) SetMenu(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, menuCacheKey, raw, menuCacheTTL).Err()
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, menuCacheKey).Err()
}
