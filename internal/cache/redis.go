// Package cache wraps Redis for read-through caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"styleshop/internal/models"
)

// NewRedisClient initializes a redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

func SetJSON(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// GetJSON loads key into dest. A missing key is reported as false with no error.
func GetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

// ProductCache stores single products under product:<id>. Redis errors are
// logged and otherwise behave like a miss.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
	log logrus.FieldLogger
}

func NewProductCache(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl, log: log}
}

func productKey(id string) string { return "product:" + id }

func (c *ProductCache) Get(ctx context.Context, id string) (*models.Product, bool) {
	var p models.Product
	ok, err := GetJSON(ctx, c.rdb, productKey(id), &p)
	if err != nil {
		c.log.WithError(err).WithField("product_id", id).Debug("product cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) {
	if err := SetJSON(ctx, c.rdb, productKey(p.ID), p, c.ttl); err != nil {
		c.log.WithError(err).WithField("product_id", p.ID).Debug("product cache write failed")
	}
}

func (c *ProductCache) Evict(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, productKey(id)).Err(); err != nil {
		c.log.WithError(err).WithField("product_id", id).Warn("product cache eviction failed")
	}
}
