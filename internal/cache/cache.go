// Package cache keeps the active governorate list in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kindones/storefront/internal/models"
)

const (
	activeGovernoratesKey = "governorates:active"
	DefaultTTL            = 5 * time.Minute
)

// ErrMiss is returned when nothing is cached.
var ErrMiss = errors.New("cache miss")

type GovernorateCache interface {
	GetActive(ctx context.Context) ([]models.Governorate, error)
	SetActive(ctx context.Context, gs []models.Governorate) error
	Invalidate(ctx context.Context) error
}

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(addr, password string) *RedisCache {
	return &RedisCache{
		Client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		TTL:    DefaultTTL,
	}
}

func (c *RedisCache) GetActive(ctx context.Context) ([]models.Governorate, error) {
	raw, err := c.Client.Get(ctx, activeGovernoratesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var gs []models.Governorate
	if err := json.Unmarshal(raw, &gs); err != nil {
		return nil, fmt.Errorf("decode cached governorates: %w", err)
	}
	return gs, nil
}

func (c *RedisCache) SetActive(ctx context.Context, gs []models.Governorate) error {
	raw, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("encode governorates: %w", err)
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := c.Client.Set(ctx, activeGovernoratesKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.Client.Del(ctx, activeGovernoratesKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// Nop always misses.
type Nop struct{}

func (Nop) GetActive(context.Context) ([]models.Governorate, error) { return nil, ErrMiss }

func (Nop) SetActive(context.Context, []models.Governorate) error { return nil }

func (Nop) Invalidate(context.Context) error { return nil }
