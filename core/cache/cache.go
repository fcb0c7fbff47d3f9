package cache

import (
	"context"
	"fmt"
	"time"

	"deadline-tracker/core/config"
	"deadline-tracker/core/constants"
	"deadline-tracker/core/logger"

	"github.com/redis/go-redis/v9"
)

type ICache interface {
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	SetLastSyncAt(ctx context.Context, teacherID string, at time.Time) error
	GetLastSyncAt(ctx context.Context, teacherID string) (time.Time, bool, error)
	Close() error
}

type Cache struct {
	client *redis.Client
}

func InitCache(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)
	return &Cache{client: client}, nil
}

func (c *Cache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := constants.RedisKeyTokenBlacklist + token
	if err := c.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		logger.Error("Cache:BlacklistToken:Error:", err)
		return err
	}
	return nil
}

func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := constants.RedisKeyTokenBlacklist + token
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		logger.Error("Cache:IsTokenBlacklisted:Error:", err)
		return false, err
	}
	return n > 0, nil
}

func (c *Cache) SetLastSyncAt(ctx context.Context, teacherID string, at time.Time) error {
	key := constants.RedisKeyLastSync + teacherID
	if err := c.client.Set(ctx, key, at.UTC().Format(time.RFC3339), 0).Err(); err != nil {
		logger.Error("Cache:SetLastSyncAt:Error:", err)
		return err
	}
	return nil
}

func (c *Cache) GetLastSyncAt(ctx context.Context, teacherID string) (time.Time, bool, error) {
	key := constants.RedisKeyLastSync + teacherID
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		logger.Error("Cache:GetLastSyncAt:Error:", err)
		return time.Time{}, false, err
	}
	at, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
