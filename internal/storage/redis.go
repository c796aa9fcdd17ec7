package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix  = "newsdesk:session:"
	defaultRedisTimeout = 2 * time.Second
)

// RedisConfig holds configuration for Redis-backed storage
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStorage keeps values in Redis without expiry, so several processes on
// different hosts can share one session
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis and verifies the connection
func NewRedis(cfg RedisConfig) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewRedisWithClient(client, cfg.Prefix), nil
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client *redis.Client, prefix string) *RedisStorage {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStorage{client: client, prefix: prefix}
}

func (r *RedisStorage) key(k string) string {
	return r.prefix + k
}

func (r *RedisStorage) Get(key string) (string, bool) {
	if r.client == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRedisTimeout)
	defer cancel()

	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (r *RedisStorage) Set(key, value string) error {
	if r.client == nil {
		return ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRedisTimeout)
	defer cancel()

	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisStorage) Remove(key string) error {
	if r.client == nil {
		return ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRedisTimeout)
	defer cancel()

	err := r.client.Del(ctx, r.key(key)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// Client exposes the underlying connection for sharing with other components
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// Close closes the Redis connection
func (r *RedisStorage) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

var _ Storage = (*RedisStorage)(nil)
