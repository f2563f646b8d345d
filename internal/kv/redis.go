package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 3 * time.Second

// Redis adapts a go-redis client to the synchronous Store contract. Each call
// runs under its own bounded context.
type Redis struct {
	client  *goredis.Client
	timeout time.Duration
}

func NewRedis(client *goredis.Client, timeout time.Duration) *Redis {
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	return &Redis{client: client, timeout: timeout}
}

// DialRedis connects to addr and pings it before returning.
func DialRedis(addr string, password string, db int) (*Redis, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedis(client, defaultRedisTimeout), nil
}

func (store *Redis) Get(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), store.timeout)
	defer cancel()

	value, err := store.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (store *Redis) Put(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), store.timeout)
	defer cancel()

	if err := store.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (store *Redis) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), store.timeout)
	defer cancel()

	if err := store.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (store *Redis) Close() error {
	return store.client.Close()
}
