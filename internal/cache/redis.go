package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis - кэш в Redis, общий для всех экземпляров сервиса.
type Redis struct {
	client redis.Cmdable
	prefix string
}

var _ Cache = (*Redis)(nil)

// NewRedis создает кэш поверх клиента Redis. prefix добавляется к каждому ключу.
func NewRedis(client redis.Cmdable, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// NewRedisFromURL подключается к Redis по URL вида redis://host:6379/0.
func NewRedisFromURL(ctx context.Context, rawURL, prefix string) (*Redis, *redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка разбора адреса Redis: %w", err)
	}
	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}
	return NewRedis(client, prefix), client, nil
}

// Get читает значение по ключу.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из Redis: %w", err)
	}
	return value, true, nil
}

// Set сохраняет значение с истечением через ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи в Redis: %w", err)
	}
	return nil
}

// Delete удаляет ключ.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("ошибка удаления из Redis: %w", err)
	}
	return nil
}
