// Package cache содержит кэш ответов внешних провайдеров.
//
// Кэш передается провайдерам при создании: в памяти процесса (Memory) или
// общий для нескольких экземпляров (Redis). Значения хранятся в JSON.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/metrics"
)

// Cache - хранилище значений с ограниченным временем жизни.
type Cache interface {
	// Get возвращает значение и true, если ключ есть и не истек.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет значение на ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete удаляет ключ.
	Delete(ctx context.Context, key string) error
}

// Clock возвращает текущее время. Подменяется в тестах.
type Clock func() time.Time

// GetOrLoad возвращает значение из кэша, а при промахе вызывает load и
// кэширует успешный результат на ttl. Ошибки самого кэша считаются промахом.
func GetOrLoad[T any](
	ctx context.Context,
	c Cache,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var value T

	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msgf("[Cache] Ошибка чтения ключа '%s', загружаем заново", key)
	}
	if ok {
		if err = json.Unmarshal(raw, &value); err == nil {
			metrics.RecordCacheLookup(key, true)
			return value, nil
		}
		log.Warn().Err(err).Msgf("[Cache] Поврежденное значение ключа '%s', загружаем заново", key)
	}
	metrics.RecordCacheLookup(key, false)

	return loadAndStore(ctx, c, key, ttl, load)
}

// Refresh всегда вызывает load и перезаписывает ключ свежим значением, не
// читая кэш. При ошибке load прежнее значение остается в кэше.
func Refresh[T any](
	ctx context.Context,
	c Cache,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	return loadAndStore(ctx, c, key, ttl, load)
}

func loadAndStore[T any](
	ctx context.Context,
	c Cache,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return value, fmt.Errorf("ошибка сериализации значения для кэша: %w", err)
	}
	if err = c.Set(ctx, key, raw, ttl); err != nil {
		log.Warn().Err(err).Msgf("[Cache] Не удалось сохранить ключ '%s'", key)
	}
	return value, nil
}
