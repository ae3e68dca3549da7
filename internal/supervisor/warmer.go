package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// WarmFunc обновляет один кэшированный набор данных.
type WarmFunc func(ctx context.Context)

// CacheWarmer периодически обновляет кэш внешних провайдеров,
// чтобы пользовательские запросы реже ждали сеть.
type CacheWarmer struct {
	interval time.Duration
	funcs    []WarmFunc
}

// NewCacheWarmer создает сервис прогрева. interval <= 0 дает 5 минут.
func NewCacheWarmer(interval time.Duration, funcs ...WarmFunc) *CacheWarmer {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheWarmer{interval: interval, funcs: funcs}
}

// Serve реализует suture.Service. Первый прогрев выполняется сразу.
func (w *CacheWarmer) Serve(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.warm(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *CacheWarmer) warm(ctx context.Context) {
	start := time.Now()
	for _, fn := range w.funcs {
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("[CacheWarmer] Кэш провайдеров обновлен")
}

func (w *CacheWarmer) String() string {
	return "cache-warmer"
}
