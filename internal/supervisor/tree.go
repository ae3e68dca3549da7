// Package supervisor запускает долгоживущие сервисы сервера под деревом suture.
package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
)

// TreeConfig задает политику перезапуска сервисов.
type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

// DefaultTreeConfig возвращает политику перезапуска по умолчанию.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree - корневой супервизор с ветками API и фоновых задач.
type Tree struct {
	root       *suture.Supervisor
	api        *suture.Supervisor
	background *suture.Supervisor
}

// NewTree создает дерево супервизоров. Нулевые поля cfg заменяются значениями по умолчанию.
func NewTree(name string, cfg TreeConfig) *Tree {
	def := DefaultTreeConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = def.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = def.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	spec := suture.Spec{
		EventHook:        logEvent,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	childSpec := spec
	childSpec.EventHook = nil

	root := suture.New(name, spec)
	api := suture.New("api", childSpec)
	background := suture.New("background", childSpec)
	root.Add(api)
	root.Add(background)

	return &Tree{root: root, api: api, background: background}
}

// AddAPIService добавляет сервис, обслуживающий клиентов.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// AddBackgroundService добавляет фоновую задачу.
func (t *Tree) AddBackgroundService(svc suture.Service) suture.ServiceToken {
	return t.background.Add(svc)
}

// Serve блокируется до отмены ctx.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground запускает дерево в отдельной горутине.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// logEvent пишет события suture в zerolog.
func logEvent(e suture.Event) {
	ev := log.Warn()
	if e.Type() == suture.EventTypeResume {
		ev = log.Info()
	}
	ev.Fields(e.Map()).Msgf("[Supervisor] %s", e.String())
}
