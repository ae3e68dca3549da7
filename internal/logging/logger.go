// Package logging настраивает глобальный zerolog-логгер сервиса.
//
// Остальные пакеты пишут в github.com/rs/zerolog/log, сохраняя префикс
// компонента в сообщении: log.Info().Msgf("[Repo] ...").
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Форматы вывода.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config хранит настройки логирования.
type Config struct {
	Level   string // trace, debug, info, warn, error
	Format  string // json или console
	Caller  bool   // добавлять файл и строку вызова
	Service string // значение поля service в каждой записи
	Output  io.Writer
}

// Init перенастраивает глобальный логгер. Безопасно вызывать повторно.
func Init(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = cfg.Output
	if strings.EqualFold(cfg.Format, FormatConsole) {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()

	log.Logger = logger
	return logger
}

// ParseLevel переводит строковый уровень в zerolog.Level (info по умолчанию).
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
