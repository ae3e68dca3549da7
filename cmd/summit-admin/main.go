// Команда summit-admin - терминальная консоль администратора сайта Summit.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/client/tui"
	"github.com/SteakTheStake/SummitMC/internal/logging"
)

const (
	logDir             = "logs"
	logFileName        = "summit-admin.log"
	logFilePermissions = 0o600
	serverURLEnvVar    = "SUMMIT_SERVER_URL"
	defaultServerURL   = "http://localhost:8080"
	defaultLockName    = "summit-admin.lock"
)

// Устанавливаются через ldflags при сборке.
var (
	version    = "dev"
	buildDate  = "unknown"
	commitHash = "N/A"
)

type options struct {
	ServerURL   string
	LockPath    string
	Debug       bool
	ShowVersion bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.ShowVersion {
		printVersion(os.Stdout)
		return
	}

	closeLog, err := setupLogging(logDir, opts.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	log.Info().Msgf("[Admin] Запуск консоли, сервер %s", opts.ServerURL)
	if err = tui.Start(opts.ServerURL, opts.LockPath, opts.Debug); err != nil {
		log.Error().Err(err).Msg("[Admin] Ошибка консоли")
		fmt.Fprintln(os.Stderr, err)
		closeLog()
		os.Exit(1) //nolint:gocritic // лог закрыт вручную
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("summit-admin", flag.ContinueOnError)
	fs.StringVar(&opts.ServerURL, "server-url", "",
		fmt.Sprintf("URL сайта Summit (env: %s, по умолчанию %s)", serverURLEnvVar, defaultServerURL))
	fs.StringVar(&opts.LockPath, "lock", "", "Файл блокировки, по умолчанию в каталоге кэша пользователя")
	fs.BoolVar(&opts.Debug, "debug", false, "Включить режим отладки")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Показать версию и дату сборки")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.ServerURL == "" {
		opts.ServerURL = os.Getenv(serverURLEnvVar)
	}
	if opts.ServerURL == "" {
		opts.ServerURL = defaultServerURL
	}
	if opts.LockPath == "" {
		opts.LockPath = defaultLockPath()
	}
	return opts, nil
}

// defaultLockPath - один файл блокировки на пользователя.
func defaultLockPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), defaultLockName)
	}
	dir = filepath.Join(dir, "summit")
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return filepath.Join(os.TempDir(), defaultLockName)
	}
	return filepath.Join(dir, defaultLockName)
}

// setupLogging направляет логи в файл: вывод в терминал занят TUI.
func setupLogging(dir string, debug bool) (func(), error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог логов: %w", err)
	}
	logPath := filepath.Join(dir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть лог-файл: %w", err)
	}

	level := "info"
	if debug {
		level = "debug"
	}
	logging.Init(logging.Config{
		Level:   level,
		Format:  logging.FormatJSON,
		Service: "summit-admin",
		Output:  logFile,
	})

	closed := false
	return func() {
		if !closed {
			closed = true
			_ = logFile.Close()
		}
	}, nil
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, "Summit admin console")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Date: %s\n", buildDate)
	fmt.Fprintf(w, "Commit Hash: %s\n", commitHash)
}
