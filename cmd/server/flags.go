package main

import (
	"flag"
	"fmt"

	"github.com/SteakTheStake/SummitMC/internal/config"
)

// options - параметры командной строки. Непустые значения переопределяют
// файл конфигурации и переменные окружения.
type options struct {
	ConfigPath  string
	Port        string
	CertFile    string
	KeyFile     string
	DatabaseDSN string
	LogLevel    string
}

// parseFlags разбирает аргументы командной строки.
func parseFlags(args []string) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("summit-server", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "",
		fmt.Sprintf("Путь к YAML-файлу конфигурации (env: %s)", config.ConfigPathEnvVar))
	fs.StringVar(&opts.Port, "port", "", "Порт HTTP-сервера (env: PORT)")
	fs.StringVar(&opts.CertFile, "cert-file", "", "Путь к файлу TLS-сертификата (env: TLS_CERT_FILE)")
	fs.StringVar(&opts.KeyFile, "key-file", "", "Путь к файлу TLS-ключа (env: TLS_KEY_FILE)")
	fs.StringVar(&opts.DatabaseDSN, "database-dsn", "", "Строка подключения к БД (env: DATABASE_URL)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Уровень логирования (env: LOG_LEVEL)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("ошибка разбора флагов: %w", err)
	}
	return opts, nil
}

// loadConfig загружает конфигурацию и применяет флаги поверх нее.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	opts.apply(cfg)
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}
	return cfg, nil
}

func (o *options) apply(cfg *config.Config) {
	if o.Port != "" {
		cfg.Server.Port = o.Port
	}
	if o.CertFile != "" {
		cfg.Server.CertFile = o.CertFile
	}
	if o.KeyFile != "" {
		cfg.Server.KeyFile = o.KeyFile
	}
	if o.DatabaseDSN != "" {
		cfg.Database.DSN = o.DatabaseDSN
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
}
