package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

// ConfigPathEnvVar - переменная окружения с путем к YAML-файлу конфигурации.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load собирает конфигурацию в порядке: значения по умолчанию, YAML-файл
// (если путь задан), переменные окружения. Перед этим подгружается .env.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("ошибка загрузки значений по умолчанию: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("ошибка загрузки файла конфигурации %s: %w", path, err)
		}
		log.Info().Msgf("[Config] Загружен файл конфигурации %s", path)
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("ошибка загрузки переменных окружения: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}
	return cfg, nil
}

// envMappings сопоставляет переменные окружения и ключи конфигурации.
// Неизвестные переменные игнорируются.
var envMappings = map[string]string{
	"port":                 "server.port",
	"server_port":          "server.port",
	"tls_cert_file":        "server.cert_file",
	"tls_key_file":         "server.key_file",
	"cors_origins":         "server.cors_origins",
	"login_rate_limit":     "server.login_rate_limit",
	"increment_rate_limit": "server.increment_rate_limit",

	"database_url":      "database.dsn",
	"database_dsn":      "database.dsn",
	"postgres_host":     "database.host",
	"postgres_port":     "database.port",
	"postgres_user":     "database.user",
	"postgres_password": "database.password",
	"postgres_db":       "database.name",
	"db_auto_migrate":   "database.auto_migrate",

	"minio_enabled":  "storage.enabled",
	"minio_endpoint": "storage.endpoint",
	"minio_user":     "storage.access_key",
	"minio_password": "storage.secret_key",
	"minio_bucket":   "storage.bucket",
	"minio_use_ssl":  "storage.use_ssl",

	"session_secret": "auth.session_secret",
	"session_ttl":    "auth.session_ttl",
	"cookie_secure":  "auth.cookie_secure",

	"modrinth_base_url":      "modrinth.base_url",
	"modrinth_project_id":    "modrinth.project_id",
	"modrinth_timeout":       "modrinth.timeout",
	"modrinth_warm_interval": "modrinth.warm_interval",

	"curseforge_latest_32_url": "curseforge.links.32x",
	"curseforge_latest_64_url": "curseforge.links.64x",

	"cache_backend": "cache.backend",
	"cache_ttl":     "cache.ttl",
	"redis_url":     "cache.redis_url",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"resolutions": "resolutions",
}

// envTransformFunc переводит имя переменной окружения в ключ конфигурации.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// sliceConfigPaths - ключи, которые из окружения приходят строкой через запятую.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"resolutions",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("ошибка установки %s: %w", path, err)
		}
	}
	return nil
}
