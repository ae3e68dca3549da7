// Package config загружает конфигурацию сервиса: значения по умолчанию,
// затем YAML-файл, затем переменные окружения (включая .env).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config - корневая конфигурация сервиса.
type Config struct {
	Server      ServerConfig     `koanf:"server"`
	Database    DatabaseConfig   `koanf:"database"`
	Storage     StorageConfig    `koanf:"storage"`
	Auth        AuthConfig       `koanf:"auth"`
	Modrinth    ModrinthConfig   `koanf:"modrinth"`
	CurseForge  CurseForgeConfig `koanf:"curseforge"`
	Cache       CacheConfig      `koanf:"cache"`
	Logging     LoggingConfig    `koanf:"logging"`
	Resolutions []string         `koanf:"resolutions"`
}

// ServerConfig - параметры HTTP-сервера.
type ServerConfig struct {
	Port               string        `koanf:"port"`
	CertFile           string        `koanf:"cert_file"`
	KeyFile            string        `koanf:"key_file"`
	ReadTimeout        time.Duration `koanf:"read_timeout"`
	WriteTimeout       time.Duration `koanf:"write_timeout"`
	IdleTimeout        time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins        []string      `koanf:"cors_origins"`
	LoginRateLimit     int           `koanf:"login_rate_limit"`     // запросов в минуту с одного IP
	IncrementRateLimit int           `koanf:"increment_rate_limit"` // запросов в минуту с одного IP
}

// TLSEnabled сообщает, заданы ли сертификат и ключ.
func (s ServerConfig) TLSEnabled() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

// DatabaseConfig - подключение к PostgreSQL.
// DSN имеет приоритет над отдельными полями.
type DatabaseConfig struct {
	DSN         string `koanf:"dsn"`
	Host        string `koanf:"host"`
	Port        string `koanf:"port"`
	User        string `koanf:"user"`
	Password    string `koanf:"password"`
	Name        string `koanf:"name"`
	SSLMode     string `koanf:"sslmode"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// ConnString возвращает строку подключения к БД.
func (d DatabaseConfig) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// StorageConfig - объектное хранилище (MinIO) для изображений галереи.
type StorageConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Endpoint        string        `koanf:"endpoint"`
	AccessKey       string        `koanf:"access_key"`
	SecretKey       string        `koanf:"secret_key"`
	Bucket          string        `koanf:"bucket"`
	Region          string        `koanf:"region"`
	UseSSL          bool          `koanf:"use_ssl"`
	UploadURLExpiry time.Duration `koanf:"upload_url_expiry"`
}

// AuthConfig - параметры сессии администратора.
type AuthConfig struct {
	SessionSecret string        `koanf:"session_secret"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
	CookieName    string        `koanf:"cookie_name"`
	CookieSecure  bool          `koanf:"cookie_secure"`
}

// ModrinthConfig - клиент API Modrinth.
type ModrinthConfig struct {
	BaseURL           string        `koanf:"base_url"`
	ProjectID         string        `koanf:"project_id"`
	UserAgent         string        `koanf:"user_agent"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	WarmInterval      time.Duration `koanf:"warm_interval"` // 0 отключает фоновый прогрев кэша
}

// CurseForgeConfig - статические ссылки CurseForge по разрешениям.
type CurseForgeConfig struct {
	Links map[string]string `koanf:"links"`
}

// Бэкенды кэша.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheConfig - кэш ответов внешних провайдеров.
type CacheConfig struct {
	Backend   string        `koanf:"backend"`
	TTL       time.Duration `koanf:"ttl"`
	RedisURL  string        `koanf:"redis_url"`
	KeyPrefix string        `koanf:"key_prefix"`
}

// LoggingConfig - параметры zerolog.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

const (
	minSessionSecretLen = 16
	minProviderTimeout  = time.Second
	maxProviderTimeout  = 30 * time.Second
)

// Validate проверяет согласованность конфигурации.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("не указан порт сервера (server.port)"))
	}
	if (c.Server.CertFile == "") != (c.Server.KeyFile == "") {
		errs = append(errs, errors.New("для TLS нужно указать и cert_file, и key_file"))
	}
	if c.Database.DSN == "" && (c.Database.Host == "" || c.Database.Name == "") {
		errs = append(errs, errors.New("не указана строка подключения к БД (database.dsn или DATABASE_URL)"))
	}
	if len(c.Auth.SessionSecret) < minSessionSecretLen {
		errs = append(errs, fmt.Errorf("секрет сессии (SESSION_SECRET) должен быть не короче %d символов",
			minSessionSecretLen))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("время жизни сессии должно быть положительным"))
	}
	if c.Modrinth.ProjectID == "" {
		errs = append(errs, errors.New("не указан идентификатор проекта Modrinth (MODRINTH_PROJECT_ID)"))
	}
	if c.Modrinth.Timeout < minProviderTimeout || c.Modrinth.Timeout > maxProviderTimeout {
		errs = append(errs, fmt.Errorf("таймаут Modrinth должен быть в диапазоне %s..%s",
			minProviderTimeout, maxProviderTimeout))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("TTL кэша должен быть положительным"))
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("для кэша redis нужно указать cache.redis_url (REDIS_URL)"))
		}
	default:
		errs = append(errs, fmt.Errorf("неизвестный бэкенд кэша: %q", c.Cache.Backend))
	}
	if c.Storage.Enabled && (c.Storage.Endpoint == "" || c.Storage.Bucket == "") {
		errs = append(errs, errors.New("для хранилища нужно указать endpoint и bucket"))
	}
	if len(c.Resolutions) == 0 {
		errs = append(errs, errors.New("список разрешений пуст"))
	}
	for _, res := range c.Resolutions {
		if !strings.HasSuffix(strings.ToLower(res), "x") {
			errs = append(errs, fmt.Errorf("некорректная метка разрешения: %q", res))
		}
	}

	return errors.Join(errs...)
}
