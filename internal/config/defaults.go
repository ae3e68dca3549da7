package config

import "time"

// Значения по умолчанию.
const (
	defaultServerPort      = "8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	defaultDBHost = "localhost"
	defaultDBPort = "5432"
	defaultDBUser = "summit"
	defaultDBPass = "secret"
	defaultDBName = "summit"

	defaultMinioEndpoint = "localhost:9000"
	defaultMinioUser     = "minioadmin"
	defaultMinioPassword = "minioadmin"
	defaultMinioBucket   = "summit-screenshots"
	defaultUploadExpiry  = 15 * time.Minute

	defaultSessionTTL = 7 * 24 * time.Hour
	defaultCookieName = "summit_session"

	defaultModrinthBaseURL   = "https://api.modrinth.com/v2"
	defaultModrinthProjectID = "summit"
	defaultModrinthUserAgent = "SteakTheStake/SummitMC (summit-site)"
	defaultModrinthTimeout   = 10 * time.Second
	defaultModrinthRPS       = 5
	defaultModrinthBurst     = 10

	defaultCurseForge32URL = "https://mediafilez.forgecdn.net/files/7000/971/SummitMC-32x.zip"
	defaultCurseForge64URL = "https://mediafilez.forgecdn.net/files/6982/574/SummitMC-64x.zip"

	defaultCacheTTL       = 5 * time.Minute
	defaultWarmInterval   = 4 * time.Minute // меньше TTL, чтобы кэш обновлялся до истечения
	defaultCacheKeyPrefix = "summit:"
)

// Default возвращает конфигурацию по умолчанию для локальной разработки.
// Секрет сессии намеренно пуст: его нужно задать явно.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               defaultServerPort,
			ReadTimeout:        defaultReadTimeout,
			WriteTimeout:       defaultWriteTimeout,
			IdleTimeout:        defaultIdleTimeout,
			ShutdownTimeout:    defaultShutdownTimeout,
			CORSOrigins:        []string{"http://localhost:5173"},
			LoginRateLimit:     10,
			IncrementRateLimit: 30,
		},
		Database: DatabaseConfig{
			Host:        defaultDBHost,
			Port:        defaultDBPort,
			User:        defaultDBUser,
			Password:    defaultDBPass,
			Name:        defaultDBName,
			SSLMode:     "disable",
			AutoMigrate: true,
		},
		Storage: StorageConfig{
			Enabled:         false,
			Endpoint:        defaultMinioEndpoint,
			AccessKey:       defaultMinioUser,
			SecretKey:       defaultMinioPassword,
			Bucket:          defaultMinioBucket,
			UploadURLExpiry: defaultUploadExpiry,
		},
		Auth: AuthConfig{
			SessionTTL: defaultSessionTTL,
			CookieName: defaultCookieName,
		},
		Modrinth: ModrinthConfig{
			BaseURL:           defaultModrinthBaseURL,
			ProjectID:         defaultModrinthProjectID,
			UserAgent:         defaultModrinthUserAgent,
			Timeout:           defaultModrinthTimeout,
			RequestsPerSecond: defaultModrinthRPS,
			Burst:             defaultModrinthBurst,
			WarmInterval:      defaultWarmInterval,
		},
		CurseForge: CurseForgeConfig{
			Links: map[string]string{
				"32x": defaultCurseForge32URL,
				"64x": defaultCurseForge64URL,
			},
		},
		Cache: CacheConfig{
			Backend:   CacheBackendMemory,
			TTL:       defaultCacheTTL,
			KeyPrefix: defaultCacheKeyPrefix,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Resolutions: []string{"32x", "64x"},
	}
}
