// Команда server запускает API сайта Summit.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/cache"
	"github.com/SteakTheStake/SummitMC/internal/config"
	"github.com/SteakTheStake/SummitMC/internal/handlers"
	"github.com/SteakTheStake/SummitMC/internal/logging"
	appmiddleware "github.com/SteakTheStake/SummitMC/internal/middleware"
	"github.com/SteakTheStake/SummitMC/internal/providers/curseforge"
	"github.com/SteakTheStake/SummitMC/internal/providers/modrinth"
	"github.com/SteakTheStake/SummitMC/internal/repository"
	"github.com/SteakTheStake/SummitMC/internal/services"
	"github.com/SteakTheStake/SummitMC/internal/storage"
	"github.com/SteakTheStake/SummitMC/internal/supervisor"
)

const (
	serviceName     = "summit-site"
	rateLimitWindow = time.Minute
	corsMaxAge      = 300
	startupTimeout  = 30 * time.Second
)

// Подменяются в тестах.
var (
	newPostgresDB  = repository.NewPostgresDB
	newMinioClient = func(ctx context.Context, cfg storage.MinioConfig) (storage.FileStorage, error) {
		return storage.NewMinioClient(ctx, cfg)
	}
)

// dependencies хранит инициализированные зависимости сервера.
type dependencies struct {
	db          *sqlx.DB
	redis       *redis.Client
	fileStorage storage.FileStorage
	modrinth    *modrinth.Client
	authService services.AuthService

	authHandler       *handlers.AuthHandler
	downloadHandler   *handlers.DownloadHandler
	versionHandler    *handlers.VersionHandler
	screenshotHandler *handlers.ScreenshotHandler
}

// Close освобождает соединения.
func (d *dependencies) Close() {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Error().Err(err).Msg("[Server] Ошибка закрытия соединения с Redis")
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Error().Err(err).Msg("[Server] Ошибка закрытия соединения с БД")
		}
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("[Server] Ошибка выполнения сервера")
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Caller:  cfg.Logging.Caller,
		Service: serviceName,
	})
	log.Info().Msg("[Server] Запуск сервера Summit...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	deps, err := setupDependencies(startCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer deps.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      setupRouter(deps, cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewTree("summit", supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})
	tree.AddAPIService(supervisor.NewHTTPServerService(
		server, cfg.Server.CertFile, cfg.Server.KeyFile, cfg.Server.ShutdownTimeout))
	if cfg.Modrinth.WarmInterval > 0 {
		tree.AddBackgroundService(supervisor.NewCacheWarmer(cfg.Modrinth.WarmInterval, warmFuncs(deps.modrinth)...))
	}

	if cfg.Server.TLSEnabled() {
		log.Info().Msgf("[Server] HTTPS-сервер слушает порт %s", cfg.Server.Port)
	} else {
		log.Info().Msgf("[Server] HTTP-сервер слушает порт %s", cfg.Server.Port)
	}

	if err = tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("ошибка дерева сервисов: %w", err)
	}
	log.Info().Msg("[Server] Сервер остановлен")
	return nil
}

// setupDependencies инициализирует хранилища, провайдеры, сервисы и обработчики.
func setupDependencies(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	deps := &dependencies{}
	var err error

	deps.db, err = newPostgresDB(cfg.Database.ConnString())
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err = repository.Migrate(ctx, deps.db); err != nil {
			deps.Close()
			return nil, err
		}
		log.Info().Msg("[Server] Схема БД применена")
	}

	var providerCache cache.Cache
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		var redisCache *cache.Redis
		redisCache, deps.redis, err = cache.NewRedisFromURL(ctx, cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
		}
		providerCache = redisCache
	default:
		providerCache = cache.NewMemory()
	}

	if cfg.Storage.Enabled {
		deps.fileStorage, err = newMinioClient(ctx, storage.MinioConfig{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKey,
			SecretAccessKey: cfg.Storage.SecretKey,
			UseSSL:          cfg.Storage.UseSSL,
			BucketName:      cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			UploadURLExpiry: cfg.Storage.UploadURLExpiry,
		})
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
		}
	} else {
		log.Info().Msg("[Server] Объектное хранилище отключено, загрузка изображений недоступна")
	}

	deps.modrinth = modrinth.NewClient(modrinth.Config{
		BaseURL:           cfg.Modrinth.BaseURL,
		ProjectID:         cfg.Modrinth.ProjectID,
		UserAgent:         cfg.Modrinth.UserAgent,
		Timeout:           cfg.Modrinth.Timeout,
		RequestsPerSecond: cfg.Modrinth.RequestsPerSecond,
		Burst:             cfg.Modrinth.Burst,
		CacheTTL:          cfg.Cache.TTL,
		Resolutions:       cfg.Resolutions,
	}, providerCache)
	curse := curseforge.NewProvider(cfg.CurseForge.Links, cfg.Resolutions)

	userRepo := repository.NewPostgresUserRepository(deps.db)
	downloadRepo := repository.NewPostgresDownloadRepository(deps.db)
	versionRepo := repository.NewPostgresVersionRepository(deps.db)
	screenshotRepo := repository.NewPostgresScreenshotRepository(deps.db)

	deps.authService = services.NewAuthService(userRepo, services.AuthConfig{
		Secret:   cfg.Auth.SessionSecret,
		TokenTTL: cfg.Auth.SessionTTL,
	})
	downloadService := services.NewDownloadService(downloadRepo, versionRepo, deps.modrinth, curse, cfg.Resolutions)
	versionService := services.NewVersionService(versionRepo)
	screenshotService := services.NewScreenshotService(screenshotRepo, deps.fileStorage)

	deps.authHandler = handlers.NewAuthHandler(deps.authService, handlers.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
	})
	deps.downloadHandler = handlers.NewDownloadHandler(downloadService)
	deps.versionHandler = handlers.NewVersionHandler(versionService)
	deps.screenshotHandler = handlers.NewScreenshotHandler(screenshotService)

	return deps, nil
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(deps *dependencies, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	// Изображения галереи доступны без сессии.
	r.Get("/objects/*", deps.screenshotHandler.Serve)

	authenticate := appmiddleware.Authenticator(deps.authService, cfg.Auth.CookieName)

	r.Route("/api", func(r chi.Router) {
		r.With(rateLimit(cfg.Server.LoginRateLimit)).Post("/login", deps.authHandler.Login)
		r.Post("/logout", deps.authHandler.Logout)
		r.With(authenticate).Get("/auth/user", deps.authHandler.CurrentUser)

		r.Get("/downloads/stats", deps.downloadHandler.Stats)
		r.Get("/downloads/links", deps.downloadHandler.Links)
		r.With(rateLimit(cfg.Server.IncrementRateLimit)).Post("/downloads/increment", deps.downloadHandler.Increment)
		r.Get("/modrinth/stats", deps.downloadHandler.ProviderStats)

		r.Get("/versions", deps.versionHandler.List)
		r.Get("/versions/latest", deps.downloadHandler.LatestVersion)

		r.Get("/screenshots", deps.screenshotHandler.List)
		r.Get("/screenshots/categories", deps.screenshotHandler.Categories)

		// Маршруты администратора.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(appmiddleware.RequireAdmin(deps.authService))

			r.Post("/versions", deps.versionHandler.Create)
			r.Put("/versions/{id}", deps.versionHandler.Update)
			r.Delete("/versions/{id}", deps.versionHandler.Delete)

			r.Post("/screenshots", deps.screenshotHandler.Create)
			r.Post("/screenshots/check-duplicates", deps.screenshotHandler.CheckDuplicates)
			r.Post("/screenshots/upload", deps.screenshotHandler.UploadURL)
			r.Put("/screenshots/{id}", deps.screenshotHandler.Update)
			r.Delete("/screenshots/{id}", deps.screenshotHandler.Delete)
		})
	})
	return r
}

// rateLimit ограничивает число запросов с одного IP в минуту. limit <= 0 отключает ограничение.
func rateLimit(limit int) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(limit, rateLimitWindow)
}

// warmFuncs - обновления кэша Modrinth, которые держат его теплым.
func warmFuncs(client *modrinth.Client) []supervisor.WarmFunc {
	return []supervisor.WarmFunc{
		func(ctx context.Context) { _ = client.Refresh(ctx) },
	}
}
