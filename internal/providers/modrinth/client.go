// Package modrinth - адаптер статистики проекта на Modrinth (API v2).
//
// Все публичные методы возвращают nil при любой ошибке провайдера и пишут
// ее в лог: недоступность Modrinth не должна ломать ответы сайта.
package modrinth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/SteakTheStake/SummitMC/internal/cache"
	"github.com/SteakTheStake/SummitMC/internal/metrics"
	"github.com/SteakTheStake/SummitMC/internal/providers"
	"github.com/SteakTheStake/SummitMC/models"
)

const (
	defaultTimeout = 10 * time.Second
	defaultTTL     = 5 * time.Minute
	maxBodyBytes   = 10 << 20

	opProject  = "project"
	opVersions = "versions"
)

// Config - параметры клиента Modrinth.
type Config struct {
	BaseURL           string
	ProjectID         string
	UserAgent         string
	Timeout           time.Duration // таймаут одного запроса
	RequestsPerSecond float64       // 0 - без ограничения
	Burst             int
	CacheTTL          time.Duration
	Resolutions       []string
}

// Client получает статистику проекта с Modrinth.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      cache.Cache
	breaker    *gobreaker.CircuitBreaker[[]byte]
	limiter    *rate.Limiter
	now        cache.Clock
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock подменяет источник времени для меток updatedAt.
func WithClock(clock cache.Clock) Option {
	return func(c *Client) {
		c.now = clock
	}
}

// NewClient создает клиент Modrinth с заданным кэшем.
func NewClient(cfg Config, c cache.Cache, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultTTL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      c,
		breaker:    newBreaker("modrinth-api"),
		limiter:    rate.NewLimiter(limit, burst),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Модели ответа API Modrinth (только используемые поля).
type apiProject struct {
	Downloads int64    `json:"downloads"`
	Followers int64    `json:"followers"`
	Versions  []string `json:"versions"`
}

type apiFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
}

type apiVersion struct {
	Name          string    `json:"name"`
	VersionNumber string    `json:"version_number"`
	Changelog     string    `json:"changelog"`
	Downloads     int64     `json:"downloads"`
	DatePublished time.Time `json:"date_published"`
	Files         []apiFile `json:"files"`
}

// GetProjectStats возвращает общую статистику проекта или nil.
func (c *Client) GetProjectStats(ctx context.Context) *models.ProjectStats {
	stats, err := c.projectStats(ctx, false)
	if err != nil {
		log.Error().Err(err).Msgf("[Modrinth] Не удалось получить статистику проекта '%s'", c.cfg.ProjectID)
		return nil
	}
	return stats
}

// GetVersionStats возвращает статистику по каждой версии или nil.
func (c *Client) GetVersionStats(ctx context.Context) []models.VersionStat {
	versions, err := c.versions(ctx, false)
	if err != nil {
		log.Error().Err(err).Msgf("[Modrinth] Не удалось получить статистику версий '%s'", c.cfg.ProjectID)
		return nil
	}

	stats := make([]models.VersionStat, 0, len(versions))
	for _, v := range versions {
		stats = append(stats, models.VersionStat{
			Version:   v.VersionNumber,
			Downloads: v.Downloads,
			Date:      v.DatePublished,
		})
	}
	return stats
}

// GetLatestVersion возвращает последнюю опубликованную версию или nil.
func (c *Client) GetLatestVersion(ctx context.Context) *models.ProviderLatestVersion {
	versions, err := c.versions(ctx, false)
	if err != nil {
		log.Error().Err(err).Msgf("[Modrinth] Не удалось получить последнюю версию '%s'", c.cfg.ProjectID)
		return nil
	}
	if len(versions) == 0 {
		log.Warn().Msgf("[Modrinth] У проекта '%s' нет опубликованных версий", c.cfg.ProjectID)
		return nil
	}

	latest := newestFirst(versions)[0]
	return &models.ProviderLatestVersion{
		Version:   latest.VersionNumber,
		Downloads: latest.Downloads,
		Changelog: latest.Changelog,
	}
}

// GetResolutionDownloadLinks возвращает прямые ссылки по разрешениям или nil.
// Ненайденные разрешения присутствуют в карте со значением nil.
func (c *Client) GetResolutionDownloadLinks(ctx context.Context) *models.ResolutionLinks {
	links, err := c.resolutionLinks(ctx, false)
	if err != nil {
		log.Error().Err(err).Msgf("[Modrinth] Не удалось получить ссылки на скачивание '%s'", c.cfg.ProjectID)
		return nil
	}
	return links
}

// Refresh заново загружает статистику проекта, список версий и ссылки и
// перезаписывает их в кэше, не дожидаясь истечения TTL. Если загрузка не
// удалась, в кэше остается прежнее значение.
func (c *Client) Refresh(ctx context.Context) error {
	var errs []error
	if _, err := c.projectStats(ctx, true); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.versions(ctx, true); err != nil {
		errs = append(errs, err)
	} else if _, err = c.resolutionLinks(ctx, true); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msgf("[Modrinth] Не удалось обновить кэш проекта '%s'", c.cfg.ProjectID)
		return err
	}
	log.Debug().Msgf("[Modrinth] Кэш проекта '%s' обновлен", c.cfg.ProjectID)
	return nil
}

func (c *Client) projectStats(ctx context.Context, refresh bool) (*models.ProjectStats, error) {
	return fetch(ctx, c, c.cacheKey(opProject), refresh, func(ctx context.Context) (*models.ProjectStats, error) {
		body, err := c.get(ctx, opProject, "project", c.cfg.ProjectID)
		if err != nil {
			return nil, err
		}
		var project apiProject
		if err = json.Unmarshal(body, &project); err != nil {
			return nil, fmt.Errorf("ошибка разбора ответа проекта: %w", err)
		}
		return &models.ProjectStats{
			Downloads: project.Downloads,
			Followers: project.Followers,
			Versions:  len(project.Versions),
		}, nil
	})
}

// resolutionLinks строит ссылки из списка версий, взятого из кэша.
func (c *Client) resolutionLinks(ctx context.Context, refresh bool) (*models.ResolutionLinks, error) {
	return fetch(ctx, c, c.cacheKey("links"), refresh, func(ctx context.Context) (*models.ResolutionLinks, error) {
		versions, err := c.versions(ctx, false)
		if err != nil {
			return nil, err
		}
		return &models.ResolutionLinks{
			Provider:  providers.Modrinth,
			Links:     resolveLinks(newestFirst(versions), c.cfg.Resolutions),
			UpdatedAt: c.now().UTC(),
		}, nil
	})
}

// versions возвращает список версий проекта через кэш.
func (c *Client) versions(ctx context.Context, refresh bool) ([]apiVersion, error) {
	return fetch(ctx, c, c.cacheKey(opVersions), refresh, func(ctx context.Context) ([]apiVersion, error) {
		body, err := c.get(ctx, opVersions, "project", c.cfg.ProjectID, "version")
		if err != nil {
			return nil, err
		}
		var versions []apiVersion
		if err = json.Unmarshal(body, &versions); err != nil {
			return nil, fmt.Errorf("ошибка разбора списка версий: %w", err)
		}
		return versions, nil
	})
}

// fetch читает ключ через кэш, а при refresh загружает его заново.
func fetch[T any](
	ctx context.Context,
	c *Client,
	key string,
	refresh bool,
	load func(ctx context.Context) (T, error),
) (T, error) {
	if refresh {
		return cache.Refresh(ctx, c.cache, key, c.cfg.CacheTTL, load)
	}
	return cache.GetOrLoad(ctx, c.cache, key, c.cfg.CacheTTL, load)
}

// resolveLinks ищет для каждого разрешения файл в версиях от новых к старым.
// Первое совпадение побеждает; без совпадения по имени файла используется
// основной файл версии, если маркер есть в названии или номере версии.
func resolveLinks(versions []apiVersion, resolutions []string) models.LinkMap {
	links := providers.EmptyLinks(resolutions)
	remaining := len(resolutions)

	for _, v := range versions {
		if remaining == 0 {
			break
		}
		for _, res := range resolutions {
			if links[res] != nil {
				continue
			}
			if u := matchFile(v, res); u != "" {
				links[res] = &u
				remaining--
			}
		}
	}
	return links
}

func matchFile(v apiVersion, resolution string) string {
	for _, f := range v.Files {
		name := f.Filename
		if name == "" {
			name = f.URL
		}
		if providers.HasResolutionMarker(name, resolution) {
			return f.URL
		}
	}

	if !providers.HasResolutionMarker(v.Name, resolution) &&
		!providers.HasResolutionMarker(v.VersionNumber, resolution) {
		return ""
	}
	for _, f := range v.Files {
		if f.Primary {
			return f.URL
		}
	}
	if len(v.Files) == 1 {
		return v.Files[0].URL
	}
	return ""
}

func newestFirst(versions []apiVersion) []apiVersion {
	sorted := slices.Clone(versions)
	slices.SortStableFunc(sorted, func(a, b apiVersion) int {
		return b.DatePublished.Compare(a.DatePublished)
	})
	return sorted
}

func (c *Client) cacheKey(op string) string {
	return "modrinth:" + c.cfg.ProjectID + ":" + op
}

// get выполняет GET-запрос к API через ограничитель частоты и предохранитель.
func (c *Client) get(ctx context.Context, operation string, pathParts ...string) ([]byte, error) {
	start := time.Now()

	endpoint, err := url.JoinPath(c.cfg.BaseURL, pathParts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования URL: %w", err)
	}

	if err = c.limiter.Wait(ctx); err != nil {
		metrics.RecordProviderRequest(providers.Modrinth, operation, metrics.ResultError, time.Since(start))
		return nil, fmt.Errorf("превышен лимит запросов к Modrinth: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doRequest(ctx, endpoint)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordProviderRequest(providers.Modrinth, operation, metrics.ResultBreakerOpen, time.Since(start))
		return nil, fmt.Errorf("предохранитель Modrinth разомкнут: %w", err)
	case err != nil:
		metrics.RecordProviderRequest(providers.Modrinth, operation, metrics.ResultError, time.Since(start))
		return nil, err
	}

	metrics.RecordProviderRequest(providers.Modrinth, operation, metrics.ResultSuccess, time.Since(start))
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса к %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: статус %d (%s)", ErrUnexpectedStatus, resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	return body, nil
}

// ErrUnexpectedStatus - Modrinth ответил не 2xx.
var ErrUnexpectedStatus = errors.New("неожиданный статус ответа Modrinth")
