package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/SteakTheStake/SummitMC/internal/metrics"
	"github.com/SteakTheStake/SummitMC/internal/providers"
	"github.com/SteakTheStake/SummitMC/internal/repository"
	"github.com/SteakTheStake/SummitMC/models"
)

// StatsProvider - внешний провайдер со статистикой проекта (Modrinth).
// Методы не возвращают ошибок: сбой провайдера дает nil.
type StatsProvider interface {
	GetProjectStats(ctx context.Context) *models.ProjectStats
	GetVersionStats(ctx context.Context) []models.VersionStat
	GetLatestVersion(ctx context.Context) *models.ProviderLatestVersion
	LinkProvider
}

// LinkProvider - источник прямых ссылок по разрешениям.
type LinkProvider interface {
	GetResolutionDownloadLinks(ctx context.Context) *models.ResolutionLinks
}

// DownloadService объединяет локальные счетчики и данные внешних провайдеров.
type DownloadService interface {
	GetDownloadStats(ctx context.Context) (*models.DownloadStatsResponse, error)
	GetDownloadLinks(ctx context.Context) (*models.DownloadLinksResponse, error)
	GetLatestVersion(ctx context.Context) (*models.LatestVersionResponse, error)
	GetProviderStats(ctx context.Context) (*models.ProviderStatsResponse, error)
	IncrementDownload(ctx context.Context, resolution, platform string) (*models.DownloadCounter, error)
}

var _ DownloadService = (*downloadService)(nil)

type downloadService struct {
	downloads   repository.DownloadRepository
	versions    repository.VersionRepository
	modrinth    StatsProvider
	curseforge  LinkProvider
	resolutions []string
	now         func() time.Time
}

// NewDownloadService создает сервис агрегации.
func NewDownloadService(
	downloads repository.DownloadRepository,
	versions repository.VersionRepository,
	modrinth StatsProvider,
	curseforge LinkProvider,
	resolutions []string,
) DownloadService {
	return &downloadService{
		downloads:   downloads,
		versions:    versions,
		modrinth:    modrinth,
		curseforge:  curseforge,
		resolutions: resolutions,
		now:         time.Now,
	}
}

// GetDownloadStats читает локальные счетчики и статистику Modrinth параллельно.
// totalDownloads всегда локальная сумма, realTimeDownloads - итог Modrinth, если он ответил.
func (s *downloadService) GetDownloadStats(ctx context.Context) (*models.DownloadStatsResponse, error) {
	var (
		counters []models.DownloadCounter
		project  *models.ProjectStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counters, err = s.downloads.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		project = s.modrinth.GetProjectStats(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("[DownloadService] Ошибка чтения локальных счетчиков")
		return nil, fmt.Errorf("ошибка получения статистики скачиваний: %w", err)
	}

	var total int64
	for _, c := range counters {
		total += c.Count
	}

	resp := &models.DownloadStatsResponse{
		Stats:             counters,
		TotalDownloads:    total,
		Modrinth:          project,
		RealTimeDownloads: total,
	}
	if project != nil {
		resp.RealTimeDownloads = project.Downloads
	}
	return resp, nil
}

// GetDownloadLinks опрашивает обоих провайдеров параллельно.
// Отсутствующий ответ провайдера заменяется картой из null.
func (s *downloadService) GetDownloadLinks(ctx context.Context) (*models.DownloadLinksResponse, error) {
	var modrinthLinks, curseforgeLinks *models.ResolutionLinks

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		modrinthLinks = s.modrinth.GetResolutionDownloadLinks(gctx)
		return nil
	})
	g.Go(func() error {
		curseforgeLinks = s.curseforge.GetResolutionDownloadLinks(gctx)
		return nil
	})
	_ = g.Wait()

	return &models.DownloadLinksResponse{
		Modrinth:   s.completeLinks(modrinthLinks),
		CurseForge: s.completeLinks(curseforgeLinks),
		UpdatedAt:  s.now().UTC(),
	}, nil
}

// completeLinks гарантирует наличие ключа для каждого разрешения.
func (s *downloadService) completeLinks(links *models.ResolutionLinks) models.LinkMap {
	out := providers.EmptyLinks(s.resolutions)
	if links == nil {
		return out
	}
	for res, url := range links.Links {
		out[res] = url
	}
	return out
}

// GetLatestVersion объединяет локальную отметку последней версии и данные Modrinth.
// Данные Modrinth приоритетнее, changelog берется локальный, если у Modrinth он пуст.
func (s *downloadService) GetLatestVersion(ctx context.Context) (*models.LatestVersionResponse, error) {
	var (
		local    *models.Version
		external *models.ProviderLatestVersion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.versions.GetLatest(gctx)
		if err != nil && !errors.Is(err, repository.ErrVersionNotFound) {
			return err
		}
		local = v
		return nil
	})
	g.Go(func() error {
		external = s.modrinth.GetLatestVersion(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("[DownloadService] Ошибка чтения последней версии")
		return nil, fmt.Errorf("ошибка получения последней версии: %w", err)
	}

	if local == nil && external == nil {
		return nil, ErrVersionNotFound
	}

	resp := &models.LatestVersionResponse{Source: models.VersionSourceLocal}
	if local != nil {
		id, latest, released := local.ID, local.IsLatest, local.ReleaseDate
		resp.ID = &id
		resp.Version = local.Version
		resp.Resolution = local.Resolution
		resp.ReleaseDate = &released
		resp.Changelog = local.Changelog
		resp.DownloadURL = local.DownloadURL
		resp.IsLatest = &latest
	}
	if external != nil {
		downloads := external.Downloads
		resp.Version = external.Version
		resp.Downloads = &downloads
		if external.Changelog != "" {
			resp.Changelog = external.Changelog
		}
		resp.Source = models.VersionSourceExternal
	}
	resp.ChangelogHTML = RenderChangelog(resp.Changelog)
	return resp, nil
}

// GetProviderStats возвращает сводку Modrinth для /api/modrinth/stats.
func (s *downloadService) GetProviderStats(ctx context.Context) (*models.ProviderStatsResponse, error) {
	resp := &models.ProviderStatsResponse{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp.Project = s.modrinth.GetProjectStats(gctx)
		return nil
	})
	g.Go(func() error {
		resp.Versions = s.modrinth.GetVersionStats(gctx)
		return nil
	})
	g.Go(func() error {
		resp.Latest = s.modrinth.GetLatestVersion(gctx)
		return nil
	})
	_ = g.Wait()

	resp.LastUpdated = s.now().UTC()
	return resp, nil
}

// IncrementDownload увеличивает локальный счетчик.
func (s *downloadService) IncrementDownload(
	ctx context.Context,
	resolution, platform string,
) (*models.DownloadCounter, error) {
	counter, err := s.downloads.Increment(ctx, resolution, platform)
	if err != nil {
		return nil, fmt.Errorf("ошибка увеличения счетчика скачиваний: %w", err)
	}
	metrics.DownloadsIncremented.WithLabelValues(resolution, platform).Inc()
	return counter, nil
}
