package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/repository"
	"github.com/SteakTheStake/SummitMC/models"
)

// VersionService управляет опубликованными версиями.
type VersionService interface {
	ListVersions(ctx context.Context) ([]models.Version, error)
	CreateVersion(ctx context.Context, req models.CreateVersionRequest) (*models.Version, error)
	UpdateVersion(ctx context.Context, id int64, req models.UpdateVersionRequest) (*models.Version, error)
	DeleteVersion(ctx context.Context, id int64) error
}

var _ VersionService = (*versionService)(nil)

type versionService struct {
	repo repository.VersionRepository
}

// NewVersionService создает сервис версий.
func NewVersionService(repo repository.VersionRepository) VersionService {
	return &versionService{repo: repo}
}

// ListVersions возвращает версии от новых к старым.
func (s *versionService) ListVersions(ctx context.Context) ([]models.Version, error) {
	versions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка версий: %w", err)
	}
	return versions, nil
}

// CreateVersion создает версию. Флаг последней версии переносится атомарно.
func (s *versionService) CreateVersion(
	ctx context.Context,
	req models.CreateVersionRequest,
) (*models.Version, error) {
	created, err := s.repo.Create(ctx, &models.Version{
		Version:     req.Version,
		Resolution:  req.Resolution,
		ReleaseDate: req.ReleaseDate,
		Changelog:   req.Changelog,
		DownloadURL: req.DownloadURL,
		IsLatest:    req.IsLatest,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания версии: %w", err)
	}
	log.Info().Msgf("[VersionService] Создана версия %s (ID: %d)", created.Version, created.ID)
	return created, nil
}

// UpdateVersion применяет к версии переданные поля.
func (s *versionService) UpdateVersion(
	ctx context.Context,
	id int64,
	req models.UpdateVersionRequest,
) (*models.Version, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapVersionError(err)
	}

	if req.Version != nil {
		current.Version = *req.Version
	}
	if req.Resolution != nil {
		current.Resolution = *req.Resolution
	}
	if req.ReleaseDate != nil {
		current.ReleaseDate = *req.ReleaseDate
	}
	if req.Changelog != nil {
		current.Changelog = *req.Changelog
	}
	if req.DownloadURL != nil {
		current.DownloadURL = *req.DownloadURL
	}
	if req.IsLatest != nil {
		current.IsLatest = *req.IsLatest
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, mapVersionError(err)
	}
	return updated, nil
}

// DeleteVersion удаляет версию.
func (s *versionService) DeleteVersion(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapVersionError(err)
	}
	return nil
}

func mapVersionError(err error) error {
	if errors.Is(err, repository.ErrVersionNotFound) {
		return ErrVersionNotFound
	}
	return fmt.Errorf("ошибка работы с версией: %w", err)
}

// Ошибки сервиса версий.
var (
	ErrVersionNotFound = errors.New("версия не найдена")
)
