package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/SteakTheStake/SummitMC/internal/storage"
	"github.com/SteakTheStake/SummitMC/models"
)

// StatsProvider - мок services.StatsProvider.
type StatsProvider struct {
	mock.Mock
}

func (m *StatsProvider) GetProjectStats(ctx context.Context) *models.ProjectStats {
	stats, _ := m.Called(ctx).Get(0).(*models.ProjectStats)
	return stats
}

func (m *StatsProvider) GetVersionStats(ctx context.Context) []models.VersionStat {
	stats, _ := m.Called(ctx).Get(0).([]models.VersionStat)
	return stats
}

func (m *StatsProvider) GetLatestVersion(ctx context.Context) *models.ProviderLatestVersion {
	latest, _ := m.Called(ctx).Get(0).(*models.ProviderLatestVersion)
	return latest
}

func (m *StatsProvider) GetResolutionDownloadLinks(ctx context.Context) *models.ResolutionLinks {
	links, _ := m.Called(ctx).Get(0).(*models.ResolutionLinks)
	return links
}

// LinkProvider - мок services.LinkProvider.
type LinkProvider struct {
	mock.Mock
}

func (m *LinkProvider) GetResolutionDownloadLinks(ctx context.Context) *models.ResolutionLinks {
	links, _ := m.Called(ctx).Get(0).(*models.ResolutionLinks)
	return links
}

// FileStorage - мок storage.FileStorage.
type FileStorage struct {
	mock.Mock
}

func (m *FileStorage) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	return m.Called(ctx, objectKey, reader, size, contentType).Error(0)
}

func (m *FileStorage) DownloadFile(ctx context.Context, objectKey string) (*storage.Object, error) {
	args := m.Called(ctx, objectKey)
	obj, _ := args.Get(0).(*storage.Object)
	return obj, args.Error(1)
}

func (m *FileStorage) DeleteFile(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

func (m *FileStorage) PresignedPutURL(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}
