// Package mocks содержит testify моки репозиториев, провайдеров и хранилища.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SteakTheStake/SummitMC/models"
)

// UserRepository - мок repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// DownloadRepository - мок repository.DownloadRepository.
type DownloadRepository struct {
	mock.Mock
}

func (m *DownloadRepository) GetAll(ctx context.Context) ([]models.DownloadCounter, error) {
	args := m.Called(ctx)
	counters, _ := args.Get(0).([]models.DownloadCounter)
	return counters, args.Error(1)
}

func (m *DownloadRepository) Increment(
	ctx context.Context,
	resolution, platform string,
) (*models.DownloadCounter, error) {
	args := m.Called(ctx, resolution, platform)
	counter, _ := args.Get(0).(*models.DownloadCounter)
	return counter, args.Error(1)
}

func (m *DownloadRepository) Seed(
	ctx context.Context,
	resolution, platform string,
	count int64,
) (bool, error) {
	args := m.Called(ctx, resolution, platform, count)
	return args.Bool(0), args.Error(1)
}

// VersionRepository - мок repository.VersionRepository.
type VersionRepository struct {
	mock.Mock
}

func (m *VersionRepository) List(ctx context.Context) ([]models.Version, error) {
	args := m.Called(ctx)
	versions, _ := args.Get(0).([]models.Version)
	return versions, args.Error(1)
}

func (m *VersionRepository) GetByID(ctx context.Context, id int64) (*models.Version, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Version)
	return v, args.Error(1)
}

func (m *VersionRepository) GetLatest(ctx context.Context) (*models.Version, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.Version)
	return v, args.Error(1)
}

func (m *VersionRepository) Create(ctx context.Context, version *models.Version) (*models.Version, error) {
	args := m.Called(ctx, version)
	v, _ := args.Get(0).(*models.Version)
	return v, args.Error(1)
}

func (m *VersionRepository) Update(ctx context.Context, version *models.Version) (*models.Version, error) {
	args := m.Called(ctx, version)
	v, _ := args.Get(0).(*models.Version)
	return v, args.Error(1)
}

func (m *VersionRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// ScreenshotRepository - мок repository.ScreenshotRepository.
type ScreenshotRepository struct {
	mock.Mock
}

func (m *ScreenshotRepository) List(
	ctx context.Context,
	filter models.ScreenshotFilter,
) ([]models.Screenshot, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]models.Screenshot)
	return list, args.Error(1)
}

func (m *ScreenshotRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

func (m *ScreenshotRepository) GetByID(ctx context.Context, id int64) (*models.Screenshot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Screenshot)
	return s, args.Error(1)
}

func (m *ScreenshotRepository) FindDuplicates(
	ctx context.Context,
	imageURL, fileHash *string,
) ([]models.Screenshot, error) {
	args := m.Called(ctx, imageURL, fileHash)
	list, _ := args.Get(0).([]models.Screenshot)
	return list, args.Error(1)
}

func (m *ScreenshotRepository) Create(ctx context.Context, s *models.Screenshot) (*models.Screenshot, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(*models.Screenshot)
	return created, args.Error(1)
}

func (m *ScreenshotRepository) Update(ctx context.Context, s *models.Screenshot) (*models.Screenshot, error) {
	args := m.Called(ctx, s)
	updated, _ := args.Get(0).(*models.Screenshot)
	return updated, args.Error(1)
}

func (m *ScreenshotRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
