package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SteakTheStake/SummitMC/internal/storage"
	"github.com/SteakTheStake/SummitMC/models"
)

// --- Mock AuthService --- //

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(1).(*models.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, id int64) (*models.SessionUser, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.SessionUser)
	return user, args.Error(1)
}

func (m *MockAuthService) TokenTTL() time.Duration {
	return time.Hour
}

// --- Mock DownloadService --- //

type MockDownloadService struct {
	mock.Mock
}

func (m *MockDownloadService) GetDownloadStats(ctx context.Context) (*models.DownloadStatsResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*models.DownloadStatsResponse)
	return resp, args.Error(1)
}

func (m *MockDownloadService) GetDownloadLinks(ctx context.Context) (*models.DownloadLinksResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*models.DownloadLinksResponse)
	return resp, args.Error(1)
}

func (m *MockDownloadService) GetLatestVersion(ctx context.Context) (*models.LatestVersionResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*models.LatestVersionResponse)
	return resp, args.Error(1)
}

func (m *MockDownloadService) GetProviderStats(ctx context.Context) (*models.ProviderStatsResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*models.ProviderStatsResponse)
	return resp, args.Error(1)
}

func (m *MockDownloadService) IncrementDownload(
	ctx context.Context,
	resolution, platform string,
) (*models.DownloadCounter, error) {
	args := m.Called(ctx, resolution, platform)
	counter, _ := args.Get(0).(*models.DownloadCounter)
	return counter, args.Error(1)
}

// --- Mock VersionService --- //

type MockVersionService struct {
	mock.Mock
}

func (m *MockVersionService) ListVersions(ctx context.Context) ([]models.Version, error) {
	args := m.Called(ctx)
	versions, _ := args.Get(0).([]models.Version)
	return versions, args.Error(1)
}

func (m *MockVersionService) CreateVersion(
	ctx context.Context,
	req models.CreateVersionRequest,
) (*models.Version, error) {
	args := m.Called(ctx, req)
	v, _ := args.Get(0).(*models.Version)
	return v, args.Error(1)
}

func (m *MockVersionService) UpdateVersion(
	ctx context.Context,
	id int64,
	req models.UpdateVersionRequest,
) (*models.Version, error) {
	args := m.Called(ctx, id, req)
	v, _ := args.Get(0).(*models.Version)
	return v, args.Error(1)
}

func (m *MockVersionService) DeleteVersion(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// --- Mock ScreenshotService --- //

type MockScreenshotService struct {
	mock.Mock
}

func (m *MockScreenshotService) ListScreenshots(
	ctx context.Context,
	filter models.ScreenshotFilter,
) ([]models.Screenshot, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]models.Screenshot)
	return list, args.Error(1)
}

func (m *MockScreenshotService) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

func (m *MockScreenshotService) CheckDuplicates(
	ctx context.Context,
	req models.CheckDuplicatesRequest,
) (*models.CheckDuplicatesResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.CheckDuplicatesResponse)
	return resp, args.Error(1)
}

func (m *MockScreenshotService) CreateScreenshot(
	ctx context.Context,
	req models.CreateScreenshotRequest,
) (*models.Screenshot, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*models.Screenshot)
	return s, args.Error(1)
}

func (m *MockScreenshotService) UpdateScreenshot(
	ctx context.Context,
	id int64,
	req models.UpdateScreenshotRequest,
) (*models.Screenshot, error) {
	args := m.Called(ctx, id, req)
	s, _ := args.Get(0).(*models.Screenshot)
	return s, args.Error(1)
}

func (m *MockScreenshotService) DeleteScreenshot(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockScreenshotService) CreateUploadURL(
	ctx context.Context,
	req models.UploadURLRequest,
) (*models.UploadURLResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.UploadURLResponse)
	return resp, args.Error(1)
}

func (m *MockScreenshotService) OpenObject(ctx context.Context, key string) (*storage.Object, error) {
	args := m.Called(ctx, key)
	obj, _ := args.Get(0).(*storage.Object)
	return obj, args.Error(1)
}
