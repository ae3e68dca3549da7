//nolint:testpackage // тесты в том же пакете для доступа к модели
package tui

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SteakTheStake/SummitMC/models"
)

// mockAPIClient - мок api.Client.
type mockAPIClient struct {
	mock.Mock
}

func (m *mockAPIClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	args := m.Called(ctx, username, password)
	resp, _ := args.Get(0).(*models.LoginResponse)
	return resp, args.Error(1)
}

func (m *mockAPIClient) CurrentUser(ctx context.Context) (*models.SessionUser, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*models.SessionUser)
	return user, args.Error(1)
}

func (m *mockAPIClient) ListVersions(ctx context.Context) ([]models.Version, error) {
	args := m.Called(ctx)
	versions, _ := args.Get(0).([]models.Version)
	return versions, args.Error(1)
}

func (m *mockAPIClient) MarkLatest(ctx context.Context, id int64) (*models.Version, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Version)
	return v, args.Error(1)
}

func (m *mockAPIClient) DeleteVersion(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAPIClient) ListScreenshots(
	ctx context.Context,
	filter models.ScreenshotFilter,
) ([]models.Screenshot, error) {
	args := m.Called(ctx, filter)
	shots, _ := args.Get(0).([]models.Screenshot)
	return shots, args.Error(1)
}

func (m *mockAPIClient) SetFeatured(ctx context.Context, id int64, featured bool) (*models.Screenshot, error) {
	args := m.Called(ctx, id, featured)
	s, _ := args.Get(0).(*models.Screenshot)
	return s, args.Error(1)
}

func (m *mockAPIClient) DeleteScreenshot(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAPIClient) SetAuthToken(token string) {
	m.Called(token)
}

// newTestModel создает модель с моком API.
func newTestModel() (*model, *mockAPIClient) {
	client := new(mockAPIClient)
	m := initModel("http://summit.test", client, false)
	return &m, client
}
