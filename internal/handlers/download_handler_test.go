package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SteakTheStake/SummitMC/internal/handlers"
	"github.com/SteakTheStake/SummitMC/internal/services"
	"github.com/SteakTheStake/SummitMC/models"
)

func setupDownloadRouter(m *MockDownloadService) *chi.Mux {
	h := handlers.NewDownloadHandler(m)
	r := chi.NewRouter()
	r.Get("/api/downloads/stats", h.Stats)
	r.Get("/api/downloads/links", h.Links)
	r.Post("/api/downloads/increment", h.Increment)
	r.Get("/api/modrinth/stats", h.ProviderStats)
	r.Get("/api/versions/latest", h.LatestVersion)
	return r
}

func TestDownloadHandler(t *testing.T) {
	link := "https://cdn.modrinth.com/SummitMC-64x.zip"
	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		mockSetup      func(m *MockDownloadService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:   "Статистика без Modrinth",
			method: http.MethodGet,
			path:   "/api/downloads/stats",
			mockSetup: func(m *MockDownloadService) {
				m.On("GetDownloadStats", mock.Anything).Return(&models.DownloadStatsResponse{
					Stats:             []models.DownloadCounter{{Resolution: "64x", Platform: "modrinth", Count: 3}},
					TotalDownloads:    3,
					RealTimeDownloads: 3,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"totalDownloads":3`, `"modrinth":null`, `"realTimeDownloads":3`},
		},
		{
			name:   "Ошибка локального хранилища",
			method: http.MethodGet,
			path:   "/api/downloads/stats",
			mockSetup: func(m *MockDownloadService) {
				m.On("GetDownloadStats", mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`"message":"Не удалось получить статистику скачиваний"`},
		},
		{
			name:   "Ссылки с null",
			method: http.MethodGet,
			path:   "/api/downloads/links",
			mockSetup: func(m *MockDownloadService) {
				m.On("GetDownloadLinks", mock.Anything).Return(&models.DownloadLinksResponse{
					Modrinth:   models.LinkMap{"32x": nil, "64x": &link},
					CurseForge: models.LinkMap{"32x": nil, "64x": nil},
					UpdatedAt:  updated,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"32x":null`, `"64x":"` + link + `"`, `"updatedAt":"2025-06-01T12:00:00Z"`},
		},
		{
			name:   "Увеличение счетчика",
			method: http.MethodPost,
			path:   "/api/downloads/increment",
			body:   `{"resolution":"64x","platform":"modrinth"}`,
			mockSetup: func(m *MockDownloadService) {
				m.On("IncrementDownload", mock.Anything, "64x", "modrinth").
					Return(&models.DownloadCounter{ID: 1, Resolution: "64x", Platform: "modrinth", Count: 2}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"count":2`},
		},
		{
			name:           "Увеличение без платформы",
			method:         http.MethodPost,
			path:           "/api/downloads/increment",
			body:           `{"resolution":"64x"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{`"field":"platform"`},
		},
		{
			name:           "Пустое тело",
			method:         http.MethodPost,
			path:           "/api/downloads/increment",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{"Пустое тело запроса"},
		},
		{
			name:   "Сводка Modrinth",
			method: http.MethodGet,
			path:   "/api/modrinth/stats",
			mockSetup: func(m *MockDownloadService) {
				m.On("GetProviderStats", mock.Anything).Return(&models.ProviderStatsResponse{
					Project: &models.ProjectStats{Downloads: 100, Followers: 5, Versions: 2},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"project":{"downloads":100,"followers":5,"versions":2}`, `"latest":null`},
		},
		{
			name:   "Последняя версия из Modrinth",
			method: http.MethodGet,
			path:   "/api/versions/latest",
			mockSetup: func(m *MockDownloadService) {
				m.On("GetLatestVersion", mock.Anything).Return(&models.LatestVersionResponse{
					Version: "2.1.0", Changelog: "c", Source: models.VersionSourceExternal,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"source":"external"`, `"version":"2.1.0"`},
		},
		{
			name:   "Последняя версия не найдена",
			method: http.MethodGet,
			path:   "/api/versions/latest",
			mockSetup: func(m *MockDownloadService) {
				m.On("GetLatestVersion", mock.Anything).Return(nil, services.ErrVersionNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   []string{"Последняя версия не найдена"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockDownloadService)
			if tt.mockSetup != nil {
				tt.mockSetup(m)
			}

			rr := httptest.NewRecorder()
			setupDownloadRouter(m).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			for _, s := range tt.expectedBody {
				assert.Contains(t, rr.Body.String(), s)
			}
			m.AssertExpectations(t)
		})
	}
}
