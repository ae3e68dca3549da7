package handlers_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SteakTheStake/SummitMC/internal/handlers"
	"github.com/SteakTheStake/SummitMC/internal/services"
	"github.com/SteakTheStake/SummitMC/internal/storage"
	"github.com/SteakTheStake/SummitMC/models"
)

func setupScreenshotRouter(m *MockScreenshotService) *chi.Mux {
	h := handlers.NewScreenshotHandler(m)
	r := chi.NewRouter()
	r.Get("/api/screenshots", h.List)
	r.Get("/api/screenshots/categories", h.Categories)
	r.Post("/api/screenshots", h.Create)
	r.Post("/api/screenshots/check-duplicates", h.CheckDuplicates)
	r.Post("/api/screenshots/upload", h.UploadURL)
	r.Put("/api/screenshots/{id}", h.Update)
	r.Delete("/api/screenshots/{id}", h.Delete)
	r.Get("/objects/*", h.Serve)
	return r
}

func TestScreenshotHandler(t *testing.T) {
	featured := true
	hash := "abc"
	existing := []models.Screenshot{{ID: 9, ImageURL: "https://img/a.png", Title: "Старый"}}
	createBody := `{"imageUrl":"https://img/a.png","title":"Закат","category":"landscape","resolution":"64x"}`

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		mockSetup      func(m *MockScreenshotService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:   "Фильтры списка",
			method: http.MethodGet,
			path:   "/api/screenshots?category=nether&search=lava&resolution=32x&featured=true",
			mockSetup: func(m *MockScreenshotService) {
				m.On("ListScreenshots", mock.Anything, models.ScreenshotFilter{
					Category: "nether", Search: "lava", Resolution: "32x", Featured: &featured,
				}).Return([]models.Screenshot{}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{"[]"},
		},
		{
			name:           "Некорректный featured",
			method:         http.MethodGet,
			path:           "/api/screenshots?featured=maybe",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{"featured"},
		},
		{
			name:   "Категории",
			method: http.MethodGet,
			path:   "/api/screenshots/categories",
			mockSetup: func(m *MockScreenshotService) {
				m.On("ListCategories", mock.Anything).Return([]string{"caves", "nether"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`["caves","nether"]`},
		},
		{
			name:   "Создание скриншота",
			method: http.MethodPost,
			path:   "/api/screenshots",
			body:   createBody,
			mockSetup: func(m *MockScreenshotService) {
				m.On("CreateScreenshot", mock.Anything, mock.AnythingOfType("models.CreateScreenshotRequest")).
					Return(&models.Screenshot{ID: 10, Title: "Закат"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   []string{`"id":10`},
		},
		{
			name:   "Дубликат",
			method: http.MethodPost,
			path:   "/api/screenshots",
			body:   createBody,
			mockSetup: func(m *MockScreenshotService) {
				m.On("CreateScreenshot", mock.Anything, mock.Anything).
					Return(nil, &services.DuplicateError{Duplicates: existing}).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   []string{`"duplicates":[{"id":9`, `"message":`},
		},
		{
			name:           "Ошибки валидации",
			method:         http.MethodPost,
			path:           "/api/screenshots",
			body:           `{"imageUrl":"https://img/a.png","resolution":"huge"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{`"field":"title"`, `"field":"category"`, `"field":"resolution"`},
		},
		{
			name:   "Проверка дубликатов",
			method: http.MethodPost,
			path:   "/api/screenshots/check-duplicates",
			body:   `{"fileHash":"abc"}`,
			mockSetup: func(m *MockScreenshotService) {
				m.On("CheckDuplicates", mock.Anything, models.CheckDuplicatesRequest{FileHash: &hash}).
					Return(&models.CheckDuplicatesResponse{HasDuplicates: true, Duplicates: existing}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"hasDuplicates":true`},
		},
		{
			name:   "Ссылка на загрузку без хранилища",
			method: http.MethodPost,
			path:   "/api/screenshots/upload",
			mockSetup: func(m *MockScreenshotService) {
				m.On("CreateUploadURL", mock.Anything, models.UploadURLRequest{}).
					Return(nil, services.ErrStorageDisabled).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:   "Ссылка на загрузку",
			method: http.MethodPost,
			path:   "/api/screenshots/upload",
			body:   `{"filename":"a.png","contentType":"image/png"}`,
			mockSetup: func(m *MockScreenshotService) {
				m.On("CreateUploadURL", mock.Anything, models.UploadURLRequest{Filename: "a.png", ContentType: "image/png"}).
					Return(&models.UploadURLResponse{UploadURL: "https://minio/put", ObjectURL: "/objects/screenshots/x.png"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"uploadURL":"https://minio/put"`, `"objectUrl":"/objects/screenshots/x.png"`},
		},
		{
			name:   "Обновление",
			method: http.MethodPut,
			path:   "/api/screenshots/4",
			body:   `{"featured":true}`,
			mockSetup: func(m *MockScreenshotService) {
				m.On("UpdateScreenshot", mock.Anything, int64(4), models.UpdateScreenshotRequest{Featured: &featured}).
					Return(&models.Screenshot{ID: 4, Featured: true}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"featured":true`},
		},
		{
			name:   "Удаление несуществующего",
			method: http.MethodDelete,
			path:   "/api/screenshots/4",
			mockSetup: func(m *MockScreenshotService) {
				m.On("DeleteScreenshot", mock.Anything, int64(4)).Return(services.ErrScreenshotNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "Ошибка хранилища при удалении",
			method: http.MethodDelete,
			path:   "/api/screenshots/4",
			mockSetup: func(m *MockScreenshotService) {
				m.On("DeleteScreenshot", mock.Anything, int64(4)).Return(errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{"Не удалось удалить скриншот"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockScreenshotService)
			if tt.mockSetup != nil {
				tt.mockSetup(m)
			}

			rr := httptest.NewRecorder()
			setupScreenshotRouter(m).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			for _, s := range tt.expectedBody {
				assert.Contains(t, rr.Body.String(), s)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestScreenshotHandler_Serve(t *testing.T) {
	t.Run("Объект найден", func(t *testing.T) {
		m := new(MockScreenshotService)
		m.On("OpenObject", mock.Anything, "screenshots/a.png").Return(&storage.Object{
			Reader:      io.NopCloser(strings.NewReader("PNGDATA")),
			Size:        7,
			ContentType: "image/png",
			ETag:        "abc",
		}, nil).Once()

		rr := httptest.NewRecorder()
		setupScreenshotRouter(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/objects/screenshots/a.png", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.Equal(t, "7", rr.Header().Get("Content-Length"))
		assert.Equal(t, `"abc"`, rr.Header().Get("ETag"))
		assert.Equal(t, "PNGDATA", rr.Body.String())
	})

	t.Run("Объект не найден", func(t *testing.T) {
		m := new(MockScreenshotService)
		m.On("OpenObject", mock.Anything, "screenshots/missing.png").Return(nil, services.ErrObjectNotFound).Once()

		rr := httptest.NewRecorder()
		setupScreenshotRouter(m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/objects/screenshots/missing.png", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Пустой ключ", func(t *testing.T) {
		rr := httptest.NewRecorder()
		setupScreenshotRouter(new(MockScreenshotService)).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/objects/", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
