package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/SteakTheStake/SummitMC/internal/storage"
	"github.com/SteakTheStake/SummitMC/models"
)

// ScreenshotService определяет интерфейс сервиса галереи.
type ScreenshotService interface {
	ListScreenshots(ctx context.Context, filter models.ScreenshotFilter) ([]models.Screenshot, error)
	ListCategories(ctx context.Context) ([]string, error)
	CheckDuplicates(ctx context.Context, req models.CheckDuplicatesRequest) (*models.CheckDuplicatesResponse, error)
	CreateScreenshot(ctx context.Context, req models.CreateScreenshotRequest) (*models.Screenshot, error)
	UpdateScreenshot(ctx context.Context, id int64, req models.UpdateScreenshotRequest) (*models.Screenshot, error)
	DeleteScreenshot(ctx context.Context, id int64) error
	CreateUploadURL(ctx context.Context, req models.UploadURLRequest) (*models.UploadURLResponse, error)
	OpenObject(ctx context.Context, key string) (*storage.Object, error)
}

// ScreenshotHandler обрабатывает запросы к галерее.
type ScreenshotHandler struct {
	service ScreenshotService
}

// NewScreenshotHandler создает новый экземпляр ScreenshotHandler.
func NewScreenshotHandler(s ScreenshotService) *ScreenshotHandler {
	return &ScreenshotHandler{service: s}
}

// List отдает скриншоты с фильтрами ?category=&search=&resolution=&featured=.
func (h *ScreenshotHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ScreenshotFilter{
		Category:   q.Get("category"),
		Search:     q.Get("search"),
		Resolution: q.Get("resolution"),
	}
	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Параметр featured должен быть true или false")
			return
		}
		filter.Featured = &featured
	}

	screenshots, err := h.service.ListScreenshots(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, "Не удалось получить скриншоты")
		return
	}
	writeJSON(w, http.StatusOK, screenshots)
}

// Categories отдает список категорий.
func (h *ScreenshotHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Не удалось получить категории")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Create добавляет скриншот. Дубликат дает 409 со списком совпадений.
func (h *ScreenshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScreenshotRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	screenshot, err := h.service.CreateScreenshot(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Не удалось добавить скриншот")
		return
	}
	writeJSON(w, http.StatusCreated, screenshot)
}

// CheckDuplicates ищет дубликаты без создания записи.
func (h *ScreenshotHandler) CheckDuplicates(w http.ResponseWriter, r *http.Request) {
	var req models.CheckDuplicatesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.CheckDuplicates(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Не удалось проверить дубликаты")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UploadURL выдает подписанную ссылку на загрузку изображения.
func (h *ScreenshotHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	var req models.UploadURLRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.CreateUploadURL(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Не удалось получить ссылку на загрузку")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update частично обновляет скриншот.
func (h *ScreenshotHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req models.UpdateScreenshotRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	screenshot, err := h.service.UpdateScreenshot(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err, "Не удалось обновить скриншот")
		return
	}
	writeJSON(w, http.StatusOK, screenshot)
}

// Delete удаляет скриншот.
func (h *ScreenshotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteScreenshot(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Не удалось удалить скриншот")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
