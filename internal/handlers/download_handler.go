package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/SteakTheStake/SummitMC/internal/services"
	"github.com/SteakTheStake/SummitMC/models"
)

// DownloadService определяет интерфейс сервиса агрегации скачиваний.
type DownloadService interface {
	GetDownloadStats(ctx context.Context) (*models.DownloadStatsResponse, error)
	GetDownloadLinks(ctx context.Context) (*models.DownloadLinksResponse, error)
	GetLatestVersion(ctx context.Context) (*models.LatestVersionResponse, error)
	GetProviderStats(ctx context.Context) (*models.ProviderStatsResponse, error)
	IncrementDownload(ctx context.Context, resolution, platform string) (*models.DownloadCounter, error)
}

// DownloadHandler обрабатывает публичные запросы статистики и ссылок.
type DownloadHandler struct {
	service DownloadService
}

// NewDownloadHandler создает новый экземпляр DownloadHandler.
func NewDownloadHandler(s DownloadService) *DownloadHandler {
	return &DownloadHandler{service: s}
}

// Stats отдает локальные счетчики вместе со статистикой Modrinth.
func (h *DownloadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetDownloadStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Не удалось получить статистику скачиваний")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Links отдает прямые ссылки по разрешениям от обоих провайдеров.
func (h *DownloadHandler) Links(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetDownloadLinks(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Не удалось получить ссылки на скачивание")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Increment увеличивает локальный счетчик скачиваний.
func (h *DownloadHandler) Increment(w http.ResponseWriter, r *http.Request) {
	var req models.IncrementDownloadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	counter, err := h.service.IncrementDownload(r.Context(), req.Resolution, req.Platform)
	if err != nil {
		writeServiceError(w, r, err, "Не удалось увеличить счетчик скачиваний")
		return
	}
	writeJSON(w, http.StatusOK, counter)
}

// ProviderStats отдает сводку Modrinth.
func (h *DownloadHandler) ProviderStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetProviderStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Не удалось получить статистику Modrinth")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// LatestVersion отдает последнюю версию с приоритетом данных Modrinth.
func (h *DownloadHandler) LatestVersion(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetLatestVersion(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrVersionNotFound) {
			writeError(w, http.StatusNotFound, "Последняя версия не найдена")
			return
		}
		writeServiceError(w, r, err, "Не удалось получить последнюю версию")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
