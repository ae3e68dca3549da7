package handlers

import (
	"context"
	"net/http"

	"github.com/SteakTheStake/SummitMC/models"
)

// VersionService определяет интерфейс сервиса версий.
type VersionService interface {
	ListVersions(ctx context.Context) ([]models.Version, error)
	CreateVersion(ctx context.Context, req models.CreateVersionRequest) (*models.Version, error)
	UpdateVersion(ctx context.Context, id int64, req models.UpdateVersionRequest) (*models.Version, error)
	DeleteVersion(ctx context.Context, id int64) error
}

// VersionHandler обрабатывает запросы к версиям.
type VersionHandler struct {
	service VersionService
}

// NewVersionHandler создает новый экземпляр VersionHandler.
func NewVersionHandler(s VersionService) *VersionHandler {
	return &VersionHandler{service: s}
}

// List отдает все версии от новых к старым.
func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	versions, err := h.service.ListVersions(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Не удалось получить список версий")
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

// Create создает версию.
func (h *VersionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVersionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	version, err := h.service.CreateVersion(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Не удалось создать версию")
		return
	}
	writeJSON(w, http.StatusCreated, version)
}

// Update частично обновляет версию.
func (h *VersionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req models.UpdateVersionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	version, err := h.service.UpdateVersion(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err, "Не удалось обновить версию")
		return
	}
	writeJSON(w, http.StatusOK, version)
}

// Delete удаляет версию.
func (h *VersionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteVersion(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Не удалось удалить версию")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
