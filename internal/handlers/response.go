package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/services"
	"github.com/SteakTheStake/SummitMC/internal/validation"
	"github.com/SteakTheStake/SummitMC/models"
)

// maxBodySize ограничивает размер JSON тела запроса.
const maxBodySize = 1 << 20

// errorResponse - тело ответа об ошибке.
type errorResponse struct {
	Message    string                  `json:"message"`
	Errors     []validation.FieldError `json:"errors,omitempty"`
	Duplicates []models.Screenshot     `json:"duplicates,omitempty"`
}

// successResponse - тело ответа на удаление.
type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("[Handler] Ошибка кодирования ответа")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeServiceError переводит ошибки сервисов в HTTP статусы.
// Непредвиденные ошибки скрываются за fallback сообщением.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var dupErr *services.DuplicateError
	switch {
	case errors.As(err, &dupErr):
		duplicates := dupErr.Duplicates
		if duplicates == nil {
			duplicates = []models.Screenshot{}
		}
		writeJSON(w, http.StatusConflict, errorResponse{
			Message:    "Скриншот с таким изображением уже существует",
			Duplicates: duplicates,
		})
	case errors.Is(err, services.ErrVersionNotFound):
		writeError(w, http.StatusNotFound, "Версия не найдена")
	case errors.Is(err, services.ErrScreenshotNotFound):
		writeError(w, http.StatusNotFound, "Скриншот не найден")
	case errors.Is(err, services.ErrObjectNotFound):
		writeError(w, http.StatusNotFound, "Объект не найден")
	case errors.Is(err, services.ErrStorageDisabled):
		writeError(w, http.StatusServiceUnavailable, "Объектное хранилище недоступно")
	default:
		log.Error().Err(err).Msgf("[Handler] %s %s: %s", r.Method, r.URL.Path, fallback)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeAndValidate читает JSON тело в dst и проверяет его.
// При ошибке ответ уже записан и возвращается false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Пустое тело запроса")
			return false
		}
		log.Debug().Err(err).Msg("[Handler] Ошибка декодирования запроса")
		writeError(w, http.StatusBadRequest, "Неверный формат запроса")
		return false
	}

	if err := validation.Struct(dst); err != nil {
		verr, _ := validation.AsError(err)
		resp := errorResponse{Message: "Некорректные данные"}
		if verr != nil {
			resp.Errors = verr.Fields
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return false
	}
	return true
}

// parseID читает числовой параметр {id} маршрута.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Некорректный ID")
		return 0, false
	}
	return id, true
}
