package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/storage"
)

// Serve отдает изображение из объектного хранилища по пути /objects/*.
func (h *ScreenshotHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key, ok := storage.ObjectKeyFromURL(storage.ObjectPrefix + chi.URLParam(r, "*"))
	if !ok {
		writeError(w, http.StatusNotFound, "Объект не найден")
		return
	}

	obj, err := h.service.OpenObject(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, err, "Не удалось получить объект")
		return
	}
	defer obj.Reader.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if obj.ETag != "" {
		w.Header().Set("ETag", `"`+obj.ETag+`"`)
	}
	// Ключи объектов уникальны, содержимое по ключу не меняется.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)

	if _, err = io.Copy(w, obj.Reader); err != nil {
		log.Warn().Err(err).Msgf("[ObjectHandler] Передача объекта '%s' прервана", key)
	}
}
