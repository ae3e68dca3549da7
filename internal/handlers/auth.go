package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/middleware"
	"github.com/SteakTheStake/SummitMC/internal/services"
	"github.com/SteakTheStake/SummitMC/models"
)

// AuthService определяет интерфейс для сервиса аутентификации.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	CurrentUser(ctx context.Context, id int64) (*models.SessionUser, error)
	TokenTTL() time.Duration
}

// CookieConfig описывает cookie сессии.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler обрабатывает HTTP-запросы, связанные с аутентификацией.
type AuthHandler struct {
	service AuthService
	cookie  CookieConfig
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(s AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{service: s, cookie: cookie}
}

// Login проверяет учетные данные, ставит cookie сессии и возвращает токен.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Неверное имя пользователя или пароль")
			return
		}
		writeServiceError(w, r, err, "Не удалось выполнить вход")
		return
	}

	ttl := h.service.TokenTTL()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info().Msgf("[AuthHandler] Вход пользователя: %s", user.Username)
	writeJSON(w, http.StatusOK, models.LoginResponse{Success: true, Token: token, User: user})
}

// Logout удаляет cookie сессии.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// CurrentUser отдает пользователя текущей сессии.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}

	user, err := h.service.CurrentUser(r.Context(), session.ID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "Невалидная сессия")
			return
		}
		writeServiceError(w, r, err, "Не удалось получить пользователя")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
