package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/services"
	"github.com/SteakTheStake/SummitMC/models"
)

// Тип для ключа контекста.
type contextKey string

// SessionUserKey - ключ пользователя сессии в контексте запроса.
const SessionUserKey contextKey = "sessionUser"

// TokenParser проверяет токен сессии.
type TokenParser interface {
	ParseToken(token string) (*models.SessionUser, error)
}

// Authenticator проверяет токен сессии из cookie или заголовка Authorization.
// Запросы без действительной сессии получают 401.
func Authenticator(parser TokenParser, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token == "" {
				log.Debug().Msg("[AuthMiddleware] Токен сессии отсутствует")
				writeError(w, http.StatusUnauthorized, "Требуется аутентификация")
				return
			}

			user, err := parser.ParseToken(token)
			if err != nil {
				log.Info().Err(err).Msg("[AuthMiddleware] Невалидный токен сессии")
				writeError(w, http.StatusUnauthorized, "Невалидная сессия")
				return
			}

			ctx := context.WithValue(r.Context(), SessionUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserLoader перечитывает пользователя сессии из хранилища.
type UserLoader interface {
	CurrentUser(ctx context.Context, id int64) (*models.SessionUser, error)
}

// RequireAdmin пропускает только администраторов. Должен стоять после Authenticator.
// Права берутся из хранилища, а не из токена: снятые права действуют сразу.
func RequireAdmin(users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionUser(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Требуется аутентификация")
				return
			}

			user, err := users.CurrentUser(r.Context(), session.ID)
			switch {
			case errors.Is(err, services.ErrInvalidToken):
				log.Info().Msgf("[AuthMiddleware] Пользователь %d из сессии не найден", session.ID)
				writeError(w, http.StatusUnauthorized, "Невалидная сессия")
				return
			case err != nil:
				log.Error().Err(err).Msgf("[AuthMiddleware] Ошибка проверки прав пользователя %d", session.ID)
				writeError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
				return
			}

			if !user.IsAdmin {
				log.Warn().Msgf("[AuthMiddleware] Пользователь %s без прав администратора: %s %s",
					user.Username, r.Method, r.URL.Path)
				writeError(w, http.StatusForbidden, "Требуются права администратора")
				return
			}

			ctx := context.WithValue(r.Context(), SessionUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionUser извлекает пользователя сессии из контекста запроса.
func GetSessionUser(ctx context.Context) (*models.SessionUser, bool) {
	user, ok := ctx.Value(SessionUserKey).(*models.SessionUser)
	return user, ok && user != nil
}

// tokenFromRequest читает токен из cookie, затем из заголовка "Bearer".
func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
