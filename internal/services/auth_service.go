package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/SteakTheStake/SummitMC/internal/repository"
	"github.com/SteakTheStake/SummitMC/models"
)

const tokenIssuer = "summit-site"

// AuthService определяет интерфейс сервиса аутентификации администраторов.
type AuthService interface {
	Register(ctx context.Context, username, password string, isAdmin bool) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	ParseToken(token string) (*models.SessionUser, error)
	CurrentUser(ctx context.Context, id int64) (*models.SessionUser, error)
	TokenTTL() time.Duration
}

// AuthConfig содержит параметры подписи сессионных токенов.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// Данные пользователя в JWT (claims).
type jwtClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

var _ AuthService = (*authService)(nil)

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService создает новый экземпляр сервиса аутентификации.
func NewAuthService(userRepo repository.UserRepository, cfg AuthConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TokenTTL,
		now:      time.Now,
	}
}

// TokenTTL возвращает время жизни сессии.
func (s *authService) TokenTTL() time.Duration {
	return s.ttl
}

// Register создает пользователя с bcrypt хешем пароля.
func (s *authService) Register(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		IsAdmin:      isAdmin,
	}
	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	user.ID = id

	log.Info().Msgf("[AuthService] Пользователь '%s' зарегистрирован (админ: %t)", username, isAdmin)
	return user, nil
}

// Login проверяет пароль и возвращает подписанный токен сессии.
func (s *authService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Info().Msgf("[AuthService] Попытка входа несуществующего пользователя: %s", username)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Info().Msgf("[AuthService] Неверный пароль для пользователя: %s", username)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, err
	}

	log.Info().Msgf("[AuthService] Пользователь '%s' аутентифицирован", username)
	return token, user, nil
}

// ParseToken проверяет подпись и срок действия токена.
func (s *authService) ParseToken(tokenString string) (*models.SessionUser, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &models.SessionUser{ID: claims.UserID, Username: claims.Username, IsAdmin: claims.IsAdmin}, nil
}

// CurrentUser перечитывает пользователя сессии из хранилища.
func (s *authService) CurrentUser(ctx context.Context, id int64) (*models.SessionUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return &models.SessionUser{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}

// generateJWT создает и подписывает JWT токен для пользователя.
func (s *authService) generateJWT(user *models.User) (string, error) {
	now := s.now()
	claims := jwtClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи JWT: %w", err)
	}
	return signed, nil
}

// Кастомные ошибки сервиса.
var (
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	ErrUsernameTaken      = errors.New("имя пользователя уже занято")
	ErrInvalidToken       = errors.New("недействительная сессия")
)
