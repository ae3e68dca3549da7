package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SteakTheStake/SummitMC/internal/mocks"
	"github.com/SteakTheStake/SummitMC/internal/repository"
	"github.com/SteakTheStake/SummitMC/internal/services"
	"github.com/SteakTheStake/SummitMC/models"
)

var testAuthConfig = services.AuthConfig{Secret: "0123456789abcdef-test", TokenTTL: time.Hour}

func TestNewAuthService(t *testing.T) {
	authService := services.NewAuthService(new(mocks.UserRepository), testAuthConfig)
	require.NotNil(t, authService)
	assert.Equal(t, time.Hour, authService.TokenTTL())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		mockSetup     func(repo *mocks.UserRepository)
		expectedError error
		wantAnyError  bool
	}{
		{
			name: "Успешная регистрация",
			mockSetup: func(repo *mocks.UserRepository) {
				repo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
					return u.Username == "admin" && u.IsAdmin &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
				})).Return(int64(1), nil).Once()
			},
		},
		{
			name: "Имя пользователя занято",
			mockSetup: func(repo *mocks.UserRepository) {
				repo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).
					Return(int64(0), repository.ErrUsernameTaken).Once()
			},
			expectedError: services.ErrUsernameTaken,
		},
		{
			name: "Ошибка репозитория при создании",
			mockSetup: func(repo *mocks.UserRepository) {
				repo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).
					Return(int64(0), errors.New("some db error")).Once()
			},
			wantAnyError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.UserRepository)
			tt.mockSetup(repo)

			user, err := services.NewAuthService(repo, testAuthConfig).Register(ctx, "admin", "password123", true)
			switch {
			case tt.expectedError != nil:
				require.ErrorIs(t, err, tt.expectedError)
			case tt.wantAnyError:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, int64(1), user.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginAndParseToken(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: 42, Username: "admin", PasswordHash: string(hash), IsAdmin: true}

	t.Run("Успешный вход и разбор токена", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		repo.On("GetUserByUsername", ctx, "admin").Return(stored, nil).Once()
		svc := services.NewAuthService(repo, testAuthConfig)

		token, user, err := svc.Login(ctx, "admin", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, int64(42), user.ID)

		session, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, &models.SessionUser{ID: 42, Username: "admin", IsAdmin: true}, session)
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		repo.On("GetUserByUsername", ctx, "admin").Return(stored, nil).Once()

		_, _, err := services.NewAuthService(repo, testAuthConfig).Login(ctx, "admin", "wrong")
		require.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("Пользователь не найден", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		repo.On("GetUserByUsername", ctx, "ghost").Return(nil, repository.ErrUserNotFound).Once()

		_, _, err := services.NewAuthService(repo, testAuthConfig).Login(ctx, "ghost", "x")
		require.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	svc := services.NewAuthService(new(mocks.UserRepository), testAuthConfig)

	sign := func(secret string, claims jwt.MapClaims, method jwt.SigningMethod) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	valid := jwt.MapClaims{
		"user_id": 1,
		"iss":     "summit-site",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	expired := jwt.MapClaims{
		"user_id": 1,
		"iss":     "summit-site",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	foreign := jwt.MapClaims{
		"user_id": 1,
		"iss":     "someone-else",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "Мусор", token: "not-a-token"},
		{name: "Чужой секрет", token: sign("another-secret-value", valid, jwt.SigningMethodHS256)},
		{name: "Истекший токен", token: sign(testAuthConfig.Secret, expired, jwt.SigningMethodHS256)},
		{name: "Чужой издатель", token: sign(testAuthConfig.Secret, foreign, jwt.SigningMethodHS256)},
		{name: "Другой алгоритм", token: sign(testAuthConfig.Secret, valid, jwt.SigningMethodHS512)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.ParseToken(tt.token)
			require.ErrorIs(t, err, services.ErrInvalidToken)
			assert.Nil(t, session)
		})
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	ctx := context.Background()

	repo := new(mocks.UserRepository)
	repo.On("GetUserByID", ctx, int64(42)).Return(&models.User{ID: 42, Username: "admin", IsAdmin: true}, nil).Once()
	repo.On("GetUserByID", ctx, int64(7)).Return(nil, repository.ErrUserNotFound).Once()
	svc := services.NewAuthService(repo, testAuthConfig)

	user, err := svc.CurrentUser(ctx, 42)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	_, err = svc.CurrentUser(ctx, 7)
	require.ErrorIs(t, err, services.ErrInvalidToken)
}
