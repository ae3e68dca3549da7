package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/models"
)

// UserRepository определяет методы для работы с администраторами сайта.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository создает новый экземпляр репозитория пользователей для PostgreSQL.
func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, username, password_hash, is_admin, created_at, updated_at`

// CreateUser создает нового пользователя и возвращает его ID.
func (r *postgresUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	query := `INSERT INTO users (username, password_hash, is_admin) VALUES ($1, $2, $3) RETURNING id`
	var userID int64

	err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.IsAdmin).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn().Msgf("[Repo] Имя пользователя '%s' уже занято", user.Username)
			return 0, ErrUsernameTaken
		}
		log.Error().Err(err).Msgf("[Repo] Ошибка при создании пользователя '%s'", user.Username)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание пользователя: %w", err)
	}

	log.Info().Msgf("[Repo] Пользователь '%s' создан с ID %d", user.Username, userID)
	return userID, nil
}

// GetUserByUsername находит пользователя по имени.
func (r *postgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	var user models.User

	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug().Msgf("[Repo] Пользователь '%s' не найден", username)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка выполнения запроса на получение пользователя: %w", err)
	}
	return &user, nil
}

// GetUserByID находит пользователя по ID.
func (r *postgresUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	var user models.User

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка выполнения запроса на получение пользователя: %w", err)
	}
	return &user, nil
}

// isUniqueViolation проверяет, что ошибка вызвана нарушением ограничения уникальности.
func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}

// Кастомные ошибки репозитория пользователей.
var (
	ErrUserNotFound  = errors.New("пользователь не найден")
	ErrUsernameTaken = errors.New("имя пользователя уже занято")
)
