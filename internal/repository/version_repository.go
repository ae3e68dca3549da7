package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/models"
)

// VersionRepository хранит опубликованные версии ресурспака.
type VersionRepository interface {
	List(ctx context.Context) ([]models.Version, error)
	GetByID(ctx context.Context, id int64) (*models.Version, error)
	GetLatest(ctx context.Context) (*models.Version, error)
	Create(ctx context.Context, version *models.Version) (*models.Version, error)
	Update(ctx context.Context, version *models.Version) (*models.Version, error)
	Delete(ctx context.Context, id int64) error
}

type postgresVersionRepository struct {
	db *sqlx.DB
}

// NewPostgresVersionRepository создает репозиторий версий для PostgreSQL.
func NewPostgresVersionRepository(db *sqlx.DB) VersionRepository {
	return &postgresVersionRepository{db: db}
}

const versionColumns = `id, version, resolution, release_date, changelog, download_url, is_latest`

// List возвращает версии от новых к старым.
func (r *postgresVersionRepository) List(ctx context.Context) ([]models.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM versions ORDER BY release_date DESC, id DESC`
	versions := []models.Version{}

	if err := r.db.SelectContext(ctx, &versions, query); err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса на получение версий: %w", err)
	}
	return versions, nil
}

// GetByID находит версию по ID.
func (r *postgresVersionRepository) GetByID(ctx context.Context, id int64) (*models.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM versions WHERE id=$1`
	var v models.Version

	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("ошибка выполнения запроса на получение версии: %w", err)
	}
	return &v, nil
}

// GetLatest возвращает версию с флагом is_latest.
func (r *postgresVersionRepository) GetLatest(ctx context.Context) (*models.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM versions WHERE is_latest = TRUE ORDER BY release_date DESC LIMIT 1`
	var v models.Version

	if err := r.db.GetContext(ctx, &v, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("ошибка выполнения запроса на получение последней версии: %w", err)
	}
	return &v, nil
}

// Create сохраняет новую версию. Если версия отмечена последней,
// флаг снимается со всех остальных записей в той же транзакции.
func (r *postgresVersionRepository) Create(ctx context.Context, version *models.Version) (*models.Version, error) {
	var created models.Version
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if version.IsLatest {
			if _, err := tx.ExecContext(ctx, `UPDATE versions SET is_latest = FALSE WHERE is_latest = TRUE`); err != nil {
				return fmt.Errorf("ошибка сброса флага последней версии: %w", err)
			}
		}
		query := `INSERT INTO versions (version, resolution, release_date, changelog, download_url, is_latest)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + versionColumns
		return tx.GetContext(ctx, &created, query,
			version.Version, version.Resolution, version.ReleaseDate,
			version.Changelog, version.DownloadURL, version.IsLatest)
	})
	if err != nil {
		log.Error().Err(err).Msgf("[Repo] Ошибка создания версии %s", version.Version)
		return nil, fmt.Errorf("ошибка выполнения запроса на создание версии: %w", err)
	}

	log.Info().Msgf("[Repo] Создана версия %s (ID: %d, последняя: %t)", created.Version, created.ID, created.IsLatest)
	return &created, nil
}

// Update перезаписывает все поля версии по ID.
func (r *postgresVersionRepository) Update(ctx context.Context, version *models.Version) (*models.Version, error) {
	var updated models.Version
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if version.IsLatest {
			_, err := tx.ExecContext(ctx,
				`UPDATE versions SET is_latest = FALSE WHERE is_latest = TRUE AND id <> $1`, version.ID)
			if err != nil {
				return fmt.Errorf("ошибка сброса флага последней версии: %w", err)
			}
		}
		query := `UPDATE versions
			SET version=$1, resolution=$2, release_date=$3, changelog=$4, download_url=$5, is_latest=$6
			WHERE id=$7
			RETURNING ` + versionColumns
		return tx.GetContext(ctx, &updated, query,
			version.Version, version.Resolution, version.ReleaseDate,
			version.Changelog, version.DownloadURL, version.IsLatest, version.ID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVersionNotFound
		}
		log.Error().Err(err).Msgf("[Repo] Ошибка обновления версии ID %d", version.ID)
		return nil, fmt.Errorf("ошибка выполнения запроса на обновление версии: %w", err)
	}
	return &updated, nil
}

// Delete удаляет версию по ID.
func (r *postgresVersionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM versions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса на удаление версии: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества удаленных версий: %w", err)
	}
	if affected == 0 {
		return ErrVersionNotFound
	}
	log.Info().Msgf("[Repo] Версия ID %d удалена", id)
	return nil
}

// inTx выполняет fn в транзакции. Ошибка fn откатывает транзакцию.
func (r *postgresVersionRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("[Repo] Ошибка отката транзакции")
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// Ошибки репозитория версий.
var (
	ErrVersionNotFound = errors.New("версия не найдена")
)
