package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/models"
)

// DownloadRepository хранит локальные счетчики скачиваний.
type DownloadRepository interface {
	GetAll(ctx context.Context) ([]models.DownloadCounter, error)
	Increment(ctx context.Context, resolution, platform string) (*models.DownloadCounter, error)
	Seed(ctx context.Context, resolution, platform string, count int64) (bool, error)
}

type postgresDownloadRepository struct {
	db *sqlx.DB
}

// NewPostgresDownloadRepository создает репозиторий счетчиков для PostgreSQL.
func NewPostgresDownloadRepository(db *sqlx.DB) DownloadRepository {
	return &postgresDownloadRepository{db: db}
}

// GetAll возвращает все счетчики без фильтрации.
func (r *postgresDownloadRepository) GetAll(ctx context.Context) ([]models.DownloadCounter, error) {
	query := `SELECT id, resolution, platform, count, last_updated FROM downloads ORDER BY resolution, platform`
	counters := []models.DownloadCounter{}

	if err := r.db.SelectContext(ctx, &counters, query); err != nil {
		log.Error().Err(err).Msg("[Repo] Ошибка при чтении счетчиков скачиваний")
		return nil, fmt.Errorf("ошибка выполнения запроса на получение счетчиков: %w", err)
	}
	return counters, nil
}

// Increment атомарно увеличивает счетчик пары (разрешение, платформа).
// Отсутствующий счетчик создается со значением 1.
func (r *postgresDownloadRepository) Increment(
	ctx context.Context,
	resolution, platform string,
) (*models.DownloadCounter, error) {
	query := `INSERT INTO downloads (resolution, platform, count, last_updated)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (resolution, platform)
		DO UPDATE SET count = downloads.count + 1, last_updated = now()
		RETURNING id, resolution, platform, count, last_updated`
	var counter models.DownloadCounter

	if err := r.db.GetContext(ctx, &counter, query, resolution, platform); err != nil {
		log.Error().Err(err).Msgf("[Repo] Ошибка увеличения счетчика %s/%s", resolution, platform)
		return nil, fmt.Errorf("ошибка выполнения запроса на увеличение счетчика: %w", err)
	}

	log.Debug().Msgf("[Repo] Счетчик %s/%s = %d", resolution, platform, counter.Count)
	return &counter, nil
}

// Seed создает счетчик с начальным значением, если его еще нет.
// Возвращает false, если счетчик уже существовал.
func (r *postgresDownloadRepository) Seed(
	ctx context.Context,
	resolution, platform string,
	count int64,
) (bool, error) {
	query := `INSERT INTO downloads (resolution, platform, count, last_updated)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (resolution, platform) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, resolution, platform, count)
	if err != nil {
		log.Error().Err(err).Msgf("[Repo] Ошибка создания счетчика %s/%s", resolution, platform)
		return false, fmt.Errorf("ошибка выполнения запроса на создание счетчика: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка получения количества затронутых строк: %w", err)
	}
	return rows > 0, nil
}
