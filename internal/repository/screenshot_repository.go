package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/models"
)

// ScreenshotRepository хранит изображения галереи.
type ScreenshotRepository interface {
	List(ctx context.Context, filter models.ScreenshotFilter) ([]models.Screenshot, error)
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*models.Screenshot, error)
	FindDuplicates(ctx context.Context, imageURL, fileHash *string) ([]models.Screenshot, error)
	Create(ctx context.Context, screenshot *models.Screenshot) (*models.Screenshot, error)
	Update(ctx context.Context, screenshot *models.Screenshot) (*models.Screenshot, error)
	Delete(ctx context.Context, id int64) error
}

type postgresScreenshotRepository struct {
	db *sqlx.DB
}

// NewPostgresScreenshotRepository создает репозиторий скриншотов для PostgreSQL.
func NewPostgresScreenshotRepository(db *sqlx.DB) ScreenshotRepository {
	return &postgresScreenshotRepository{db: db}
}

const screenshotColumns = `id, image_url, title, description, category, resolution, featured, ` +
	`file_hash, original_filename, file_size, mime_type, uploaded_at`

// List возвращает скриншоты, подходящие под фильтр. Избранные идут первыми.
func (r *postgresScreenshotRepository) List(
	ctx context.Context,
	filter models.ScreenshotFilter,
) ([]models.Screenshot, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.Resolution != "" {
		conds = append(conds, "resolution = "+arg(filter.Resolution))
	}
	if filter.Featured != nil {
		conds = append(conds, "featured = "+arg(*filter.Featured))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := arg("%" + escapeLike(s) + "%")
		conds = append(conds, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}

	query := `SELECT ` + screenshotColumns + ` FROM screenshots`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY featured DESC, uploaded_at DESC, id DESC`

	screenshots := []models.Screenshot{}
	if err := r.db.SelectContext(ctx, &screenshots, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса на получение скриншотов: %w", err)
	}
	return screenshots, nil
}

// Categories возвращает отсортированный список различных категорий.
func (r *postgresScreenshotRepository) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	if err := r.db.SelectContext(ctx, &categories,
		`SELECT DISTINCT category FROM screenshots ORDER BY category`); err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса на получение категорий: %w", err)
	}
	return categories, nil
}

// GetByID находит скриншот по ID.
func (r *postgresScreenshotRepository) GetByID(ctx context.Context, id int64) (*models.Screenshot, error) {
	var s models.Screenshot
	if err := r.db.GetContext(ctx, &s, `SELECT `+screenshotColumns+` FROM screenshots WHERE id=$1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreenshotNotFound
		}
		return nil, fmt.Errorf("ошибка выполнения запроса на получение скриншота: %w", err)
	}
	return &s, nil
}

// FindDuplicates ищет записи с тем же URL изображения ИЛИ тем же хешем.
// Пустые критерии не участвуют; без критериев результат пуст.
func (r *postgresScreenshotRepository) FindDuplicates(
	ctx context.Context,
	imageURL, fileHash *string,
) ([]models.Screenshot, error) {
	var (
		conds []string
		args  []any
	)
	if imageURL != nil && *imageURL != "" {
		args = append(args, *imageURL)
		conds = append(conds, "image_url = $"+strconv.Itoa(len(args)))
	}
	if fileHash != nil && *fileHash != "" {
		args = append(args, *fileHash)
		conds = append(conds, "file_hash = $"+strconv.Itoa(len(args)))
	}

	duplicates := []models.Screenshot{}
	if len(conds) == 0 {
		return duplicates, nil
	}

	query := `SELECT ` + screenshotColumns + ` FROM screenshots WHERE ` +
		strings.Join(conds, " OR ") + ` ORDER BY id`
	if err := r.db.SelectContext(ctx, &duplicates, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса на поиск дубликатов: %w", err)
	}
	return duplicates, nil
}

// Create сохраняет скриншот. Нарушение уникальности URL или хеша
// возвращается как ErrDuplicateScreenshot.
func (r *postgresScreenshotRepository) Create(
	ctx context.Context,
	s *models.Screenshot,
) (*models.Screenshot, error) {
	query := `INSERT INTO screenshots
		(image_url, title, description, category, resolution, featured,
		 file_hash, original_filename, file_size, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + screenshotColumns
	var created models.Screenshot

	err := r.db.GetContext(ctx, &created, query,
		s.ImageURL, s.Title, s.Description, s.Category, s.Resolution, s.Featured,
		s.FileHash, s.OriginalFilename, s.FileSize, s.MimeType)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn().Msgf("[Repo] Скриншот '%s' уже существует", s.ImageURL)
			return nil, ErrDuplicateScreenshot
		}
		return nil, fmt.Errorf("ошибка выполнения запроса на создание скриншота: %w", err)
	}

	log.Info().Msgf("[Repo] Скриншот '%s' создан с ID %d", created.Title, created.ID)
	return &created, nil
}

// Update перезаписывает редактируемые поля скриншота.
func (r *postgresScreenshotRepository) Update(
	ctx context.Context,
	s *models.Screenshot,
) (*models.Screenshot, error) {
	query := `UPDATE screenshots
		SET image_url=$1, title=$2, description=$3, category=$4, resolution=$5, featured=$6
		WHERE id=$7
		RETURNING ` + screenshotColumns
	var updated models.Screenshot

	err := r.db.GetContext(ctx, &updated, query,
		s.ImageURL, s.Title, s.Description, s.Category, s.Resolution, s.Featured, s.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrScreenshotNotFound
		case isUniqueViolation(err):
			return nil, ErrDuplicateScreenshot
		}
		return nil, fmt.Errorf("ошибка выполнения запроса на обновление скриншота: %w", err)
	}
	return &updated, nil
}

// Delete удаляет скриншот по ID.
func (r *postgresScreenshotRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM screenshots WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса на удаление скриншота: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества удаленных скриншотов: %w", err)
	}
	if affected == 0 {
		return ErrScreenshotNotFound
	}
	log.Info().Msgf("[Repo] Скриншот ID %d удален", id)
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы шаблона LIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Ошибки репозитория скриншотов.
var (
	ErrScreenshotNotFound  = errors.New("скриншот не найден")
	ErrDuplicateScreenshot = errors.New("скриншот с таким URL или хешем уже существует")
)
