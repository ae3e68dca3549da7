package repository_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteakTheStake/SummitMC/internal/repository"
	"github.com/SteakTheStake/SummitMC/models"
)

var screenshotRowColumns = []string{
	"id", "image_url", "title", "description", "category", "resolution", "featured",
	"file_hash", "original_filename", "file_size", "mime_type", "uploaded_at",
}

func setupScreenshotRepoMock(t *testing.T) (repository.ScreenshotRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return repository.NewPostgresScreenshotRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func screenshotRow(rows *sqlmock.Rows, id int64, url string, hash any) *sqlmock.Rows {
	return rows.AddRow(id, url, "Закат", nil, "landscape", "64x", false, hash, nil, nil, nil, time.Now())
}

func strPtr(s string) *string { return &s }

func TestScreenshotRepository_List(t *testing.T) {
	featured := true

	tests := []struct {
		name   string
		filter models.ScreenshotFilter
		where  string
		args   []driver.Value
	}{
		{
			name:   "Без фильтров",
			filter: models.ScreenshotFilter{},
			where:  `FROM screenshots ORDER BY featured DESC`,
		},
		{
			name:   "Категория и разрешение",
			filter: models.ScreenshotFilter{Category: "nether", Resolution: "32x"},
			where:  `WHERE category = $1 AND resolution = $2 ORDER BY`,
			args:   []driver.Value{"nether", "32x"},
		},
		{
			name:   "Поиск с экранированием и избранное",
			filter: models.ScreenshotFilter{Search: " 100%_ ", Featured: &featured},
			where:  `WHERE featured = $1 AND (title ILIKE $2 OR description ILIKE $2) ORDER BY`,
			args:   []driver.Value{true, `%100\%\_%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupScreenshotRepoMock(t)
			rows := screenshotRow(sqlmock.NewRows(screenshotRowColumns), 1, "https://img/1.png", nil)
			exp := mock.ExpectQuery(regexp.QuoteMeta(tt.where))
			if len(tt.args) > 0 {
				exp.WithArgs(tt.args...)
			}
			exp.WillReturnRows(rows)

			list, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Nil(t, list[0].Description)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestScreenshotRepository_Categories(t *testing.T) {
	repo, mock := setupScreenshotRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT category FROM screenshots ORDER BY category`)).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("landscape").AddRow("nether"))

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"landscape", "nether"}, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScreenshotRepository_FindDuplicates(t *testing.T) {
	url := "https://img/a.png"
	hash := "abc123"

	tests := []struct {
		name     string
		imageURL *string
		fileHash *string
		where    string
		args     []driver.Value
	}{
		{
			name:     "URL и хеш объединяются через OR",
			imageURL: &url,
			fileHash: &hash,
			where:    `WHERE image_url = $1 OR file_hash = $2 ORDER BY id`,
			args:     []driver.Value{url, hash},
		},
		{
			name:     "Только хеш",
			fileHash: &hash,
			where:    `WHERE file_hash = $1 ORDER BY id`,
			args:     []driver.Value{hash},
		},
		{
			name:     "Только URL",
			imageURL: &url,
			fileHash: strPtr(""),
			where:    `WHERE image_url = $1 ORDER BY id`,
			args:     []driver.Value{url},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupScreenshotRepoMock(t)
			rows := screenshotRow(sqlmock.NewRows(screenshotRowColumns), 4, "https://img/other.png", hash)
			mock.ExpectQuery(regexp.QuoteMeta(tt.where)).WithArgs(tt.args...).WillReturnRows(rows)

			duplicates, err := repo.FindDuplicates(context.Background(), tt.imageURL, tt.fileHash)
			require.NoError(t, err)
			require.Len(t, duplicates, 1)
			assert.Equal(t, int64(4), duplicates[0].ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("Без критериев запрос не выполняется", func(t *testing.T) {
		repo, mock := setupScreenshotRepoMock(t)

		duplicates, err := repo.FindDuplicates(context.Background(), nil, nil)
		require.NoError(t, err)
		assert.Empty(t, duplicates)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestScreenshotRepository_Create(t *testing.T) {
	query := regexp.QuoteMeta(`INSERT INTO screenshots`)
	s := &models.Screenshot{
		ImageURL:   "https://img/new.png",
		Title:      "Горы",
		Category:   "landscape",
		Resolution: "64x",
		FileHash:   strPtr("ff00"),
	}

	t.Run("Успешное создание", func(t *testing.T) {
		repo, mock := setupScreenshotRepoMock(t)
		mock.ExpectQuery(query).
			WithArgs(s.ImageURL, s.Title, nil, s.Category, s.Resolution, false, "ff00", nil, nil, nil).
			WillReturnRows(screenshotRow(sqlmock.NewRows(screenshotRowColumns), 11, s.ImageURL, "ff00"))

		created, err := repo.Create(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, int64(11), created.ID)
		require.NotNil(t, created.FileHash)
		assert.Equal(t, "ff00", *created.FileHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Нарушение уникальности", func(t *testing.T) {
		repo, mock := setupScreenshotRepoMock(t)
		mock.ExpectQuery(query).WillReturnError(&pq.Error{Code: "23505", Constraint: "screenshots_file_hash_key"})

		created, err := repo.Create(context.Background(), s)
		require.ErrorIs(t, err, repository.ErrDuplicateScreenshot)
		assert.Nil(t, created)
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		repo, mock := setupScreenshotRepoMock(t)
		mock.ExpectQuery(query).WillReturnError(errors.New("timeout"))

		_, err := repo.Create(context.Background(), s)
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrDuplicateScreenshot)
	})
}

func TestScreenshotRepository_Update(t *testing.T) {
	query := regexp.QuoteMeta(`UPDATE screenshots`)
	s := &models.Screenshot{ID: 2, ImageURL: "https://img/2.png", Title: "Пещера", Category: "caves", Resolution: "32x"}

	t.Run("Успешное обновление", func(t *testing.T) {
		repo, mock := setupScreenshotRepoMock(t)
		mock.ExpectQuery(query).
			WithArgs(s.ImageURL, s.Title, nil, s.Category, s.Resolution, false, int64(2)).
			WillReturnRows(screenshotRow(sqlmock.NewRows(screenshotRowColumns), 2, s.ImageURL, nil))

		updated, err := repo.Update(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, s.ImageURL, updated.ImageURL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("URL занят другой записью", func(t *testing.T) {
		repo, mock := setupScreenshotRepoMock(t)
		mock.ExpectQuery(query).WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Update(context.Background(), s)
		require.ErrorIs(t, err, repository.ErrDuplicateScreenshot)
	})
}

func TestScreenshotRepository_Delete(t *testing.T) {
	query := regexp.QuoteMeta(`DELETE FROM screenshots WHERE id=$1`)

	t.Run("Успешное удаление", func(t *testing.T) {
		repo, mock := setupScreenshotRepoMock(t)
		mock.ExpectExec(query).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Delete(context.Background(), 3))
	})

	t.Run("Скриншот не найден", func(t *testing.T) {
		repo, mock := setupScreenshotRepoMock(t)
		mock.ExpectExec(query).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
		require.ErrorIs(t, repo.Delete(context.Background(), 3), repository.ErrScreenshotNotFound)
	})
}
