package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/metrics"
	"github.com/SteakTheStake/SummitMC/internal/repository"
	"github.com/SteakTheStake/SummitMC/internal/storage"
	"github.com/SteakTheStake/SummitMC/models"
)

// ScreenshotService управляет галереей и поиском дубликатов.
type ScreenshotService interface {
	ListScreenshots(ctx context.Context, filter models.ScreenshotFilter) ([]models.Screenshot, error)
	ListCategories(ctx context.Context) ([]string, error)
	CheckDuplicates(ctx context.Context, req models.CheckDuplicatesRequest) (*models.CheckDuplicatesResponse, error)
	CreateScreenshot(ctx context.Context, req models.CreateScreenshotRequest) (*models.Screenshot, error)
	UpdateScreenshot(ctx context.Context, id int64, req models.UpdateScreenshotRequest) (*models.Screenshot, error)
	DeleteScreenshot(ctx context.Context, id int64) error
	CreateUploadURL(ctx context.Context, req models.UploadURLRequest) (*models.UploadURLResponse, error)
	OpenObject(ctx context.Context, key string) (*storage.Object, error)
}

// DuplicateError сообщает о конфликте и содержит конфликтующие записи.
type DuplicateError struct {
	Duplicates []models.Screenshot
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("найдено дубликатов: %d", len(e.Duplicates))
}

// Unwrap позволяет сравнивать ошибку с ErrDuplicateScreenshot.
func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateScreenshot
}

var _ ScreenshotService = (*screenshotService)(nil)

type screenshotService struct {
	repo  repository.ScreenshotRepository
	files storage.FileStorage // nil, если объектное хранилище отключено
}

// NewScreenshotService создает сервис галереи. files может быть nil.
func NewScreenshotService(repo repository.ScreenshotRepository, files storage.FileStorage) ScreenshotService {
	return &screenshotService{repo: repo, files: files}
}

// ListScreenshots возвращает скриншоты по фильтру.
func (s *screenshotService) ListScreenshots(
	ctx context.Context,
	filter models.ScreenshotFilter,
) ([]models.Screenshot, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения скриншотов: %w", err)
	}
	return list, nil
}

// ListCategories возвращает различные категории галереи.
func (s *screenshotService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения категорий: %w", err)
	}
	return categories, nil
}

// CheckDuplicates ищет дубликаты без создания записи.
func (s *screenshotService) CheckDuplicates(
	ctx context.Context,
	req models.CheckDuplicatesRequest,
) (*models.CheckDuplicatesResponse, error) {
	duplicates, err := s.repo.FindDuplicates(ctx, req.ImageURL, req.FileHash)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска дубликатов: %w", err)
	}
	return &models.CheckDuplicatesResponse{
		HasDuplicates: len(duplicates) > 0,
		Duplicates:    duplicates,
	}, nil
}

// CreateScreenshot создает скриншот, если нет записи с тем же URL или хешем.
// Нарушение ограничения уникальности при вставке тоже считается дубликатом.
func (s *screenshotService) CreateScreenshot(
	ctx context.Context,
	req models.CreateScreenshotRequest,
) (*models.Screenshot, error) {
	imageURL := req.ImageURL
	duplicates, err := s.repo.FindDuplicates(ctx, &imageURL, req.FileHash)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска дубликатов: %w", err)
	}
	if len(duplicates) > 0 {
		return nil, s.duplicateError(req.ImageURL, duplicates)
	}

	created, err := s.repo.Create(ctx, &models.Screenshot{
		ImageURL:         req.ImageURL,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Resolution:       req.Resolution,
		Featured:         req.Featured,
		FileHash:         req.FileHash,
		OriginalFilename: req.OriginalFilename,
		FileSize:         req.FileSize,
		MimeType:         req.MimeType,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateScreenshot) {
			// Запись появилась между проверкой и вставкой.
			return nil, s.conflictAfterInsert(ctx, &imageURL, req.FileHash)
		}
		return nil, fmt.Errorf("ошибка создания скриншота: %w", err)
	}

	log.Info().Msgf("[ScreenshotService] Добавлен скриншот '%s' (ID: %d)", created.Title, created.ID)
	return created, nil
}

// UpdateScreenshot применяет к скриншоту переданные поля.
func (s *screenshotService) UpdateScreenshot(
	ctx context.Context,
	id int64,
	req models.UpdateScreenshotRequest,
) (*models.Screenshot, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapScreenshotError(err)
	}

	if req.ImageURL != nil {
		current.ImageURL = *req.ImageURL
	}
	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.Category != nil {
		current.Category = *req.Category
	}
	if req.Resolution != nil {
		current.Resolution = *req.Resolution
	}
	if req.Featured != nil {
		current.Featured = *req.Featured
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateScreenshot) {
			return nil, s.conflictAfterInsert(ctx, &current.ImageURL, nil)
		}
		return nil, mapScreenshotError(err)
	}
	return updated, nil
}

// DeleteScreenshot удаляет запись и, если изображение лежит в хранилище, сам объект.
// Ошибка удаления объекта только логируется.
func (s *screenshotService) DeleteScreenshot(ctx context.Context, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapScreenshotError(err)
	}
	if err = s.repo.Delete(ctx, id); err != nil {
		return mapScreenshotError(err)
	}

	if key, ok := storage.ObjectKeyFromURL(current.ImageURL); ok && s.files != nil {
		if err = s.files.DeleteFile(ctx, key); err != nil {
			log.Warn().Err(err).Msgf("[ScreenshotService] Не удалось удалить объект '%s'", key)
		}
	}
	return nil
}

// CreateUploadURL выдает подписанную ссылку на загрузку нового изображения.
func (s *screenshotService) CreateUploadURL(
	ctx context.Context,
	req models.UploadURLRequest,
) (*models.UploadURLResponse, error) {
	if s.files == nil {
		return nil, ErrStorageDisabled
	}
	key := storage.NewScreenshotKey(req.Filename)
	uploadURL, err := s.files.PresignedPutURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ссылки на загрузку: %w", err)
	}
	return &models.UploadURLResponse{UploadURL: uploadURL, ObjectURL: storage.ObjectURL(key)}, nil
}

// OpenObject открывает сохраненное изображение.
func (s *screenshotService) OpenObject(ctx context.Context, key string) (*storage.Object, error) {
	if s.files == nil {
		return nil, ErrStorageDisabled
	}
	obj, err := s.files.DownloadFile(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("ошибка чтения объекта: %w", err)
	}
	return obj, nil
}

func (s *screenshotService) duplicateError(imageURL string, duplicates []models.Screenshot) error {
	metrics.DuplicateScreenshotsRejected.Inc()
	log.Warn().Msgf("[ScreenshotService] Отклонен дубликат '%s': совпадений %d", imageURL, len(duplicates))
	return &DuplicateError{Duplicates: duplicates}
}

// conflictAfterInsert повторно ищет конфликтующие записи после нарушения уникальности.
func (s *screenshotService) conflictAfterInsert(ctx context.Context, imageURL, fileHash *string) error {
	duplicates, err := s.repo.FindDuplicates(ctx, imageURL, fileHash)
	if err != nil {
		log.Error().Err(err).Msg("[ScreenshotService] Ошибка повторного поиска дубликатов")
		duplicates = nil
	}
	return s.duplicateError(*imageURL, duplicates)
}

func mapScreenshotError(err error) error {
	if errors.Is(err, repository.ErrScreenshotNotFound) {
		return ErrScreenshotNotFound
	}
	return fmt.Errorf("ошибка работы со скриншотом: %w", err)
}

// Ошибки сервиса скриншотов.
var (
	ErrScreenshotNotFound  = errors.New("скриншот не найден")
	ErrDuplicateScreenshot = errors.New("скриншот уже существует")
	ErrStorageDisabled     = errors.New("объектное хранилище отключено")
	ErrObjectNotFound      = errors.New("объект не найден")
)
