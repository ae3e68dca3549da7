package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ObjectPrefix - префикс публичных URL объектов, которые раздает сервер.
const ObjectPrefix = "/objects/"

// screenshotsDir - каталог изображений галереи внутри бакета.
const screenshotsDir = "screenshots"

// FileStorage определяет интерфейс объектного хранилища изображений.
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, objectKey string) (*Object, error)
	DeleteFile(ctx context.Context, objectKey string) error
	PresignedPutURL(ctx context.Context, objectKey string) (string, error)
}

// Object - открытый объект хранилища. Reader нужно закрыть после использования.
type Object struct {
	Reader      io.ReadCloser
	Size        int64
	ContentType string
	ETag        string
}

// MinioClient реализует FileStorage для MinIO.
type MinioClient struct {
	client     *minio.Client
	bucketName string
	expiry     time.Duration
}

// MinioConfig содержит параметры для подключения к MinIO.
type MinioConfig struct {
	Endpoint        string        // Адрес MinIO (например, "localhost:9000")
	AccessKeyID     string        // Логин
	SecretAccessKey string        // Пароль
	UseSSL          bool          // Использовать SSL
	BucketName      string        // Бакет изображений
	Region          string        // Регион, без него клиент запрашивает расположение бакета
	UploadURLExpiry time.Duration // Время жизни подписанной ссылки на загрузку
}

// NewMinioClient создает клиент MinIO и при необходимости создает бакет.
func NewMinioClient(ctx context.Context, cfg MinioConfig) (*MinioClient, error) {
	log.Info().Msgf("[Minio] Инициализация клиента для эндпоинта %s...", cfg.Endpoint)

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существования бакета '%s': %w", cfg.BucketName, err)
	}
	if !exists {
		log.Info().Msgf("[Minio] Бакет '%s' не найден, создаем...", cfg.BucketName)
		err = minioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета '%s': %w", cfg.BucketName, err)
		}
	}

	expiry := cfg.UploadURLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	log.Info().Msgf("[Minio] Клиент инициализирован для бакета '%s'", cfg.BucketName)
	return &MinioClient{client: minioClient, bucketName: cfg.BucketName, expiry: expiry}, nil
}

// UploadFile загружает файл в MinIO.
func (c *MinioClient) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	info, err := c.client.PutObject(ctx, c.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Error().Err(err).Msgf("[Minio] Ошибка загрузки файла '%s'", objectKey)
		return fmt.Errorf("ошибка загрузки файла в MinIO: %w", err)
	}

	log.Info().Msgf("[Minio] Файл '%s' загружен, размер: %d", objectKey, info.Size)
	return nil
}

// DownloadFile открывает объект для чтения.
func (c *MinioClient) DownloadFile(ctx context.Context, objectKey string) (*Object, error) {
	object, err := c.client.GetObject(ctx, c.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.mapError(objectKey, err)
	}

	// GetObject ленивый, ошибки отсутствия объекта приходят из Stat.
	stat, err := object.Stat()
	if err != nil {
		_ = object.Close()
		return nil, c.mapError(objectKey, err)
	}

	return &Object{
		Reader:      object,
		Size:        stat.Size,
		ContentType: stat.ContentType,
		ETag:        stat.ETag,
	}, nil
}

// DeleteFile удаляет объект. Отсутствие объекта не считается ошибкой.
func (c *MinioClient) DeleteFile(ctx context.Context, objectKey string) error {
	if err := c.client.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		log.Error().Err(err).Msgf("[Minio] Ошибка удаления файла '%s'", objectKey)
		return fmt.Errorf("ошибка удаления файла из MinIO: %w", err)
	}
	log.Info().Msgf("[Minio] Файл '%s' удален", objectKey)
	return nil
}

// PresignedPutURL возвращает подписанную ссылку для загрузки объекта методом PUT.
func (c *MinioClient) PresignedPutURL(ctx context.Context, objectKey string) (string, error) {
	u, err := c.client.PresignedPutObject(ctx, c.bucketName, objectKey, c.expiry)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи ссылки на загрузку: %w", err)
	}
	return u.String(), nil
}

func (c *MinioClient) mapError(objectKey string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		log.Debug().Msgf("[Minio] Файл '%s' не найден в бакете '%s'", objectKey, c.bucketName)
		return ErrObjectNotFound
	}
	log.Error().Err(err).Msgf("[Minio] Ошибка получения файла '%s'", objectKey)
	return fmt.Errorf("ошибка получения файла из MinIO: %w", err)
}

// NewScreenshotKey формирует уникальный ключ объекта, сохраняя расширение файла.
func NewScreenshotKey(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\?#`) {
		ext = ""
	}
	return screenshotsDir + "/" + uuid.NewString() + ext
}

// ObjectURL возвращает публичный путь объекта на сервере.
func ObjectURL(objectKey string) string {
	return ObjectPrefix + objectKey
}

// ObjectKeyFromURL извлекает ключ объекта из публичного пути.
// Второе значение false, если URL указывает не на хранилище.
func ObjectKeyFromURL(imageURL string) (string, bool) {
	if !strings.HasPrefix(imageURL, ObjectPrefix) {
		return "", false
	}
	key := path.Clean("/" + strings.TrimPrefix(imageURL, ObjectPrefix))
	key = strings.TrimPrefix(key, "/")
	if key == "" || key == "." {
		return "", false
	}
	return key, true
}

// Кастомная ошибка хранилища.
var (
	ErrObjectNotFound = errors.New("объект не найден в хранилище")
)
