package models

import "time"

// Screenshot описывает изображение галереи.
// FileHash, OriginalFilename, FileSize и MimeType используются только для поиска дубликатов.
type Screenshot struct {
	ID               int64     `db:"id" json:"id"`
	ImageURL         string    `db:"image_url" json:"imageUrl"`
	Title            string    `db:"title" json:"title"`
	Description      *string   `db:"description" json:"description"`
	Category         string    `db:"category" json:"category"`
	Resolution       string    `db:"resolution" json:"resolution"`
	Featured         bool      `db:"featured" json:"featured"`
	FileHash         *string   `db:"file_hash" json:"fileHash,omitempty"`
	OriginalFilename *string   `db:"original_filename" json:"originalFilename,omitempty"`
	FileSize         *int64    `db:"file_size" json:"fileSize,omitempty"`
	MimeType         *string   `db:"mime_type" json:"mimeType,omitempty"`
	UploadedAt       time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// ScreenshotFilter - условия выборки галереи. Пустые поля не фильтруют.
type ScreenshotFilter struct {
	Category   string
	Search     string
	Resolution string
	Featured   *bool
}

// CreateScreenshotRequest представляет тело запроса на создание скриншота.
type CreateScreenshotRequest struct {
	ImageURL         string  `json:"imageUrl" validate:"required,max=2048"`
	Title            string  `json:"title" validate:"required,max=200"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category         string  `json:"category" validate:"required,max=64"`
	Resolution       string  `json:"resolution" validate:"required,resolution"`
	Featured         bool    `json:"featured"`
	FileHash         *string `json:"fileHash,omitempty" validate:"omitempty,hexadecimal,max=128"`
	OriginalFilename *string `json:"originalFilename,omitempty" validate:"omitempty,max=255"`
	FileSize         *int64  `json:"fileSize,omitempty" validate:"omitempty,gt=0"`
	MimeType         *string `json:"mimeType,omitempty" validate:"omitempty,max=100"`
}

// UpdateScreenshotRequest - частичное обновление скриншота, nil поля не меняются.
type UpdateScreenshotRequest struct {
	ImageURL    *string `json:"imageUrl,omitempty" validate:"omitempty,min=1,max=2048"`
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1,max=64"`
	Resolution  *string `json:"resolution,omitempty" validate:"omitempty,resolution"`
	Featured    *bool   `json:"featured,omitempty"`
}

// CheckDuplicatesRequest - проверка дубликатов без создания записи.
type CheckDuplicatesRequest struct {
	ImageURL *string `json:"imageUrl,omitempty"`
	FileHash *string `json:"fileHash,omitempty"`
}

// CheckDuplicatesResponse - результат проверки дубликатов.
type CheckDuplicatesResponse struct {
	HasDuplicates bool         `json:"hasDuplicates"`
	Duplicates    []Screenshot `json:"duplicates"`
}

// UploadURLRequest - запрос на получение ссылки для загрузки изображения.
type UploadURLRequest struct {
	Filename    string `json:"filename" validate:"omitempty,max=255"`
	ContentType string `json:"contentType" validate:"omitempty,max=100"`
}

// UploadURLResponse - подписанная ссылка для PUT загрузки и итоговый URL изображения.
type UploadURLResponse struct {
	UploadURL string `json:"uploadURL"`
	ObjectURL string `json:"objectUrl"`
}
