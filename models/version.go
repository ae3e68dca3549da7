package models

import "time"

// Version описывает опубликованную версию ресурспака.
type Version struct {
	ID          int64     `db:"id" json:"id"`
	Version     string    `db:"version" json:"version"`
	Resolution  string    `db:"resolution" json:"resolution"`
	ReleaseDate time.Time `db:"release_date" json:"releaseDate"`
	Changelog   string    `db:"changelog" json:"changelog"`
	DownloadURL string    `db:"download_url" json:"downloadUrl"`
	IsLatest    bool      `db:"is_latest" json:"isLatest"`
}

// CreateVersionRequest представляет тело запроса на создание версии.
type CreateVersionRequest struct {
	Version     string    `json:"version" validate:"required,max=32"`
	Resolution  string    `json:"resolution" validate:"required,resolution"`
	ReleaseDate time.Time `json:"releaseDate" validate:"required"`
	Changelog   string    `json:"changelog" validate:"required"`
	DownloadURL string    `json:"downloadUrl" validate:"required,url"`
	IsLatest    bool      `json:"isLatest"`
}

// UpdateVersionRequest - частичное обновление версии, nil поля не меняются.
type UpdateVersionRequest struct {
	Version     *string    `json:"version,omitempty" validate:"omitempty,min=1,max=32"`
	Resolution  *string    `json:"resolution,omitempty" validate:"omitempty,resolution"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	Changelog   *string    `json:"changelog,omitempty" validate:"omitempty,min=1"`
	DownloadURL *string    `json:"downloadUrl,omitempty" validate:"omitempty,url"`
	IsLatest    *bool      `json:"isLatest,omitempty"`
}

// Источники данных о последней версии.
const (
	VersionSourceExternal = "external"
	VersionSourceLocal    = "local"
)

// LatestVersionResponse - последняя версия с приоритетом данных внешнего провайдера.
// Поля локальной записи отсутствуют, если локальной записи нет.
type LatestVersionResponse struct {
	ID            *int64     `json:"id,omitempty"`
	Version       string     `json:"version"`
	Resolution    string     `json:"resolution,omitempty"`
	ReleaseDate   *time.Time `json:"releaseDate,omitempty"`
	Changelog     string     `json:"changelog"`
	ChangelogHTML string     `json:"changelogHtml,omitempty"`
	DownloadURL   string     `json:"downloadUrl,omitempty"`
	IsLatest      *bool      `json:"isLatest,omitempty"`
	Downloads     *int64     `json:"downloads,omitempty"`
	Source        string     `json:"source"`
}
