package models

import "time"

// DownloadCounter хранит счетчик прямых скачиваний для пары (разрешение, платформа).
type DownloadCounter struct {
	ID          int64     `db:"id" json:"id"`
	Resolution  string    `db:"resolution" json:"resolution"`
	Platform    string    `db:"platform" json:"platform"`
	Count       int64     `db:"count" json:"count"`
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
}

// IncrementDownloadRequest представляет тело запроса на увеличение счетчика.
type IncrementDownloadRequest struct {
	Resolution string `json:"resolution" validate:"required,resolution"`
	Platform   string `json:"platform" validate:"required,max=32"`
}

// DownloadStatsResponse объединяет локальные счетчики и статистику Modrinth.
type DownloadStatsResponse struct {
	Stats             []DownloadCounter `json:"stats"`
	TotalDownloads    int64             `json:"totalDownloads"`
	Modrinth          *ProjectStats     `json:"modrinth"`
	RealTimeDownloads int64             `json:"realTimeDownloads"`
}

// LinkMap сопоставляет метку разрешения и прямую ссылку (nil - ссылка недоступна).
type LinkMap map[string]*string

// ResolutionLinks - ссылки одного провайдера.
type ResolutionLinks struct {
	Provider  string    `json:"provider"`
	Links     LinkMap   `json:"links"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DownloadLinksResponse - ссылки обоих провайдеров по разрешениям.
type DownloadLinksResponse struct {
	Modrinth   LinkMap   `json:"modrinth"`
	CurseForge LinkMap   `json:"curseforge"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
