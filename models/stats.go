package models

import "time"

// ProjectStats - сводная статистика проекта у внешнего провайдера.
type ProjectStats struct {
	Downloads int64 `json:"downloads"`
	Followers int64 `json:"followers"`
	Versions  int   `json:"versions"`
}

// VersionStat - статистика одной опубликованной версии у внешнего провайдера.
type VersionStat struct {
	Version   string    `json:"version"`
	Downloads int64     `json:"downloads"`
	Date      time.Time `json:"date"`
}

// ProviderLatestVersion - последняя опубликованная версия у внешнего провайдера.
type ProviderLatestVersion struct {
	Version   string `json:"version"`
	Downloads int64  `json:"downloads"`
	Changelog string `json:"changelog"`
}

// ProviderStatsResponse - ответ /api/modrinth/stats.
type ProviderStatsResponse struct {
	Project     *ProjectStats          `json:"project"`
	Versions    []VersionStat          `json:"versions"`
	Latest      *ProviderLatestVersion `json:"latest"`
	LastUpdated time.Time              `json:"lastUpdated"`
}
