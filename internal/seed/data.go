// Package seed заполняет БД начальными данными сайта из YAML-файла.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/SteakTheStake/SummitMC/internal/validation"
	"github.com/SteakTheStake/SummitMC/models"
)

const dateLayout = "2006-01-02"

//go:embed default.yaml
var defaultData []byte

// Data - содержимое файла начальных данных.
type Data struct {
	Admin       *Admin       `yaml:"admin"`
	Downloads   []Counter    `yaml:"downloads"`
	Versions    []Version    `yaml:"versions"`
	Screenshots []Screenshot `yaml:"screenshots"`
}

// Admin - учетная запись администратора. Пароль можно не хранить в файле,
// а передать через флаг или переменную окружения.
type Admin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Counter - начальное значение счетчика скачиваний.
type Counter struct {
	Resolution string `yaml:"resolution"`
	Platform   string `yaml:"platform"`
	Count      int64  `yaml:"count"`
}

// Version - опубликованная версия.
type Version struct {
	Version     string `yaml:"version"`
	Resolution  string `yaml:"resolution"`
	ReleaseDate string `yaml:"release_date"`
	Changelog   string `yaml:"changelog"`
	DownloadURL string `yaml:"download_url"`
	IsLatest    bool   `yaml:"is_latest"`
}

// Screenshot - изображение галереи.
type Screenshot struct {
	ImageURL    string  `yaml:"image_url"`
	Title       string  `yaml:"title"`
	Description *string `yaml:"description"`
	Category    string  `yaml:"category"`
	Resolution  string  `yaml:"resolution"`
	Featured    bool    `yaml:"featured"`
}

// Default возвращает встроенный набор данных.
func Default() (*Data, error) {
	return Parse(defaultData)
}

// Load читает и проверяет файл начальных данных.
func Load(fsys afero.Fs, path string) (*Data, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}
	data, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("файл %s: %w", path, err)
	}
	return data, nil
}

// Parse разбирает YAML и проверяет записи.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("ошибка разбора YAML: %w", err)
	}
	if err := data.validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

func (d *Data) validate() error {
	var errs []error

	for i, c := range d.Downloads {
		req := models.IncrementDownloadRequest{Resolution: c.Resolution, Platform: c.Platform}
		if err := validation.Struct(req); err != nil {
			errs = append(errs, fmt.Errorf("downloads[%d]: %w", i, err))
		}
		if c.Count < 0 {
			errs = append(errs, fmt.Errorf("downloads[%d]: отрицательный счетчик", i))
		}
	}

	latest := 0
	for i, v := range d.Versions {
		if _, err := v.toModel(); err != nil {
			errs = append(errs, fmt.Errorf("versions[%d]: %w", i, err))
		}
		if v.IsLatest {
			latest++
		}
	}
	if latest > 1 {
		errs = append(errs, errors.New("последней может быть отмечена только одна версия"))
	}

	for i, s := range d.Screenshots {
		req := models.CreateScreenshotRequest{
			ImageURL:    s.ImageURL,
			Title:       s.Title,
			Description: s.Description,
			Category:    s.Category,
			Resolution:  s.Resolution,
		}
		if err := validation.Struct(req); err != nil {
			errs = append(errs, fmt.Errorf("screenshots[%d]: %w", i, err))
		}
	}

	if d.Admin != nil && d.Admin.Username == "" {
		errs = append(errs, errors.New("admin: не указано имя пользователя"))
	}

	return errors.Join(errs...)
}

func (v Version) toModel() (*models.Version, error) {
	released, err := time.Parse(dateLayout, v.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("некорректная дата выпуска %q: %w", v.ReleaseDate, err)
	}
	req := models.CreateVersionRequest{
		Version:     v.Version,
		Resolution:  v.Resolution,
		ReleaseDate: released,
		Changelog:   v.Changelog,
		DownloadURL: v.DownloadURL,
		IsLatest:    v.IsLatest,
	}
	if err = validation.Struct(req); err != nil {
		return nil, err
	}
	return &models.Version{
		Version:     v.Version,
		Resolution:  v.Resolution,
		ReleaseDate: released,
		Changelog:   v.Changelog,
		DownloadURL: v.DownloadURL,
		IsLatest:    v.IsLatest,
	}, nil
}

func (s Screenshot) toModel() *models.Screenshot {
	return &models.Screenshot{
		ImageURL:    s.ImageURL,
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Resolution:  s.Resolution,
		Featured:    s.Featured,
	}
}
