package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/repository"
	"github.com/SteakTheStake/SummitMC/internal/services"
	"github.com/SteakTheStake/SummitMC/models"
)

// UserRegistrar создает учетные записи.
type UserRegistrar interface {
	Register(ctx context.Context, username, password string, isAdmin bool) (*models.User, error)
}

// Report - сколько записей создано. Существующие записи пропускаются.
type Report struct {
	Counters     int
	Versions     int
	Screenshots  int
	AdminCreated bool
}

// Seeder записывает начальные данные. Повторный запуск не создает дубликатов.
type Seeder struct {
	downloads   repository.DownloadRepository
	versions    repository.VersionRepository
	screenshots repository.ScreenshotRepository
	users       UserRegistrar
}

// NewSeeder создает Seeder. users может быть nil, тогда администратор не создается.
func NewSeeder(
	downloads repository.DownloadRepository,
	versions repository.VersionRepository,
	screenshots repository.ScreenshotRepository,
	users UserRegistrar,
) *Seeder {
	return &Seeder{
		downloads:   downloads,
		versions:    versions,
		screenshots: screenshots,
		users:       users,
	}
}

// Run записывает данные по порядку: счетчики, версии, скриншоты, администратор.
func (s *Seeder) Run(ctx context.Context, data *Data) (*Report, error) {
	report := &Report{}

	for _, c := range data.Downloads {
		created, err := s.downloads.Seed(ctx, c.Resolution, c.Platform, c.Count)
		if err != nil {
			return report, fmt.Errorf("счетчик %s/%s: %w", c.Resolution, c.Platform, err)
		}
		if created {
			report.Counters++
		}
	}

	if err := s.seedVersions(ctx, data.Versions, report); err != nil {
		return report, err
	}

	for _, sc := range data.Screenshots {
		_, err := s.screenshots.Create(ctx, sc.toModel())
		if errors.Is(err, repository.ErrDuplicateScreenshot) {
			log.Debug().Msgf("[Seed] Скриншот %s уже существует", sc.ImageURL)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("скриншот %s: %w", sc.ImageURL, err)
		}
		report.Screenshots++
	}

	if data.Admin != nil && s.users != nil {
		if data.Admin.Password == "" {
			return report, errors.New("не задан пароль администратора")
		}
		_, err := s.users.Register(ctx, data.Admin.Username, data.Admin.Password, true)
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			log.Info().Msgf("[Seed] Пользователь %s уже существует", data.Admin.Username)
		case err != nil:
			return report, fmt.Errorf("администратор %s: %w", data.Admin.Username, err)
		default:
			report.AdminCreated = true
		}
	}

	log.Info().Msgf("[Seed] Создано: счетчиков %d, версий %d, скриншотов %d",
		report.Counters, report.Versions, report.Screenshots)
	return report, nil
}

// seedVersions пропускает версии, уже сохраненные с той же меткой и разрешением.
func (s *Seeder) seedVersions(ctx context.Context, versions []Version, report *Report) error {
	if len(versions) == 0 {
		return nil
	}
	existing, err := s.versions.List(ctx)
	if err != nil {
		return fmt.Errorf("ошибка чтения версий: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		known[v.Version+"/"+v.Resolution] = struct{}{}
	}

	for _, v := range versions {
		if _, ok := known[v.Version+"/"+v.Resolution]; ok {
			continue
		}
		model, err := v.toModel()
		if err != nil {
			return fmt.Errorf("версия %s: %w", v.Version, err)
		}
		if _, err = s.versions.Create(ctx, model); err != nil {
			return fmt.Errorf("версия %s: %w", v.Version, err)
		}
		known[v.Version+"/"+v.Resolution] = struct{}{}
		report.Versions++
	}
	return nil
}
