// Команда seed заполняет БД сайта начальными данными.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/SteakTheStake/SummitMC/internal/config"
	"github.com/SteakTheStake/SummitMC/internal/logging"
	"github.com/SteakTheStake/SummitMC/internal/repository"
	"github.com/SteakTheStake/SummitMC/internal/seed"
	"github.com/SteakTheStake/SummitMC/internal/services"
)

const (
	envAdminPassword = "SEED_ADMIN_PASSWORD" //nolint:gosec // имя переменной окружения
	seedTimeout      = time.Minute
)

type options struct {
	ConfigPath    string
	File          string
	AdminUser     string
	AdminPassword string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("[Seed] Ошибка заполнения БД")
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Service: "summit-seed"})

	data, err := loadData(afero.NewOsFs(), opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	db, err := repository.NewPostgresDB(cfg.Database.ConnString())
	if err != nil {
		return err
	}
	defer db.Close()

	if err = repository.Migrate(ctx, db); err != nil {
		return err
	}

	auth := services.NewAuthService(repository.NewPostgresUserRepository(db), services.AuthConfig{
		Secret:   cfg.Auth.SessionSecret,
		TokenTTL: cfg.Auth.SessionTTL,
	})
	seeder := seed.NewSeeder(
		repository.NewPostgresDownloadRepository(db),
		repository.NewPostgresVersionRepository(db),
		repository.NewPostgresScreenshotRepository(db),
		auth,
	)

	report, err := seeder.Run(ctx, data)
	if err != nil {
		return err
	}
	fmt.Printf("Счетчиков: %d, версий: %d, скриншотов: %d, администратор создан: %t\n",
		report.Counters, report.Versions, report.Screenshots, report.AdminCreated)
	return nil
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("summit-seed", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "Путь к YAML-файлу конфигурации сервера")
	fs.StringVar(&opts.File, "file", "", "YAML-файл начальных данных (по умолчанию встроенный набор)")
	fs.StringVar(&opts.AdminUser, "admin-user", "", "Имя администратора, переопределяет значение из файла")
	fs.StringVar(&opts.AdminPassword, "admin-password", "",
		fmt.Sprintf("Пароль администратора (env: %s)", envAdminPassword))
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("ошибка разбора флагов: %w", err)
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = os.Getenv(envAdminPassword)
	}
	return opts, nil
}

// loadData читает файл данных и применяет параметры администратора из флагов.
func loadData(fsys afero.Fs, opts *options) (*seed.Data, error) {
	var (
		data *seed.Data
		err  error
	)
	if opts.File != "" {
		data, err = seed.Load(fsys, opts.File)
	} else {
		data, err = seed.Default()
	}
	if err != nil {
		return nil, err
	}

	if opts.AdminUser != "" {
		if data.Admin == nil {
			data.Admin = &seed.Admin{}
		}
		data.Admin.Username = opts.AdminUser
	}
	if data.Admin != nil && opts.AdminPassword != "" {
		data.Admin.Password = opts.AdminPassword
	}
	return data, nil
}
