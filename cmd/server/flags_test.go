package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteakTheStake/SummitMC/internal/config"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{
			name: "Без флагов",
			args: nil,
			want: options{},
		},
		{
			name: "Все флаги",
			args: []string{
				"-config=summit.yaml", "-port=9090", "-cert-file=cert.pem",
				"-key-file=key.pem", "-database-dsn=postgres://db", "-log-level=debug",
			},
			want: options{
				ConfigPath:  "summit.yaml",
				Port:        "9090",
				CertFile:    "cert.pem",
				KeyFile:     "key.pem",
				DatabaseDSN: "postgres://db",
				LogLevel:    "debug",
			},
		},
		{
			name:    "Неизвестный флаг",
			args:    []string{"-unknown=1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *opts)
		})
	}
}

func TestOptionsApply(t *testing.T) {
	cfg := config.Default()
	opts := &options{Port: "9090", DatabaseDSN: "postgres://flag", LogLevel: "debug"}

	opts.apply(cfg)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://flag", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Empty(t, cfg.Server.CertFile, "пустые флаги не меняют конфигурацию")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123")
	t.Chdir(t.TempDir())

	t.Run("Флаги поверх файла", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summit.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7000\"\n"), 0o600))

		cfg, err := loadConfig(&options{ConfigPath: path, Port: "9090"})
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Server.Port)
	})

	t.Run("Только сертификат без ключа", func(t *testing.T) {
		_, err := loadConfig(&options{CertFile: "cert.pem"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cert_file")
	})
}
