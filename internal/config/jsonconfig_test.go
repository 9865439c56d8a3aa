package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestLoadWriterJSONConfig проверяет загрузку конфигурации writer из файла.
func TestLoadWriterJSONConfig(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "writer.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{
		"url": "http://127.0.0.1:8086",
		"token": "my-influxdb-token",
		"org": "my-org",
		"bucket": "my-bucket",
		"report_interval": "15s",
		"gzip": true
	}`), 0o644))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"url":`), 0o644))

	tests := []struct {
		name    string // Название теста
		path    string // Путь к файлу
		wantErr bool   // Ожидается ли ошибка
		check   func(t *testing.T, cfg *WriterJSONConfig)
	}{
		{
			name: "valid file",
			path: valid,
			check: func(t *testing.T, cfg *WriterJSONConfig) {
				require.Equal(t, "http://127.0.0.1:8086", cfg.URL)
				require.Equal(t, "my-influxdb-token", cfg.Token)
				require.Equal(t, "my-org", cfg.Org)
				require.Equal(t, "my-bucket", cfg.Bucket)
				require.Equal(t, "15s", cfg.ReportInterval)
				require.NotNil(t, cfg.Gzip)
				require.True(t, *cfg.Gzip)
			},
		},
		{
			name: "empty path",
			path: "",
			check: func(t *testing.T, cfg *WriterJSONConfig) {
				require.Equal(t, &WriterJSONConfig{}, cfg)
			},
		},
		{name: "missing file", path: filepath.Join(dir, "nope.json"), wantErr: true},
		{name: "broken json", path: broken, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWriterJSONConfig(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

// TestLoadIngestJSONConfig проверяет загрузку конфигурации сервера приёма.
func TestLoadIngestJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"address":"0.0.0.0:8086","token":"secret"}`), 0o644))

	cfg, err := LoadIngestJSONConfig(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8086", cfg.Address)
	require.Equal(t, "secret", cfg.Token)
	require.Empty(t, cfg.DatabaseDSN)
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("2m")
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, d)

	d, err = ParseDuration("10")
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, d)

	d, err = ParseDuration("")
	require.NoError(t, err)
	require.Zero(t, d)

	_, err = ParseDuration("two minutes")
	require.Error(t, err)
}

func TestGetConfigFilePathWithFlag(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/env.json")
	require.Equal(t, "/tmp/flag.json", GetConfigFilePathWithFlag("/tmp/flag.json"))
	require.Equal(t, "/etc/env.json", GetConfigFilePathWithFlag(""))
}
