package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// WriterJSONConfig представляет конфигурацию writer в формате JSON.
type WriterJSONConfig struct {
	URL            string `json:"url"`             // INFLUX_URL или флаг -u
	Token          string `json:"token"`           // INFLUX_TOKEN или флаг -t
	Org            string `json:"org"`             // INFLUX_ORG или флаг -o
	Bucket         string `json:"bucket"`          // INFLUX_BUCKET или флаг -b
	PollInterval   string `json:"poll_interval"`   // POLL_INTERVAL или флаг -p (в формате "1s")
	ReportInterval string `json:"report_interval"` // REPORT_INTERVAL или флаг -r (в формате "1s")
	WriteTimeout   string `json:"write_timeout"`   // WRITE_TIMEOUT или флаг -timeout (в формате "1s")
	Gzip           *bool  `json:"gzip"`            // WRITE_GZIP или флаг -gzip
	LogLevel       string `json:"log_level"`       // LOG_LEVEL или флаг -log-level
	Socket         string `json:"socket"`          // INFLUX_SOCKET или флаг -s
}

// IngestJSONConfig представляет конфигурацию сервера приёма в формате JSON.
type IngestJSONConfig struct {
	Address       string `json:"address"`        // ADDRESS или флаг -a
	DatabaseDSN   string `json:"database_dsn"`   // DATABASE_DSN или флаг -d
	Token         string `json:"token"`          // INFLUX_TOKEN или флаг -t
	LogLevel      string `json:"log_level"`      // LOG_LEVEL или флаг -log-level
	AuditFile     string `json:"audit_file"`     // AUDIT_FILE или флаг -audit-file
	AuditURL      string `json:"audit_url"`      // AUDIT_URL или флаг -audit-url
	FileStorage   string `json:"file_storage"`   // FILE_STORAGE_PATH или флаг -f
	StoreInterval string `json:"store_interval"` // STORE_INTERVAL или флаг -i (в формате "1s")
	Restore       *bool  `json:"restore"`        // RESTORE или флаг -r
}

// loadJSONConfig — обобщенная функция для загрузки JSON конфигурации.
func loadJSONConfig(filePath string, v interface{}) error {
	if filePath == "" {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadWriterJSONConfig загружает конфигурацию writer из JSON файла.
//
// Пустой путь возвращает пустую конфигурацию.
func LoadWriterJSONConfig(filePath string) (*WriterJSONConfig, error) {
	cfg := &WriterJSONConfig{}
	if err := loadJSONConfig(filePath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadIngestJSONConfig загружает конфигурацию сервера приёма из JSON файла.
func LoadIngestJSONConfig(filePath string) (*IngestJSONConfig, error) {
	cfg := &IngestJSONConfig{}
	if err := loadJSONConfig(filePath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseDuration парсит строку длительности в формате "1s", "1m", "1h"
// или целое число секунд ("10").
// Если строка пуста, возвращает 0 и nil.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %w", err)
	}

	return d, nil
}

// GetConfigFilePathWithFlag получает путь к файлу конфигурации, учитывая явно переданный флаг.
// Используется после разбора флагов.
func GetConfigFilePathWithFlag(flagValue string) string {
	// Флаги имеют больший приоритет
	if flagValue != "" {
		return flagValue
	}
	// Затем проверяем переменную окружения
	return EnvString(EnvConfig)
}
