package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Имена переменных окружения.
const (
	EnvAddress        = "ADDRESS"
	EnvDatabaseDSN    = "DATABASE_DSN"
	EnvInfluxURL      = "INFLUX_URL"
	EnvInfluxToken    = "INFLUX_TOKEN"
	EnvInfluxOrg      = "INFLUX_ORG"
	EnvInfluxBucket   = "INFLUX_BUCKET"
	EnvPollInterval   = "POLL_INTERVAL"
	EnvReportInterval = "REPORT_INTERVAL"
	EnvWriteTimeout   = "WRITE_TIMEOUT"
	EnvWriteGzip      = "WRITE_GZIP"
	EnvInfluxSocket   = "INFLUX_SOCKET"
	EnvLogLevel       = "LOG_LEVEL"
	EnvAuditFile      = "AUDIT_FILE"
	EnvAuditURL       = "AUDIT_URL"
	EnvFileStorage    = "FILE_STORAGE_PATH"
	EnvStoreInterval  = "STORE_INTERVAL"
	EnvRestore        = "RESTORE"
	EnvConfig         = "CONFIG"
)

// AddrSetter определяет интерфейс для установки адреса из строки.
type AddrSetter interface {
	Set(string) error
}

// EnvServer устанавливает адрес сервера из переменной окружения.
//
// Если переменная окружения с именем envKey задана и не пуста, функция вызывает метод Set интерфейса AddrSetter
// с её значением. В случае ошибки возвращает ошибку с описанием.
func EnvServer(addr AddrSetter, envKey string) error {
	if envVal := EnvString(envKey); envVal != "" {
		if err := addr.Set(envVal); err != nil {
			return fmt.Errorf("invalid %s: %w", envKey, err)
		}
	}
	return nil
}

// EnvInt возвращает значение переменной окружения как int.
//
// Если переменная не задана или пуста, возвращает 0 и nil.
// Если значение не может быть преобразовано в int, возвращает ошибку.
func EnvInt(key string) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

// EnvString возвращает значение переменной окружения как строку.
//
// Если переменная не задана или пуста, возвращает пустую строку.
func EnvString(key string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return ""
}

// EnvDuration возвращает значение переменной окружения как длительность.
//
// Принимает формат time.ParseDuration ("5s", "1m") или целое число секунд.
// Если переменная не задана или пуста, возвращает 0 и nil.
func EnvDuration(key string) (time.Duration, error) {
	d, err := ParseDuration(EnvString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// EnvBool возвращает значение переменной окружения как bool и флаг наличия.
func EnvBool(key string) (bool, bool, error) {
	val := EnvString(key)
	if val == "" {
		return false, false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, true, nil
}
