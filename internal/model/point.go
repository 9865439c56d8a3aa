package models

// Point — одна разобранная строка line protocol, принятая сервером.
//
// Поля:
//   - Org, Bucket: маршрутизация записи
//   - Measurement: имя измерения без экранирования
//   - Tags: теги
//   - Fields: значения полей (float64, int64, uint64, string, bool)
//   - Timestamp: метка времени в наносекундах от Unix epoch
type Point struct {
	Org         string            `json:"org"`
	Bucket      string            `json:"bucket"`
	Measurement string            `json:"measurement"`
	Tags        map[string]string `json:"tags,omitempty"`
	Fields      map[string]any    `json:"fields"`
	Timestamp   int64             `json:"timestamp"`
}

// APIError — тело ответа с ошибкой в формате InfluxDB v2.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// Коды ошибок API.
const (
	CodeInvalid      = "invalid"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal error"
	CodeUnavailable  = "unavailable"
)
