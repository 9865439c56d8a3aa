package client

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus — сервер ответил кодом вне диапазона 2xx.
var ErrUnexpectedStatus = errors.New("unexpected status")

// TransportError описывает ошибку доставки пакета: сетевую ошибку,
// истечение таймаута или ответ сервера с кодом вне 2xx.
//
// Поля:
//   - Op: операция ("post", "dial", "write")
//   - URL: адрес назначения
//   - StatusCode: HTTP-код ответа (0, если ответа не было)
//   - Body: тело ответа сервера
//   - Err: исходная ошибка
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
