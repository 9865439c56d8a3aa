package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	models "github.com/RoGogDBD/influx-writer/internal/model"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// FileAuditObserver дописывает события аудита в файл, по одному JSON на строку.
type FileAuditObserver struct {
	filePath string
	mu       sync.Mutex
}

// NewFileAuditObserver создаёт каталог файла аудита и возвращает наблюдателя.
func NewFileAuditObserver(filePath string) (*FileAuditObserver, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	return &FileAuditObserver{filePath: filePath}, nil
}

func (f *FileAuditObserver) OnAuditEvent(event models.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	return nil
}

// HTTPAuditObserver отправляет события аудита POST-запросом с JSON-телом.
type HTTPAuditObserver struct {
	url    string
	client *resty.Client
}

// NewHTTPAuditObserver создаёт наблюдателя для адреса url.
func NewHTTPAuditObserver(url string) *HTTPAuditObserver {
	return &HTTPAuditObserver{
		url:    url,
		client: resty.New().SetHeader("Content-Type", "application/json"),
	}
}

func (h *HTTPAuditObserver) OnAuditEvent(event models.AuditEvent) error {
	resp, err := h.client.R().SetBody(event).Post(h.url)
	if err != nil {
		return fmt.Errorf("failed to send audit event: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("audit server returned status %d", resp.StatusCode())
	}
	return nil
}

// AuditManager рассылает события аудита подключённым наблюдателям.
type AuditManager struct {
	observers []models.AuditObserver
	mu        sync.RWMutex
	logger    *zap.Logger
}

var _ models.AuditSubject = (*AuditManager)(nil)

// NewAuditManager создаёт менеджер без наблюдателей.
// Ошибки наблюдателей пишутся в logger и не прерывают рассылку.
func NewAuditManager(logger *zap.Logger) *AuditManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditManager{logger: logger}
}

func (a *AuditManager) Attach(observer models.AuditObserver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, observer)
}

func (a *AuditManager) Detach(observer models.AuditObserver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, obs := range a.observers {
		if obs == observer {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			break
		}
	}
}

func (a *AuditManager) Notify(event models.AuditEvent) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, observer := range a.observers {
		if err := observer.OnAuditEvent(event); err != nil {
			a.logger.Warn("Audit observer error", zap.Error(err))
		}
	}
}

// HasObservers сообщает, подключён ли хотя бы один наблюдатель.
func (a *AuditManager) HasObservers() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.observers) > 0
}
