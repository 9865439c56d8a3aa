package models

// AuditEvent представляет событие аудита принятой записи.
type AuditEvent struct {
	Timestamp int64  `json:"ts"`
	Org       string `json:"org"`
	Bucket    string `json:"bucket"`
	Points    int    `json:"points"`
	IPAddress string `json:"ip_address"`
}

// AuditObserver интерфейс наблюдателя для аудита
type AuditObserver interface {
	OnAuditEvent(event AuditEvent) error
}

// AuditSubject интерфейс субъекта, генерирующего события аудита
type AuditSubject interface {
	Attach(observer AuditObserver)
	Detach(observer AuditObserver)
	Notify(event AuditEvent)
}
