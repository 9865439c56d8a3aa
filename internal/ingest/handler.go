package ingest

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	models "github.com/RoGogDBD/influx-writer/internal/model"
	"go.uber.org/zap"
)

// MaxBodyBytes ограничивает размер распакованного тела записи.
const MaxBodyBytes = 32 << 20

// Handler обслуживает запросы записи и чтения точек.
//
// Поля:
//   - storage: хранилище точек
//   - token: ожидаемый токен; пустая строка отключает проверку
//   - audit: менеджер аудита (может быть nil)
//   - logger: логгер ошибок
//   - onWrite: вызывается после каждой успешной записи (может быть nil)
//   - now: источник времени для строк без timestamp
type Handler struct {
	storage Storage
	token   string
	audit   *AuditManager
	logger  *zap.Logger
	onWrite func()
	now     func() time.Time
}

// NewHandler создаёт обработчик поверх storage.
func NewHandler(storage Storage, token string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		storage: storage,
		token:   token,
		logger:  logger,
		now:     time.Now,
	}
}

// SetAuditManager подключает рассылку событий аудита об успешных записях.
func (h *Handler) SetAuditManager(am *AuditManager) {
	h.audit = am
}

// SetWriteHook задаёт функцию, вызываемую после каждой успешной записи.
func (h *Handler) SetWriteHook(fn func()) {
	h.onWrite = fn
}

// authorized принимает заголовки "Token <t>" и "Bearer <t>".
func (h *Handler) authorized(r *http.Request) bool {
	if h.token == "" {
		return true
	}
	auth := r.Header.Get("Authorization")
	for _, scheme := range []string{"Token ", "Bearer "} {
		if t, ok := strings.CutPrefix(auth, scheme); ok && t == h.token {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, models.APIError{Code: code, Message: msg})
}

// HandleWrite принимает POST /api/v2/write?org=&bucket=[&precision=].
//
// Успешная запись отвечает 204 без тела. Ошибка разбора отклоняет всю
// запись целиком с кодом 400.
func (h *Handler) HandleWrite(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "unauthorized access")
		return
	}

	q := r.URL.Query()
	org, bucket := q.Get("org"), q.Get("bucket")
	if org == "" || bucket == "" {
		writeError(w, http.StatusBadRequest, models.CodeInvalid, "org and bucket are required")
		return
	}
	precision, err := ParsePrecision(q.Get("precision"))
	if err != nil {
		writeError(w, http.StatusBadRequest, models.CodeInvalid, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, models.CodeInvalid, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, models.CodeInvalid, "failed to read body")
		return
	}

	points, err := DecodePoints(body, org, bucket, precision, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, models.CodeInvalid, err.Error())
		return
	}

	if err := h.storage.Append(r.Context(), points); err != nil {
		h.logger.Error("Failed to store points", zap.Error(err), zap.String("bucket", bucket))
		writeError(w, http.StatusInternalServerError, models.CodeInternal, "failed to store points")
		return
	}

	if h.audit != nil && h.audit.HasObservers() && len(points) > 0 {
		h.audit.Notify(models.AuditEvent{
			Timestamp: h.now().Unix(),
			Org:       org,
			Bucket:    bucket,
			Points:    len(points),
			IPAddress: clientIP(r),
		})
	}

	if h.onWrite != nil {
		h.onWrite()
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandlePoints отдаёт JSON-массив точек bucket: GET /api/v2/points?org=&bucket=.
func (h *Handler) HandlePoints(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "unauthorized access")
		return
	}
	q := r.URL.Query()
	org, bucket := q.Get("org"), q.Get("bucket")
	if org == "" || bucket == "" {
		writeError(w, http.StatusBadRequest, models.CodeInvalid, "org and bucket are required")
		return
	}

	points, err := h.storage.Points(r.Context(), org, bucket)
	if err != nil {
		h.logger.Error("Failed to load points", zap.Error(err), zap.String("bucket", bucket))
		writeError(w, http.StatusInternalServerError, models.CodeInternal, "failed to load points")
		return
	}
	if points == nil {
		points = []models.Point{}
	}
	writeJSON(w, http.StatusOK, points)
}

// HandlePing отвечает 204, если хранилище доступно, иначе 503.
func (h *Handler) HandlePing(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, models.CodeUnavailable, "storage not reachable: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
